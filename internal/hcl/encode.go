package hcl

import (
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/appgrid/internal/appdef"
	"github.com/specialistvlad/appgrid/internal/bggohcl"
	"github.com/zclconf/go-cty/cty"
)

// Encode renders def as an HCL definition file. Properties are written in
// command-line order.
func Encode(def *appdef.Definition) []byte {
	f := hclwrite.NewEmptyFile()
	app := f.Body().AppendNewBlock("application", []string{def.ID()}).Body()

	app.SetAttributeValue("name", cty.StringVal(def.DisplayName()))
	setString(app, "copyright", def.Copyright)
	setString(app, "short_description", def.ShortDescription)
	setString(app, "description", def.Description)
	setString(app, "path", def.Path)
	setString(app, "app_package", def.AppPackage)
	setString(app, "development_repository", def.DevelopmentRepository)
	setString(app, "deb_package", def.DebPackage)
	setString(app, "rpm_package", def.RpmPackage)
	setString(app, "oml_prefix", def.OMLPrefix)
	if env := def.Environment(); len(env) > 0 {
		app.SetAttributeValue("env", stringMap(env))
	}

	if v, ok := def.Version(); ok {
		app.AppendNewline()
		vb := app.AppendNewBlock("version", nil).Body()
		vb.SetAttributeValue("major", cty.NumberIntVal(int64(v.Major)))
		vb.SetAttributeValue("minor", cty.NumberIntVal(int64(v.Minor)))
		vb.SetAttributeValue("revision", cty.NumberIntVal(int64(v.Revision)))
	}

	for _, p := range def.Properties() {
		app.AppendNewline()
		pb := app.AppendNewBlock("property", []string{p.Name()}).Body()
		setString(pb, "description", p.Description())
		setString(pb, "parameter", p.Parameter())
		if p.Type() != appdef.TypeUntyped {
			pb.SetAttributeRaw("type", bggohcl.KeywordTokens(string(p.Type())))
		}
		if p.IsDynamic() {
			pb.SetAttributeValue("dynamic", cty.True)
		}
		if order, ok := p.Order(); ok {
			pb.SetAttributeValue("order", cty.NumberIntVal(int64(order)))
		}
	}

	for _, m := range def.Measurements() {
		app.AppendNewline()
		mb := app.AppendNewBlock("measurement", []string{m.ID}).Body()
		setString(mb, "description", m.Description)
		if len(m.Options) > 0 {
			mb.SetAttributeValue("options", stringMap(m.Options))
		}
	}

	return f.Bytes()
}

func setString(body *hclwrite.Body, name, value string) {
	if value != "" {
		body.SetAttributeValue(name, cty.StringVal(value))
	}
}

// stringMap renders m as an object literal. cty writes object attributes in
// lexical order.
func stringMap(m map[string]string) cty.Value {
	attrs := make(map[string]cty.Value, len(m))
	for k, v := range m {
		attrs[k] = cty.StringVal(v)
	}
	return cty.ObjectVal(attrs)
}
