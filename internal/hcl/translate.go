package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/appgrid/internal/appdef"
	"github.com/specialistvlad/appgrid/internal/ctxlog"
)

// translateApplication converts a decoded application block into a new
// definition.
func translateApplication(ctx context.Context, id string, b *applicationBlock) (*appdef.Definition, error) {
	logger := ctxlog.FromContext(ctx).With("application", id)

	def := appdef.New(id)
	def.Name = b.Name
	def.Copyright = b.Copyright
	def.ShortDescription = b.ShortDescription
	def.Description = b.Description
	def.Path = b.Path
	def.AppPackage = b.AppPackage
	def.DevelopmentRepository = b.DevelopmentRepository
	def.DebPackage = b.DebPackage
	def.RpmPackage = b.RpmPackage
	def.OMLPrefix = b.OMLPrefix
	if b.Version != nil {
		def.SetVersion(b.Version.Major, b.Version.Minor, b.Version.Revision)
	}
	for name, value := range b.Env {
		def.SetEnv(name, value)
	}

	for _, p := range b.Properties {
		typ, diags := propertyType(p.Type)
		if diags.HasErrors() {
			return nil, fmt.Errorf("%w: property '%s': %w", appdef.ErrMalformedDocument, p.Name, diags)
		}
		opts := []appdef.PropertyOption{appdef.Typed(typ), appdef.Dynamic(p.Dynamic)}
		if p.Order != nil {
			opts = append(opts, appdef.Ordered(*p.Order))
		}
		if _, err := def.DefineProperty(p.Name, p.Description, p.Parameter, opts...); err != nil {
			return nil, fmt.Errorf("%w: %w", appdef.ErrMalformedDocument, err)
		}
		logger.Debug("Translated property.", "property", p.Name, "type", string(typ))
	}

	for _, m := range b.Measurements {
		def.DefineMeasurement(m.ID, m.Description, m.Options)
	}
	return def, nil
}

// rangeOf reports the start of a file body for diagnostics without a more
// precise subject.
func rangeOf(body hcl.Body) *hcl.Range {
	r := body.MissingItemRange()
	return &r
}
