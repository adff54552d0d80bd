// Package yamldef reads and writes the YAML form of an application
// definition. Properties and measurements are sequences, so declaration order
// survives a round trip.
package yamldef

import (
	"context"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/specialistvlad/appgrid/internal/appdef"
	"github.com/specialistvlad/appgrid/internal/ctxlog"
)

type document struct {
	ID                    string            `yaml:"id"`
	Name                  string            `yaml:"name,omitempty"`
	Copyright             string            `yaml:"copyright,omitempty"`
	ShortDescription      string            `yaml:"shortDescription,omitempty"`
	Description           string            `yaml:"description,omitempty"`
	Path                  string            `yaml:"path,omitempty"`
	AppPackage            string            `yaml:"appPackage,omitempty"`
	DevelopmentRepository string            `yaml:"developmentRepository,omitempty"`
	DebPackage            string            `yaml:"debPackage,omitempty"`
	RpmPackage            string            `yaml:"rpmPackage,omitempty"`
	OMLPrefix             string            `yaml:"omlPrefix,omitempty"`
	Version               *version          `yaml:"version,omitempty"`
	Environment           map[string]string `yaml:"environment,omitempty"`
	Properties            []property        `yaml:"properties,omitempty"`
	Measurements          []measurement     `yaml:"measurements,omitempty"`
}

type version struct {
	Major    int `yaml:"major"`
	Minor    int `yaml:"minor"`
	Revision int `yaml:"revision"`
}

type property struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Parameter   string `yaml:"parameter,omitempty"`
	Type        string `yaml:"type,omitempty"`
	Dynamic     bool   `yaml:"dynamic,omitempty"`
	Order       *int   `yaml:"order,omitempty"`
}

type measurement struct {
	ID          string            `yaml:"id"`
	Description string            `yaml:"description,omitempty"`
	Options     map[string]string `yaml:"options,omitempty"`
}

// Decode parses a YAML definition. Unknown fields are rejected.
func Decode(ctx context.Context, content []byte) (*appdef.Definition, error) {
	var doc document
	if err := yaml.UnmarshalWithOptions(content, &doc, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%w: %s", appdef.ErrMalformedDocument, yaml.FormatError(err, false, true))
	}
	if doc.ID == "" {
		return nil, fmt.Errorf("%w: definition has no id", appdef.ErrMalformedDocument)
	}

	def := appdef.New(doc.ID)
	def.Name = doc.Name
	def.Copyright = doc.Copyright
	def.ShortDescription = doc.ShortDescription
	def.Description = doc.Description
	def.Path = doc.Path
	def.AppPackage = doc.AppPackage
	def.DevelopmentRepository = doc.DevelopmentRepository
	def.DebPackage = doc.DebPackage
	def.RpmPackage = doc.RpmPackage
	def.OMLPrefix = doc.OMLPrefix
	if doc.Version != nil {
		def.SetVersion(doc.Version.Major, doc.Version.Minor, doc.Version.Revision)
	}
	for name, value := range doc.Environment {
		def.SetEnv(name, value)
	}

	for _, p := range doc.Properties {
		opts := []appdef.PropertyOption{
			appdef.Typed(appdef.ParsePropertyType(p.Type)),
			appdef.Dynamic(p.Dynamic),
		}
		if p.Order != nil {
			opts = append(opts, appdef.Ordered(*p.Order))
		}
		if _, err := def.DefineProperty(p.Name, p.Description, p.Parameter, opts...); err != nil {
			return nil, fmt.Errorf("%w: %w", appdef.ErrMalformedDocument, err)
		}
	}
	for _, m := range doc.Measurements {
		if m.ID == "" {
			return nil, fmt.Errorf("%w: application '%s': measurement without id", appdef.ErrMalformedDocument, doc.ID)
		}
		def.DefineMeasurement(m.ID, m.Description, m.Options)
	}

	ctxlog.FromContext(ctx).Debug("YAML definition decoded.", "application", doc.ID, "properties", len(doc.Properties))
	return def, nil
}

// Encode renders def as YAML with properties in command-line order.
func Encode(def *appdef.Definition) ([]byte, error) {
	doc := document{
		ID:                    def.ID(),
		Name:                  def.DisplayName(),
		Copyright:             def.Copyright,
		ShortDescription:      def.ShortDescription,
		Description:           def.Description,
		Path:                  def.Path,
		AppPackage:            def.AppPackage,
		DevelopmentRepository: def.DevelopmentRepository,
		DebPackage:            def.DebPackage,
		RpmPackage:            def.RpmPackage,
		OMLPrefix:             def.OMLPrefix,
		Environment:           def.Environment(),
	}
	if v, ok := def.Version(); ok {
		doc.Version = &version{Major: v.Major, Minor: v.Minor, Revision: v.Revision}
	}
	for _, p := range def.Properties() {
		yp := property{
			Name:        p.Name(),
			Description: p.Description(),
			Parameter:   p.Parameter(),
			Type:        string(p.Type()),
			Dynamic:     p.IsDynamic(),
		}
		if order, ok := p.Order(); ok {
			yp.Order = &order
		}
		doc.Properties = append(doc.Properties, yp)
	}
	for _, m := range def.Measurements() {
		doc.Measurements = append(doc.Measurements, measurement{ID: m.ID, Description: m.Description, Options: m.Options})
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode application '%s': %w", def.ID(), err)
	}
	return out, nil
}

// Decoder adapts Decode to the registry decoder contract.
type Decoder struct{}

// Decode implements registry.Decoder.
func (Decoder) Decode(ctx context.Context, content []byte) (*appdef.Definition, error) {
	return Decode(ctx, content)
}
