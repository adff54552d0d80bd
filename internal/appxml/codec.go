package appxml

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/specialistvlad/appgrid/internal/appdef"
	"github.com/specialistvlad/appgrid/internal/ctxlog"
)

// Encode serializes def as an indented <application> document.
func Encode(def *appdef.Definition) ([]byte, error) {
	doc := xmlApplication{
		ID:                    def.ID(),
		Name:                  def.DisplayName(),
		URI:                   def.URI(),
		Copyright:             def.Copyright,
		ShortDescription:      def.ShortDescription,
		Description:           def.Description,
		Path:                  def.Path,
		AppPackage:            def.AppPackage,
		DevelopmentRepository: def.DevelopmentRepository,
		DebPackage:            def.DebPackage,
		RpmPackage:            def.RpmPackage,
		OMLPrefix:             def.OMLPrefix,
	}
	if v, ok := def.Version(); ok {
		doc.Version = &xmlVersion{Major: &v.Major, Minor: &v.Minor, Revision: &v.Revision}
	}

	if props := def.Properties(); len(props) > 0 {
		doc.Properties = &xmlProperties{}
		for _, p := range props {
			xp := xmlProperty{
				Name:        p.Name(),
				Parameter:   p.Parameter(),
				Type:        string(p.Type()),
				Dynamic:     strconv.FormatBool(p.IsDynamic()),
				Description: p.Description(),
			}
			if order, ok := p.Order(); ok {
				xp.Order = strconv.Itoa(order)
			}
			doc.Properties.Property = append(doc.Properties.Property, xp)
		}
	}

	if mps := def.Measurements(); len(mps) > 0 {
		doc.Measurements = &xmlMeasurements{}
		for _, mp := range mps {
			xm := xmlMeasurement{ID: mp.ID, Description: mp.Description}
			for _, name := range slices.Sorted(maps.Keys(mp.Options)) {
				xm.Option = append(xm.Option, xmlOption{Name: name, Value: mp.Options[name]})
			}
			doc.Measurements.Measurement = append(doc.Measurements.Measurement, xm)
		}
	}

	if env := def.Environment(); len(env) > 0 {
		doc.Environments = &xmlEnvironments{}
		for _, name := range slices.Sorted(maps.Keys(env)) {
			doc.Environments.Env = append(doc.Environments.Env, xmlEnv{Name: name, Value: env[name]})
		}
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode application '%s': %w", def.ID(), err)
	}
	return append(out, '\n'), nil
}

// Decode parses an <application> document into a new definition. The result
// is not registered anywhere.
func Decode(ctx context.Context, data []byte) (*appdef.Definition, error) {
	var doc xmlApplication
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", appdef.ErrMalformedDocument, err)
	}
	if doc.XMLName.Local != rootElement {
		return nil, fmt.Errorf("%w: root element is <%s>, want <%s>", appdef.ErrMalformedDocument, doc.XMLName.Local, rootElement)
	}
	if doc.ID == "" {
		return nil, fmt.Errorf("%w: <%s> has no id attribute", appdef.ErrMalformedDocument, rootElement)
	}

	logger := ctxlog.FromContext(ctx).With("application", doc.ID)
	skip(logger, rootElement, doc.Unknown)
	if doc.URI != "" && doc.URI != doc.ID {
		logger.Warn("Ignoring uri element that differs from the id attribute.", "uri", doc.URI)
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
		v, ok, err := parseVersion(doc.Version)
		if err != nil {
			return nil, err
		}
		if ok {
			def.SetVersion(v.Major, v.Minor, v.Revision)
		} else {
			logger.Warn("Ignoring empty version element.")
		}
	}

	if doc.Properties != nil {
		skip(logger, "properties", doc.Properties.Unknown)
		for _, xp := range doc.Properties.Property {
			if err := defineProperty(logger, def, xp); err != nil {
				return nil, err
			}
		}
	}

	if doc.Measurements != nil {
		skip(logger, "measurements", doc.Measurements.Unknown)
		for _, xm := range doc.Measurements.Measurement {
			if xm.ID == "" {
				return nil, fmt.Errorf("%w: application '%s': measurement without id", appdef.ErrMalformedDocument, doc.ID)
			}
			var opts map[string]string
			if len(xm.Option) > 0 {
				opts = make(map[string]string, len(xm.Option))
				for _, o := range xm.Option {
					opts[o.Name] = o.Value
				}
			}
			def.DefineMeasurement(xm.ID, xm.Description, opts)
		}
	}

	if doc.Environments != nil {
		skip(logger, "environments", doc.Environments.Unknown)
		for _, e := range doc.Environments.Env {
			def.SetEnv(e.Name, e.Value)
		}
	}

	return def, nil
}

func defineProperty(logger *slog.Logger, def *appdef.Definition, xp xmlProperty) error {
	skip(logger, "property", xp.Unknown)

	opts := []appdef.PropertyOption{appdef.Typed(appdef.ParsePropertyType(xp.Type))}
	if xp.Dynamic != "" {
		dynamic, err := strconv.ParseBool(xp.Dynamic)
		if err != nil {
			return fmt.Errorf("%w: application '%s': property '%s': dynamic=%q", appdef.ErrMalformedDocument, def.ID(), xp.Name, xp.Dynamic)
		}
		opts = append(opts, appdef.Dynamic(dynamic))
	}
	if xp.Order != "" {
		order, err := strconv.Atoi(xp.Order)
		if err != nil {
			return fmt.Errorf("%w: application '%s': property '%s': order=%q", appdef.ErrMalformedDocument, def.ID(), xp.Name, xp.Order)
		}
		opts = append(opts, appdef.Ordered(order))
	}

	if _, err := def.DefineProperty(xp.Name, xp.Description, xp.Parameter, opts...); err != nil {
		return fmt.Errorf("%w: %w", appdef.ErrMalformedDocument, err)
	}
	return nil
}

func skip(logger *slog.Logger, parent string, unknown []xmlUnknown) {
	for _, u := range unknown {
		logger.Warn("Ignoring unknown element.", "parent", parent, "element", u.XMLName.Local)
	}
}

// Decoder adapts Decode to the registry decoder contract.
type Decoder struct{}

// Decode implements registry.Decoder.
func (Decoder) Decode(ctx context.Context, content []byte) (*appdef.Definition, error) {
	return Decode(ctx, content)
}

// parseVersion reads the child form when <major> is present and the dotted
// text form otherwise. It reports false when neither carries a version.
func parseVersion(xv *xmlVersion) (appdef.Version, bool, error) {
	if xv.Major != nil {
		v := appdef.Version{Major: *xv.Major}
		if xv.Minor != nil {
			v.Minor = *xv.Minor
		}
		if xv.Revision != nil {
			v.Revision = *xv.Revision
		}
		return v, true, nil
	}

	text := strings.TrimSpace(xv.Text)
	if text == "" {
		return appdef.Version{}, false, nil
	}
	parts := strings.Split(text, ".")
	if len(parts) > 3 {
		return appdef.Version{}, false, fmt.Errorf("%w: version %q is not major.minor.revision", appdef.ErrMalformedDocument, text)
	}
	var nums [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return appdef.Version{}, false, fmt.Errorf("%w: version %q is not major.minor.revision", appdef.ErrMalformedDocument, text)
		}
		nums[i] = n
	}
	return appdef.Version{Major: nums[0], Minor: nums[1], Revision: nums[2]}, true, nil
}
