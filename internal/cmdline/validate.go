package cmdline

import (
	"fmt"

	"github.com/specialistvlad/appgrid/internal/appdef"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Validate checks a present value against the declared type of prop.
func Validate(prop *appdef.PropertyDefinition, v cty.Value) error {
	switch prop.Type() {
	case appdef.TypeUntyped:
		return nil
	case appdef.TypeInteger:
		if !v.Type().Equals(cty.Number) || !v.AsBigFloat().IsInt() {
			return mismatch(prop, v, "integer")
		}
	case appdef.TypeString:
		if !v.Type().Equals(cty.String) {
			return mismatch(prop, v, "string")
		}
	case appdef.TypeBoolean:
		if !v.Type().Equals(cty.Bool) {
			return mismatch(prop, v, "boolean")
		}
	default:
		return fmt.Errorf("unknown type '%s' for property '%s': %w", prop.Type(), prop.Name(), appdef.ErrUndeclaredType)
	}
	return nil
}

func mismatch(prop *appdef.PropertyDefinition, v cty.Value, expecting string) error {
	return fmt.Errorf("wrong type '%s' (%s) for property '%s', expecting %s: %w",
		FormatValue(v), v.Type().FriendlyName(), prop.Name(), expecting, appdef.ErrTypeMismatch)
}

// ParseValue converts a raw textual value, as typed on a command line or in
// a configuration file, into the declared type of prop.
func ParseValue(prop *appdef.PropertyDefinition, raw string) (cty.Value, error) {
	var target cty.Type
	switch prop.Type() {
	case appdef.TypeUntyped, appdef.TypeString:
		return cty.StringVal(raw), nil
	case appdef.TypeInteger:
		target = cty.Number
	case appdef.TypeBoolean:
		target = cty.Bool
	default:
		return cty.NilVal, fmt.Errorf("unknown type '%s' for property '%s': %w", prop.Type(), prop.Name(), appdef.ErrUndeclaredType)
	}

	v, err := convert.Convert(cty.StringVal(raw), target)
	if err != nil {
		return cty.NilVal, fmt.Errorf("cannot use '%s' for property '%s': %v: %w", raw, prop.Name(), err, appdef.ErrTypeMismatch)
	}
	if err := Validate(prop, v); err != nil {
		return cty.NilVal, err
	}
	return v, nil
}
