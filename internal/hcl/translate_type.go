package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/appgrid/internal/appdef"
	"github.com/specialistvlad/appgrid/internal/bggohcl"
)

// propertyType converts the `type` attribute of a property block. An absent
// attribute leaves the property untyped. Unknown keywords are kept verbatim
// and rejected later, when a value is validated against them.
func propertyType(expr hcl.Expression) (appdef.PropertyType, hcl.Diagnostics) {
	if expr == nil {
		return appdef.TypeUntyped, nil
	}
	// gohcl substitutes a static null expression for an absent attribute.
	if val, diags := expr.Value(nil); !diags.HasErrors() && val.IsNull() {
		return appdef.TypeUntyped, nil
	}

	keyword, diags := bggohcl.KeywordOf(expr)
	if diags.HasErrors() {
		return appdef.TypeUntyped, diags
	}
	return appdef.ParsePropertyType(keyword), nil
}
