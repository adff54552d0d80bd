package bggohcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// KeywordOf reads an expression that must be a bare identifier, such as the
// `string` in `type = string`, and returns the identifier. A quoted literal
// ("string") is accepted as well.
func KeywordOf(expr hcl.Expression) (string, hcl.Diagnostics) {
	traversal, diags := hcl.AbsTraversalForExpr(expr)
	if !diags.HasErrors() && len(traversal) == 1 {
		return traversal.RootName(), nil
	}

	val, valDiags := expr.Value(nil)
	if valDiags.HasErrors() || !val.IsKnown() || val.IsNull() || !val.Type().Equals(cty.String) {
		return "", hcl.Diagnostics{&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid type specification",
			Detail:   "The 'type' attribute must be a simple type keyword like 'string', 'integer', or 'boolean', not a complex expression.",
			Subject:  expr.Range().Ptr(),
		}}
	}
	return val.AsString(), nil
}

// KeywordTokens renders a bare identifier, the inverse of KeywordOf.
func KeywordTokens(keyword string) hclwrite.Tokens {
	return hclwrite.TokensForTraversal(hcl.Traversal{hcl.TraverseRoot{Name: keyword}})
}
