package bggohcl

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseExpr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors(), diags.Error())
	return expr
}

func TestKeywordOf(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		src     string
		want    string
		wantErr bool
	}{
		{src: "string", want: "string"},
		{src: `"integer"`, want: "integer"},
		{src: "list(string)", wantErr: true},
		{src: "var.type", wantErr: true},
		{src: "42", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.src, func(t *testing.T) {
			t.Parallel()
			got, diags := KeywordOf(parseExpr(t, tc.src))
			if tc.wantErr {
				require.True(t, diags.HasErrors())
				return
			}
			require.False(t, diags.HasErrors(), diags.Error())
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestKeywordTokens_RoundTrip(t *testing.T) {
	t.Parallel()

	rendered := string(KeywordTokens("boolean").Bytes())
	assert.Equal(t, "boolean", rendered)

	got, diags := KeywordOf(parseExpr(t, rendered))
	require.False(t, diags.HasErrors())
	assert.Equal(t, "boolean", got)
}

func TestFindUniqueBlock(t *testing.T) {
	t.Parallel()

	a := &hcl.Block{Type: "application"}
	b := &hcl.Block{Type: "application"}
	other := &hcl.Block{Type: "other"}

	found, diags := FindUniqueBlock(hcl.Blocks{other, a}, "application", true, nil)
	require.False(t, diags.HasErrors())
	assert.Same(t, a, found)

	_, diags = FindUniqueBlock(hcl.Blocks{a, b}, "application", false, nil)
	assert.True(t, diags.HasErrors(), "duplicates must be reported")

	found, diags = FindUniqueBlock(hcl.Blocks{other}, "application", false, nil)
	assert.Nil(t, found)
	assert.False(t, diags.HasErrors())

	_, diags = FindUniqueBlock(hcl.Blocks{other}, "application", true, nil)
	assert.True(t, diags.HasErrors(), "a missing required block must be reported")
}
