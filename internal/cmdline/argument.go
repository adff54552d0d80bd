package cmdline

import (
	"strconv"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Argument is the emission of one property: a flag, optionally followed by
// its value.
type Argument struct {
	Parameter string
	Value     cty.Value
}

// HasValue reports whether the argument carries a value after its flag.
func (a Argument) HasValue() bool {
	return !a.Value.IsNull()
}

// Tokens renders the argument as process argv entries. A property without a
// parameter is positional and contributes its value only.
func (a Argument) Tokens() []string {
	var out []string
	if a.Parameter != "" {
		out = append(out, a.Parameter)
	}
	if a.HasValue() {
		out = append(out, FormatValue(a.Value))
	}
	return out
}

// Arguments is the synthesized command line, one group per emitted property.
type Arguments []Argument

// Tokens flattens the command line into process argv entries.
func (as Arguments) Tokens() []string {
	var out []string
	for _, a := range as {
		out = append(out, a.Tokens()...)
	}
	return out
}

// FormatValue renders a value the way it appears on a command line. Numbers
// use their shortest exact decimal form. Collection values fall back to JSON.
func FormatValue(v cty.Value) string {
	if v.IsNull() || !v.IsKnown() {
		return ""
	}
	switch ty := v.Type(); {
	case ty.Equals(cty.String):
		return v.AsString()
	case ty.Equals(cty.Number):
		return v.AsBigFloat().Text('f', -1)
	case ty.Equals(cty.Bool):
		return strconv.FormatBool(v.True())
	}
	b, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return v.GoString()
	}
	return string(b)
}
