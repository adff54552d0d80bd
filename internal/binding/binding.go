package binding

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Binding is the value bound to one property for one application instance.
type Binding interface {
	// Value returns the current value and whether it is present.
	Value() (cty.Value, bool)
}

// Handler receives every value change of a Dynamic binding. present is false
// when the value was cleared.
type Handler func(value cty.Value, present bool)

// Subscription is released by the owner of the application instance when the
// instance is torn down.
type Subscription interface {
	Unsubscribe()
}

// Dynamic is a binding whose value may change at run time.
type Dynamic interface {
	Binding
	// OnChange registers h for every subsequent change. Handlers for one
	// source are invoked one at a time, in the order the changes happened.
	OnChange(h Handler) Subscription
}

// Map binds property names to values.
type Map map[string]Binding

// Static is a binding with a fixed value.
type Static struct {
	value cty.Value
}

// StaticValue wraps an already typed value.
func StaticValue(v cty.Value) Static {
	return Static{value: v}
}

// FromGo converts a native Go value (string, bool, any integer or float
// kind, ...) into a Static binding. A nil value yields an absent binding.
func FromGo(v any) (Static, error) {
	val, err := ToValue(v)
	if err != nil {
		return Static{}, err
	}
	return Static{value: val}, nil
}

// MustFromGo is like FromGo but panics on unsupported Go types. It is meant
// for literals in tests and examples.
func MustFromGo(v any) Static {
	s, err := FromGo(v)
	if err != nil {
		panic(err)
	}
	return s
}

// Value implements Binding.
func (s Static) Value() (cty.Value, bool) {
	return s.value, Present(s.value)
}

// ToValue converts a native Go value into its cty.Value.
func ToValue(v any) (cty.Value, error) {
	if v == nil {
		return cty.NilVal, nil
	}
	if cv, ok := v.(cty.Value); ok {
		return cv, nil
	}
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer value type of %T: %w", v, err)
	}
	return gocty.ToCtyValue(v, ty)
}

// Present reports whether v carries a usable value.
func Present(v cty.Value) bool {
	return !v.IsNull() && v.IsKnown()
}
