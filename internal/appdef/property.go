// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines PropertyDefinition, the typed contract for one configurable
// parameter of an application.
//
// Why an explicit order rank?
//
// Many tools are sensitive to argument position (positional arguments, flags
// that must precede a sub-command). A property may therefore carry a numeric
// rank. Properties with a rank are emitted first, lowest rank first; properties
// without one follow in the sequence they were declared in. Equal ranks also
// fall back to declaration sequence, so the emitted order is always total and
// reproducible.
package appdef

import (
	"fmt"
	"strings"
)

// PropertyType is the declared type of a property's bound values.
type PropertyType string

const (
	// TypeUntyped disables value validation.
	TypeUntyped PropertyType = ""
	// TypeInteger accepts whole numbers only.
	TypeInteger PropertyType = "integer"
	// TypeString accepts textual values only.
	TypeString PropertyType = "string"
	// TypeBoolean accepts true or false. A boolean property is emitted as a bare
	// flag when true and omitted when false.
	TypeBoolean PropertyType = "boolean"
)

// ParsePropertyType normalizes a declared type keyword. The short aliases
// "int" and "bool" are accepted. Any other keyword is preserved verbatim so
// that it can be reported as undeclared when a value is validated against it.
func ParsePropertyType(s string) PropertyType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return TypeUntyped
	case "integer", "int":
		return TypeInteger
	case "string":
		return TypeString
	case "boolean", "bool":
		return TypeBoolean
	default:
		return PropertyType(s)
	}
}

// Known reports whether the validator understands this type.
func (t PropertyType) Known() bool {
	switch t {
	case TypeUntyped, TypeInteger, TypeString, TypeBoolean:
		return true
	}
	return false
}

// PropertyDefinition is one named, typed parameter of a Definition. It is
// created once through Definition.DefineProperty and never modified.
type PropertyDefinition struct {
	name        string
	description string
	parameter   string
	typ         PropertyType
	dynamic     bool
	order       int
	hasOrder    bool
	seq         int
}

// PropertyOption customizes a property at definition time.
type PropertyOption func(*PropertyDefinition)

// Typed declares the type that bound values must have.
func Typed(t PropertyType) PropertyOption {
	return func(p *PropertyDefinition) { p.typ = t }
}

// Dynamic marks the property as changeable while the application runs.
func Dynamic(dynamic bool) PropertyOption {
	return func(p *PropertyDefinition) { p.dynamic = dynamic }
}

// Ordered assigns the rank used to order the synthesized command line.
func Ordered(order int) PropertyOption {
	return func(p *PropertyDefinition) {
		p.order = order
		p.hasOrder = true
	}
}

// Name returns the property name, unique within its definition.
func (p *PropertyDefinition) Name() string { return p.name }

// Description returns the human readable description.
func (p *PropertyDefinition) Description() string { return p.description }

// Parameter returns the command-line flag token, e.g. "-t" or "--count".
func (p *PropertyDefinition) Parameter() string { return p.parameter }

// Type returns the declared value type.
func (p *PropertyDefinition) Type() PropertyType { return p.typ }

// IsDynamic reports whether the property may change at run time.
func (p *PropertyDefinition) IsDynamic() bool { return p.dynamic }

// Order returns the explicit rank and whether one was set.
func (p *PropertyDefinition) Order() (int, bool) { return p.order, p.hasOrder }

// Sequence returns the declaration sequence number within the definition.
func (p *PropertyDefinition) Sequence() int { return p.seq }

func (p *PropertyDefinition) String() string {
	if p.hasOrder {
		return fmt.Sprintf("%s(%s, %q, order=%d)", p.name, p.typ, p.parameter, p.order)
	}
	return fmt.Sprintf("%s(%s, %q)", p.name, p.typ, p.parameter)
}

// less reports whether a sorts before b on the command line.
func less(a, b *PropertyDefinition) bool {
	switch {
	case a.hasOrder && b.hasOrder:
		if a.order != b.order {
			return a.order < b.order
		}
	case a.hasOrder:
		return true
	case b.hasOrder:
		return false
	}
	return a.seq < b.seq
}
