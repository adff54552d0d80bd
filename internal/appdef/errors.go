// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the error taxonomy shared by every package that works with
// application definitions. Callers are expected to test for these with
// errors.Is; producers always wrap them with context about the offending
// definition, property or document.
package appdef

import "errors"

var (
	// ErrDuplicateDefinition is returned when creating or decoding a definition
	// whose uri is already registered.
	ErrDuplicateDefinition = errors.New("duplicate application definition")

	// ErrUnknownDefinition is returned when a lookup fails even after the
	// configuration source was asked to load the definition.
	ErrUnknownDefinition = errors.New("unknown application definition")

	// ErrMalformedDocument is returned when a serialized definition is missing
	// its root element or a required attribute.
	ErrMalformedDocument = errors.New("malformed application definition document")

	// ErrDuplicateProperty is returned when a property name is defined twice.
	ErrDuplicateProperty = errors.New("duplicate property")

	// ErrMissingArgument is returned when a defining call omits a mandatory argument.
	ErrMissingArgument = errors.New("missing mandatory argument")

	// ErrUndeclaredType is returned when a property declares a type the
	// validator does not recognize.
	ErrUndeclaredType = errors.New("undeclared property type")

	// ErrTypeMismatch is returned when a bound value does not match the
	// declared property type.
	ErrTypeMismatch = errors.New("property type mismatch")

	// ErrDeprecatedOperation is returned by legacy entry points.
	ErrDeprecatedOperation = errors.New("deprecated operation")
)
