// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package appdef provides the in-memory model of a runnable application: the
// Definition that describes a command-line tool deployed to remote execution
// nodes, its typed PropertyDefinitions and its measurement points.
//
// # Core Concepts
//
//   - Definition: a named, versioned descriptor identified by a uri. It owns
//     the property model, the measurement-point map and the packaging and
//     environment metadata needed to install and start the application.
//
//   - PropertyDefinition: one configurable parameter of the application. A
//     property knows the command-line flag it maps to, the type its bound
//     values must have, whether it may change while the application runs,
//     and an optional rank used to order the synthesized command line.
//
//   - MeasurementPoint: an opaque, identified group of measurements the
//     application reports. This package only tracks its identity.
//
// Definitions are created and owned by a registry.Registry. Property
// definitions are immutable once defined; the only way to change the property
// model is to define new, uniquely named properties.
package appdef
