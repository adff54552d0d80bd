// Package binding pairs property names with the values an application
// instance is started with.
//
// A Static binding holds a fixed value. A Dynamic binding refers to a value
// source that can change while the instance runs and notifies subscribers on
// every change. Variable is the in-process Dynamic implementation used for
// experiment-wide properties.
//
// All values are cty.Value so that they can be validated against the declared
// property types without reflection. A null or unknown value is "absent".
package binding
