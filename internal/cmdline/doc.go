// Package cmdline turns the property bindings of one application instance
// into the ordered argument list its process is started with.
//
// Synthesis walks the definition's properties in command-line order, validates
// each bound value against the declared property type and emits either a
// bare flag (true booleans) or a flag/value pair. Dynamic bindings are handed
// to a Watcher so that later changes reach the running instance; their
// current value, if any, is emitted like a static one.
package cmdline
