// Package registry owns the application definitions known to one controller.
//
// The Registry maps each definition uri to exactly one appdef.Definition. It
// is an explicit object handed to whatever needs to create or look up
// definitions; there is no process-wide instance. When a lookup misses, the
// registry asks its Source for the serialized definition and hands the
// content to the Decoder registered for its content type. Decoders are
// declarative only: content is never executed as code.
//
// All registry operations are safe for concurrent use. Registration is
// serialized so that the uri uniqueness invariant holds under concurrent
// Create, Register and Lookup calls.
package registry
