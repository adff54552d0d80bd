// Package hcl reads and writes the HCL form of an application definition.
//
// A definition file holds exactly one application block:
//
//	application "test:app:ping" {
//	  name = "PING"
//	  path = "/bin/ping"
//
//	  property "count" {
//	    parameter = "-c"
//	    type      = integer
//	    dynamic   = true
//	    order     = 1
//	  }
//	}
//
// The content is declarative only. Expressions are evaluated without any
// variables or functions in scope.
package hcl
