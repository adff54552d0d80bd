// Package messaging defines the contract between the propagation engine and
// the publish/subscribe transport that reaches remote execution nodes.
//
// The core only builds configuration messages and hands them to a Messenger
// together with an opaque NodeSet address. Delivery, retries, envelopes and
// signing belong to the Messenger implementation. Recorder and Logger are
// in-process implementations; package socketio provides a network transport.
package messaging
