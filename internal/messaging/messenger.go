package messaging

import (
	"context"
	"sync"

	"github.com/specialistvlad/appgrid/internal/ctxlog"
)

// Messenger delivers messages to node sets. Send is fire-and-forget from the
// core's point of view: a returned error is logged, never retried.
type Messenger interface {
	Send(ctx context.Context, nodeSet NodeSet, msg *Message) error
}

// MessengerFunc adapts a function to the Messenger interface.
type MessengerFunc func(ctx context.Context, nodeSet NodeSet, msg *Message) error

// Send implements Messenger.
func (f MessengerFunc) Send(ctx context.Context, nodeSet NodeSet, msg *Message) error {
	return f(ctx, nodeSet, msg)
}

// Logger is a Messenger that only logs what would have been sent. It is used
// when no transport is configured.
type Logger struct{}

// Send implements Messenger.
func (Logger) Send(ctx context.Context, nodeSet NodeSet, msg *Message) error {
	payload, err := msg.MarshalJSON()
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("Configuration message (not delivered, no transport).",
		"node_set", string(nodeSet), "message", string(payload))
	return nil
}

// Sent is one message captured by a Recorder.
type Sent struct {
	NodeSet NodeSet
	Message *Message
}

// Recorder is a thread-safe Messenger that keeps every message it is given.
type Recorder struct {
	mu   sync.Mutex
	sent []Sent
}

// Send implements Messenger.
func (r *Recorder) Send(_ context.Context, nodeSet NodeSet, msg *Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Sent{NodeSet: nodeSet, Message: msg})
	return nil
}

// Sent returns a copy of the captured messages in send order.
func (r *Recorder) Sent() []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Sent, len(r.sent))
	copy(out, r.sent)
	return out
}
