// Package propagate forwards run-time changes of dynamic property bindings to
// the running application instances as configuration messages.
package propagate

import (
	"context"
	"sync"

	"github.com/specialistvlad/appgrid/internal/appdef"
	"github.com/specialistvlad/appgrid/internal/binding"
	"github.com/specialistvlad/appgrid/internal/ctxlog"
	"github.com/specialistvlad/appgrid/internal/messaging"
	"github.com/zclconf/go-cty/cty"
)

// Propagator implements cmdline.Watcher. Every change of a watched binding
// produces exactly one configuration message, sent synchronously from the
// change notification: no batching, debouncing or deduplication.
type Propagator struct {
	messenger messaging.Messenger
}

// New creates a Propagator sending through m.
func New(m messaging.Messenger) *Propagator {
	return &Propagator{messenger: m}
}

// Watch subscribes to source and sends {parameter: value} to nodeSet,
// addressed to appID, on each change. Cleared values are not sent.
func (p *Propagator) Watch(
	ctx context.Context,
	prop *appdef.PropertyDefinition,
	source binding.Dynamic,
	appID string,
	nodeSet messaging.NodeSet,
) binding.Subscription {
	logger := ctxlog.FromContext(ctx).With("app_id", appID, "property", prop.Name(), "node_set", string(nodeSet))
	w := &watch{
		ctx:       ctx,
		messenger: p.messenger,
		parameter: prop.Parameter(),
		appID:     appID,
		nodeSet:   nodeSet,
	}
	logger.Debug("Subscribing to dynamic property.")
	return source.OnChange(func(value cty.Value, present bool) {
		w.changed(value, present)
	})
}

// watch is the state of one subscription. mu keeps sends for one property
// binding from overlapping even if a source notifies from several goroutines.
type watch struct {
	mu        sync.Mutex
	ctx       context.Context
	messenger messaging.Messenger
	parameter string
	appID     string
	nodeSet   messaging.NodeSet
}

func (w *watch) changed(value cty.Value, present bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	logger := ctxlog.FromContext(w.ctx)
	if !present {
		logger.Debug("Dynamic property cleared, nothing sent.", "app_id", w.appID, "parameter", w.parameter)
		return
	}

	msg := messaging.NewConfigure(w.appID, w.parameter, value)
	if err := w.messenger.Send(w.ctx, w.nodeSet, msg); err != nil {
		logger.Error("Failed to send configuration message.", "app_id", w.appID, "parameter", w.parameter, "message_id", msg.ID, "error", err)
		return
	}
	logger.Debug("Configuration message sent.", "app_id", w.appID, "parameter", w.parameter, "message_id", msg.ID)
}
