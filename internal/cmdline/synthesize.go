package cmdline

import (
	"context"
	"fmt"

	"github.com/specialistvlad/appgrid/internal/appdef"
	"github.com/specialistvlad/appgrid/internal/binding"
	"github.com/specialistvlad/appgrid/internal/ctxlog"
	"github.com/specialistvlad/appgrid/internal/messaging"
	"github.com/zclconf/go-cty/cty"
)

// Watcher installs the change subscription for a dynamic binding.
type Watcher interface {
	Watch(ctx context.Context, prop *appdef.PropertyDefinition, source binding.Dynamic, appID string, nodeSet messaging.NodeSet) binding.Subscription
}

// Synthesizer builds command lines. The zero value emits dynamic bindings'
// current values but never subscribes to their changes.
type Synthesizer struct {
	watcher Watcher
}

// New creates a Synthesizer that hands dynamic bindings to w.
func New(w Watcher) *Synthesizer {
	return &Synthesizer{watcher: w}
}

// Result is the outcome of a synthesis.
type Result struct {
	Args          Arguments
	Subscriptions []binding.Subscription
}

// Release tears down every subscription created during synthesis.
func (r *Result) Release() {
	for _, sub := range r.Subscriptions {
		sub.Unsubscribe()
	}
	r.Subscriptions = nil
}

// Synthesize returns the argument list for one instance of def. Properties
// without a binding are skipped. On error every subscription installed so
// far is released and no result is returned.
func (s *Synthesizer) Synthesize(
	ctx context.Context,
	def *appdef.Definition,
	bindings binding.Map,
	appID string,
	nodeSet messaging.NodeSet,
) (*Result, error) {
	logger := ctxlog.FromContext(ctx).With("application", def.ID(), "app_id", appID)
	logger.Debug("Synthesizing command line.", "bindings", len(bindings))

	res := &Result{}
	for _, prop := range def.Properties() {
		b, ok := bindings[prop.Name()]
		if !ok || b == nil {
			continue
		}

		if dyn, isDynamic := b.(binding.Dynamic); isDynamic && s.watcher != nil {
			sub := s.watcher.Watch(ctx, prop, dyn, appID, nodeSet)
			res.Subscriptions = append(res.Subscriptions, sub)
			logger.Debug("Watching dynamic property.", "property", prop.Name())
		}

		value, present := b.Value()
		if !present {
			continue
		}

		arg, emit, err := emission(prop, value)
		if err != nil {
			res.Release()
			return nil, fmt.Errorf("application '%s': %w", def.ID(), err)
		}
		if emit {
			res.Args = append(res.Args, arg)
		}
	}

	logger.Debug("Command line synthesized.", "arguments", len(res.Args), "subscriptions", len(res.Subscriptions))
	return res, nil
}

// emission validates value and decides what prop contributes to the command line.
func emission(prop *appdef.PropertyDefinition, value cty.Value) (Argument, bool, error) {
	if err := Validate(prop, value); err != nil {
		return Argument{}, false, err
	}
	if prop.Type() == appdef.TypeBoolean {
		if value.True() {
			return Argument{Parameter: prop.Parameter(), Value: cty.NilVal}, true, nil
		}
		return Argument{}, false, nil
	}
	return Argument{Parameter: prop.Parameter(), Value: value}, true, nil
}
