// Package instance starts application instances from definitions.
//
// An instance is one configured use of a definition on a node set. Launching
// assigns the instance identifier, synthesizes the command line and keeps
// the change subscriptions of dynamic properties alive until Close.
package instance

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/appgrid/internal/appdef"
	"github.com/specialistvlad/appgrid/internal/binding"
	"github.com/specialistvlad/appgrid/internal/cmdline"
	"github.com/specialistvlad/appgrid/internal/ctxlog"
	"github.com/specialistvlad/appgrid/internal/messaging"
)

// Instance is a launched application.
type Instance struct {
	id      string
	def     *appdef.Definition
	nodeSet messaging.NodeSet
	result  *cmdline.Result

	closeOnce sync.Once
}

// Launch creates the next instance of def on nodeSet. A nil synth emits the
// current binding values without watching them.
func Launch(
	ctx context.Context,
	def *appdef.Definition,
	bindings binding.Map,
	nodeSet messaging.NodeSet,
	synth *cmdline.Synthesizer,
) (*Instance, error) {
	if synth == nil {
		synth = &cmdline.Synthesizer{}
	}

	id := fmt.Sprintf("%s#%d", def.ID(), def.AddInstance())
	res, err := synth.Synthesize(ctx, def, bindings, id, nodeSet)
	if err != nil {
		return nil, fmt.Errorf("failed to launch instance %s: %w", id, err)
	}

	ctxlog.FromContext(ctx).Info("Application instance launched.",
		"app_id", id, "node_set", string(nodeSet), "arguments", len(res.Args), "watching", len(res.Subscriptions))
	return &Instance{id: id, def: def, nodeSet: nodeSet, result: res}, nil
}

// ID returns the instance identifier, "<definition id>#<n>".
func (i *Instance) ID() string { return i.id }

// Definition returns the definition the instance was launched from.
func (i *Instance) Definition() *appdef.Definition { return i.def }

// NodeSet returns the node set the instance runs on.
func (i *Instance) NodeSet() messaging.NodeSet { return i.nodeSet }

// Arguments returns the command-line arguments synthesized at launch.
func (i *Instance) Arguments() cmdline.Arguments { return i.result.Args }

// Command returns the full argv: the definition's path followed by the
// flattened arguments. The path is omitted when the definition has none.
func (i *Instance) Command() []string {
	tokens := i.result.Args.Tokens()
	if i.def.Path == "" {
		return tokens
	}
	return append([]string{i.def.Path}, tokens...)
}

// Close releases every change subscription of the instance. Later changes of
// dynamic bindings are no longer propagated. Close is idempotent.
func (i *Instance) Close() error {
	i.closeOnce.Do(i.result.Release)
	return nil
}
