package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/appgrid/internal/appdef"
	"github.com/specialistvlad/appgrid/internal/appxml"
	"github.com/specialistvlad/appgrid/internal/binding"
	"github.com/specialistvlad/appgrid/internal/cmdline"
	"github.com/specialistvlad/appgrid/internal/ctxlog"
	"github.com/specialistvlad/appgrid/internal/hcl"
	"github.com/specialistvlad/appgrid/internal/instance"
	"github.com/specialistvlad/appgrid/internal/messaging"
	"github.com/specialistvlad/appgrid/internal/messaging/socketio"
	"github.com/specialistvlad/appgrid/internal/propagate"
	"github.com/specialistvlad/appgrid/internal/yamldef"
	"github.com/zclconf/go-cty/cty"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = a.context(ctx)
	a.logger.Debug("App.Run method started.")

	if a.config.List {
		return a.list()
	}

	def, err := a.registry.Lookup(ctx, a.config.AppURI)
	if err != nil {
		return err
	}

	if a.config.Output != OutputArgs {
		return a.encode(def)
	}

	bindings, variables, err := a.bindings(def)
	if err != nil {
		return err
	}

	messenger, closeMessenger, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer closeMessenger()

	synth := cmdline.New(propagate.New(messenger))
	inst, err := instance.Launch(ctx, def, bindings, messaging.NodeSet(a.config.NodeSet), synth)
	if err != nil {
		return err
	}
	defer inst.Close()

	fmt.Fprintln(a.outW, strings.Join(inst.Command(), " "))

	if a.config.Follow {
		if err := a.follow(ctx, def, variables); err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) list() error {
	uris, err := a.source.List()
	if err != nil {
		return err
	}
	for _, uri := range uris {
		fmt.Fprintln(a.outW, uri)
	}
	return nil
}

func (a *App) encode(def *appdef.Definition) error {
	var (
		out []byte
		err error
	)
	switch a.config.Output {
	case OutputXML:
		out, err = appxml.Encode(def)
	case OutputHCL:
		out = hcl.Encode(def)
	case OutputYAML:
		out, err = yamldef.Encode(def)
	default:
		return fmt.Errorf("unsupported output format %q", a.config.Output)
	}
	if err != nil {
		return err
	}
	_, err = a.outW.Write(out)
	return err
}

// bindings converts the configured assignments to the declared property
// types. Dynamic properties are bound to variables so that follow mode can
// change them later.
func (a *App) bindings(def *appdef.Definition) (binding.Map, map[string]*binding.Variable, error) {
	bindings := make(binding.Map, len(a.config.Assignments))
	variables := make(map[string]*binding.Variable)

	for _, as := range a.config.Assignments {
		prop, ok := def.Property(as.Name)
		if !ok {
			return nil, nil, fmt.Errorf("application '%s' has no property '%s'", def.ID(), as.Name)
		}
		value, err := cmdline.ParseValue(prop, as.Value)
		if err != nil {
			return nil, nil, err
		}
		if prop.IsDynamic() {
			v := binding.NewVariable(prop.Name(), value)
			variables[prop.Name()] = v
			bindings[prop.Name()] = v
			continue
		}
		bindings[prop.Name()] = binding.StaticValue(value)
	}

	for _, prop := range def.Properties() {
		if _, bound := bindings[prop.Name()]; bound || !prop.IsDynamic() || !a.config.Follow {
			continue
		}
		// Unset dynamic properties can still be set in follow mode.
		v := binding.NewVariable(prop.Name(), cty.NilVal)
		variables[prop.Name()] = v
		bindings[prop.Name()] = v
	}
	return bindings, variables, nil
}

// connect returns the configured transport and a function releasing it.
func (a *App) connect(ctx context.Context) (messaging.Messenger, func(), error) {
	if a.messenger != nil {
		return a.messenger, func() {}, nil
	}
	if a.config.BrokerURL == "" {
		a.logger.Debug("No broker configured, configuration messages are only logged.")
		return messaging.Logger{}, func() {}, nil
	}

	m, err := socketio.Dial(ctx, socketio.Config{
		URL:                a.config.BrokerURL,
		Namespace:          a.config.BrokerNamespace,
		Event:              a.config.BrokerEvent,
		InsecureSkipVerify: a.config.BrokerInsecure,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to broker: %w", err)
	}
	return m, func() { _ = m.Close() }, nil
}

// follow applies name=value lines from the input to dynamic properties until
// the input ends or ctx is cancelled. Blank lines and lines starting with '#'
// are ignored. Invalid lines are logged and skipped.
func (a *App) follow(ctx context.Context, def *appdef.Definition, variables map[string]*binding.Variable) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Following property updates.", "dynamic_properties", len(variables))

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanErr <- scan(ctx, a.inR, lines)
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Follow mode cancelled.")
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			if err := a.update(def, variables, line); err != nil {
				logger.Warn("Ignoring property update.", "line", line, "error", err)
			}
		}
	}
}

func scan(ctx context.Context, r io.Reader, lines chan<- string) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		select {
		case lines <- line:
		case <-ctx.Done():
			return nil
		}
	}
	return scanner.Err()
}

func (a *App) update(def *appdef.Definition, variables map[string]*binding.Variable, line string) error {
	as, err := ParseAssignment(line)
	if err != nil {
		return err
	}
	v, ok := variables[as.Name]
	if !ok {
		return fmt.Errorf("application '%s' has no dynamic property '%s'", def.ID(), as.Name)
	}
	if as.Value == "" {
		v.Clear()
		return nil
	}
	prop, _ := def.Property(as.Name)
	value, err := cmdline.ParseValue(prop, as.Value)
	if err != nil {
		return err
	}
	v.Set(value)
	return nil
}
