package app

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/appgrid/internal/appxml"
	"github.com/specialistvlad/appgrid/internal/ctxlog"
	"github.com/specialistvlad/appgrid/internal/hcl"
	"github.com/specialistvlad/appgrid/internal/messaging"
	"github.com/specialistvlad/appgrid/internal/registry"
	"github.com/specialistvlad/appgrid/internal/source"
	"github.com/specialistvlad/appgrid/internal/yamldef"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	inR       io.Reader
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	source    *source.Dir
	registry  *registry.Registry
	messenger messaging.Messenger
}

// Option customizes an App.
type Option func(*App)

// WithMessenger replaces the transport chosen from the configuration.
func WithMessenger(m messaging.Messenger) Option {
	return func(a *App) { a.messenger = m }
}

// WithInput sets the reader consulted in follow mode.
func WithInput(r io.Reader) Option {
	return func(a *App) { a.inR = r }
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Log records go to logW, command output to outW.
func NewApp(outW, logW io.Writer, cfg *Config, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	src := source.NewDir(cfg.DefinitionsPath)
	reg := registry.New(
		registry.WithSource(src),
		registry.WithDecoder(registry.ContentMarkup, appxml.Decoder{}),
		registry.WithDecoder(registry.ContentHCL, hcl.Decoder{}),
		registry.WithDecoder(registry.ContentYAML, yamldef.Decoder{}),
	)
	logger.Debug("Registry created.", "definitions_path", cfg.DefinitionsPath)

	a := &App{
		inR:      strings.NewReader(""),
		outW:     outW,
		logger:   logger,
		config:   cfg,
		source:   src,
		registry: reg,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// newLogger creates and configures a new slog.Logger instance. It does not
// set the global logger, allowing for isolated logger instances. Unknown
// levels fall back to info.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler

	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	return slog.New(handler)
}
