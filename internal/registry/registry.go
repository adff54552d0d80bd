package registry

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/specialistvlad/appgrid/internal/appdef"
	"github.com/specialistvlad/appgrid/internal/ctxlog"
)

// ContentType names the serialization of a loaded definition.
type ContentType string

const (
	// ContentMarkup is the XML document form.
	ContentMarkup ContentType = "markup"
	// ContentHCL is the HCL declarative form.
	ContentHCL ContentType = "hcl"
	// ContentYAML is the YAML declarative form.
	ContentYAML ContentType = "yaml"
	// ContentScript is live code. No decoder is ever registered for it by
	// default.
	ContentScript ContentType = "script"
)

// Source loads serialized definitions by uri.
type Source interface {
	Load(ctx context.Context, uri string) ([]byte, ContentType, error)
}

// Decoder turns serialized content into a new, unregistered definition.
type Decoder interface {
	Decode(ctx context.Context, content []byte) (*appdef.Definition, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(ctx context.Context, content []byte) (*appdef.Definition, error)

// Decode implements Decoder.
func (f DecoderFunc) Decode(ctx context.Context, content []byte) (*appdef.Definition, error) {
	return f(ctx, content)
}

// Registry holds the application definitions of one controller.
type Registry struct {
	mu          sync.Mutex
	definitions map[string]*appdef.Definition
	decoders    map[ContentType]Decoder
	source      Source
}

// Option configures a Registry.
type Option func(*Registry)

// WithSource sets the source consulted when a lookup misses.
func WithSource(s Source) Option {
	return func(r *Registry) { r.source = s }
}

// WithDecoder registers d for content type ct.
func WithDecoder(ct ContentType, d Decoder) Option {
	return func(r *Registry) { r.decoders[ct] = d }
}

// New creates and initializes a new Registry instance.
func New(opts ...Option) *Registry {
	r := &Registry{
		definitions: make(map[string]*appdef.Definition),
		decoders:    make(map[ContentType]Decoder),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterDecoder registers d for content type ct, replacing any previous one.
func (r *Registry) RegisterDecoder(ct ContentType, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[ct] = d
}

// Create registers and returns a new, empty definition for uri.
func (r *Registry) Create(uri string) (*appdef.Definition, error) {
	if uri == "" {
		return nil, fmt.Errorf("application uri: %w", appdef.ErrMissingArgument)
	}
	def := appdef.New(uri)
	if err := r.Register(def); err != nil {
		return nil, err
	}
	return def, nil
}

// Define builds the definition for uri, names it and lets configure populate
// it. The definition is registered only after configure succeeds, so
// concurrent lookups never observe it half built.
func (r *Registry) Define(uri, name string, configure func(*appdef.Definition) error) (*appdef.Definition, error) {
	if uri == "" {
		return nil, fmt.Errorf("application uri: %w", appdef.ErrMissingArgument)
	}
	if _, exists := r.Get(uri); exists {
		return nil, fmt.Errorf("application '%s': %w", uri, appdef.ErrDuplicateDefinition)
	}
	def := appdef.New(uri)
	def.Name = name
	if configure != nil {
		if err := configure(def); err != nil {
			return nil, fmt.Errorf("application '%s': %w", uri, err)
		}
	}
	if err := r.Register(def); err != nil {
		return nil, err
	}
	return def, nil
}

// Register adds an externally built definition.
func (r *Registry) Register(def *appdef.Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.definitions[def.URI()]; exists {
		return fmt.Errorf("application '%s': %w", def.URI(), appdef.ErrDuplicateDefinition)
	}
	r.definitions[def.URI()] = def
	return nil
}

// Get returns a registered definition without consulting the source.
func (r *Registry) Get(uri string) (*appdef.Definition, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	def, ok := r.definitions[uri]
	return def, ok
}

// URIs returns the registered uris in lexical order.
func (r *Registry) URIs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	uris := make([]string, 0, len(r.definitions))
	for uri := range r.definitions {
		uris = append(uris, uri)
	}
	slices.Sort(uris)
	return uris
}

// Reset forgets every definition. Instances already started from them are
// not affected.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions = make(map[string]*appdef.Definition)
}

// Lookup returns the definition for uri, loading it from the source when it
// is not registered yet.
func (r *Registry) Lookup(ctx context.Context, uri string) (*appdef.Definition, error) {
	if def, ok := r.Get(uri); ok {
		return def, nil
	}

	logger := ctxlog.FromContext(ctx).With("uri", uri)
	if r.source == nil {
		return nil, fmt.Errorf("application '%s': no definition source configured: %w", uri, appdef.ErrUnknownDefinition)
	}

	logger.Debug("Loading application definition.")
	content, ct, err := r.source.Load(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("application '%s': %w: %w", uri, appdef.ErrUnknownDefinition, err)
	}

	def, err := r.decode(ctx, ct, content)
	if err != nil {
		return nil, fmt.Errorf("application '%s': %w: %w", uri, appdef.ErrUnknownDefinition, err)
	}
	if def.URI() != uri {
		logger.Warn("Loaded content did not define the requested application.", "defined", def.URI())
		return nil, fmt.Errorf("application '%s': content defines '%s': %w", uri, def.URI(), appdef.ErrUnknownDefinition)
	}
	if err := r.Register(def); err != nil {
		// A concurrent lookup may have registered the same definition first.
		if existing, ok := r.Get(uri); ok {
			return existing, nil
		}
		return nil, fmt.Errorf("application '%s': %w: %w", uri, appdef.ErrUnknownDefinition, err)
	}
	logger.Info("Application definition loaded.", "content_type", string(ct), "properties", len(def.Properties()))
	return def, nil
}

// Import decodes content with the decoder registered for ct and registers
// the result. Decoding a uri that is already registered fails with
// appdef.ErrDuplicateDefinition.
func (r *Registry) Import(ctx context.Context, ct ContentType, content []byte) (*appdef.Definition, error) {
	def, err := r.decode(ctx, ct, content)
	if err != nil {
		return nil, err
	}
	if err := r.Register(def); err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Application definition registered.", "uri", def.URI(), "content_type", string(ct))
	return def, nil
}

func (r *Registry) decode(ctx context.Context, ct ContentType, content []byte) (*appdef.Definition, error) {
	r.mu.Lock()
	dec, ok := r.decoders[ct]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unsupported content type %q", ct)
	}
	return dec.Decode(ctx, content)
}
