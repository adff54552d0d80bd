// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Definition, the descriptor of a runnable application.
//
// Why separate a Definition from its running instances?
//
// A Definition is analogous to a function signature: it declares which
// properties the application accepts and how they map onto its command line.
// Many instances of the same application may run at once, each with its own
// property bindings and node set. The Definition only tracks how many
// instances were started so that each gets a distinct identifier.
package appdef

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
)

// Definition describes one application. It is identified by a uri that is
// unique within a registry; the id and the uri always hold the same value.
//
// The exported metadata fields are plain values: set them before the
// definition is registered and treat them as read-only afterwards. Properties,
// measurements, environment and version are guarded and may change later.
type Definition struct {
	uri string

	// Name is the human readable application name.
	Name string
	// Copyright notice, possibly a uri.
	Copyright string
	// ShortDescription and Description describe the application.
	ShortDescription string
	Description      string
	// Path is the location of the binary on the execution node.
	Path string
	// AppPackage is the location of the binary install package.
	AppPackage string
	// DevelopmentRepository is the location of the source install package.
	DevelopmentRepository string
	// DebPackage and RpmPackage name the package-manager packages, if any.
	DebPackage string
	RpmPackage string
	// OMLPrefix is the prefix used when naming measurement tables.
	OMLPrefix string

	mu           sync.RWMutex
	version      *Version
	environment  map[string]string
	properties   map[string]*PropertyDefinition
	measurements []*MeasurementPoint
	nextSeq      int

	instances atomic.Int64
}

// New constructs an empty definition for uri. Definitions are normally
// obtained through registry.Registry, which enforces uri uniqueness.
func New(uri string) *Definition {
	return &Definition{
		uri:         uri,
		environment: make(map[string]string),
		properties:  make(map[string]*PropertyDefinition),
	}
}

// ID returns the local identifier, which equals the uri.
func (d *Definition) ID() string { return d.uri }

// URI returns the unique identifier of the definition.
func (d *Definition) URI() string { return d.uri }

// DisplayName returns Name, or the id when no name was given.
func (d *Definition) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.uri
}

// DefineProperty adds a property to the definition. Without options the
// property is untyped, static and has no explicit order.
func (d *Definition) DefineProperty(name, description, parameter string, opts ...PropertyOption) (*PropertyDefinition, error) {
	if name == "" {
		return nil, fmt.Errorf("application '%s': property name: %w", d.uri, ErrMissingArgument)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.properties[name]; exists {
		return nil, fmt.Errorf("application '%s': property '%s' already defined: %w", d.uri, name, ErrDuplicateProperty)
	}

	prop := &PropertyDefinition{
		name:        name,
		description: description,
		parameter:   parameter,
		seq:         d.nextSeq,
	}
	for _, opt := range opts {
		opt(prop)
	}
	d.nextSeq++
	d.properties[name] = prop
	return prop, nil
}

// Property returns the property with the given name.
func (d *Definition) Property(name string) (*PropertyDefinition, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.properties[name]
	return p, ok
}

// Properties returns all properties in command-line order: explicit ranks
// ascending, then unranked properties; ties are broken by declaration order.
func (d *Definition) Properties() []*PropertyDefinition {
	d.mu.RLock()
	props := make([]*PropertyDefinition, 0, len(d.properties))
	for _, p := range d.properties {
		props = append(props, p)
	}
	d.mu.RUnlock()

	slices.SortFunc(props, func(a, b *PropertyDefinition) int {
		switch {
		case less(a, b):
			return -1
		case less(b, a):
			return 1
		}
		return 0
	})
	return props
}

// DefineMeasurement adds or replaces the measurement point with the given id.
func (d *Definition) DefineMeasurement(id, description string, options map[string]string) *MeasurementPoint {
	mp := &MeasurementPoint{
		ID:          id,
		Description: description,
		Options:     maps.Clone(options),
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for i, existing := range d.measurements {
		if existing.ID == id {
			d.measurements[i] = mp
			return mp
		}
	}
	d.measurements = append(d.measurements, mp)
	return mp
}

// Measurement returns the measurement point with the given id.
func (d *Definition) Measurement(id string) (*MeasurementPoint, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, mp := range d.measurements {
		if mp.ID == id {
			return mp, true
		}
	}
	return nil, false
}

// Measurements returns the measurement points in declaration order.
func (d *Definition) Measurements() []*MeasurementPoint {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.measurements)
}

// SetEnv records an environment variable the application needs to run.
func (d *Definition) SetEnv(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.environment[name] = value
}

// Environment returns a copy of the environment settings.
func (d *Definition) Environment() map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return maps.Clone(d.environment)
}

// SetRepository sets the binary and development install locations.
// Like the other metadata fields it is only set before registration.
func (d *Definition) SetRepository(binary, development string) {
	d.AppPackage = binary
	d.DevelopmentRepository = development
}

// SetVersion sets the application version.
func (d *Definition) SetVersion(major, minor, revision int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.version = &Version{Major: major, Minor: minor, Revision: revision}
}

// Version returns the application version and whether one was set.
func (d *Definition) Version() (Version, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.version == nil {
		return Version{}, false
	}
	return *d.version, true
}

// AddInstance records that another instance of the application was created
// and returns the running instance count, starting at 1.
func (d *Definition) AddInstance() int64 {
	return d.instances.Add(1)
}

// AddProperty is the legacy property-defining call. Use DefineProperty.
func (d *Definition) AddProperty(name, description, mnemonic string, typ PropertyType, dynamic bool) error {
	return fmt.Errorf("application '%s': AddProperty: use DefineProperty instead: %w", d.uri, ErrDeprecatedOperation)
}

// AddMeasurement is the legacy measurement-defining call. Use DefineMeasurement.
func (d *Definition) AddMeasurement(id, description string, metrics []string) error {
	return fmt.Errorf("application '%s': AddMeasurement: use DefineMeasurement instead: %w", d.uri, ErrDeprecatedOperation)
}
