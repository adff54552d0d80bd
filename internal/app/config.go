package app

import (
	"errors"
	"fmt"
	"strings"
)

// Output formats understood by Run.
const (
	OutputArgs = "args"
	OutputXML  = "xml"
	OutputHCL  = "hcl"
	OutputYAML = "yaml"
)

// Assignment is one name=value binding given on the command line.
type Assignment struct {
	Name  string
	Value string
}

// ParseAssignment splits "name=value". The value may be empty.
func ParseAssignment(s string) (Assignment, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return Assignment{}, fmt.Errorf("invalid property assignment %q: want name=value", s)
	}
	return Assignment{Name: name, Value: value}, nil
}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	DefinitionsPath string // xml, hcl and yaml definition files
	AppURI          string
	Assignments     []Assignment
	NodeSet         string

	Output string
	// List prints the available definition uris instead of launching.
	List bool
	// Follow keeps the instance alive after launch and applies name=value
	// lines read from the input to its dynamic properties.
	Follow bool

	BrokerURL       string
	BrokerNamespace string
	BrokerEvent     string
	BrokerInsecure  bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy with defaults applied.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.DefinitionsPath == "" {
		return nil, errors.New("DefinitionsPath is a required configuration field and cannot be empty")
	}
	if cfg.AppURI == "" && !cfg.List {
		return nil, errors.New("an application uri is required")
	}
	if cfg.NodeSet == "" {
		cfg.NodeSet = "all"
	}
	if cfg.Output == "" {
		cfg.Output = OutputArgs
	}
	switch cfg.Output {
	case OutputArgs, OutputXML, OutputHCL, OutputYAML:
	default:
		return nil, fmt.Errorf("invalid output format %q: must be 'args', 'xml', 'hcl' or 'yaml'", cfg.Output)
	}
	return &cfg, nil
}
