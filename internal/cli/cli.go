package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/specialistvlad/appgrid/internal/app"
)

// Environment variables providing defaults for unset flags.
const (
	EnvDefinitions = "APPGRID_DEFINITIONS"
	EnvBrokerURL   = "APPGRID_BROKER_URL"
	EnvNodeSet     = "APPGRID_NODE_SET"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// LookupEnv resolves an environment variable.
type LookupEnv func(key string) (string, bool)

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	return ParseWithEnv(args, output, os.LookupEnv)
}

// ParseWithEnv is Parse with an explicit environment.
func ParseWithEnv(args []string, output io.Writer, lookupEnv LookupEnv) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("appgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
AppGrid - launches and reconfigures applications described by definitions.

Usage:
  appgrid [options] APP_URI [name=value ...]
  appgrid -list [options]

Arguments:
  APP_URI
    Definition uri, e.g. test:app:ping, resolved to a .xml, .hcl or .yaml file
    below the definitions directory.
  name=value
    Binds a property. Values are converted to the declared property type.

Environment:
  APPGRID_DEFINITIONS, APPGRID_BROKER_URL, APPGRID_NODE_SET provide defaults
  for -definitions, -broker and -node-set. They may be set in a .env file.

Options:
`)
		flagSet.PrintDefaults()
	}

	definitionsFlag := flagSet.String("definitions", "", "Directory containing application definitions. Defaults to ./definitions.")
	dFlag := flagSet.String("d", "", "Directory containing application definitions (shorthand).")
	nodeSetFlag := flagSet.String("node-set", "", "Node set the instance runs on.")
	outputFlag := flagSet.String("output", app.OutputArgs, "What to print. Options: 'args', 'xml', 'hcl', 'yaml'.")
	listFlag := flagSet.Bool("list", false, "List the available definition uris and exit.")
	followFlag := flagSet.Bool("follow", false, "Read name=value updates for dynamic properties from stdin.")
	brokerFlag := flagSet.String("broker", "", "Socket.IO broker URL. Configuration messages are only logged when empty.")
	brokerNamespaceFlag := flagSet.String("broker-namespace", "/", "Socket.IO namespace.")
	brokerEventFlag := flagSet.String("broker-event", "configure", "Socket.IO event name for configuration messages.")
	brokerInsecureFlag := flagSet.Bool("broker-insecure", false, "Skip TLS certificate verification for the broker.")
	envFileFlag := flagSet.String("env-file", "", "Path to a .env file. Defaults to ./.env when present.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	env, err := newEnv(*envFileFlag, lookupEnv)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	rest := flagSet.Args()
	if len(rest) == 0 && !*listFlag {
		slog.Debug("No application uri provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	var appURI string
	var assignments []app.Assignment
	if len(rest) > 0 {
		appURI = rest[0]
		for _, raw := range rest[1:] {
			as, err := app.ParseAssignment(raw)
			if err != nil {
				return nil, false, &ExitError{Code: 2, Message: err.Error()}
			}
			assignments = append(assignments, as)
		}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		DefinitionsPath: firstNonEmpty(*definitionsFlag, *dFlag, env.get(EnvDefinitions), "definitions"),
		AppURI:          appURI,
		Assignments:     assignments,
		NodeSet:         firstNonEmpty(*nodeSetFlag, env.get(EnvNodeSet)),
		Output:          strings.ToLower(*outputFlag),
		List:            *listFlag,
		Follow:          *followFlag,
		BrokerURL:       firstNonEmpty(*brokerFlag, env.get(EnvBrokerURL)),
		BrokerNamespace: *brokerNamespaceFlag,
		BrokerEvent:     *brokerEventFlag,
		BrokerInsecure:  *brokerInsecureFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// env layers the process environment over the values of a .env file.
type env struct {
	lookup LookupEnv
	file   map[string]string
}

// newEnv reads the .env file at path. With an empty path ./.env is read if it
// exists.
func newEnv(path string, lookup LookupEnv) (*env, error) {
	e := &env{lookup: lookup}
	explicit := path != ""
	if !explicit {
		path = ".env"
	}

	values, err := godotenv.Read(path)
	switch {
	case err == nil:
		e.file = values
		slog.Debug("Loaded environment file.", "path", path, "keys", len(values))
	case !explicit && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return e, nil
}

func (e *env) get(key string) string {
	if v, ok := e.lookup(key); ok && v != "" {
		return v
	}
	return e.file[key]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
