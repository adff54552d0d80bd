package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/appgrid/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envOf(m map[string]string) LookupEnv {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestParse_Launch(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}

	cfg, exit, err := ParseWithEnv([]string{
		"-d", "defs", "-node-set", "senders", "-log-level", "DEBUG",
		"test:app:ping", "target=10.0.0.1", "count=3",
	}, out, noEnv)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "defs", cfg.DefinitionsPath)
	assert.Equal(t, "test:app:ping", cfg.AppURI)
	assert.Equal(t, "senders", cfg.NodeSet)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, app.OutputArgs, cfg.Output)
	assert.Equal(t, []app.Assignment{{Name: "target", Value: "10.0.0.1"}, {Name: "count", Value: "3"}}, cfg.Assignments)
}

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	cfg, _, err := ParseWithEnv([]string{"ping"}, &bytes.Buffer{}, noEnv)
	require.NoError(t, err)
	assert.Equal(t, "definitions", cfg.DefinitionsPath)
	assert.Equal(t, "all", cfg.NodeSet)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.BrokerURL)
}

func TestParse_Environment(t *testing.T) {
	t.Parallel()

	lookup := envOf(map[string]string{
		EnvDefinitions: "/etc/appgrid",
		EnvBrokerURL:   "http://broker:3000",
		EnvNodeSet:     "receivers",
	})

	cfg, _, err := ParseWithEnv([]string{"ping"}, &bytes.Buffer{}, lookup)
	require.NoError(t, err)
	assert.Equal(t, "/etc/appgrid", cfg.DefinitionsPath)
	assert.Equal(t, "http://broker:3000", cfg.BrokerURL)
	assert.Equal(t, "receivers", cfg.NodeSet)

	cfg, _, err = ParseWithEnv([]string{"-node-set", "flag-wins", "ping"}, &bytes.Buffer{}, lookup)
	require.NoError(t, err)
	assert.Equal(t, "flag-wins", cfg.NodeSet)
}

func TestParse_EnvFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("APPGRID_DEFINITIONS=/srv/defs\nAPPGRID_NODE_SET=from-file\n"), 0o600))

	cfg, _, err := ParseWithEnv([]string{"-env-file", path, "ping"}, &bytes.Buffer{}, envOf(map[string]string{EnvNodeSet: "from-process"}))
	require.NoError(t, err)
	assert.Equal(t, "/srv/defs", cfg.DefinitionsPath)
	assert.Equal(t, "from-process", cfg.NodeSet, "the process environment overrides the file")

	_, _, err = ParseWithEnv([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env"), "ping"}, &bytes.Buffer{}, noEnv)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_ShouldExit(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{{"-h"}, {}} {
		out := &bytes.Buffer{}
		cfg, exit, err := ParseWithEnv(args, out, noEnv)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	}
}

func TestParse_List(t *testing.T) {
	t.Parallel()

	cfg, exit, err := ParseWithEnv([]string{"-list"}, &bytes.Buffer{}, noEnv)
	require.NoError(t, err)
	assert.False(t, exit)
	assert.True(t, cfg.List)
}

func TestParse_UsageErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown flag", args: []string{"--nope", "ping"}, want: "flag provided but not defined"},
		{name: "bad log format", args: []string{"-log-format", "xml", "ping"}, want: "invalid log-format"},
		{name: "bad log level", args: []string{"-log-level", "loud", "ping"}, want: "invalid log-level"},
		{name: "bad output", args: []string{"-output", "pdf", "ping"}, want: "invalid output format"},
		{name: "bad assignment", args: []string{"ping", "count"}, want: "invalid property assignment"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := ParseWithEnv(tc.args, &bytes.Buffer{}, noEnv)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.want)
		})
	}
}
