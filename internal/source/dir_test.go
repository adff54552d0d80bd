package source

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/appgrid/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestDir_Load(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"test/app/ping.xml": "<application/>",
		"otg2.hcl":          "application {}",
		"nmap.yml":          "id: nmap",
	})
	src := NewDir(root)
	ctx := context.Background()

	testCases := []struct {
		uri     string
		want    string
		wantCT  registry.ContentType
		wantErr error
	}{
		{uri: "test:app:ping", want: "<application/>", wantCT: registry.ContentMarkup},
		{uri: "test/app/ping", want: "<application/>", wantCT: registry.ContentMarkup},
		{uri: "otg2", want: "application {}", wantCT: registry.ContentHCL},
		{uri: "nmap", want: "id: nmap", wantCT: registry.ContentYAML},
		{uri: "missing", wantErr: fs.ErrNotExist},
		{uri: "..:etc:passwd", wantErr: ErrInvalidURI},
		{uri: "", wantErr: ErrInvalidURI},
		{uri: ":::", wantErr: ErrInvalidURI},
	}

	for _, tc := range testCases {
		t.Run(tc.uri, func(t *testing.T) {
			t.Parallel()
			content, ct, err := src.Load(ctx, tc.uri)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(content))
			assert.Equal(t, tc.wantCT, ct)
		})
	}
}

func TestDir_List(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"test/app/ping.xml": "",
		"test/app/ping.hcl": "",
		"otg2.yaml":         "",
		"README.md":         "",
	})

	uris, err := NewDir(root).List()
	require.NoError(t, err)
	assert.Equal(t, []string{"otg2", "test:app:ping"}, uris)
}
