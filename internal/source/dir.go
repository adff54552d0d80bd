// Package source loads serialized application definitions from a directory
// tree.
//
// A definition uri maps onto a relative path by treating ':' and '/' as
// directory separators, so "test:app:ping" is looked up as
// <root>/test/app/ping.{xml,hcl,yaml,yml}. The file extension selects the
// content type handed to the registry.
package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/appgrid/internal/ctxlog"
	"github.com/specialistvlad/appgrid/internal/fsutil"
	"github.com/specialistvlad/appgrid/internal/registry"
)

// ErrInvalidURI is returned for uris that cannot name a file below the root.
var ErrInvalidURI = errors.New("invalid definition uri")

// extensions lists the recognized file extensions in lookup order.
var extensions = []struct {
	ext string
	ct  registry.ContentType
}{
	{".xml", registry.ContentMarkup},
	{".hcl", registry.ContentHCL},
	{".yaml", registry.ContentYAML},
	{".yml", registry.ContentYAML},
}

// Dir is a registry.Source backed by a directory.
type Dir struct {
	root string
}

// NewDir returns a source reading definitions below root.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the directory the source reads from.
func (d *Dir) Root() string { return d.root }

// Load implements registry.Source. A uri without a matching file yields an
// error wrapping fs.ErrNotExist.
func (d *Dir) Load(ctx context.Context, uri string) ([]byte, registry.ContentType, error) {
	base, err := d.basePath(uri)
	if err != nil {
		return nil, "", err
	}

	logger := ctxlog.FromContext(ctx)
	for _, e := range extensions {
		path := base + e.ext
		content, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read definition %s: %w", path, err)
		}
		logger.Debug("Read definition file.", "uri", uri, "file", path, "content_type", string(e.ct))
		return content, e.ct, nil
	}
	return nil, "", fmt.Errorf("no definition file for '%s' below %s: %w", uri, d.root, fs.ErrNotExist)
}

// List returns the uris of every definition file below the root.
func (d *Dir) List() ([]string, error) {
	exts := make([]string, 0, len(extensions))
	for _, e := range extensions {
		exts = append(exts, e.ext)
	}

	files, err := fsutil.FindFilesByExtension(d.root, exts...)
	if err != nil {
		return nil, fmt.Errorf("failed to list definitions in %s: %w", d.root, err)
	}

	uris := make([]string, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	for _, file := range files {
		rel, err := filepath.Rel(d.root, file)
		if err != nil {
			return nil, err
		}
		rel = strings.TrimSuffix(rel, filepath.Ext(rel))
		uri := strings.ReplaceAll(filepath.ToSlash(rel), "/", ":")
		if _, dup := seen[uri]; dup {
			continue
		}
		seen[uri] = struct{}{}
		uris = append(uris, uri)
	}
	return uris, nil
}

// basePath maps uri onto a path below the root, without extension.
func (d *Dir) basePath(uri string) (string, error) {
	if uri == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURI)
	}
	segments := strings.FieldsFunc(uri, func(r rune) bool { return r == ':' || r == '/' })
	for _, s := range segments {
		if s == "." || s == ".." || strings.ContainsRune(s, '\\') {
			return "", fmt.Errorf("%w: '%s'", ErrInvalidURI, uri)
		}
	}
	if len(segments) == 0 {
		return "", fmt.Errorf("%w: '%s'", ErrInvalidURI, uri)
	}
	return filepath.Join(append([]string{d.root}, segments...)...), nil
}
