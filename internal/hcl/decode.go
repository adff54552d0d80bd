package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/appgrid/internal/appdef"
	"github.com/specialistvlad/appgrid/internal/bggohcl"
	"github.com/specialistvlad/appgrid/internal/ctxlog"
)

// Decode parses one HCL definition file. filename is used in diagnostics only.
func Decode(ctx context.Context, filename string, content []byte) (*appdef.Definition, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL decoder started.", "file", filename)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(content, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to parse HCL file %s: %w", appdef.ErrMalformedDocument, filename, diags)
	}

	body, diags := file.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s: %w", appdef.ErrMalformedDocument, filename, diags)
	}

	block, diags := bggohcl.FindUniqueBlock(body.Blocks, "application", true, rangeOf(file.Body))
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s: %w", appdef.ErrMalformedDocument, filename, diags)
	}
	id := block.Labels[0]
	if id == "" {
		return nil, fmt.Errorf("%w: %s: application block has an empty id", appdef.ErrMalformedDocument, filename)
	}

	var app applicationBlock
	if diags := gohcl.DecodeBody(block.Body, nil, &app); diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to decode HCL file %s: %w", appdef.ErrMalformedDocument, filename, diags)
	}

	def, err := translateApplication(ctx, id, &app)
	if err != nil {
		return nil, fmt.Errorf("application '%s': %w", id, err)
	}
	logger.Debug("HCL decoding complete.", "application", id, "properties", len(app.Properties), "measurements", len(app.Measurements))
	return def, nil
}

// Decoder adapts Decode to the registry decoder contract.
type Decoder struct {
	// Filename labels diagnostics. Defaults to "definition.hcl".
	Filename string
}

// Decode implements registry.Decoder.
func (d Decoder) Decode(ctx context.Context, content []byte) (*appdef.Definition, error) {
	name := d.Filename
	if name == "" {
		name = "definition.hcl"
	}
	return Decode(ctx, name, content)
}
