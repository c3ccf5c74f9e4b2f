// Package hcladapter is the HCL implementation of config.Loader. It reads
// variable and configuration blocks from .hcl files and translates them
// into the format-agnostic model. Binding invariants are not checked here;
// that is the binding store's job at registration time.
package hcladapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/varflow/internal/config"
	"github.com/vk/varflow/internal/ctxlog"
	"github.com/vk/varflow/internal/fsutil"
)

// Loader is the HCL-specific static-data loader.
type Loader struct{}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under the given paths and merges the
// declared variables and configurations into one model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFilesByExtension(".hcl", paths...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := &config.Model{}
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, varBlock := range root.Variables {
			decl, err := l.translateVariable(varBlock)
			if err != nil {
				return nil, fmt.Errorf("file %s: %w", file, err)
			}
			model.Variables = append(model.Variables, decl)
		}
		for _, cfgBlock := range root.Configurations {
			cfg, err := l.translateConfiguration(cfgBlock)
			if err != nil {
				return nil, fmt.Errorf("file %s: %w", file, err)
			}
			model.Configurations = append(model.Configurations, cfg)
		}
	}

	logger.Debug("HCL loading complete.",
		"variables", len(model.Variables), "configurations", len(model.Configurations))
	return model, nil
}
