package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/strokegraph/internal/config"
	"github.com/vk/strokegraph/internal/ctxlog"
	"github.com/vk/strokegraph/internal/fsutil"
	"github.com/vk/strokegraph/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths and merges all operation and
// node blocks into one model. Paths that do not exist are skipped.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := config.NewModel()
	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		fileModel, err := l.decodeFile(ctx, file, hclFile)
		if err != nil {
			return nil, nil, err
		}
		model.Merge(fileModel)
	}

	logger.Debug("HCL loading complete.", "operations", len(model.Operations), "nodes", len(model.Pipeline.Nodes))
	return model, NewConverter(), nil
}

// LoadSource parses a single in-memory HCL document.
func (l *Loader) LoadSource(ctx context.Context, filename string, src []byte) (*config.Model, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL source %s: %w", filename, diags)
	}
	return l.decodeFile(ctx, filename, hclFile)
}

func (l *Loader) decodeFile(ctx context.Context, filename string, file *hcl.File) (*config.Model, error) {
	var root schema.File
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	model := config.NewModel()
	for _, op := range root.Operations {
		def, err := translateOperationDefinition(ctx, op)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		if _, dup := model.Operations[def.Name]; dup {
			return nil, fmt.Errorf("%s: operation %q declared twice", filename, def.Name)
		}
		model.Operations[def.Name] = def
	}
	for _, n := range root.Nodes {
		decl, err := l.translateNode(n)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		model.Pipeline.Nodes = append(model.Pipeline.Nodes, decl)
	}
	return model, nil
}

// findAllHCLFiles walks all given paths and returns a flat, de-duplicated
// list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			found, err := fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				add(f)
			}
		} else if filepath.Ext(path) == ".hcl" {
			add(path)
		}
	}
	return allFiles, nil
}
