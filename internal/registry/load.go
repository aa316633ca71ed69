package registry

import (
	"context"
	"fmt"

	"github.com/vk/strokegraph/internal/config"
	"github.com/vk/strokegraph/internal/ctxlog"
)

// LoadManifests parses every registered embedded manifest and then any
// additional manifests found under modulesPath, and populates the
// definition registry. On-disk definitions override embedded ones.
func (r *Registry) LoadManifests(ctx context.Context, loader config.Loader, modulesPath string) error {
	logger := ctxlog.FromContext(ctx)

	for _, m := range r.Manifests {
		model, err := loader.LoadSource(ctx, m.Filename, m.Source)
		if err != nil {
			return fmt.Errorf("failed to load embedded manifest %s: %w", m.Filename, err)
		}
		r.PopulateDefinitionsFromModel(model)
	}
	logger.Debug("Embedded manifests loaded.", "manifests", len(r.Manifests), "operations", len(r.DefinitionRegistry))

	if modulesPath == "" {
		return nil
	}
	model, _, err := loader.Load(ctx, modulesPath)
	if err != nil {
		return fmt.Errorf("failed to load manifests from %s: %w", modulesPath, err)
	}
	if len(model.Operations) == 0 {
		logger.Warn("No operation manifests found in path.", "path", modulesPath)
	}
	r.PopulateDefinitionsFromModel(model)

	logger.Info("Registry loaded successfully.", "operation_definitions_loaded", len(r.DefinitionRegistry))
	return nil
}
