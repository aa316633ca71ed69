package registry

import (
	"fmt"
	"log/slog"

	"github.com/vk/strokegraph/internal/config"
	"github.com/vk/strokegraph/internal/graph"
)

// MetaFactory creates a fresh meta operation instance for one node.
type MetaFactory func() graph.MetaOperation

// RegisterMeta registers the Go constructor for a meta operation's attach
// handler.
func (r *Registry) RegisterMeta(name string, factory MetaFactory) {
	if _, exists := r.HandlerRegistry[name]; exists {
		panic(fmt.Sprintf("meta handler with name '%s' already registered", name))
	}
	slog.Debug("Registering meta handler.", "name", name)
	r.HandlerRegistry[name] = factory
}

// RegisterManifest records an embedded manifest to be loaded at startup.
func (r *Registry) RegisterManifest(filename string, src []byte) {
	for _, m := range r.Manifests {
		if m.Filename == filename {
			panic(fmt.Sprintf("manifest '%s' already registered", filename))
		}
	}
	slog.Debug("Registering manifest.", "file", filename)
	r.Manifests = append(r.Manifests, Manifest{Filename: filename, Source: src})
}

// Definition returns the definition of an operation.
func (r *Registry) Definition(operation string) (*config.OperationDefinition, bool) {
	def, ok := r.DefinitionRegistry[operation]
	return def, ok
}

// NewMeta instantiates the meta operation implementing operation.
func (r *Registry) NewMeta(operation string) (graph.MetaOperation, error) {
	def, ok := r.DefinitionRegistry[operation]
	if !ok {
		return nil, fmt.Errorf("%w: %q", graph.ErrUnknownOperation, operation)
	}
	if !def.IsMeta() {
		return nil, fmt.Errorf("operation %q: %w", operation, graph.ErrNotMeta)
	}
	factory, ok := r.HandlerRegistry[def.Lifecycle.Attach]
	if !ok {
		return nil, fmt.Errorf("operation %q: no meta handler registered for %q", operation, def.Lifecycle.Attach)
	}
	return factory(), nil
}
