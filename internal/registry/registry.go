package registry

import (
	"github.com/vk/strokegraph/internal/config"
	"github.com/vk/strokegraph/internal/graph"
)

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Manifest is an HCL operation manifest embedded in a module.
type Manifest struct {
	Filename string
	Source   []byte
}

// Registry holds all the registered handlers, definitions and manifests for
// a single application instance.
type Registry struct {
	HandlerRegistry    map[string]MetaFactory
	DefinitionRegistry map[string]*config.OperationDefinition
	Manifests          []Manifest
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		HandlerRegistry:    make(map[string]MetaFactory),
		DefinitionRegistry: make(map[string]*config.OperationDefinition),
	}
}

var _ graph.Catalog = (*Registry)(nil)

// PopulateDefinitionsFromModel copies the loaded operation definitions from
// the config model into the registry for easy access while building graphs.
func (r *Registry) PopulateDefinitionsFromModel(model *config.Model) {
	for key, val := range model.Operations {
		r.DefinitionRegistry[key] = val
	}
}
