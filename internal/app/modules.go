package app

import (
	"github.com/vk/strokegraph/internal/registry"
	"github.com/vk/strokegraph/modules/primitives"
	"github.com/vk/strokegraph/modules/stroke"
)

// coreModules is the definitive list of all modules that are compiled into
// the strokegraph binary.
var coreModules = []registry.Module{
	&primitives.Module{},
	&stroke.Module{},
}
