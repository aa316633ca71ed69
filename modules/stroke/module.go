package stroke

import (
	_ "embed"

	"github.com/vk/strokegraph/internal/graph"
	"github.com/vk/strokegraph/internal/registry"
)

//go:embed manifest.hcl
var manifest []byte

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the gegl:stroke manifest and its attach handler.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterManifest("stroke/manifest.hcl", manifest)
	r.RegisterMeta("AttachStroke", func() graph.MetaOperation { return New() })
}
