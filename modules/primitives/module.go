// Package primitives declares the single-purpose operations that meta
// operations compose: compositors, transforms, blurs and a color source.
package primitives

import (
	_ "embed"

	"github.com/vk/strokegraph/internal/registry"
)

//go:embed manifest.hcl
var manifest []byte

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the primitive operation manifest. Primitives have no
// Go lifecycle handlers.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterManifest("primitives/manifest.hcl", manifest)
}
