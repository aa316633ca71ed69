package nodeid

import "fmt"

// Handle is a non-owning reference to a node slot in the host graph's arena.
// The zero Handle refers to nothing. A Handle whose Generation no longer
// matches its slot points at a node that has since been removed.
type Handle struct {
	Index      uint32
	Generation uint32
}

// IsZero reports whether h refers to no node at all.
func (h Handle) IsZero() bool {
	return h.Generation == 0
}

// String renders the handle as `#index.generation`.
func (h Handle) String() string {
	if h.IsZero() {
		return "#nil"
	}
	return fmt.Sprintf("#%d.%d", h.Index, h.Generation)
}
