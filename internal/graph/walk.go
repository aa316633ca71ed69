package graph

import (
	"context"
	"fmt"
	"slices"

	"github.com/vk/strokegraph/internal/node"
	"github.com/vk/strokegraph/internal/nodeid"
	"github.com/vk/strokegraph/internal/topologystore"
)

// primaryPad is the pad every chain is walked along.
const primaryPad = "input"

// ActivePath walks from meta's output proxy back along primary input pads
// until it reaches a node with nothing connected, and returns the visited
// nodes in data-flow order. A healthy meta node's path starts at its input
// proxy.
func (m *Manager) ActivePath(ctx context.Context, meta nodeid.Handle) ([]nodeid.Handle, error) {
	out, err := m.OutputProxy(ctx, meta, "output")
	if err != nil {
		return nil, err
	}

	var path []nodeid.Handle
	visited := make(map[nodeid.Handle]bool)
	for cur := out; ; {
		if visited[cur] {
			return nil, fmt.Errorf("cycle through %s while walking active path", cur)
		}
		visited[cur] = true
		path = append(path, cur)

		n, ok := m.topology.Get(ctx, cur)
		if !ok {
			return nil, fmt.Errorf("active path: %w", ErrStaleHandle)
		}
		// Stop at the meta node's own input proxy, whatever feeds it lies
		// outside the subgraph.
		if n.Proxy == node.InputProxy && n.Parent == meta {
			break
		}
		c, ok := m.topology.SourceOf(ctx, cur, primaryPad)
		if !ok {
			break
		}
		cur = c.Source
	}
	slices.Reverse(path)
	return path, nil
}

// Snapshot is a point-in-time copy of the graph.
type Snapshot struct {
	Nodes       []*node.Node
	Connections []topologystore.Connection
	// ActivePaths holds the active path of every meta node, keyed by handle.
	ActivePaths map[nodeid.Handle][]nodeid.Handle
}

// Lookup returns the snapshot copy of the node behind h.
func (s *Snapshot) Lookup(h nodeid.Handle) (*node.Node, bool) {
	for _, n := range s.Nodes {
		if n.Handle == h {
			return n, true
		}
	}
	return nil, false
}

// Snapshot captures the whole graph.
func (m *Manager) Snapshot(ctx context.Context) *Snapshot {
	s := &Snapshot{
		Nodes:       m.topology.All(ctx),
		Connections: m.topology.Connections(ctx),
		ActivePaths: make(map[nodeid.Handle][]nodeid.Handle),
	}
	for _, n := range s.Nodes {
		if !n.IsMeta() {
			continue
		}
		if path, err := m.ActivePath(ctx, n.Handle); err == nil {
			s.ActivePaths[n.Handle] = path
		}
	}
	return s
}
