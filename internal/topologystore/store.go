// Package topologystore defines the interface for storing the structure of
// the host graph: the node table and the pad-to-pad connections between
// nodes.
//
// # Lifecycle and Usage
//
// The topology store is:
//  1. **Created** once per host graph
//  2. **Populated** as nodes are added (top-level nodes and the children a
//     meta operation creates on attach)
//  3. **Re-wired** whenever a meta operation reacts to a property change;
//     connecting an occupied input pad replaces its previous source
//  4. **Discarded** with the graph
//
// Nodes are addressed by nodeid.Handle. A handle that outlives its node is
// stale and every method rejects it.
package topologystore

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/strokegraph/internal/node"
	"github.com/vk/strokegraph/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

// ErrStaleHandle is returned when a handle does not refer to a live node.
var ErrStaleHandle = errors.New("stale or unknown node handle")

// Connection is a directed edge from an output pad to an input pad.
type Connection struct {
	Source    nodeid.Handle
	SourcePad string
	Sink      nodeid.Handle
	SinkPad   string
}

func (c Connection) String() string {
	return fmt.Sprintf("%s:%s -> %s:%s", c.Source, c.SourcePad, c.Sink, c.SinkPad)
}

// Store is the interface for managing the topology of the host graph.
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent use. Renderers and inspectors
// may read the topology while the owning goroutine re-wires it.
//
// # Typical Implementation
//
// See internal/inmemorytopology for the reference arena implementation.
type Store interface {
	// Insert adds a node, assigns its Handle and returns it.
	Insert(ctx context.Context, n *node.Node) (nodeid.Handle, error)

	// Remove deletes a node together with every connection touching it.
	// The handle becomes stale.
	Remove(ctx context.Context, h nodeid.Handle) error

	// Get returns a copy of the live node behind h. Mutating the copy does
	// not affect the store.
	Get(ctx context.Context, h nodeid.Handle) (*node.Node, bool)

	// SetProperty stores a property value on the node behind h.
	SetProperty(ctx context.Context, h nodeid.Handle, name string, v cty.Value) error

	// All returns copies of every live node ordered by handle index.
	All(ctx context.Context) []*node.Node

	// Connect sets the source of c.Sink's c.SinkPad. An input pad has at most
	// one source: an existing connection on the same pad is replaced.
	// Re-applying an identical connection is a no-op.
	Connect(ctx context.Context, c Connection) error

	// Disconnect clears the source of an input pad. It reports whether a
	// connection was removed.
	Disconnect(ctx context.Context, sink nodeid.Handle, pad string) (bool, error)

	// SourceOf returns the connection feeding an input pad, if any.
	SourceOf(ctx context.Context, sink nodeid.Handle, pad string) (Connection, bool)

	// ConsumersOf returns every connection whose source is h, in
	// deterministic order.
	ConsumersOf(ctx context.Context, h nodeid.Handle) []Connection

	// Connections returns all connections in deterministic order.
	Connections(ctx context.Context) []Connection
}
