package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/strokegraph/internal/config"
	"github.com/vk/strokegraph/internal/node"
	"github.com/vk/strokegraph/internal/nodeid"
	"github.com/vk/strokegraph/internal/topologystore"
	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrNodeNotFound is returned when an address resolves to no node.
	ErrNodeNotFound = errors.New("node not found")
	// ErrStaleHandle is returned for handles whose node has been removed.
	ErrStaleHandle = topologystore.ErrStaleHandle
	// ErrUnknownOperation is returned for operation names the catalog lacks.
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrUnknownPad is returned when connecting a pad the node does not have.
	ErrUnknownPad = errors.New("unknown pad")
	// ErrUnknownProperty is returned for properties the operation does not declare.
	ErrUnknownProperty = errors.New("unknown property")
	// ErrInvalidValue is returned for values of the wrong type or domain.
	ErrInvalidValue = errors.New("invalid property value")
	// ErrOutOfRange is returned for numbers outside the declared value range.
	ErrOutOfRange = errors.New("property value out of range")
	// ErrNotMeta is returned when a meta-only call targets a primitive node.
	ErrNotMeta = errors.New("node is not a meta operation")
)

// PropertyError describes a rejected property assignment.
type PropertyError struct {
	Node     string
	Property string
	Err      error
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("property %q of node %q: %v", e.Property, e.Node, e.Err)
}

func (e *PropertyError) Unwrap() error {
	return e.Err
}

// MetaOperation is implemented by operations that are built from a subgraph
// of child nodes. The host calls Attach once when the node is created,
// Update after every property change on the node, and Dispose before the
// node and its children are removed.
type MetaOperation interface {
	Attach(ctx context.Context, host Host) error
	Update(ctx context.Context) error
	Dispose(ctx context.Context)
}

// Host is the graph as seen by one meta operation instance.
type Host interface {
	// Node returns the handle of the meta node itself.
	Node() nodeid.Handle
	// InputProxy returns the proxy standing for the meta node's input pad.
	InputProxy(pad string) (nodeid.Handle, error)
	// OutputProxy returns the proxy standing for the meta node's output pad.
	OutputProxy(pad string) (nodeid.Handle, error)
	// NewChild creates a child node named name running operation, with the
	// given initial property values.
	NewChild(ctx context.Context, name, operation string, props map[string]cty.Value) (nodeid.Handle, error)
	// Link connects each node's "output" pad to the next node's "input" pad.
	Link(ctx context.Context, handles ...nodeid.Handle) error
	// ConnectFrom connects source's sourcePad to sink's sinkPad.
	ConnectFrom(ctx context.Context, sink nodeid.Handle, sinkPad string, source nodeid.Handle, sourcePad string) error
	// Redirect forwards every value of the meta node's property name to
	// target's property targetName, starting with the current one.
	Redirect(ctx context.Context, name string, target nodeid.Handle, targetName string) error
	// Property returns the current value of one of the meta node's properties.
	Property(ctx context.Context, name string) (cty.Value, error)
}

// Catalog resolves operation names to their manifests and meta operation
// implementations. The registry implements it.
type Catalog interface {
	Definition(operation string) (*config.OperationDefinition, bool)
	NewMeta(operation string) (MetaOperation, error)
}

// Graph is the interface of the host graph engine.
type Graph interface {
	// AddNode creates a top-level node. Meta operations are attached before
	// AddNode returns.
	AddNode(ctx context.Context, operation, name string) (nodeid.Handle, error)
	// NewChild creates a node owned by parent.
	NewChild(ctx context.Context, parent nodeid.Handle, name, operation string, props map[string]cty.Value) (nodeid.Handle, error)
	// RemoveNode disposes a meta operation, removes its children and then
	// the node itself.
	RemoveNode(ctx context.Context, h nodeid.Handle) error

	InputProxy(ctx context.Context, meta nodeid.Handle, pad string) (nodeid.Handle, error)
	OutputProxy(ctx context.Context, meta nodeid.Handle, pad string) (nodeid.Handle, error)

	// Connect sets the source of sink's sinkPad, replacing any earlier one.
	Connect(ctx context.Context, source nodeid.Handle, sourcePad string, sink nodeid.Handle, sinkPad string) error
	// Link connects a's "output" to b's "input".
	Link(ctx context.Context, a, b nodeid.Handle) error
	// LinkMany links consecutive pairs of handles.
	LinkMany(ctx context.Context, handles ...nodeid.Handle) error
	// Disconnect clears an input pad.
	Disconnect(ctx context.Context, sink nodeid.Handle, pad string) error

	// SetProperty validates and stores a value, forwards it along
	// redirections and notifies the owning meta operation.
	SetProperty(ctx context.Context, h nodeid.Handle, name string, v cty.Value) error
	Property(ctx context.Context, h nodeid.Handle, name string) (cty.Value, error)
	// Redirect installs a static property mapping from a meta node to a node.
	Redirect(ctx context.Context, meta nodeid.Handle, name string, target nodeid.Handle, targetName string) error

	Node(ctx context.Context, h nodeid.Handle) (*node.Node, bool)
	Lookup(addr *nodeid.Address) (nodeid.Handle, bool)
	Children(h nodeid.Handle) []nodeid.Handle
	SourceOf(ctx context.Context, sink nodeid.Handle, pad string) (topologystore.Connection, bool)
	// MetaOperation returns the operation instance attached to a meta node.
	MetaOperation(h nodeid.Handle) (MetaOperation, bool)

	// ActivePath walks from a meta node's output proxy back along primary
	// inputs and returns the chain in data-flow order.
	ActivePath(ctx context.Context, meta nodeid.Handle) ([]nodeid.Handle, error)
	// Snapshot captures the whole graph for rendering.
	Snapshot(ctx context.Context) *Snapshot
}
