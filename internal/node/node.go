// Package node defines the vertex type stored in the host graph.
package node

import (
	"maps"

	"github.com/vk/strokegraph/internal/color"
	"github.com/vk/strokegraph/internal/config"
	"github.com/vk/strokegraph/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

// ProxyRole marks nodes that stand in for a meta node's external pads.
type ProxyRole int

const (
	// NotProxy is an ordinary processing node.
	NotProxy ProxyRole = iota
	// InputProxy forwards whatever is connected to the meta node's input pad.
	InputProxy
	// OutputProxy is what the meta node exposes on its output pad.
	OutputProxy
)

func (r ProxyRole) String() string {
	switch r {
	case InputProxy:
		return "input-proxy"
	case OutputProxy:
		return "output-proxy"
	default:
		return "node"
	}
}

// ProxyOperation is the operation name given to proxy nodes. Proxies have a
// single "input" and a single "output" pad and no properties.
const ProxyOperation = "proxy"

// Node is a single vertex in the host graph. Nodes are created and owned by
// the graph; operations only ever hold Handles to them.
type Node struct {
	// Handle is assigned by the topology store on insert.
	Handle nodeid.Handle
	// Address is the human-readable path, e.g. "outline.grow".
	Address *nodeid.Address
	// Operation is the registered operation name, e.g. "gegl:median-blur".
	Operation string
	// Definition is the operation's manifest; nil for proxies.
	Definition *config.OperationDefinition
	// Parent is the meta node this node belongs to, zero for top-level nodes.
	Parent nodeid.Handle

	Proxy ProxyRole
	// ProxyPad is the meta node pad a proxy stands for.
	ProxyPad string

	// Properties holds the current value of every declared property.
	Properties map[string]cty.Value
}

// ID returns the canonical string representation of the node's address.
func (n *Node) ID() string {
	return n.Address.String()
}

// IsMeta reports whether the node's operation is built from child nodes.
func (n *Node) IsMeta() bool {
	return n.Definition != nil && n.Definition.IsMeta()
}

// HasInput reports whether the node accepts a connection on pad.
func (n *Node) HasInput(pad string) bool {
	if n.Proxy != NotProxy {
		return pad == "input"
	}
	return n.Definition != nil && n.Definition.HasInput(pad)
}

// HasOutput reports whether the node can be connected from pad.
func (n *Node) HasOutput(pad string) bool {
	if n.Proxy != NotProxy {
		return pad == "output"
	}
	return n.Definition != nil && n.Definition.HasOutput(pad)
}

// Clone returns a copy whose property map can be modified independently.
func (n *Node) Clone() *Node {
	c := *n
	c.Properties = maps.Clone(n.Properties)
	return &c
}

// CreateNode builds a node for def, seeding its properties with the
// declared defaults. Color defaults are stored in canonical form so they
// read the same as values set later.
func CreateNode(addr *nodeid.Address, def *config.OperationDefinition, parent nodeid.Handle) *Node {
	n := &Node{
		Address:    addr,
		Operation:  def.Name,
		Definition: def,
		Parent:     parent,
		Properties: make(map[string]cty.Value, len(def.Properties)),
	}
	for name, prop := range def.Properties {
		if prop.Default != nil {
			n.Properties[name] = canonicalDefault(prop.Kind, *prop.Default)
		} else {
			n.Properties[name] = cty.NullVal(prop.Kind.CtyType())
		}
	}
	return n
}

func canonicalDefault(kind config.PropertyKind, v cty.Value) cty.Value {
	if kind != config.KindColor || v.IsNull() || !v.IsKnown() || v.Type() != cty.String {
		return v
	}
	c, err := color.Parse(v.AsString())
	if err != nil {
		return v
	}
	return cty.StringVal(c.String())
}

// CreateProxy builds a proxy node for the given meta node pad.
func CreateProxy(addr *nodeid.Address, role ProxyRole, pad string, parent nodeid.Handle) *Node {
	return &Node{
		Address:    addr,
		Operation:  ProxyOperation,
		Parent:     parent,
		Proxy:      role,
		ProxyPad:   pad,
		Properties: map[string]cty.Value{},
	}
}
