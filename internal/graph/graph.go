package graph

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/vk/strokegraph/internal/config"
	"github.com/vk/strokegraph/internal/ctxlog"
	"github.com/vk/strokegraph/internal/node"
	"github.com/vk/strokegraph/internal/nodeid"
	"github.com/vk/strokegraph/internal/topologystore"
	"github.com/zclconf/go-cty/cty"
)

// proxyKey identifies one proxy of a meta node.
type proxyKey struct {
	meta nodeid.Handle
	role node.ProxyRole
	pad  string
}

// redirectTarget is one destination of a property redirection.
type redirectTarget struct {
	node     nodeid.Handle
	property string
}

// Manager is the reference Graph implementation. It composes a topology
// store with a catalog of operation definitions.
type Manager struct {
	topology topologystore.Store
	catalog  Catalog

	byAddress map[string]nodeid.Handle
	children  map[nodeid.Handle][]nodeid.Handle
	proxies   map[proxyKey]nodeid.Handle
	metas     map[nodeid.Handle]MetaOperation
	// redirects maps meta node -> property -> targets, in install order.
	redirects map[nodeid.Handle]map[string][]redirectTarget
}

// New creates a new graph manager.
func New(ts topologystore.Store, catalog Catalog) *Manager {
	return &Manager{
		topology:  ts,
		catalog:   catalog,
		byAddress: make(map[string]nodeid.Handle),
		children:  make(map[nodeid.Handle][]nodeid.Handle),
		proxies:   make(map[proxyKey]nodeid.Handle),
		metas:     make(map[nodeid.Handle]MetaOperation),
		redirects: make(map[nodeid.Handle]map[string][]redirectTarget),
	}
}

var _ Graph = (*Manager)(nil)

// AddNode creates a top-level node and, for meta operations, attaches them.
func (m *Manager) AddNode(ctx context.Context, operation, name string) (nodeid.Handle, error) {
	addr, err := nodeid.Parse(name)
	if err != nil {
		return nodeid.Handle{}, fmt.Errorf("invalid node name %q: %w", name, err)
	}
	def, ok := m.catalog.Definition(operation)
	if !ok {
		return nodeid.Handle{}, fmt.Errorf("%w: %q", ErrUnknownOperation, operation)
	}

	h, err := m.insert(ctx, node.CreateNode(addr, def, nodeid.Handle{}))
	if err != nil {
		return nodeid.Handle{}, err
	}
	ctxlog.FromContext(ctx).Debug("Node added.", "node", addr.String(), "operation", operation, "handle", h.String())

	if def.IsMeta() {
		if err := m.attach(ctx, h, addr, def); err != nil {
			if rmErr := m.RemoveNode(ctx, h); rmErr != nil {
				err = errors.Join(err, rmErr)
			}
			return nodeid.Handle{}, fmt.Errorf("failed to attach %q: %w", addr.String(), err)
		}
	}
	return h, nil
}

// attach creates the meta node's proxies, instantiates its operation and
// lets it build its subgraph.
func (m *Manager) attach(ctx context.Context, h nodeid.Handle, addr *nodeid.Address, def *config.OperationDefinition) error {
	for _, pad := range def.Inputs {
		if err := m.addProxy(ctx, h, addr, node.InputProxy, pad); err != nil {
			return err
		}
	}
	for _, pad := range def.Outputs {
		if err := m.addProxy(ctx, h, addr, node.OutputProxy, pad); err != nil {
			return err
		}
	}

	op, err := m.catalog.NewMeta(def.Name)
	if err != nil {
		return err
	}
	m.metas[h] = op

	ctx = ctxlog.With(ctx, "meta", addr.String())
	ctxlog.FromContext(ctx).Debug("Attaching meta operation.", "operation", def.Name)
	return op.Attach(ctx, &scope{manager: m, meta: h})
}

func (m *Manager) addProxy(ctx context.Context, meta nodeid.Handle, metaAddr *nodeid.Address, role node.ProxyRole, pad string) error {
	key := proxyKey{meta: meta, role: role, pad: pad}
	if _, exists := m.proxies[key]; exists {
		return fmt.Errorf("duplicate %s for pad %q", role, pad)
	}
	p, err := m.insert(ctx, node.CreateProxy(metaAddr.Child(pad), role, pad, meta))
	if err != nil {
		return err
	}
	m.proxies[key] = p
	m.children[meta] = append(m.children[meta], p)
	return nil
}

// insert stores n and indexes it by address.
func (m *Manager) insert(ctx context.Context, n *node.Node) (nodeid.Handle, error) {
	key := n.Address.String()
	if _, exists := m.byAddress[key]; exists {
		return nodeid.Handle{}, fmt.Errorf("node %q already exists", key)
	}
	h, err := m.topology.Insert(ctx, n)
	if err != nil {
		return nodeid.Handle{}, err
	}
	m.byAddress[key] = h
	return h, nil
}

// NewChild creates a node owned by parent and applies props to it.
func (m *Manager) NewChild(ctx context.Context, parent nodeid.Handle, name, operation string, props map[string]cty.Value) (nodeid.Handle, error) {
	p, ok := m.topology.Get(ctx, parent)
	if !ok {
		return nodeid.Handle{}, fmt.Errorf("parent %s: %w", parent, ErrStaleHandle)
	}
	def, ok := m.catalog.Definition(operation)
	if !ok {
		return nodeid.Handle{}, fmt.Errorf("%w: %q", ErrUnknownOperation, operation)
	}

	child := node.CreateNode(p.Address.Child(name), def, parent)
	for prop, v := range props {
		decl, ok := def.Properties[prop]
		if !ok {
			return nodeid.Handle{}, &PropertyError{Node: child.ID(), Property: prop, Err: ErrUnknownProperty}
		}
		valid, err := validateValue(decl, v)
		if err != nil {
			return nodeid.Handle{}, &PropertyError{Node: child.ID(), Property: prop, Err: err}
		}
		child.Properties[prop] = valid
	}

	h, err := m.insert(ctx, child)
	if err != nil {
		return nodeid.Handle{}, err
	}
	m.children[parent] = append(m.children[parent], h)
	ctxlog.FromContext(ctx).Debug("Child node created.", "node", child.ID(), "operation", operation)

	if def.IsMeta() {
		if err := m.attach(ctx, h, child.Address, def); err != nil {
			return nodeid.Handle{}, fmt.Errorf("failed to attach %q: %w", child.ID(), err)
		}
	}
	return h, nil
}

// RemoveNode tears a node down. Meta operations are disposed before their
// children are removed, so Dispose never sees a half-removed subgraph.
func (m *Manager) RemoveNode(ctx context.Context, h nodeid.Handle) error {
	n, ok := m.topology.Get(ctx, h)
	if !ok {
		return fmt.Errorf("remove %s: %w", h, ErrStaleHandle)
	}

	if op, isMeta := m.metas[h]; isMeta {
		op.Dispose(ctx)
		delete(m.metas, h)
	}

	for _, child := range slices.Clone(m.children[h]) {
		if err := m.RemoveNode(ctx, child); err != nil {
			return err
		}
	}
	delete(m.children, h)
	delete(m.redirects, h)
	for key, p := range m.proxies {
		if key.meta == h || p == h {
			delete(m.proxies, key)
		}
	}
	for _, byProp := range m.redirects {
		for prop, targets := range byProp {
			kept := targets[:0]
			for _, t := range targets {
				if t.node != h {
					kept = append(kept, t)
				}
			}
			byProp[prop] = kept
		}
	}
	if !n.Parent.IsZero() {
		m.children[n.Parent] = slices.DeleteFunc(m.children[n.Parent], func(c nodeid.Handle) bool { return c == h })
	}

	delete(m.byAddress, n.ID())
	if err := m.topology.Remove(ctx, h); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Node removed.", "node", n.ID())
	return nil
}

// InputProxy returns the proxy node for one of meta's input pads.
func (m *Manager) InputProxy(ctx context.Context, meta nodeid.Handle, pad string) (nodeid.Handle, error) {
	return m.proxy(ctx, meta, node.InputProxy, pad)
}

// OutputProxy returns the proxy node for one of meta's output pads.
func (m *Manager) OutputProxy(ctx context.Context, meta nodeid.Handle, pad string) (nodeid.Handle, error) {
	return m.proxy(ctx, meta, node.OutputProxy, pad)
}

func (m *Manager) proxy(ctx context.Context, meta nodeid.Handle, role node.ProxyRole, pad string) (nodeid.Handle, error) {
	n, ok := m.topology.Get(ctx, meta)
	if !ok {
		return nodeid.Handle{}, fmt.Errorf("meta %s: %w", meta, ErrStaleHandle)
	}
	if !n.IsMeta() {
		return nodeid.Handle{}, fmt.Errorf("%q: %w", n.ID(), ErrNotMeta)
	}
	h, ok := m.proxies[proxyKey{meta: meta, role: role, pad: pad}]
	if !ok {
		return nodeid.Handle{}, fmt.Errorf("%q has no %s for pad %q: %w", n.ID(), role, pad, ErrUnknownPad)
	}
	return h, nil
}

// Connect sets the source of sink's sinkPad.
func (m *Manager) Connect(ctx context.Context, source nodeid.Handle, sourcePad string, sink nodeid.Handle, sinkPad string) error {
	src, ok := m.topology.Get(ctx, source)
	if !ok {
		return fmt.Errorf("connection source %s: %w", source, ErrStaleHandle)
	}
	dst, ok := m.topology.Get(ctx, sink)
	if !ok {
		return fmt.Errorf("connection sink %s: %w", sink, ErrStaleHandle)
	}
	if !src.HasOutput(sourcePad) {
		return fmt.Errorf("%q has no output pad %q: %w", src.ID(), sourcePad, ErrUnknownPad)
	}
	if !dst.HasInput(sinkPad) {
		return fmt.Errorf("%q has no input pad %q: %w", dst.ID(), sinkPad, ErrUnknownPad)
	}

	c := topologystore.Connection{Source: source, SourcePad: sourcePad, Sink: sink, SinkPad: sinkPad}
	if err := m.topology.Connect(ctx, c); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Pads connected.", "from", src.ID()+":"+sourcePad, "to", dst.ID()+":"+sinkPad)
	return nil
}

// Link connects a's output to b's input.
func (m *Manager) Link(ctx context.Context, a, b nodeid.Handle) error {
	return m.Connect(ctx, a, "output", b, "input")
}

// LinkMany links each handle to the next one.
func (m *Manager) LinkMany(ctx context.Context, handles ...nodeid.Handle) error {
	for i := 0; i+1 < len(handles); i++ {
		if err := m.Link(ctx, handles[i], handles[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// Disconnect clears sink's pad.
func (m *Manager) Disconnect(ctx context.Context, sink nodeid.Handle, pad string) error {
	_, err := m.topology.Disconnect(ctx, sink, pad)
	return err
}

// SetProperty validates v against the declaration and assigns it.
func (m *Manager) SetProperty(ctx context.Context, h nodeid.Handle, name string, v cty.Value) error {
	n, ok := m.topology.Get(ctx, h)
	if !ok {
		return fmt.Errorf("set %q on %s: %w", name, h, ErrStaleHandle)
	}
	decl, err := declaration(n, name)
	if err != nil {
		return err
	}
	valid, err := validateValue(decl, v)
	if err != nil {
		return &PropertyError{Node: n.ID(), Property: name, Err: err}
	}
	return m.assign(ctx, n, name, valid)
}

// assign stores an already-canonical value, forwards it and notifies.
func (m *Manager) assign(ctx context.Context, n *node.Node, name string, v cty.Value) error {
	logger := ctxlog.FromContext(ctx)
	if err := m.topology.SetProperty(ctx, n.Handle, name, v); err != nil {
		return err
	}
	logger.Debug("Property set.", "node", n.ID(), "property", name, "value", v.GoString())

	for _, t := range m.redirects[n.Handle][name] {
		if err := m.forward(ctx, n, name, t, v); err != nil {
			return err
		}
	}

	if op, isMeta := m.metas[n.Handle]; isMeta {
		if err := op.Update(ctxlog.With(ctx, "meta", n.ID())); err != nil {
			return fmt.Errorf("update of %q after %q changed: %w", n.ID(), name, err)
		}
	}
	return nil
}

// forward pushes v along one redirection, coercing it to the target.
func (m *Manager) forward(ctx context.Context, from *node.Node, name string, t redirectTarget, v cty.Value) error {
	target, ok := m.topology.Get(ctx, t.node)
	if !ok {
		return fmt.Errorf("redirect target of %q.%s: %w", from.ID(), name, ErrStaleHandle)
	}
	decl, err := declaration(target, t.property)
	if err != nil {
		return err
	}
	coerced, clamped, err := coerceValue(decl, v)
	if err != nil {
		return &PropertyError{Node: target.ID(), Property: t.property, Err: err}
	}
	if clamped {
		ctxlog.FromContext(ctx).Warn("Redirected value clamped to target range.",
			"from", from.ID()+"."+name,
			"to", target.ID()+"."+t.property,
			"value", v.GoString(),
			"clamped", coerced.GoString(),
		)
	}
	return m.assign(ctx, target, t.property, coerced)
}

func declaration(n *node.Node, name string) (*config.PropertyDefinition, error) {
	if n.Definition == nil {
		return nil, &PropertyError{Node: n.ID(), Property: name, Err: ErrUnknownProperty}
	}
	decl, ok := n.Definition.Properties[name]
	if !ok {
		return nil, &PropertyError{Node: n.ID(), Property: name, Err: ErrUnknownProperty}
	}
	return decl, nil
}

// Property returns the current value of a property.
func (m *Manager) Property(ctx context.Context, h nodeid.Handle, name string) (cty.Value, error) {
	n, ok := m.topology.Get(ctx, h)
	if !ok {
		return cty.NilVal, fmt.Errorf("get %q on %s: %w", name, h, ErrStaleHandle)
	}
	if _, err := declaration(n, name); err != nil {
		return cty.NilVal, err
	}
	return n.Properties[name], nil
}

// Redirect installs a mapping from meta's property name to target's
// property targetName and forwards the current value immediately.
func (m *Manager) Redirect(ctx context.Context, meta nodeid.Handle, name string, target nodeid.Handle, targetName string) error {
	src, ok := m.topology.Get(ctx, meta)
	if !ok {
		return fmt.Errorf("redirect source %s: %w", meta, ErrStaleHandle)
	}
	if !src.IsMeta() {
		return fmt.Errorf("%q: %w", src.ID(), ErrNotMeta)
	}
	if _, err := declaration(src, name); err != nil {
		return err
	}
	dst, ok := m.topology.Get(ctx, target)
	if !ok {
		return fmt.Errorf("redirect target %s: %w", target, ErrStaleHandle)
	}
	if _, err := declaration(dst, targetName); err != nil {
		return err
	}

	t := redirectTarget{node: target, property: targetName}
	byProp := m.redirects[meta]
	if byProp == nil {
		byProp = make(map[string][]redirectTarget)
		m.redirects[meta] = byProp
	}
	for _, existing := range byProp[name] {
		if existing == t {
			return nil
		}
	}
	byProp[name] = append(byProp[name], t)
	ctxlog.FromContext(ctx).Debug("Redirect installed.", "from", src.ID()+"."+name, "to", dst.ID()+"."+targetName)

	current := src.Properties[name]
	if current.IsNull() {
		return nil
	}
	return m.forward(ctx, src, name, t, current)
}

// Node returns a copy of the node behind h.
func (m *Manager) Node(ctx context.Context, h nodeid.Handle) (*node.Node, bool) {
	return m.topology.Get(ctx, h)
}

// Lookup resolves an address to a handle.
func (m *Manager) Lookup(addr *nodeid.Address) (nodeid.Handle, bool) {
	h, ok := m.byAddress[addr.String()]
	return h, ok
}

// Children returns the nodes owned by h, proxies first, in creation order.
func (m *Manager) Children(h nodeid.Handle) []nodeid.Handle {
	return append([]nodeid.Handle(nil), m.children[h]...)
}

// SourceOf returns the connection feeding sink's pad.
func (m *Manager) SourceOf(ctx context.Context, sink nodeid.Handle, pad string) (topologystore.Connection, bool) {
	return m.topology.SourceOf(ctx, sink, pad)
}

// MetaOperation returns the operation instance attached to h.
func (m *Manager) MetaOperation(h nodeid.Handle) (MetaOperation, bool) {
	op, ok := m.metas[h]
	return op, ok
}
