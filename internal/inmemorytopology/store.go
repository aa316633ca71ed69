package inmemorytopology

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/vk/strokegraph/internal/node"
	"github.com/vk/strokegraph/internal/nodeid"
	"github.com/vk/strokegraph/internal/topologystore"
	"github.com/zclconf/go-cty/cty"
)

// slot is one arena cell. generation is bumped on every insert and every
// removal, so a live slot never has generation 0.
type slot struct {
	node       *node.Node
	generation uint32
}

// padKey identifies an input pad.
type padKey struct {
	sink uint32
	pad  string
}

// Store implements the topologystore.Store interface using an arena and a
// mutex for thread-safe concurrent access.
type Store struct {
	mu    sync.RWMutex
	slots []slot
	free  []uint32
	// inputs maps an input pad to the connection feeding it.
	inputs map[padKey]topologystore.Connection
}

// New creates a new, empty in-memory topology store.
func New() *Store {
	return &Store{
		inputs: make(map[padKey]topologystore.Connection),
	}
}

var _ topologystore.Store = (*Store)(nil)

// Insert adds n to the arena, reusing a freed slot when one is available.
func (s *Store) Insert(ctx context.Context, n *node.Node) (nodeid.Handle, error) {
	if n == nil {
		return nodeid.Handle{}, fmt.Errorf("cannot insert nil node")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var index uint32
	if last := len(s.free) - 1; last >= 0 {
		index = s.free[last]
		s.free = s.free[:last]
	} else {
		index = uint32(len(s.slots))
		s.slots = append(s.slots, slot{})
	}

	sl := &s.slots[index]
	sl.generation++
	h := nodeid.Handle{Index: index, Generation: sl.generation}
	n.Handle = h
	sl.node = n
	return h, nil
}

// lookup returns the slot behind h; the caller must hold the lock.
func (s *Store) lookup(h nodeid.Handle) (*slot, error) {
	if h.IsZero() || int(h.Index) >= len(s.slots) {
		return nil, fmt.Errorf("%w: %s", topologystore.ErrStaleHandle, h)
	}
	sl := &s.slots[h.Index]
	if sl.node == nil || sl.generation != h.Generation {
		return nil, fmt.Errorf("%w: %s", topologystore.ErrStaleHandle, h)
	}
	return sl, nil
}

// Remove frees the node's slot and drops its connections.
func (s *Store) Remove(ctx context.Context, h nodeid.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, err := s.lookup(h)
	if err != nil {
		return err
	}

	for key, c := range s.inputs {
		if c.Sink == h || c.Source == h {
			delete(s.inputs, key)
		}
	}

	sl.node = nil
	// Bump now so the old handle is stale even before the slot is reused.
	sl.generation++
	s.free = append(s.free, h.Index)
	return nil
}

// Get returns a copy of the node behind h.
func (s *Store) Get(ctx context.Context, h nodeid.Handle) (*node.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sl, err := s.lookup(h)
	if err != nil {
		return nil, false
	}
	return sl.node.Clone(), true
}

// SetProperty stores v under name on the node behind h.
func (s *Store) SetProperty(ctx context.Context, h nodeid.Handle, name string, v cty.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, err := s.lookup(h)
	if err != nil {
		return err
	}
	sl.node.Properties[name] = v
	return nil
}

// All returns copies of all live nodes ordered by slot index.
func (s *Store) All(ctx context.Context) []*node.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]*node.Node, 0, len(s.slots)-len(s.free))
	for _, sl := range s.slots {
		if sl.node != nil {
			nodes = append(nodes, sl.node.Clone())
		}
	}
	return nodes
}

// Connect sets the source of an input pad, replacing any previous source.
func (s *Store) Connect(ctx context.Context, c topologystore.Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(c.Source); err != nil {
		return fmt.Errorf("connection source: %w", err)
	}
	if _, err := s.lookup(c.Sink); err != nil {
		return fmt.Errorf("connection sink: %w", err)
	}
	if c.Source == c.Sink {
		return fmt.Errorf("self-referential connection not allowed: %s", c)
	}

	s.inputs[padKey{sink: c.Sink.Index, pad: c.SinkPad}] = c
	return nil
}

// Disconnect clears the source of an input pad.
func (s *Store) Disconnect(ctx context.Context, sink nodeid.Handle, pad string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(sink); err != nil {
		return false, err
	}
	key := padKey{sink: sink.Index, pad: pad}
	if _, ok := s.inputs[key]; !ok {
		return false, nil
	}
	delete(s.inputs, key)
	return true, nil
}

// SourceOf returns the connection feeding sink's pad.
func (s *Store) SourceOf(ctx context.Context, sink nodeid.Handle, pad string) (topologystore.Connection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.lookup(sink); err != nil {
		return topologystore.Connection{}, false
	}
	c, ok := s.inputs[padKey{sink: sink.Index, pad: pad}]
	return c, ok
}

// ConsumersOf returns the connections whose source is h.
func (s *Store) ConsumersOf(ctx context.Context, h nodeid.Handle) []topologystore.Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []topologystore.Connection
	for _, c := range s.inputs {
		if c.Source == h {
			out = append(out, c)
		}
	}
	sortConnections(out)
	return out
}

// Connections returns every connection, sorted by sink then pad.
func (s *Store) Connections(ctx context.Context) []topologystore.Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]topologystore.Connection, 0, len(s.inputs))
	for _, c := range s.inputs {
		out = append(out, c)
	}
	sortConnections(out)
	return out
}

func sortConnections(cs []topologystore.Connection) {
	slices.SortFunc(cs, func(a, b topologystore.Connection) int {
		return cmp.Or(
			cmp.Compare(a.Sink.Index, b.Sink.Index),
			cmp.Compare(a.SinkPad, b.SinkPad),
		)
	})
}
