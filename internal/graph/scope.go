package graph

import (
	"context"

	"github.com/vk/strokegraph/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

// scope is the Host handed to one meta operation instance.
type scope struct {
	manager *Manager
	meta    nodeid.Handle
}

var _ Host = (*scope)(nil)

func (s *scope) Node() nodeid.Handle { return s.meta }

func (s *scope) InputProxy(pad string) (nodeid.Handle, error) {
	return s.manager.InputProxy(context.Background(), s.meta, pad)
}

func (s *scope) OutputProxy(pad string) (nodeid.Handle, error) {
	return s.manager.OutputProxy(context.Background(), s.meta, pad)
}

func (s *scope) NewChild(ctx context.Context, name, operation string, props map[string]cty.Value) (nodeid.Handle, error) {
	return s.manager.NewChild(ctx, s.meta, name, operation, props)
}

func (s *scope) Link(ctx context.Context, handles ...nodeid.Handle) error {
	return s.manager.LinkMany(ctx, handles...)
}

func (s *scope) ConnectFrom(ctx context.Context, sink nodeid.Handle, sinkPad string, source nodeid.Handle, sourcePad string) error {
	return s.manager.Connect(ctx, source, sourcePad, sink, sinkPad)
}

func (s *scope) Redirect(ctx context.Context, name string, target nodeid.Handle, targetName string) error {
	return s.manager.Redirect(ctx, s.meta, name, target, targetName)
}

func (s *scope) Property(ctx context.Context, name string) (cty.Value, error) {
	return s.manager.Property(ctx, s.meta, name)
}
