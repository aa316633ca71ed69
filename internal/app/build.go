package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vk/strokegraph/internal/ctxlog"
	"github.com/vk/strokegraph/internal/graph"
	"github.com/vk/strokegraph/internal/inmemorytopology"
	"github.com/vk/strokegraph/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

// Build creates the host graph described by the loaded pipeline. Nodes are
// created in document order, their arguments applied in manifest order, and
// `input` references linked once every node exists.
func (a *App) Build(ctx context.Context) (*graph.Manager, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := ctxlog.FromContext(ctx)
	g := graph.New(inmemorytopology.New(), a.registry)

	handles := make([]nodeid.Handle, len(a.config.Pipeline.Nodes))
	for i, decl := range a.config.Pipeline.Nodes {
		def, ok := a.registry.Definition(decl.Operation)
		if !ok {
			return nil, fmt.Errorf("node %q: %w: %q", decl.Name, graph.ErrUnknownOperation, decl.Operation)
		}
		h, err := g.AddNode(ctx, decl.Operation, decl.Name)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", decl.Name, err)
		}
		handles[i] = h

		values, err := a.converter.DecodeArguments(ctx, decl.Arguments, def.Properties, nil)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", decl.Name, err)
		}
		for _, name := range def.PropertyOrder {
			v, ok := values[name]
			if !ok {
				continue
			}
			if err := g.SetProperty(ctx, h, name, v); err != nil {
				return nil, err
			}
		}
		logger.Debug("Pipeline node created.", "node", decl.Name, "operation", decl.Operation, "arguments", len(values))
	}

	for i, decl := range a.config.Pipeline.Nodes {
		if decl.Input == "" {
			continue
		}
		addr, err := nodeid.Parse(decl.Input)
		if err != nil {
			return nil, fmt.Errorf("node %q: invalid input reference: %w", decl.Name, err)
		}
		src, ok := g.Lookup(addr)
		if !ok {
			return nil, fmt.Errorf("node %q: input %q: %w", decl.Name, decl.Input, graph.ErrNodeNotFound)
		}
		if err := g.Link(ctx, src, handles[i]); err != nil {
			return nil, fmt.Errorf("node %q: %w", decl.Name, err)
		}
	}

	logger.Info("Graph built.", "pipeline_nodes", len(a.config.Pipeline.Nodes))
	return g, nil
}

// ApplyOverride sets one property on an existing node.
func (a *App) ApplyOverride(ctx context.Context, g graph.Graph, o Override) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	addr, err := nodeid.Parse(o.Node)
	if err != nil {
		return err
	}
	h, ok := g.Lookup(addr)
	if !ok {
		return fmt.Errorf("override %s.%s: %w: %q", o.Node, o.Property, graph.ErrNodeNotFound, o.Node)
	}
	v, err := a.overrideValue(o.Value)
	if err != nil {
		return err
	}
	if err := g.SetProperty(ctx, h, o.Property, v); err != nil {
		return fmt.Errorf("override %s.%s: %w", o.Node, o.Property, err)
	}
	ctxlog.FromContext(ctx).Info("Override applied.", "node", o.Node, "property", o.Property, "value", o.Value)
	return nil
}

// overrideValue interprets a command-line value. Numbers and booleans keep
// their type; everything else is a string, which the graph converts to the
// property's kind.
func (a *App) overrideValue(raw string) (cty.Value, error) {
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return a.converter.ToCtyValue(f)
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return a.converter.ToCtyValue(b)
	}
	return a.converter.ToCtyValue(raw)
}
