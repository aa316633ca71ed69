package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/strokegraph/internal/color"
	"github.com/vk/strokegraph/internal/graph"
	"github.com/vk/strokegraph/internal/node"
	"github.com/vk/strokegraph/internal/nodeid"
)

// ToDOT converts a snapshot to Graphviz DOT. Children of a meta node are
// drawn inside a cluster named after it. Proxies and edges into secondary
// pads are dashed, and edges on an active path are bold.
func ToDOT(s *graph.Snapshot) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	byParent := make(map[nodeid.Handle][]*node.Node)
	for _, n := range s.Nodes {
		byParent[n.Parent] = append(byParent[n.Parent], n)
	}
	writeNodes(&buf, s, byParent, nodeid.Handle{}, "  ")

	active := activeEdges(s)
	buf.WriteString("\n")
	for _, c := range s.Connections {
		attrs := []string{fmt.Sprintf("label=%q", c.SinkPad)}
		if c.SinkPad != "input" {
			attrs = append(attrs, "style=dashed")
		}
		if active[[2]nodeid.Handle{c.Source, c.Sink}] && c.SinkPad == "input" {
			attrs = append(attrs, "penwidth=2")
		}
		from := endpoint(s, c.Source, node.OutputProxy, c.SourcePad)
		to := endpoint(s, c.Sink, node.InputProxy, c.SinkPad)
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", from, to, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNodes(buf *bytes.Buffer, s *graph.Snapshot, byParent map[nodeid.Handle][]*node.Node, parent nodeid.Handle, indent string) {
	for _, n := range byParent[parent] {
		children := byParent[n.Handle]
		if len(children) == 0 {
			fmt.Fprintf(buf, "%s%q [%s];\n", indent, n.ID(), strings.Join(nodeAttrs(n), ", "))
			continue
		}
		fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, "cluster_"+n.ID())
		fmt.Fprintf(buf, "%s  label=%q;\n", indent, n.ID()+" ("+n.Operation+")")
		fmt.Fprintf(buf, "%s  style=\"rounded,dashed\";\n", indent)
		writeNodes(buf, s, byParent, n.Handle, indent+"  ")
		fmt.Fprintf(buf, "%s}\n", indent)
	}
}

// endpoint resolves an edge end on a meta node to the proxy standing for
// that pad, since meta nodes are drawn as clusters.
func endpoint(s *graph.Snapshot, h nodeid.Handle, role node.ProxyRole, pad string) string {
	for _, n := range s.Nodes {
		if n.Parent == h && n.Proxy == role && n.ProxyPad == pad {
			return n.ID()
		}
	}
	return nameOf(s, h)
}

func nodeAttrs(n *node.Node) []string {
	attrs := []string{fmt.Sprintf("label=%q", n.Address.Base()+"\n"+kindOf(n))}
	if n.Proxy != node.NotProxy {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	if fill, ok := colorFill(n); ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
	}
	return attrs
}

// colorFill paints solid color sources with the color they produce.
func colorFill(n *node.Node) (string, bool) {
	if n.Operation != "gegl:color" {
		return "", false
	}
	v, ok := n.Properties["value"]
	if !ok || v.IsNull() || !v.IsKnown() || v.Type() != cty.String {
		return "", false
	}
	c, err := color.Parse(v.AsString())
	if err != nil {
		return "", false
	}
	return c.Hex(), true
}

func activeEdges(s *graph.Snapshot) map[[2]nodeid.Handle]bool {
	edges := make(map[[2]nodeid.Handle]bool)
	for _, path := range s.ActivePaths {
		for i := 0; i+1 < len(path); i++ {
			edges[[2]nodeid.Handle{path[i], path[i+1]}] = true
		}
	}
	return edges
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
