package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/vk/strokegraph/internal/graph"
	"github.com/vk/strokegraph/internal/node"
	"github.com/vk/strokegraph/internal/nodeid"
	"github.com/vk/strokegraph/internal/topologystore"
	"github.com/zclconf/go-cty/cty"
)

// Text lists every node with its properties, every connection, and the
// active path of every meta node.
func Text(s *graph.Snapshot) string {
	var buf bytes.Buffer

	for _, n := range s.Nodes {
		fmt.Fprintf(&buf, "node %s (%s)\n", n.ID(), kindOf(n))
		if n.Definition == nil {
			continue
		}
		for _, name := range n.Definition.PropertyOrder {
			fmt.Fprintf(&buf, "  %s = %s\n", name, FormatValue(n.Properties[name]))
		}
	}

	if len(s.Connections) > 0 {
		buf.WriteString("\nconnections:\n")
		for _, c := range s.Connections {
			fmt.Fprintf(&buf, "  %s\n", connectionLabel(s, c))
		}
	}

	for _, n := range s.Nodes {
		path, ok := s.ActivePaths[n.Handle]
		if !ok {
			continue
		}
		fmt.Fprintf(&buf, "\nactive path %s: %s\n", n.ID(), strings.Join(pathNames(s, path), " -> "))
	}
	return buf.String()
}

// FormatValue prints a property value the way it would be written in a
// pipeline document.
func FormatValue(v cty.Value) string {
	switch {
	case v.IsNull():
		return "null"
	case !v.IsKnown():
		return "(unknown)"
	case v.Type() == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case v.Type() == cty.Bool:
		return strconv.FormatBool(v.True())
	case v.Type() == cty.String:
		return strconv.Quote(v.AsString())
	default:
		return v.GoString()
	}
}

func kindOf(n *node.Node) string {
	if n.Proxy != node.NotProxy {
		return n.Proxy.String()
	}
	return n.Operation
}

func nameOf(s *graph.Snapshot, h nodeid.Handle) string {
	if n, ok := s.Lookup(h); ok {
		return n.ID()
	}
	return h.String()
}

func connectionLabel(s *graph.Snapshot, c topologystore.Connection) string {
	return fmt.Sprintf("%s:%s -> %s:%s", nameOf(s, c.Source), c.SourcePad, nameOf(s, c.Sink), c.SinkPad)
}

// pathNames prints path members relative to the meta node that owns them.
func pathNames(s *graph.Snapshot, path []nodeid.Handle) []string {
	names := make([]string, 0, len(path))
	for _, h := range path {
		if n, ok := s.Lookup(h); ok {
			names = append(names, n.Address.Base())
			continue
		}
		names = append(names, h.String())
	}
	return names
}
