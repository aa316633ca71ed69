// Package stroke implements gegl:stroke, a meta operation that outlines the
// opaque parts of an image. The alpha silhouette is grown (or shrunk),
// filled with a solid color, blurred and composited under the original.
//
// The operation builds its subgraph once on attach:
//
//	input ─┬─▶ [grow] ─▶ darken ─▶ blur ─▶ opacity ─▶ translate ─▶ over ─▶ output
//	       │              ▲ aux                                    ▲ aux
//	       │            color                                      │
//	       └───────────────────────────────────────────────────────┘
//
// Only the edge entering darken's input changes afterwards. The grow node
// is skipped whenever grow_radius is at or below growThreshold.
package stroke

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vk/strokegraph/internal/ctxlog"
	"github.com/vk/strokegraph/internal/graph"
	"github.com/vk/strokegraph/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

// growThreshold keeps float noise around zero from toggling the topology.
const growThreshold = 0.0001

// wiring is the state of the variable link into the darken node.
type wiring int

const (
	unattached wiring = iota
	withoutGrow
	withGrow
)

func (w wiring) String() string {
	switch w {
	case withGrow:
		return "WITH_GROW"
	case withoutGrow:
		return "WITHOUT_GROW"
	default:
		return "UNATTACHED"
	}
}

// wiringFor selects the topology for a grow radius.
func wiringFor(growRadius float64) wiring {
	if growRadius > growThreshold {
		return withGrow
	}
	return withoutGrow
}

// subgraph holds the children that take part in re-wiring. The handles
// are references only; the graph owns the nodes.
type subgraph struct {
	input  nodeid.Handle
	grow   nodeid.Handle
	darken nodeid.Handle
}

// Operation is one gegl:stroke instance.
type Operation struct {
	id     uuid.UUID
	host   graph.Host
	state  *subgraph
	wiring wiring
}

// New creates an unattached stroke instance.
func New() *Operation {
	return &Operation{id: uuid.New()}
}

var _ graph.MetaOperation = (*Operation)(nil)

func (o *Operation) logger(ctx context.Context) context.Context {
	return ctxlog.With(ctx, "instance", o.id.String())
}

// Attach creates the children, links the fixed part of the chain, installs
// the property redirections and resolves the variable link.
func (o *Operation) Attach(ctx context.Context, host graph.Host) error {
	ctx = o.logger(ctx)
	logger := ctxlog.FromContext(ctx)

	input, err := host.InputProxy("input")
	if err != nil {
		return err
	}
	output, err := host.OutputProxy("output")
	if err != nil {
		return err
	}

	children := []struct {
		name      string
		operation string
		props     map[string]cty.Value
	}{
		{"over", "gegl:over", nil},
		{"translate", "gegl:translate", nil},
		{"opacity", "gegl:opacity", nil},
		{"blur", "gegl:gaussian-blur", map[string]cty.Value{
			"clip_extent":  cty.False,
			"abyss_policy": cty.StringVal("none"),
		}},
		{"grow", "gegl:median-blur", map[string]cty.Value{
			"percentile":       cty.NumberIntVal(100),
			"alpha_percentile": cty.NumberIntVal(100),
			"abyss_policy":     cty.StringVal("none"),
		}},
		{"darken", "gegl:src-in", nil},
		{"color", "gegl:color", map[string]cty.Value{
			"value": cty.StringVal("rgb(0.0,0.0,0.0)"),
		}},
	}
	nodes := make(map[string]nodeid.Handle, len(children))
	for _, c := range children {
		h, err := host.NewChild(ctx, c.name, c.operation, c.props)
		if err != nil {
			return fmt.Errorf("failed to create %s node: %w", c.name, err)
		}
		nodes[c.name] = h
	}

	o.host = host
	o.state = &subgraph{input: input, grow: nodes["grow"], darken: nodes["darken"]}

	if err := host.Link(ctx,
		nodes["grow"], nodes["darken"], nodes["blur"], nodes["opacity"],
		nodes["translate"], nodes["over"], output,
	); err != nil {
		return err
	}
	if err := host.ConnectFrom(ctx, nodes["over"], "aux", input, "output"); err != nil {
		return err
	}
	if err := host.ConnectFrom(ctx, nodes["darken"], "aux", nodes["color"], "output"); err != nil {
		return err
	}

	redirects := []struct {
		property string
		node     string
		target   string
	}{
		{"grow_shape", "grow", "neighborhood"},
		{"grow_radius", "grow", "radius"},
		{"radius", "blur", "std_dev_x"},
		{"radius", "blur", "std_dev_y"},
		{"color", "color", "value"},
		{"opacity", "opacity", "value"},
	}
	for _, r := range redirects {
		if err := host.Redirect(ctx, r.property, nodes[r.node], r.target); err != nil {
			return fmt.Errorf("failed to redirect %s: %w", r.property, err)
		}
	}

	logger.Debug("Stroke subgraph built.", "children", len(children))
	return o.Update(ctx)
}

// Update re-derives the link into darken from the current grow_radius.
// It does nothing before Attach.
func (o *Operation) Update(ctx context.Context) error {
	if o.state == nil {
		return nil
	}
	ctx = o.logger(ctx)

	v, err := o.host.Property(ctx, "grow_radius")
	if err != nil {
		return err
	}
	growRadius, ok := graph.Float(v)
	if !ok {
		return fmt.Errorf("grow_radius is not a number: %#v", v)
	}

	next := wiringFor(growRadius)
	s := o.state
	switch next {
	case withGrow:
		err = o.host.Link(ctx, s.input, s.grow, s.darken)
	default:
		err = o.host.Link(ctx, s.input, s.darken)
	}
	if err != nil {
		return err
	}

	if next != o.wiring {
		ctxlog.FromContext(ctx).Debug("Stroke wiring changed.", "from", o.wiring, "to", next, "grow_radius", growRadius)
	}
	o.wiring = next
	return nil
}

// Dispose releases the subgraph references. The children belong to the
// graph and are removed by it.
func (o *Operation) Dispose(ctx context.Context) {
	if o.state != nil {
		ctxlog.FromContext(o.logger(ctx)).Debug("Stroke disposed.")
	}
	o.state = nil
	o.host = nil
	o.wiring = unattached
}
