package stroke

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/strokegraph/internal/config"
	"github.com/vk/strokegraph/internal/ctxlog"
	"github.com/vk/strokegraph/internal/graph"
	"github.com/vk/strokegraph/internal/hcl"
	"github.com/vk/strokegraph/internal/inmemorytopology"
	"github.com/vk/strokegraph/internal/nodeid"
	"github.com/vk/strokegraph/internal/registry"
	"github.com/vk/strokegraph/modules/primitives"
	"github.com/zclconf/go-cty/cty"
)

// newGraph builds a host graph with the primitives and stroke registered.
func newGraph(t *testing.T) (*graph.Manager, context.Context) {
	t.Helper()
	ctx := ctxlog.Discard()
	r := registry.New()
	(&primitives.Module{}).Register(r)
	(&Module{}).Register(r)
	require.NoError(t, r.LoadManifests(ctx, hcl.NewLoader(), ""))
	require.NoError(t, r.ValidateRegistry(ctx))
	return graph.New(inmemorytopology.New(), r), ctx
}

func addStroke(t *testing.T, g *graph.Manager, ctx context.Context) (nodeid.Handle, *Operation) {
	t.Helper()
	h, err := g.AddNode(ctx, "gegl:stroke", "outline")
	require.NoError(t, err)
	op, ok := g.MetaOperation(h)
	require.True(t, ok)
	return h, op.(*Operation)
}

func child(t *testing.T, g *graph.Manager, name string) nodeid.Handle {
	t.Helper()
	h, ok := g.Lookup(nodeid.MustParse("outline." + name))
	require.True(t, ok, "child %s", name)
	return h
}

func activePath(t *testing.T, g *graph.Manager, ctx context.Context, h nodeid.Handle) []string {
	t.Helper()
	path, err := g.ActivePath(ctx, h)
	require.NoError(t, err)
	names := make([]string, 0, len(path))
	for _, p := range path {
		n, ok := g.Node(ctx, p)
		require.True(t, ok)
		names = append(names, n.Address.Base())
	}
	return names
}

func sourceName(t *testing.T, g *graph.Manager, ctx context.Context, sink nodeid.Handle, pad string) string {
	t.Helper()
	c, ok := g.SourceOf(ctx, sink, pad)
	require.True(t, ok, "pad %s has no source", pad)
	n, ok := g.Node(ctx, c.Source)
	require.True(t, ok)
	return n.Address.Base()
}

func number(t *testing.T, g *graph.Manager, ctx context.Context, h nodeid.Handle, prop string) float64 {
	t.Helper()
	v, err := g.Property(ctx, h, prop)
	require.NoError(t, err)
	f, ok := graph.Float(v)
	require.True(t, ok)
	return f
}

var (
	withGrowPath    = []string{"input", "grow", "darken", "blur", "opacity", "translate", "over", "output"}
	withoutGrowPath = []string{"input", "darken", "blur", "opacity", "translate", "over", "output"}
)

func TestManifest_PropertyMetadata(t *testing.T) {
	ctx := ctxlog.Discard()
	r := registry.New()
	(&Module{}).Register(r)
	require.NoError(t, r.LoadManifests(ctx, hcl.NewLoader(), ""))

	def, ok := r.Definition("gegl:stroke")
	require.True(t, ok)

	assert.Equal(t, "Blur radius", def.Properties["radius"].Label)
	assert.Equal(t, "The shape to expand or contract the border in", def.Properties["grow_shape"].Description)

	grow := def.Properties["grow_radius"]
	assert.Equal(t, "Grow radius", grow.Label)
	assert.Equal(t, "The distance to expand the border before blurring; a negative value will contract the border instead", grow.Description)
	require.NotNil(t, grow.UISteps)
	assert.Equal(t, config.Steps{Small: 1, Big: 5}, *grow.UISteps)
	assert.Equal(t, 1.5, grow.UIGamma)
	assert.Equal(t, 0, grow.UIDigits)
}

func TestStroke_EndToEnd(t *testing.T) {
	// Arrange
	g, ctx := newGraph(t)
	h, op := addStroke(t, g, ctx)

	require.NoError(t, g.SetProperty(ctx, h, "radius", cty.NumberFloatVal(10)))
	require.NoError(t, g.SetProperty(ctx, h, "grow_shape", cty.StringVal("circle")))
	require.NoError(t, g.SetProperty(ctx, h, "grow_radius", cty.NumberFloatVal(12)))
	require.NoError(t, g.SetProperty(ctx, h, "color", cty.StringVal("rgba(0, 0, 0, 1)")))
	require.NoError(t, g.SetProperty(ctx, h, "opacity", cty.NumberFloatVal(1)))

	// Assert
	if diff := cmp.Diff(withGrowPath, activePath(t, g, ctx, h)); diff != "" {
		t.Errorf("active path mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "color", sourceName(t, g, ctx, child(t, g, "darken"), "aux"))
	assert.Equal(t, "input", sourceName(t, g, ctx, child(t, g, "over"), "aux"))
	assert.Equal(t, withGrow, op.wiring)

	// Act
	require.NoError(t, g.SetProperty(ctx, h, "grow_radius", cty.NumberFloatVal(-5)))

	// Assert
	if diff := cmp.Diff(withoutGrowPath, activePath(t, g, ctx, h)); diff != "" {
		t.Errorf("active path mismatch (-want +got):\n%s", diff)
	}
	_, stillThere := g.Node(ctx, child(t, g, "grow"))
	assert.True(t, stillThere, "grow stays in the graph while bypassed")
	assert.Equal(t, withoutGrow, op.wiring)
	assert.Equal(t, -5.0, number(t, g, ctx, child(t, g, "grow"), "radius"))
}

func TestStroke_DefaultsAttachWithGrow(t *testing.T) {
	g, ctx := newGraph(t)
	h, op := addStroke(t, g, ctx)

	assert.Equal(t, withGrowPath, activePath(t, g, ctx, h))
	assert.Equal(t, withGrow, op.wiring)
	assert.Len(t, g.Children(h), 9, "two proxies and seven children")

	metaColor, err := g.Property(ctx, h, "color")
	require.NoError(t, err)
	childColor, err := g.Property(ctx, child(t, g, "color"), "value")
	require.NoError(t, err)
	assert.Equal(t, "rgba(0.0000, 0.0000, 0.0000, 1.0000)", metaColor.AsString())
	assert.True(t, metaColor.RawEquals(childColor), "default color reads the same on the meta node and its child")
}

func TestStroke_ThresholdBoundary(t *testing.T) {
	tests := []struct {
		growRadius float64
		wantSource string
		want       wiring
	}{
		{0.0001, "input", withoutGrow},
		{0.00011, "grow", withGrow},
		{-0.0001, "input", withoutGrow},
		{0, "input", withoutGrow},
		{-100, "input", withoutGrow},
		{100, "grow", withGrow},
	}
	for _, tt := range tests {
		t.Run(cty.NumberFloatVal(tt.growRadius).GoString(), func(t *testing.T) {
			g, ctx := newGraph(t)
			h, op := addStroke(t, g, ctx)

			require.NoError(t, g.SetProperty(ctx, h, "grow_radius", cty.NumberFloatVal(tt.growRadius)))
			assert.Equal(t, tt.wantSource, sourceName(t, g, ctx, child(t, g, "darken"), "input"))
			assert.Equal(t, tt.want, op.wiring)

			// Repeating the same value must not move the link.
			require.NoError(t, g.SetProperty(ctx, h, "grow_radius", cty.NumberFloatVal(tt.growRadius)))
			assert.Equal(t, tt.wantSource, sourceName(t, g, ctx, child(t, g, "darken"), "input"))
		})
	}
}

func TestStroke_UpdateIsIdempotent(t *testing.T) {
	for _, growRadius := range []float64{12, -3} {
		g, ctx := newGraph(t)
		h, op := addStroke(t, g, ctx)
		require.NoError(t, g.SetProperty(ctx, h, "grow_radius", cty.NumberFloatVal(growRadius)))

		require.NoError(t, op.Update(ctx))
		once := g.Snapshot(ctx).Connections
		require.NoError(t, op.Update(ctx))
		twice := g.Snapshot(ctx).Connections

		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("grow_radius=%g: topology changed on repeated update (-once +twice):\n%s", growRadius, diff)
		}
	}
}

func TestStroke_Redirections(t *testing.T) {
	g, ctx := newGraph(t)
	h, _ := addStroke(t, g, ctx)
	blur, grow := child(t, g, "blur"), child(t, g, "grow")

	t.Run("defaults are forwarded on attach", func(t *testing.T) {
		assert.Equal(t, 10.0, number(t, g, ctx, blur, "std_dev_x"))
		assert.Equal(t, 10.0, number(t, g, ctx, blur, "std_dev_y"))
		assert.Equal(t, 12.0, number(t, g, ctx, grow, "radius"))
		assert.Equal(t, 1.0, number(t, g, ctx, child(t, g, "opacity"), "value"))
	})

	t.Run("radius is isotropic", func(t *testing.T) {
		require.NoError(t, g.SetProperty(ctx, h, "radius", cty.NumberFloatVal(7.5)))
		assert.Equal(t, 7.5, number(t, g, ctx, blur, "std_dev_x"))
		assert.Equal(t, 7.5, number(t, g, ctx, blur, "std_dev_y"))
	})

	t.Run("grow shape and radius", func(t *testing.T) {
		require.NoError(t, g.SetProperty(ctx, h, "grow_shape", cty.StringVal("diamond")))
		require.NoError(t, g.SetProperty(ctx, h, "grow_radius", cty.NumberFloatVal(3.7)))

		v, err := g.Property(ctx, grow, "neighborhood")
		require.NoError(t, err)
		assert.Equal(t, "diamond", v.AsString())
		assert.Equal(t, 3.0, number(t, g, ctx, grow, "radius"), "integer radius truncates")
	})

	t.Run("color and opacity", func(t *testing.T) {
		require.NoError(t, g.SetProperty(ctx, h, "color", cty.StringVal("#ff0000")))
		require.NoError(t, g.SetProperty(ctx, h, "opacity", cty.NumberFloatVal(1.5)))

		v, err := g.Property(ctx, child(t, g, "color"), "value")
		require.NoError(t, err)
		assert.Equal(t, "rgba(1.0000, 0.0000, 0.0000, 1.0000)", v.AsString())
		assert.Equal(t, 1.5, number(t, g, ctx, child(t, g, "opacity"), "value"))
	})
}

func TestStroke_ChildConfiguration(t *testing.T) {
	g, ctx := newGraph(t)
	addStroke(t, g, ctx)

	blur, ok := g.Node(ctx, child(t, g, "blur"))
	require.True(t, ok)
	assert.True(t, blur.Properties["clip_extent"].False())
	assert.Equal(t, "none", blur.Properties["abyss_policy"].AsString())

	grow, ok := g.Node(ctx, child(t, g, "grow"))
	require.True(t, ok)
	assert.Equal(t, "gegl:median-blur", grow.Operation)
	assert.Equal(t, "none", grow.Properties["abyss_policy"].AsString())
	assert.Equal(t, 100.0, number(t, g, ctx, grow.Handle, "percentile"))
	assert.Equal(t, 100.0, number(t, g, ctx, grow.Handle, "alpha_percentile"))
}

func TestStroke_RejectsOutOfRange(t *testing.T) {
	g, ctx := newGraph(t)
	h, _ := addStroke(t, g, ctx)

	assert.ErrorIs(t, g.SetProperty(ctx, h, "radius", cty.NumberFloatVal(-1)), graph.ErrOutOfRange)
	assert.ErrorIs(t, g.SetProperty(ctx, h, "opacity", cty.NumberFloatVal(2.5)), graph.ErrOutOfRange)
	assert.ErrorIs(t, g.SetProperty(ctx, h, "grow_radius", cty.NumberFloatVal(101)), graph.ErrOutOfRange)
	assert.ErrorIs(t, g.SetProperty(ctx, h, "grow_shape", cty.StringVal("star")), graph.ErrInvalidValue)

	assert.Equal(t, withGrowPath, activePath(t, g, ctx, h), "rejected values leave the graph alone")
}

func TestStroke_UpdateBeforeAttach(t *testing.T) {
	op := New()

	require.NoError(t, op.Update(ctxlog.Discard()))
	assert.Nil(t, op.state)
	assert.Equal(t, unattached, op.wiring)
}

// nullRadiusHost reports a null grow_radius; every other Host method is unused.
type nullRadiusHost struct {
	graph.Host
}

func (nullRadiusHost) Property(context.Context, string) (cty.Value, error) {
	return cty.NullVal(cty.Number), nil
}

func TestStroke_UpdateRejectsNonNumericGrowRadius(t *testing.T) {
	op := New()
	op.host = nullRadiusHost{}
	op.state = &subgraph{}

	err := op.Update(ctxlog.Discard())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "grow_radius is not a number")
	assert.Equal(t, unattached, op.wiring, "wiring is left untouched")
}

func TestStroke_Dispose(t *testing.T) {
	g, ctx := newGraph(t)
	h, op := addStroke(t, g, ctx)

	require.NoError(t, g.RemoveNode(ctx, h))

	assert.Nil(t, op.state)
	assert.Equal(t, unattached, op.wiring)
	assert.Empty(t, g.Snapshot(ctx).Nodes, "the graph removes the children")
	require.NoError(t, op.Update(ctx), "a disposed instance ignores updates")
}
