package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/strokegraph/internal/config"
	"github.com/vk/strokegraph/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

func opacityDefinition() *config.OperationDefinition {
	one := cty.NumberFloatVal(1)
	return &config.OperationDefinition{
		Name:    "gegl:opacity",
		Inputs:  []string{"input", "aux"},
		Outputs: []string{"output"},
		Properties: map[string]*config.PropertyDefinition{
			"value": {Name: "value", Kind: config.KindDouble, Default: &one},
			"note":  {Name: "note", Kind: config.KindString},
		},
	}
}

func TestCreateNode_SeedsDefaults(t *testing.T) {
	addr := nodeid.MustParse("outline.opacity")
	parent := nodeid.Handle{Index: 1, Generation: 1}

	n := CreateNode(addr, opacityDefinition(), parent)

	assert.Equal(t, "gegl:opacity", n.Operation)
	assert.Equal(t, "outline.opacity", n.ID())
	assert.Equal(t, parent, n.Parent)
	assert.True(t, n.Properties["value"].RawEquals(cty.NumberFloatVal(1)))
	assert.True(t, n.Properties["note"].IsNull())
	assert.False(t, n.IsMeta())
}

func TestCreateNode_CanonicalisesColorDefaults(t *testing.T) {
	black := cty.StringVal("black")
	bogus := cty.StringVal("not-a-color")
	def := &config.OperationDefinition{
		Name:    "gegl:color",
		Outputs: []string{"output"},
		Properties: map[string]*config.PropertyDefinition{
			"value": {Name: "value", Kind: config.KindColor, Default: &black},
			"other": {Name: "other", Kind: config.KindColor, Default: &bogus},
		},
	}

	n := CreateNode(nodeid.MustParse("color"), def, nodeid.Handle{})

	assert.Equal(t, "rgba(0.0000, 0.0000, 0.0000, 1.0000)", n.Properties["value"].AsString())
	assert.Equal(t, "not-a-color", n.Properties["other"].AsString(), "unparseable defaults are kept as written")
}

func TestNode_Pads(t *testing.T) {
	n := CreateNode(nodeid.MustParse("o"), opacityDefinition(), nodeid.Handle{})
	assert.True(t, n.HasInput("input"))
	assert.True(t, n.HasInput("aux"))
	assert.False(t, n.HasInput("output"))
	assert.True(t, n.HasOutput("output"))

	p := CreateProxy(nodeid.MustParse("outline.input"), InputProxy, "input", nodeid.Handle{Index: 1, Generation: 1})
	assert.Equal(t, ProxyOperation, p.Operation)
	assert.True(t, p.HasInput("input"))
	assert.True(t, p.HasOutput("output"))
	assert.False(t, p.HasInput("aux"))
	assert.Equal(t, "input-proxy", p.Proxy.String())
}

func TestNode_CloneIsIndependent(t *testing.T) {
	n := CreateNode(nodeid.MustParse("o"), opacityDefinition(), nodeid.Handle{})
	c := n.Clone()
	c.Properties["value"] = cty.NumberFloatVal(2)

	require.True(t, n.Properties["value"].RawEquals(cty.NumberFloatVal(1)))
}
