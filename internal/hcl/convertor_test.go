package hcl

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/strokegraph/internal/config"
	"github.com/vk/strokegraph/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

func expr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	e, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors(), diags.Error())
	return e
}

func TestDecodeArguments(t *testing.T) {
	ctx := ctxlog.Discard()
	defs := map[string]*config.PropertyDefinition{
		"radius":  {Name: "radius", Kind: config.KindDouble},
		"visible": {Name: "visible", Kind: config.KindBoolean},
		"color":   {Name: "color", Kind: config.KindColor},
	}

	t.Run("converts to declared kinds", func(t *testing.T) {
		values, err := NewConverter().DecodeArguments(ctx, map[string]hcl.Expression{
			"radius":  expr(t, `"2.5"`),
			"visible": expr(t, `true`),
			"color":   expr(t, `"white"`),
		}, defs, nil)
		require.NoError(t, err)
		assert.True(t, values["radius"].RawEquals(cty.NumberFloatVal(2.5)))
		assert.True(t, values["visible"].True())
		assert.Equal(t, "white", values["color"].AsString())
	})

	t.Run("evaluates against the context", func(t *testing.T) {
		evalCtx := &hcl.EvalContext{Variables: map[string]cty.Value{"base": cty.NumberIntVal(3)}}
		values, err := NewConverter().DecodeArguments(ctx, map[string]hcl.Expression{
			"radius": expr(t, `base * 2`),
		}, defs, evalCtx)
		require.NoError(t, err)
		assert.True(t, values["radius"].RawEquals(cty.NumberIntVal(6)))
	})

	tests := []struct {
		name string
		args string
		want string
	}{
		{"unknown", `nope`, `unknown property "nope"`},
		{"null", `radius`, "must not be null"},
		{"wrong type", `visible`, "cannot convert argument 'visible'"},
	}
	sources := map[string]string{"nope": `1`, "radius": `null`, "visible": `"maybe"`}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConverter().DecodeArguments(ctx, map[string]hcl.Expression{
				tt.args: expr(t, sources[tt.args]),
			}, defs, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestToCtyValue(t *testing.T) {
	v, err := NewConverter().ToCtyValue(3.5)
	require.NoError(t, err)
	assert.True(t, v.RawEquals(cty.NumberFloatVal(3.5)))

	v, err = NewConverter().ToCtyValue(nil)
	require.NoError(t, err)
	assert.Equal(t, cty.NilVal, v)
}
