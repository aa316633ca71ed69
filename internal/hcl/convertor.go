package hcl

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/strokegraph/internal/config"
	"github.com/vk/strokegraph/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Converter is the HCL-specific implementation of the config.Converter interface.
type Converter struct{}

// NewConverter creates a new HCL converter.
func NewConverter() *Converter {
	return &Converter{}
}

// DecodeArguments evaluates argument expressions and converts each result to
// the storage type of the property it targets. Range and enum checks are
// left to the graph, which owns property validation.
func (c *Converter) DecodeArguments(
	ctx context.Context,
	args map[string]hcl.Expression,
	defs map[string]*config.PropertyDefinition,
	evalCtx *hcl.EvalContext,
) (map[string]cty.Value, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting HCL argument decoding.", "count", len(args))

	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make(map[string]cty.Value, len(args))
	for _, name := range names {
		def, ok := defs[name]
		if !ok {
			return nil, fmt.Errorf("unknown property %q", name)
		}

		val, diags := args[name].Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate argument '%s': %w", name, diags)
		}
		if val.IsNull() {
			return nil, fmt.Errorf("argument '%s' must not be null", name)
		}

		converted, err := convert.Convert(val, def.Kind.CtyType())
		if err != nil {
			return nil, fmt.Errorf("cannot convert argument '%s' from %s to %s: %w", name, val.Type().FriendlyName(), def.Kind, err)
		}
		if !val.Type().Equals(converted.Type()) {
			logger.Debug("Implicitly converted value type.",
				"argument", name,
				"from", val.Type().FriendlyName(),
				"to", converted.Type().FriendlyName(),
			)
		}
		values[name] = converted
	}

	logger.Debug("Finished HCL argument decoding successfully.")
	return values, nil
}

// ToCtyValue converts a native Go value into its corresponding cty.Value.
func (c *Converter) ToCtyValue(v any) (cty.Value, error) {
	if v == nil {
		return cty.NilVal, nil
	}
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	return gocty.ToCtyValue(v, ty)
}
