package graph

import (
	"fmt"
	"math"

	"github.com/vk/strokegraph/internal/color"
	"github.com/vk/strokegraph/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// validateValue checks a user-supplied value against its declaration and
// returns it in canonical storage form. Numbers outside the hard value range
// are rejected.
func validateValue(prop *config.PropertyDefinition, v cty.Value) (cty.Value, error) {
	converted, err := toKind(prop, v)
	if err != nil {
		return cty.NilVal, err
	}
	if isNumeric(prop.Kind) && prop.ValueRange != nil {
		f := numberOf(converted)
		if !prop.ValueRange.Contains(f) {
			return cty.NilVal, fmt.Errorf("%w: %g not in [%g, %g]", ErrOutOfRange, f, prop.ValueRange.Min, prop.ValueRange.Max)
		}
	}
	return converted, nil
}

// coerceValue adapts a value forwarded along a redirection to the target's
// declaration. Numbers outside the target's range are clamped rather than
// rejected; clamped reports whether that happened.
func coerceValue(prop *config.PropertyDefinition, v cty.Value) (out cty.Value, clamped bool, err error) {
	converted, err := toKind(prop, v)
	if err != nil {
		return cty.NilVal, false, err
	}
	if isNumeric(prop.Kind) && prop.ValueRange != nil {
		f := numberOf(converted)
		if c := prop.ValueRange.Clamp(f); c != f {
			return numberValue(prop.Kind, c), true, nil
		}
	}
	return converted, false, nil
}

// toKind converts v to the property's storage type and checks its domain.
func toKind(prop *config.PropertyDefinition, v cty.Value) (cty.Value, error) {
	if v.IsNull() || !v.IsKnown() {
		return cty.NilVal, fmt.Errorf("%w: value must be known and not null", ErrInvalidValue)
	}
	converted, err := convert.Convert(v, prop.Kind.CtyType())
	if err != nil {
		return cty.NilVal, fmt.Errorf("%w: expected %s, got %s", ErrInvalidValue, prop.Kind, v.Type().FriendlyName())
	}

	switch prop.Kind {
	case config.KindDouble, config.KindInt:
		f := numberOf(converted)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return cty.NilVal, fmt.Errorf("%w: %g is not a finite number", ErrInvalidValue, f)
		}
		return numberValue(prop.Kind, f), nil
	case config.KindEnum:
		name := converted.AsString()
		if !prop.HasValue(name) {
			return cty.NilVal, fmt.Errorf("%w: %q is not one of %v", ErrInvalidValue, name, prop.Values)
		}
		return converted, nil
	case config.KindColor:
		c, err := color.Parse(converted.AsString())
		if err != nil {
			return cty.NilVal, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return cty.StringVal(c.String()), nil
	default:
		return converted, nil
	}
}

func isNumeric(k config.PropertyKind) bool {
	return k == config.KindDouble || k == config.KindInt
}

// numberValue builds the canonical value; integers truncate toward zero.
func numberValue(k config.PropertyKind, f float64) cty.Value {
	if k == config.KindInt {
		return cty.NumberIntVal(int64(math.Trunc(f)))
	}
	return cty.NumberFloatVal(f)
}

func numberOf(v cty.Value) float64 {
	f, _ := v.AsBigFloat().Float64()
	return f
}

// Float reads a numeric property value. Non-numeric or null values yield 0
// and false.
func Float(v cty.Value) (float64, bool) {
	if v.IsNull() || !v.IsKnown() || !v.Type().Equals(cty.Number) {
		return 0, false
	}
	return numberOf(v), true
}
