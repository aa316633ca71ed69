package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from files or directories, translates it into
	// the format-agnostic model, and returns a matching Converter.
	Load(ctx context.Context, paths ...string) (*Model, Converter, error)

	// LoadSource parses a single in-memory document, such as a manifest
	// embedded in a module.
	LoadSource(ctx context.Context, filename string, src []byte) (*Model, error)
}

// Converter evaluates raw argument expressions into property values.
type Converter interface {
	// DecodeArguments evaluates each argument expression. Expressions for
	// properties that are declared in defs are converted to the declared
	// property's storage type; unknown names are reported as errors.
	DecodeArguments(
		ctx context.Context,
		args map[string]hcl.Expression,
		defs map[string]*PropertyDefinition,
		evalCtx *hcl.EvalContext,
	) (map[string]cty.Value, error)

	// ToCtyValue converts a native Go value into its equivalent cty.Value.
	ToCtyValue(v any) (cty.Value, error)
}
