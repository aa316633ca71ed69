// This file contains the logic for parsing HCL property type keywords
// (e.g., `number`, `enum`) into property kinds.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/strokegraph/internal/config"
	"github.com/vk/strokegraph/internal/ctxlog"
)

// typeExprToKind converts a bare type keyword into its property kind.
func typeExprToKind(ctx context.Context, expr hcl.Expression) (config.PropertyKind, error) {
	logger := ctxlog.FromContext(ctx)

	traversal, ok := expr.(*hclsyntax.ScopeTraversalExpr)
	if !ok {
		return 0, fmt.Errorf("unsupported expression for property type: %T", expr)
	}
	if len(traversal.Traversal) != 1 {
		return 0, fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
	}

	rootName := traversal.Traversal.RootName()
	logger.Debug("Parsing property type keyword.", "keyword", rootName)
	switch rootName {
	case "number", "double":
		return config.KindDouble, nil
	case "integer", "int":
		return config.KindInt, nil
	case "bool", "boolean":
		return config.KindBoolean, nil
	case "string":
		return config.KindString, nil
	case "enum":
		return config.KindEnum, nil
	case "color":
		return config.KindColor, nil
	default:
		return 0, fmt.Errorf("unknown property type %q", rootName)
	}
}
