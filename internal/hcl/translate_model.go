// This file contains the logic for translating HCL schema structs (from the
// schema package) into the format-agnostic configuration model defined in
// the config package.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/strokegraph/internal/config"
	"github.com/vk/strokegraph/internal/schema"
	"github.com/zclconf/go-cty/cty/convert"
)

// translatePropertyDefinition processes a single HCL property block,
// handling its kind, default value and numeric hints.
func translatePropertyDefinition(ctx context.Context, p *schema.PropertyDefinition, opName string) (*config.PropertyDefinition, error) {
	kind, err := typeExprToKind(ctx, p.Type)
	if err != nil {
		return nil, fmt.Errorf("in operation '%s', property '%s': %w", opName, p.Name, err)
	}

	def := &config.PropertyDefinition{
		Name:        p.Name,
		Kind:        kind,
		Label:       p.Label,
		Description: p.Description,
		Unit:        p.Unit,
		Values:      p.Values,
	}

	if p.Default != nil {
		val, diags := p.Default.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid default value for property '%s' in operation '%s': %w", p.Name, opName, diags)
		}
		if !val.IsNull() {
			converted, err := convert.Convert(val, kind.CtyType())
			if err != nil {
				return nil, fmt.Errorf("default of property '%s' in operation '%s' is not a %s: %w", p.Name, opName, kind, err)
			}
			def.Default = &converted
		}
	}

	if def.ValueRange, err = pairToRange(p.ValueRange); err != nil {
		return nil, fmt.Errorf("in operation '%s', property '%s', value_range: %w", opName, p.Name, err)
	}
	if def.UIRange, err = pairToRange(p.UIRange); err != nil {
		return nil, fmt.Errorf("in operation '%s', property '%s', ui_range: %w", opName, p.Name, err)
	}
	if len(p.UISteps) > 0 {
		if len(p.UISteps) != 2 {
			return nil, fmt.Errorf("in operation '%s', property '%s': ui_steps takes two numbers, got %d", opName, p.Name, len(p.UISteps))
		}
		def.UISteps = &config.Steps{Small: p.UISteps[0], Big: p.UISteps[1]}
	}
	if p.UIGamma != nil {
		def.UIGamma = *p.UIGamma
	}
	if p.UIDigits != nil {
		def.UIDigits = *p.UIDigits
	}
	if kind == config.KindEnum && len(def.Values) == 0 {
		return nil, fmt.Errorf("in operation '%s', enum property '%s' declares no values", opName, p.Name)
	}

	return def, nil
}

func pairToRange(pair []float64) (*config.Range, error) {
	if len(pair) == 0 {
		return nil, nil
	}
	if len(pair) != 2 {
		return nil, fmt.Errorf("range takes two numbers, got %d", len(pair))
	}
	return &config.Range{Min: pair[0], Max: pair[1]}, nil
}

// translateOperationDefinition converts the HCL-specific operation schema into the agnostic model.
func translateOperationDefinition(ctx context.Context, s *schema.OperationDefinition) (*config.OperationDefinition, error) {
	d := &config.OperationDefinition{
		Name:          s.Name,
		Title:         s.Title,
		Description:   s.Description,
		Categories:    s.Categories,
		ReferenceHash: s.ReferenceHash,
		Inputs:        s.Inputs,
		Outputs:       s.Outputs,
		Properties:    make(map[string]*config.PropertyDefinition, len(s.Properties)),
	}
	if s.Lifecycle != nil {
		d.Lifecycle = &config.Lifecycle{Attach: s.Lifecycle.Attach}
	}

	for _, p := range s.Properties {
		if _, dup := d.Properties[p.Name]; dup {
			return nil, fmt.Errorf("operation '%s' declares property '%s' twice", s.Name, p.Name)
		}
		prop, err := translatePropertyDefinition(ctx, p, s.Name)
		if err != nil {
			return nil, err
		}
		d.Properties[p.Name] = prop
		d.PropertyOrder = append(d.PropertyOrder, p.Name)
	}
	return d, nil
}

// translateNode converts the HCL-specific node schema into the agnostic model.
func (l *Loader) translateNode(n *schema.Node) (*config.NodeDecl, error) {
	args, err := l.extractBodyAttributes(n.Arguments)
	if err != nil {
		return nil, fmt.Errorf("node '%s': %w", n.Name, err)
	}
	return &config.NodeDecl{
		Operation: n.Operation,
		Name:      n.Name,
		Input:     n.Input,
		Arguments: args,
	}, nil
}

func (l *Loader) extractBodyAttributes(block *schema.NodeArgs) (map[string]hcl.Expression, error) {
	if block == nil || block.Body == nil {
		return nil, nil
	}
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	exprMap := make(map[string]hcl.Expression, len(attrs))
	for name, attr := range attrs {
		exprMap[name] = attr.Expr
	}
	return exprMap, nil
}
