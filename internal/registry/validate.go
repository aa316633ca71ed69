package registry

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/vk/strokegraph/internal/color"
	"github.com/vk/strokegraph/internal/config"
	"github.com/vk/strokegraph/internal/ctxlog"
)

// ValidateRegistry performs a strict parity check between manifests and Go
// code, and checks that every manifest is internally consistent.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	used := make(map[string]bool)
	names := make([]string, 0, len(r.DefinitionRegistry))
	for name := range r.DefinitionRegistry {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, opName := range names {
		def := r.DefinitionRegistry[opName]
		if def.IsMeta() {
			used[def.Lifecycle.Attach] = true
			if _, ok := r.HandlerRegistry[def.Lifecycle.Attach]; !ok {
				errs = append(errs, fmt.Sprintf("operation '%s': manifest names attach handler '%s' which is not registered in Go", opName, def.Lifecycle.Attach))
			}
		}
		if len(def.Outputs) == 0 {
			logger.Warn("Operation declares no output pads and cannot be linked from.", "operation", opName)
		}
		for _, propName := range def.PropertyOrder {
			errs = append(errs, validateProperty(opName, def.Properties[propName])...)
		}
	}

	for handler := range r.HandlerRegistry {
		if !used[handler] {
			errs = append(errs, fmt.Sprintf("Go meta handler '%s' is registered but no manifest references it", handler))
		}
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func validateProperty(opName string, prop *config.PropertyDefinition) []string {
	var errs []string
	where := fmt.Sprintf("operation '%s', property '%s'", opName, prop.Name)

	for label, rng := range map[string]*config.Range{"value_range": prop.ValueRange, "ui_range": prop.UIRange} {
		if rng != nil && rng.Min > rng.Max {
			errs = append(errs, fmt.Sprintf("%s: %s min %g is greater than max %g", where, label, rng.Min, rng.Max))
		}
	}

	if prop.Default == nil {
		return errs
	}
	def := *prop.Default
	switch prop.Kind {
	case config.KindDouble, config.KindInt:
		f, _ := def.AsBigFloat().Float64()
		if prop.ValueRange != nil && !prop.ValueRange.Contains(f) {
			errs = append(errs, fmt.Sprintf("%s: default %g is outside value_range [%g, %g]", where, f, prop.ValueRange.Min, prop.ValueRange.Max))
		}
	case config.KindEnum:
		if !slices.Contains(prop.Values, def.AsString()) {
			errs = append(errs, fmt.Sprintf("%s: default %q is not one of %v", where, def.AsString(), prop.Values))
		}
	case config.KindColor:
		if _, err := color.Parse(def.AsString()); err != nil {
			errs = append(errs, fmt.Sprintf("%s: default color: %v", where, err))
		}
	}
	return errs
}
