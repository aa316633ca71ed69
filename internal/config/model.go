package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of everything loaded
// from manifests and pipeline documents.
type Model struct {
	Operations map[string]*OperationDefinition
	Pipeline   *Pipeline
}

// NewModel returns an empty model ready to be merged into.
func NewModel() *Model {
	return &Model{
		Operations: make(map[string]*OperationDefinition),
		Pipeline:   &Pipeline{},
	}
}

// Merge copies operations and pipeline nodes from other into m. Operations
// with the same name are replaced.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	for name, def := range other.Operations {
		m.Operations[name] = def
	}
	if other.Pipeline != nil {
		m.Pipeline.Nodes = append(m.Pipeline.Nodes, other.Pipeline.Nodes...)
	}
}

// Pipeline is the user's graph definition.
type Pipeline struct {
	Nodes []*NodeDecl
}

// NodeDecl is the format-agnostic representation of a `node` block.
type NodeDecl struct {
	Operation string
	Name      string
	// Input names another node whose output feeds this node's primary input.
	Input     string
	Arguments map[string]hcl.Expression
}

// --- Operation Manifest Models ---

// OperationDefinition is the format-agnostic representation of an operation manifest.
type OperationDefinition struct {
	Name          string
	Title         string
	Description   string
	Categories    []string
	ReferenceHash string
	Inputs        []string
	Outputs       []string
	Lifecycle     *Lifecycle
	Properties    map[string]*PropertyDefinition
	// PropertyOrder lists property names in declaration order.
	PropertyOrder []string
}

// IsMeta reports whether the operation is implemented by a subgraph of child
// nodes rather than by a primitive kernel.
func (d *OperationDefinition) IsMeta() bool {
	return d.Lifecycle != nil && d.Lifecycle.Attach != ""
}

// HasInput reports whether pad is a declared input pad.
func (d *OperationDefinition) HasInput(pad string) bool {
	for _, p := range d.Inputs {
		if p == pad {
			return true
		}
	}
	return false
}

// HasOutput reports whether pad is a declared output pad.
func (d *OperationDefinition) HasOutput(pad string) bool {
	for _, p := range d.Outputs {
		if p == pad {
			return true
		}
	}
	return false
}

// Lifecycle maps a meta operation's events to Go handler names.
type Lifecycle struct {
	Attach string
}

// PropertyKind is the value domain of a property.
type PropertyKind int

const (
	KindDouble PropertyKind = iota
	KindInt
	KindBoolean
	KindString
	KindEnum
	KindColor
)

func (k PropertyKind) String() string {
	switch k {
	case KindDouble:
		return "double"
	case KindInt:
		return "int"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindColor:
		return "color"
	default:
		return "unknown"
	}
}

// CtyType returns the cty type values of this kind are stored as.
func (k PropertyKind) CtyType() cty.Type {
	switch k {
	case KindDouble, KindInt:
		return cty.Number
	case KindBoolean:
		return cty.Bool
	default:
		return cty.String
	}
}

// Range is an inclusive numeric interval.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp limits v to the range.
func (r Range) Clamp(v float64) float64 {
	return min(max(v, r.Min), r.Max)
}

// Steps holds the small and big increments a UI uses for a numeric property.
type Steps struct {
	Small float64
	Big   float64
}

// PropertyDefinition declares a single property of an operation.
type PropertyDefinition struct {
	Name        string
	Kind        PropertyKind
	Label       string
	Description string
	Default     *cty.Value
	// ValueRange is the hard limit enforced on every set; nil means unbounded.
	ValueRange *Range
	// UIRange, UISteps, UIGamma and UIDigits are presentation hints only.
	UIRange  *Range
	UISteps  *Steps
	UIGamma  float64
	UIDigits int
	Unit     string
	// Values lists the accepted names of an enum property.
	Values []string
}

// HasValue reports whether name is a declared enum value.
func (p *PropertyDefinition) HasValue(name string) bool {
	for _, v := range p.Values {
		if v == name {
			return true
		}
	}
	return false
}
