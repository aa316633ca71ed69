// Package schema holds the gohcl decoding targets for manifests and pipeline
// documents. Nothing here is format-agnostic; the hcl package translates
// these structs into the config model.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// --- Pipeline Document Structures ---

// NodeArgs represents the content of the 'arguments' block within a node.
type NodeArgs struct {
	Body hcl.Body `hcl:",remain"`
}

// Node represents a `node` block from a user's pipeline file. It is a
// configured instance of a declared operation.
type Node struct {
	Operation string    `hcl:"operation,label"`
	Name      string    `hcl:"instance_name,label"`
	Input     string    `hcl:"input,optional"`
	Arguments *NodeArgs `hcl:"arguments,block"`
}

// --- Operation Manifest Schemas ---

// Lifecycle maps a meta operation's attach event to a registered Go handler.
type Lifecycle struct {
	Attach string `hcl:"attach"`
}

// PropertyDefinition declares a single property in an operation manifest.
// Numeric pairs (ranges and steps) are written as two-element tuples.
type PropertyDefinition struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Label       string         `hcl:"label,optional"`
	Description string         `hcl:"description,optional"`
	Default     hcl.Expression `hcl:"default,optional"`
	ValueRange  []float64      `hcl:"value_range,optional"`
	UIRange     []float64      `hcl:"ui_range,optional"`
	UISteps     []float64      `hcl:"ui_steps,optional"`
	UIGamma     *float64       `hcl:"ui_gamma,optional"`
	UIDigits    *int           `hcl:"ui_digits,optional"`
	Unit        string         `hcl:"unit,optional"`
	Values      []string       `hcl:"values,optional"`
}

// OperationDefinition represents the HCL manifest for one operation.
type OperationDefinition struct {
	Name          string                `hcl:"name,label"`
	Title         string                `hcl:"title,optional"`
	Description   string                `hcl:"description,optional"`
	Categories    []string              `hcl:"categories,optional"`
	ReferenceHash string                `hcl:"reference_hash,optional"`
	Inputs        []string              `hcl:"inputs,optional"`
	Outputs       []string              `hcl:"outputs,optional"`
	Lifecycle     *Lifecycle            `hcl:"lifecycle,block"`
	Properties    []*PropertyDefinition `hcl:"property,block"`
}

// File is the top-level structure of any .hcl file: manifests and pipeline
// nodes may be mixed freely.
type File struct {
	Operations []*OperationDefinition `hcl:"operation,block"`
	Nodes      []*Node                `hcl:"node,block"`
	Remain     hcl.Body               `hcl:",remain"`
}
