// Package config defines the format-agnostic configuration model: operation
// manifests (what an operation is called, which pads it has and which
// properties it declares) and pipeline documents (which nodes to create and
// with which arguments). It also defines the Loader and Converter interfaces
// that concrete formats such as HCL implement.
package config
