// Package registry provides the central "glue" for the module system.
//
// The Registry is responsible for storing mappings between the string
// identifiers used in manifests (e.g., attach = "AttachStroke") and the
// compiled Go types that implement meta operations. It also holds the
// parsed, format-agnostic operation definitions from the manifests
// themselves, and the embedded manifest sources modules ship with.
//
// During application startup, the registry is populated and then validated to
// ensure that the Go code and the public-facing manifests are perfectly in
// sync, preventing a wide class of runtime errors.
package registry
