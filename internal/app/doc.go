// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle, decoupled
// from any specific entrypoint like a CLI or server.
//
// A run loads a pipeline document, builds the host graph from it (attaching
// meta operations such as gegl:stroke), applies property overrides one at a
// time so every change goes through the normal notification path, and then
// writes the resulting topology as text, DOT or SVG.
package app
