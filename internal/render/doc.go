// Package render turns a graph snapshot into something a person can read:
// a plain text listing, Graphviz DOT, or SVG rendered from that DOT.
//
// Output is deterministic. Nodes appear in handle order, properties in
// manifest order and connections in sink order, so renderings of the same
// graph can be diffed.
package render
