/*
Package nodeid names and identifies nodes in the host graph.

Two identifiers exist side by side:

  - Handle is the arena slot of a node: an index plus a generation counter.
    Handles are cheap to copy, are the only way operations refer to nodes,
    and go stale once the node they point at has been removed.
  - Address is the human-readable dot-separated path of a node, e.g.
    `outline.grow` or `outline.input`. It is used in pipeline documents,
    command-line overrides and rendered output.

All formatting and parsing of addresses lives here.
*/
package nodeid
