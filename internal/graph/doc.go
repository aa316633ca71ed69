// Package graph is the host graph engine: it owns every node, every pad
// connection and every property value, and it drives the lifecycle of meta
// operations.
//
// # Why Graph Package Exists
//
// Operations such as gegl:stroke contain no processing of their own. They
// are declarative subgraphs: on attach they create child nodes, wire them
// together and map their external properties onto the children. The graph
// package is the host those operations plug into. It is the single source
// of truth for:
//   - **Structure**: which nodes exist and how their pads are connected (via
//     topologystore.Store)
//   - **Values**: what each property currently holds, validated against the
//     operation's manifest
//   - **Lifecycle**: when a meta operation is attached, notified of a
//     property change, and disposed
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│            Graph (Manager)          │
//	│  nodes, properties, redirections,   │
//	│  meta-operation callbacks           │
//	└──────────┬────────────┬─────────────┘
//	           │            │
//	           ▼            ▼
//	  ┌────────────┐  ┌────────────┐
//	  │  Topology  │  │  Catalog   │
//	  │   Store    │  │ (registry) │
//	  └────────────┘  └────────────┘
//
// A meta operation never sees the Manager directly. It receives a Host,
// a view scoped to its own node, through which it creates children, links
// them, installs redirections and reads its properties. Children are owned
// by the graph; the operation keeps only nodeid.Handle references.
//
// # Notification Model
//
// SetProperty validates the value, stores it, forwards it along every
// redirection installed for that property, and then calls Update on the
// meta operation that owns the node. All of this happens inline on the
// calling goroutine. The Manager is therefore not safe for concurrent
// mutation; the underlying store is, so readers may inspect the topology
// from other goroutines.
package graph
