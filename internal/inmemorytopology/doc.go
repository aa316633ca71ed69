// Package inmemorytopology provides a thread-safe, in-memory implementation
// of the topologystore.Store interface. Nodes live in an arena of
// generation-tagged slots; freed slots are recycled, and handles to a
// recycled slot are detected as stale.
package inmemorytopology
