// Package graph defines the node/link model shared by every distortviz
// component, plus its JSON serialization.
//
// # Core Types
//
//   - [Node]: a node identity with a mutable canvas position
//   - [Link]: an ordered (source, target) pair of identities
//   - [Graph]: links in file order plus the nodes they imply
//   - [Slot]: which of the two views a graph is displayed in
//
// Nodes are never declared on their own: they are derived from the links,
// in order of first appearance. Self loops are legal and directions are kept.
//
// # Serialization
//
// Graphs use a node-link JSON format carrying positions:
//
//	{
//	  "nodes": [{"id": "A", "x": 12.5, "y": 40}],
//	  "links": [{"source": "A", "target": "B"}]
//	}
//
// Common operations:
//
//	data, _ := graph.MarshalGraph(g)    // Graph → []byte
//	g, _ := graph.ReadGraph(r)          // io.Reader → Graph (positions kept)
//
// # Concurrency
//
// Node positions are written by the layout engine and read by renderers
// without synchronisation. A Graph must be owned by a single goroutine or
// guarded by its owner (see pkg/view).
package graph
