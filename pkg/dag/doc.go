// Package dag provides the ranking graph used by the hierarchical layout.
//
// # Overview
//
// A [DAG] is a directed graph over integer node indices with rows (ranks)
// attached to nodes. It is the working structure of the Sugiyama pipeline:
// cycles are broken by reversing edges, nodes are assigned rows, long edges
// are subdivided so every edge connects consecutive rows, and then rows are
// reordered to reduce crossings.
//
// Indices follow insertion order and adjacency lists keep edge insertion
// order. Nothing in this package iterates a map, so every result is a pure
// function of the input order.
//
// # Basic Usage
//
//	g := dag.New()
//	a := g.AddNode(dag.Node{ID: "a", Width: 100, Height: 50})
//	b := g.AddNode(dag.Node{ID: "b", Width: 100, Height: 50})
//	g.AddEdge(a, b)
//
// Use the [transform] subpackage to prepare a graph for ordering, then
// [DAG.Validate] to verify that every edge connects consecutive rows and that
// no cycle is left.
//
// # Node Types
//
//   - [NodeKindRegular]: boxes of the input graph
//   - [NodeKindSubdivider]: zero-extent nodes that break long edges into
//     single-row segments
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] use a Fenwick tree to count
// inversions in O(E log V) time, which keeps evaluating an ordering after
// every sweep cheap.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Read-only operations such as
// counting crossings can run in parallel on a graph nobody mutates.
//
// [transform]: github.com/matzehuels/drawlayout/pkg/dag/transform
package dag
