// Package transform provides the graph transformations that prepare a
// [dag.DAG] for layered layout.
//
// # Overview
//
// Input graphs arrive with cycles, long edges and several disconnected
// parts. The transformations here bring them into the canonical form the
// ordering and coordinate phases expect:
//
//   - No directed cycles ([BreakCycles])
//   - Every node has a rank ([AssignLayers])
//   - Edges connect only consecutive rows ([Subdivide])
//   - Independent parts are known ([Components])
//
// # Cycle Breaking
//
// [BreakCycles] reverses back edges found by a depth-first traversal that
// starts at the sources in input order. Reversed edges stay in the graph and
// are flagged, so the input direction survives for arrowheads.
//
// # Layer Assignment
//
// [AssignLayers] computes each node's rank as the length of the longest
// path from any source, using a topological traversal that follows input
// order on ties.
//
// # Edge Subdivision
//
// [Subdivide] breaks long edges into chains of zero-extent subdivider nodes:
//
//	Before: app (row 0) → core (row 3)
//	After:  app → app_sub_1 → app_sub_2 → core
//
// # Usage
//
// Apply the transformations in this order:
//
//	transform.BreakCycles(g)
//	transform.AssignLayers(g)
//	transform.Subdivide(g)
//	parts := transform.Components(g)
//
// [dag.DAG]: github.com/matzehuels/drawlayout/pkg/dag
package transform
