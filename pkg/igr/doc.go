// Package igr provides the intermediate graph representation consumed and
// produced by the layout engine.
//
// An IGR [Graph] is a directed graph of [Node] and [Edge] values plus a forest
// of [Container] values. Nodes and containers live in an arena and are
// addressed by integer handles ([NodeIndex], [ContainerIndex]); parent links
// are stored as handles, never as pointers, so a graph can be copied with
// [Graph.Clone] and laid out concurrently without aliasing.
//
// # Lifecycle
//
// A graph is built once from parsed input with [New], [Graph.AddNode],
// [Graph.AddEdge], [Graph.AddContainer] and [Graph.AddMember]. After that its
// topology is fixed; the layout engine is the only writer of the geometric
// fields (X, Y, Width, Height on nodes, Bounds on containers, Start and End on
// edges).
//
// # Geometry
//
// All boxes are top-left origin. After a successful layout every node and
// container is expressed in the top-level coordinate frame, every coordinate
// is finite and every size is non-negative.
//
// Node sizes are fixed before layout: either given explicitly or estimated
// from the label with [EstimateLabelSize] (see [Graph.EnsureSizes]).
//
// # Validation
//
// [Graph.Validate] is the validation pass run before any layout. It reports
// dangling edge endpoints, unknown container members, duplicate parents,
// container cycles and invalid explicit sizes as INVALID_GRAPH errors.
//
// # Caching
//
// [Graph.Fingerprint] hashes everything that influences a layout.
// [Graph.Snapshot] and [Graph.Apply] move the geometric fields in and out of a
// self-contained value that can be cached and later applied to an equal graph.
package igr
