// Package delegate hands flat graphs to Graphviz.
//
// The flat graph is translated to DOT with gographviz: one fixed-size box per
// item (sizes in inches), one directed edge per link, and graph attributes
// derived from the layout configuration (rankdir, nodesep, ranksep; start
// and edge len for neato). Graphviz runs in-process through go-graphviz,
// which embeds the Graphviz runtime as WebAssembly, and renders the graph
// back to DOT with a pos attribute on every node.
//
// Positions come back as box centers in points with the y axis pointing up.
// They are flipped, converted to top-left corners and normalized to (0,0).
// Any failure along the way (Graphviz errors, unparsable output, a missing
// node, a non-finite coordinate) is a DELEGATE_FAILURE, and no position is
// written to the flat graph.
//
// # Engines
//
// [New] maps engine names to Graphviz layouts: "graphviz" and "elk" use dot,
// which is a layered layout; "neato" uses the stress-majorization layout.
//
// # Export
//
// [ToDOT] returns the DOT input for a flat graph without running Graphviz.
package delegate
