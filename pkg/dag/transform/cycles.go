package transform

import "github.com/matzehuels/drawlayout/pkg/dag"

// BreakCycles makes g acyclic by reversing back edges and returns the
// indices of the reversed edges in discovery order.
//
// A depth-first traversal starts from every source in index order, then from
// every node still unvisited. An edge that reaches a node on the current DFS
// path (gray) closes a cycle and is reversed once the traversal is done.
// Reversal keeps the connection for ranking; callers read [dag.Edge.Reversed]
// to recover the input direction.
//
// BreakCycles runs in O(V + E) time.
func BreakCycles(g *dag.DAG) []int {
	const (
		white = iota
		gray
		black
	)

	color := make([]uint8, g.NodeCount())
	var backEdges []int

	var dfs func(node int)
	dfs = func(node int) {
		color[node] = gray
		for _, e := range g.OutEdges(node) {
			child := g.Edge(e).To
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, e)
			}
		}
		color[node] = black
	}

	for _, n := range g.Sources() {
		if color[n] == white {
			dfs(n)
		}
	}
	for n := range g.NodeCount() {
		if color[n] == white {
			dfs(n)
		}
	}

	for _, e := range backEdges {
		g.Reverse(e)
	}
	return backEdges
}
