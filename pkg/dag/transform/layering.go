package transform

import "github.com/matzehuels/drawlayout/pkg/dag"

// AssignLayers assigns every node the length of the longest path reaching it
// from a source.
//
// AssignLayers uses a longest-path algorithm via topological sort (Kahn's
// algorithm). Each node is placed at one plus the maximum row of any of its
// parents, ensuring that:
//   - Source nodes (no incoming edges) are at row 0
//   - All parents are strictly above their children
//
// The queue is seeded and extended in index order, so ties between nodes
// that become ready together follow input order.
//
// Existing row assignments are overwritten. AssignLayers assumes the graph is
// acyclic; nodes on a cycle keep row 0. Run [BreakCycles] first.
//
// Time complexity is O(V + E).
func AssignLayers(g *dag.DAG) {
	n := g.NodeCount()
	inDegree := make([]int, n)
	rows := make([]int, n)
	queue := make([]int, 0, n)

	for i := range n {
		inDegree[i] = g.InDegree(i)
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	for i := range n {
		g.Node(i).Row = rows[i]
	}
}
