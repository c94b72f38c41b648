package transform

import "github.com/matzehuels/drawlayout/pkg/dag"

// Components returns the weakly connected components of g. Components are
// ordered by their lowest node index and list their nodes in ascending
// index order.
func Components(g *dag.DAG) [][]int {
	n := g.NodeCount()
	comp := make([]int, n)
	for i := range comp {
		comp[i] = -1
	}

	var out [][]int
	for start := range n {
		if comp[start] >= 0 {
			continue
		}
		id := len(out)
		comp[start] = id
		stack := []int{start}
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, v := range g.Children(u) {
				if comp[v] < 0 {
					comp[v] = id
					stack = append(stack, v)
				}
			}
			for _, v := range g.Parents(u) {
				if comp[v] < 0 {
					comp[v] = id
					stack = append(stack, v)
				}
			}
		}
		out = append(out, nil)
	}

	for i := range n {
		out[comp[i]] = append(out[comp[i]], i)
	}
	return out
}
