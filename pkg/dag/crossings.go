package dag

import "slices"

// CountCrossings returns the total number of edge crossings for the given
// row orderings. layers[r] lists the nodes of row r in order; crossings are
// summed over each pair of consecutive rows.
//
// It runs in O(R × E log V) time where R is the number of rows, E is edges per
// layer, and V is nodes per layer.
func CountCrossings(g *DAG, layers [][]int) int {
	crossings := 0
	for r := 0; r+1 < len(layers); r++ {
		crossings += CountLayerCrossings(g, layers[r], layers[r+1])
	}
	return crossings
}

// CountLayerCrossings counts edge crossings between two adjacent rows using a
// Fenwick tree (binary indexed tree).
//
// Two edges (u1,v1) and (u2,v2) cross if and only if:
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// This is equivalent to counting inversions in the sequence of target positions
// when edges are sorted by source position. Edges that share an endpoint never
// cross.
//
// Returns 0 if either row is empty.
func CountLayerCrossings(g *DAG, upper, lower []int) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := PosMap(lower)

	type edge struct{ upper, lower int }
	edges := make([]edge, 0, len(upper)*2)
	for i, u := range upper {
		for _, child := range g.Children(u) {
			if pos, ok := lowerPos[child]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		// Edges seen so far with target <= e.lower
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}
