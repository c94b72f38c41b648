package hierarchical

import (
	"slices"

	"github.com/matzehuels/drawlayout/pkg/dag"
)

// Order reduces edge crossings between consecutive layers and returns the
// best ordering found. layers is not modified.
//
// Sweeps alternate direction, starting top-down. A top-down sweep fixes
// layer r-1 and sorts layer r by the median position of each node's parents;
// a bottom-up sweep does the same with children. Equal medians are broken by
// the barycenter, then by current position. Nodes without neighbours in the
// fixed layer keep their slot.
//
// After every sweep the total crossing count is evaluated. The input
// ordering is the first candidate, and a later ordering replaces the best
// one when it has no more crossings, so ties favour the later sweep. Sweeping
// stops early once an ordering without crossings is found.
func Order(g *dag.DAG, layers [][]int, sweeps int) [][]int {
	best := cloneLayers(layers)
	bestCrossings := dag.CountCrossings(g, best)
	cur := cloneLayers(layers)

	for s := 0; s < sweeps && bestCrossings > 0; s++ {
		if s%2 == 0 {
			for r := 1; r < len(cur); r++ {
				reorder(g, cur[r], cur[r-1], true)
			}
		} else {
			for r := len(cur) - 2; r >= 0; r-- {
				reorder(g, cur[r], cur[r+1], false)
			}
		}
		if c := dag.CountCrossings(g, cur); c <= bestCrossings {
			best = cloneLayers(cur)
			bestCrossings = c
		}
	}
	return best
}

type rankKey struct {
	node    int
	slot    int
	median  float64
	barycen float64
}

// reorder sorts layer in place against the fixed layer. upward selects
// parents (the fixed layer is above) or children.
func reorder(g *dag.DAG, layer, fixed []int, upward bool) {
	pos := dag.PosMap(fixed)

	var movable []rankKey
	var slots []int
	for i, v := range layer {
		var nbrs []int
		if upward {
			nbrs = g.Parents(v)
		} else {
			nbrs = g.Children(v)
		}
		ps := make([]float64, 0, len(nbrs))
		for _, n := range nbrs {
			if p, ok := pos[n]; ok {
				ps = append(ps, float64(p))
			}
		}
		if len(ps) == 0 {
			continue
		}
		slices.Sort(ps)
		movable = append(movable, rankKey{node: v, slot: i, median: median(ps), barycen: mean(ps)})
		slots = append(slots, i)
	}

	slices.SortStableFunc(movable, func(a, b rankKey) int {
		switch {
		case a.median != b.median:
			return cmpFloat(a.median, b.median)
		case a.barycen != b.barycen:
			return cmpFloat(a.barycen, b.barycen)
		default:
			return a.slot - b.slot
		}
	})
	for k, slot := range slots {
		layer[slot] = movable[k].node
	}
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func mean(vs []float64) float64 {
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func cmpFloat(a, b float64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func cloneLayers(layers [][]int) [][]int {
	out := make([][]int, len(layers))
	for i, l := range layers {
		out[i] = slices.Clone(l)
	}
	return out
}
