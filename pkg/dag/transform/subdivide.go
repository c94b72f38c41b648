package transform

import (
	"fmt"

	"github.com/matzehuels/drawlayout/pkg/dag"
)

// Subdivide breaks edges that span multiple rows into chains of single-row
// edges connected by zero-extent subdivider nodes, and returns the number of
// subdividers added. For example:
//
//	Before: a (row 0) → d (row 3)
//	After:  a → a_sub_1 → a_sub_2 → d
//
// The original edge keeps its index and becomes the first segment; the other
// segments are appended with the same [dag.Edge.Origin]. Each subdivider
// records the origin edge in [dag.Node.Origin].
//
// Subdivider ids have the form "source_sub_row" and get a numeric suffix
// on collision.
func Subdivide(g *dag.DAG) int {
	gen := newIDGen(g)
	added := 0
	edges := g.EdgeCount()
	for e := range edges {
		ed := g.Edge(e)
		src, dst := ed.From, ed.To
		srcRow, dstRow := g.Node(src).Row, g.Node(dst).Row
		if dstRow <= srcRow+1 {
			continue
		}

		origin, reversed := ed.Origin, ed.Reversed
		prev := -1
		for row := srcRow + 1; row < dstRow; row++ {
			sub := g.AddNode(dag.Node{
				ID:     gen.next(g.Node(src).ID, row),
				Row:    row,
				Kind:   dag.NodeKindSubdivider,
				Origin: origin,
			})
			added++
			if prev < 0 {
				g.Retarget(e, sub)
			} else {
				addSegment(g, prev, sub, origin, reversed)
			}
			prev = sub
		}
		addSegment(g, prev, dst, origin, reversed)
	}
	return added
}

func addSegment(g *dag.DAG, from, to, origin int, reversed bool) {
	idx, err := g.AddSegment(from, to, origin)
	if err != nil {
		panic(err)
	}
	g.Edge(idx).Reversed = reversed
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(g *dag.DAG) *idGen {
	m := make(map[string]struct{}, g.NodeCount()*2)
	for i := range g.NodeCount() {
		m[g.Node(i).ID] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(base string, row int) string {
	prefix := fmt.Sprintf("%s_sub_%d", base, row)
	id := prefix
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", prefix, i)
	}
}
