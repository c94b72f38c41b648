// Package hierarchical implements the layered (Sugiyama) layout.
//
// The pipeline runs in strict order on a [dag.DAG] built from the flat
// graph:
//
//  1. Cycle breaking: back edges found by depth-first search are reversed
//     for ranking only.
//  2. Rank assignment: longest path from any source, ties by input order.
//  3. Crossing minimization: long edges are subdivided, then alternating
//     median sweeps reorder every rank; the ordering with the fewest
//     crossings seen is kept ([Order]).
//  4. Coordinate assignment: boxes are packed along each rank with the
//     configured spacing and pulled toward their neighbours without ever
//     violating that spacing; ranks are stacked along the flow direction.
//
// Disconnected components are laid out one by one and packed side by side
// along the rank axis. An empty graph is a no-op.
//
// [dag.DAG]: github.com/matzehuels/drawlayout/pkg/dag
package hierarchical

import (
	"context"

	"github.com/matzehuels/drawlayout/pkg/dag"
	"github.com/matzehuels/drawlayout/pkg/dag/transform"
	"github.com/matzehuels/drawlayout/pkg/errors"
	"github.com/matzehuels/drawlayout/pkg/igr"
	"github.com/matzehuels/drawlayout/pkg/layout"
)

// Engine is the hierarchical layout engine. The zero value is ready to use.
type Engine struct{}

// New returns a hierarchical engine.
func New() *Engine { return &Engine{} }

// Name implements layout.Engine.
func (*Engine) Name() string { return layout.NameHierarchical }

// Place implements layout.Engine.
func (*Engine) Place(_ context.Context, g *layout.Graph, cfg igr.Config) error {
	if len(g.Items) == 0 {
		return nil
	}
	cfg = cfg.WithDefaults()

	d, err := build(g, cfg.Direction)
	if err != nil {
		return err
	}
	transform.BreakCycles(d)
	transform.AssignLayers(d)
	transform.Subdivide(d)

	centers := make([]point, d.NodeCount())
	offset := 0.0
	for _, comp := range transform.Components(d) {
		layers := trimLayers(d.Rows(comp))
		layers = Order(d, layers, cfg.Sweeps)
		width := assignCoordinates(d, layers, cfg, centers, offset)
		offset += width + cfg.NodeSpacing
	}

	for i := range g.Items {
		it := &g.Items[i]
		cx, cy := orient(centers[i], cfg.Direction)
		it.X = cx - it.Width/2
		it.Y = cy - it.Height/2
	}
	g.Normalize()
	return nil
}

// build converts the flat graph into a ranking DAG. Item i becomes node i;
// self-loops are dropped. Extents are stored rotated so that Width always
// runs along the rank and Height along the flow.
func build(g *layout.Graph, dir igr.Direction) (*dag.DAG, error) {
	d := dag.New()
	for _, it := range g.Items {
		w, h := it.Width, it.Height
		if dir.Horizontal() {
			w, h = h, w
		}
		d.AddNode(dag.Node{ID: it.ID, Width: w, Height: h, Origin: -1})
	}
	for _, l := range g.Links {
		if l.From == l.To {
			continue
		}
		if _, err := d.AddEdge(l.From, l.To); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "build ranking graph")
		}
	}
	return d, nil
}

func trimLayers(layers [][]int) [][]int {
	for len(layers) > 0 && len(layers[len(layers)-1]) == 0 {
		layers = layers[:len(layers)-1]
	}
	return layers
}

// point is a node center in the rank frame: s runs along a rank, p along
// the flow.
type point struct{ s, p float64 }

func orient(c point, dir igr.Direction) (x, y float64) {
	switch dir {
	case igr.BottomToTop:
		return c.s, -c.p
	case igr.LeftToRight:
		return c.p, c.s
	case igr.RightToLeft:
		return -c.p, c.s
	default:
		return c.s, c.p
	}
}
