// Package layout defines the contract shared by every layout algorithm.
//
// Algorithms never see containers. The container orchestrator flattens each
// level of the container forest into a [Graph] of sized boxes and the edges
// between them, hands it to an [Engine], and reads the positions back. This
// keeps every engine a pure function from sizes to positions in a local frame
// whose top-left corner is (0,0).
//
// The set of algorithms is closed ([Algorithm]); a [Registry] maps the names
// accepted in configuration to engines.
package layout

import (
	"context"
	"math"

	"github.com/matzehuels/drawlayout/pkg/igr"
)

// Item is one box of a flat graph: a node or a container acting as a
// macro-node. X and Y are the top-left corner, set by the engine.
type Item struct {
	ID     string
	Width  float64
	Height float64
	X, Y   float64
}

// Rect returns the item's box.
func (it Item) Rect() igr.Rect {
	return igr.Rect{X: it.X, Y: it.Y, Width: it.Width, Height: it.Height}
}

// Link is a directed connection between two items, by index.
type Link struct {
	From, To int
}

// Graph is a flat graph of sized boxes. Engines only write Item.X and
// Item.Y.
type Graph struct {
	Items []Item
	Links []Link
}

// Bounds returns the union of all item boxes, or the zero rect for an empty
// graph.
func (g *Graph) Bounds() igr.Rect {
	if len(g.Items) == 0 {
		return igr.Rect{}
	}
	b := g.Items[0].Rect()
	for _, it := range g.Items[1:] {
		b = b.Union(it.Rect())
	}
	return b
}

// Normalize translates every item so the top-left corner of the bounds is
// (0,0).
func (g *Graph) Normalize() {
	b := g.Bounds()
	for i := range g.Items {
		g.Items[i].X -= b.X
		g.Items[i].Y -= b.Y
	}
}

// Finite reports whether every item position is finite.
func (g *Graph) Finite() bool {
	for _, it := range g.Items {
		if math.IsNaN(it.X) || math.IsInf(it.X, 0) || math.IsNaN(it.Y) || math.IsInf(it.Y, 0) {
			return false
		}
	}
	return true
}

// Engine places the items of a flat graph.
//
// Place must write a finite X and Y for every item or return an error; on
// error the item positions are unspecified. Engines are safe for concurrent
// use on distinct graphs.
type Engine interface {
	Name() string
	Place(ctx context.Context, g *Graph, cfg igr.Config) error
}
