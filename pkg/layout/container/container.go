// Package container lays out graphs whose nodes are grouped into nested
// containers.
//
// Layout engines only understand flat graphs, so the [Orchestrator] walks the
// container forest bottom-up. Each container's direct children (nodes, and
// nested containers already sized as macro-nodes) are placed by the engine in
// a local frame. The container's size is the union of its children plus the
// padding of its kind; flow groups bypass the engine and become a single
// row. Once the top level is placed, every descendant is translated into
// the top-level frame and edge endpoints are clipped to the final node boxes.
//
// An edge is only seen at the level of the lowest container enclosing both of
// its endpoints, where it connects the two direct children holding them.
// Containers at the same depth are independent and are laid out in parallel.
package container

import (
	"context"
	"runtime"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/drawlayout/pkg/errors"
	"github.com/matzehuels/drawlayout/pkg/igr"
	"github.com/matzehuels/drawlayout/pkg/layout"
	"github.com/matzehuels/drawlayout/pkg/observability"
)

// Orchestrator applies one engine to every level of a container forest.
type Orchestrator struct {
	engine layout.Engine
	logger *log.Logger
}

// New returns an orchestrator that places every level with engine. A nil
// logger uses log.Default().
func New(engine layout.Engine, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{engine: engine, logger: logger}
}

// link is an edge lifted to the level of its lowest common container.
type link struct {
	from, to igr.Member
}

// Layout positions every node and container of g and sets every edge's
// endpoints. g must be valid and every node must have a size.
func (o *Orchestrator) Layout(ctx context.Context, g *igr.Graph, cfg igr.Config) error {
	cfg = cfg.WithDefaults()
	links := liftEdges(g)

	for _, level := range levels(g) {
		if err := o.layoutLevel(ctx, g, level, links, cfg); err != nil {
			return err
		}
	}

	if err := o.place(ctx, g, igr.NoContainer, g.Roots(), links[igr.NoContainer], cfg); err != nil {
		return err
	}
	for _, m := range g.Roots() {
		if m.Kind == igr.MemberContainer {
			b := g.Container(igr.ContainerIndex(m.Index)).Bounds
			translateChildren(g, igr.ContainerIndex(m.Index), b.X, b.Y)
		}
	}
	setEndpoints(g)
	return nil
}

// layoutLevel lays out the containers of one depth. Their children are
// disjoint, so each goroutine writes only its own container's members.
func (o *Orchestrator) layoutLevel(ctx context.Context, g *igr.Graph, level []igr.ContainerIndex, links map[igr.ContainerIndex][]link, cfg igr.Config) error {
	one := func(c igr.ContainerIndex) error {
		ct := g.Container(c)
		if err := o.place(ctx, g, c, ct.Members, links[c], cfg); err != nil {
			return errors.Wrap(codeOf(err), err, "lay out container %q", ct.ID)
		}
		return nil
	}

	if cfg.Sequential || len(level) == 1 {
		for _, c := range level {
			if err := one(c); err != nil {
				return err
			}
		}
		return nil
	}

	eg := new(errgroup.Group)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for _, c := range level {
		eg.Go(func() error { return one(c) })
	}
	return eg.Wait()
}

// place arranges the direct children of scope and writes their local
// positions. Flow containers line their children up; everything else runs
// the engine. For a container, positions are relative to its top-left corner
// and its bounds take the size of the children plus the kind's padding.
func (o *Orchestrator) place(ctx context.Context, g *igr.Graph, scope igr.ContainerIndex, members []igr.Member, links []link, cfg igr.Config) error {
	start := time.Now()
	flat := flatten(g, members, links)

	kind := igr.KindContainer
	if scope != igr.NoContainer {
		kind = g.Container(scope).Kind
	}
	switch {
	case len(flat.Items) == 0:
	case kind == igr.KindFlow:
		flowRow(flat, cfg.NodeSpacing*igr.FlowGapFactor)
	default:
		if err := o.engine.Place(ctx, flat, cfg); err != nil {
			return err
		}
		if !flat.Finite() {
			return errors.New(errors.ErrCodeNumericInstability, "engine %s produced non-finite positions", o.engine.Name())
		}
		flat.Normalize()
	}

	offset := 0.0
	if scope != igr.NoContainer {
		offset = kind.Padding(cfg)
		b := flat.Bounds()
		g.Container(scope).Bounds = igr.Rect{Width: b.Width + 2*offset, Height: b.Height + 2*offset}
	}
	for i, m := range members {
		x, y := flat.Items[i].X+offset, flat.Items[i].Y+offset
		if m.Kind == igr.MemberNode {
			n := g.Node(igr.NodeIndex(m.Index))
			n.X, n.Y = x, y
		} else {
			b := &g.Container(igr.ContainerIndex(m.Index)).Bounds
			b.X, b.Y = x, y
		}
	}

	id := ""
	if scope != igr.NoContainer {
		id = g.Container(scope).ID
	}
	elapsed := time.Since(start)
	observability.Layout().OnContainerLaidOut(ctx, id, len(members), elapsed)
	o.logger.Debug("laid out container", "id", id, "kind", kind, "children", len(members), "links", len(flat.Links), "elapsed", elapsed)
	return nil
}

// flowRow places the items left to right in order, gap apart, with their
// centers on one horizontal line.
func flowRow(flat *layout.Graph, gap float64) {
	height := 0.0
	for _, it := range flat.Items {
		height = max(height, it.Height)
	}
	x := 0.0
	for i := range flat.Items {
		it := &flat.Items[i]
		it.X, it.Y = x, (height-it.Height)/2
		x += it.Width + gap
	}
}

// TopLevel returns the flat graph the top level of g is placed as: the root
// nodes and containers sized by their current boxes, linked by the edges
// whose lowest common container is the top level.
func TopLevel(g *igr.Graph) *layout.Graph {
	return flatten(g, g.Roots(), liftEdges(g)[igr.NoContainer])
}

// flatten builds the flat graph of members. Links between the same pair of
// members collapse into one.
func flatten(g *igr.Graph, members []igr.Member, links []link) *layout.Graph {
	flat := &layout.Graph{Items: make([]layout.Item, len(members))}
	index := make(map[igr.Member]int, len(members))
	for i, m := range members {
		r := g.MemberRect(m)
		flat.Items[i] = layout.Item{ID: g.MemberID(m), Width: r.Width, Height: r.Height}
		index[m] = i
	}
	seen := make(map[layout.Link]bool, len(links))
	for _, l := range links {
		fl := layout.Link{From: index[l.from], To: index[l.to]}
		if !seen[fl] {
			seen[fl] = true
			flat.Links = append(flat.Links, fl)
		}
	}
	return flat
}

// levels groups containers by depth, deepest first. Within a level,
// containers keep their insertion order.
func levels(g *igr.Graph) [][]igr.ContainerIndex {
	var out [][]igr.ContainerIndex
	for c := range g.ContainerCount() {
		ci := igr.ContainerIndex(c)
		d := g.Depth(ci)
		for len(out) <= d {
			out = append(out, nil)
		}
		out[d] = append(out[d], ci)
	}
	slices.Reverse(out)
	return out
}

// ancestors returns the containers enclosing n from the innermost outwards.
func ancestors(g *igr.Graph, n igr.NodeIndex) []igr.ContainerIndex {
	var out []igr.ContainerIndex
	for c := g.Node(n).Parent; c != igr.NoContainer; c = g.Container(c).Parent {
		out = append(out, c)
	}
	return out
}

// liftEdges assigns every edge between distinct direct children to its lowest
// common container, keyed by container (igr.NoContainer for the top level).
// Edges inside a single child are dropped at that level: they are handled
// further down or are self-loops.
func liftEdges(g *igr.Graph) map[igr.ContainerIndex][]link {
	out := make(map[igr.ContainerIndex][]link)
	for i := range g.EdgeCount() {
		from, to := g.Edge(i).Endpoints()
		scope := lowestCommon(ancestors(g, from), ancestors(g, to))
		a, _ := g.ChildOf(scope, from)
		b, _ := g.ChildOf(scope, to)
		if a == b {
			continue
		}
		out[scope] = append(out[scope], link{from: a, to: b})
	}
	return out
}

// lowestCommon returns the innermost container present in both ancestor
// chains, or igr.NoContainer.
func lowestCommon(a, b []igr.ContainerIndex) igr.ContainerIndex {
	for _, c := range a {
		if slices.Contains(b, c) {
			return c
		}
	}
	return igr.NoContainer
}

// translateChildren moves the members of c, stored relative to c's corner,
// by (dx, dy) and recurses into nested containers.
func translateChildren(g *igr.Graph, c igr.ContainerIndex, dx, dy float64) {
	for _, m := range g.Container(c).Members {
		if m.Kind == igr.MemberNode {
			n := g.Node(igr.NodeIndex(m.Index))
			n.X += dx
			n.Y += dy
			continue
		}
		ct := g.Container(igr.ContainerIndex(m.Index))
		ct.Bounds = ct.Bounds.Translate(dx, dy)
		translateChildren(g, igr.ContainerIndex(m.Index), ct.Bounds.X, ct.Bounds.Y)
	}
}

// setEndpoints clips every edge to the boxes of its endpoints along the line
// between their centers.
func setEndpoints(g *igr.Graph) {
	for _, e := range g.Edges() {
		from, to := e.Endpoints()
		fr, tr := g.Node(from).Rect(), g.Node(to).Rect()
		e.Start = igr.ClipToBoundary(fr, tr.Center())
		e.End = igr.ClipToBoundary(tr, fr.Center())
	}
}

func codeOf(err error) errors.Code {
	if c := errors.GetCode(err); c != "" {
		return c
	}
	return errors.ErrCodeInternal
}
