package delegate

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/awalterschulze/gographviz"
	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/drawlayout/pkg/errors"
	"github.com/matzehuels/drawlayout/pkg/igr"
	"github.com/matzehuels/drawlayout/pkg/layout"
)

// pointsPerInch converts between layout pixels and Graphviz inches.
const pointsPerInch = 72.0

const graphName = "G"

// Renderer runs Graphviz on a DOT document and returns the positioned DOT
// output.
type Renderer func(ctx context.Context, dot []byte, algo graphviz.Layout) ([]byte, error)

// Engine places flat graphs with Graphviz.
type Engine struct {
	name   string
	algo   graphviz.Layout
	render Renderer

	mu sync.Mutex
	gv *graphviz.Graphviz
}

// New returns the delegate engine registered under name. "neato" uses the
// neato layout; every other name uses dot.
func New(name string) *Engine {
	e := &Engine{name: name, algo: graphviz.DOT}
	if name == layout.NameNeato {
		e.algo = graphviz.NEATO
	}
	e.render = e.runGraphviz
	return e
}

// WithRenderer returns a copy of the engine that renders through r instead
// of the embedded Graphviz runtime.
func (e *Engine) WithRenderer(r Renderer) *Engine {
	return &Engine{name: e.name, algo: e.algo, render: r}
}

// Name implements layout.Engine.
func (e *Engine) Name() string { return e.name }

// Place implements layout.Engine.
func (e *Engine) Place(ctx context.Context, g *layout.Graph, cfg igr.Config) error {
	if len(g.Items) == 0 {
		return nil
	}
	cfg = cfg.WithDefaults()

	dot, err := buildDOT(g, cfg, e.algo)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDelegateFailure, err, "%s: build DOT input", e.name)
	}
	out, err := e.render(ctx, []byte(dot), e.algo)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDelegateFailure, err, "%s: run graphviz", e.name)
	}
	centers, err := parsePositions(out, len(g.Items))
	if err != nil {
		return errors.Wrap(errors.ErrCodeDelegateFailure, err, "%s: read graphviz output", e.name)
	}

	for i := range g.Items {
		it := &g.Items[i]
		it.X = centers[i].X - it.Width/2
		it.Y = centers[i].Y - it.Height/2
	}
	g.Normalize()
	return nil
}

// Close releases the Graphviz runtime, if one was started.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gv == nil {
		return nil
	}
	err := e.gv.Close()
	e.gv = nil
	return err
}

// runGraphviz renders dot with the embedded runtime. The runtime is started
// on first use and shared by later calls, which are serialized.
func (e *Engine) runGraphviz(ctx context.Context, dot []byte, algo graphviz.Layout) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gv == nil {
		gv, err := graphviz.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("init graphviz: %w", err)
		}
		e.gv = gv
	}
	e.gv.SetLayout(algo)

	g, err := graphviz.ParseBytes(dot)
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := e.gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// ToDOT returns the DOT document the delegate would hand to Graphviz for g.
func ToDOT(g *layout.Graph, cfg igr.Config) (string, error) {
	cfg = cfg.WithDefaults()
	algo := graphviz.DOT
	if cfg.Algorithm == layout.NameNeato {
		algo = graphviz.NEATO
	}
	return buildDOT(g, cfg, algo)
}

func nodeName(i int) string { return "n" + strconv.Itoa(i) }

func inches(px float64) string {
	return strconv.FormatFloat(px/pointsPerInch, 'f', 4, 64)
}

func rankdir(d igr.Direction) string {
	switch d {
	case igr.BottomToTop:
		return "BT"
	case igr.LeftToRight:
		return "LR"
	case igr.RightToLeft:
		return "RL"
	default:
		return "TB"
	}
}

func buildDOT(g *layout.Graph, cfg igr.Config, algo graphviz.Layout) (string, error) {
	gv := gographviz.NewGraph()
	if err := gv.SetName(graphName); err != nil {
		return "", err
	}
	if err := gv.SetDir(true); err != nil {
		return "", err
	}

	attrs := map[string]string{
		"rankdir": rankdir(cfg.Direction),
		"nodesep": inches(cfg.NodeSpacing),
		"ranksep": inches(cfg.RankSpacing),
	}
	if algo == graphviz.NEATO {
		attrs["start"] = strconv.FormatUint(cfg.Seed, 10)
		attrs["overlap"] = "false"
	}
	for _, k := range []string{"rankdir", "nodesep", "ranksep", "start", "overlap"} {
		v, ok := attrs[k]
		if !ok {
			continue
		}
		if err := gv.AddAttr(graphName, k, v); err != nil {
			return "", err
		}
	}

	for i, it := range g.Items {
		err := gv.AddNode(graphName, nodeName(i), map[string]string{
			"label":     fmt.Sprintf("%q", it.ID),
			"shape":     "box",
			"fixedsize": "true",
			"width":     inches(it.Width),
			"height":    inches(it.Height),
		})
		if err != nil {
			return "", err
		}
	}

	var edgeAttrs map[string]string
	if algo == graphviz.NEATO {
		edgeAttrs = map[string]string{"len": inches(cfg.IdealEdgeLength)}
	}
	for _, l := range g.Links {
		if l.From < 0 || l.From >= len(g.Items) || l.To < 0 || l.To >= len(g.Items) {
			return "", fmt.Errorf("link %d->%d out of range", l.From, l.To)
		}
		if err := gv.AddEdge(nodeName(l.From), nodeName(l.To), true, edgeAttrs); err != nil {
			return "", err
		}
	}
	return gv.String(), nil
}

// parsePositions reads node centers from positioned DOT output. Centers are
// returned in pixels with the y axis pointing down.
func parsePositions(out []byte, n int) ([]igr.Point, error) {
	g, err := gographviz.Read(out)
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}

	centers := make([]igr.Point, n)
	for i := range centers {
		node, ok := g.Nodes.Lookup[nodeName(i)]
		if !ok {
			return nil, fmt.Errorf("node %s missing from output", nodeName(i))
		}
		pos, ok := node.Attrs["pos"]
		if !ok {
			return nil, fmt.Errorf("node %s has no position", nodeName(i))
		}
		p, err := parsePoint(pos)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", nodeName(i), err)
		}
		centers[i] = igr.Point{X: p.X, Y: -p.Y}
	}
	return centers, nil
}

// parsePoint parses a Graphviz point such as "27,18" or "27,18!".
func parsePoint(s string) (igr.Point, error) {
	s = strings.Trim(s, `"`)
	s = strings.TrimSuffix(s, "!")
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return igr.Point{}, fmt.Errorf("malformed position %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return igr.Point{}, fmt.Errorf("malformed position %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return igr.Point{}, fmt.Errorf("malformed position %q: %w", s, err)
	}
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return igr.Point{}, fmt.Errorf("non-finite position %q", s)
	}
	return igr.Point{X: x, Y: y}, nil
}
