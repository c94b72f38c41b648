package pipeline

import (
	"context"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/drawlayout/pkg/cache"
	"github.com/matzehuels/drawlayout/pkg/errors"
	"github.com/matzehuels/drawlayout/pkg/igr"
	"github.com/matzehuels/drawlayout/pkg/layout"
	"github.com/matzehuels/drawlayout/pkg/layout/hierarchical"
)

type countingEngine struct {
	layout.Engine
	calls atomic.Int32
}

func (e *countingEngine) Place(ctx context.Context, g *layout.Graph, cfg igr.Config) error {
	e.calls.Add(1)
	return e.Engine.Place(ctx, g, cfg)
}

type failingEngine struct {
	name string
	code errors.Code
}

func (e *failingEngine) Name() string { return e.name }

func (e *failingEngine) Place(context.Context, *layout.Graph, igr.Config) error {
	return errors.New(e.code, "%s failed", e.name)
}

func quietLogger() *log.Logger { return log.New(io.Discard) }

func newManager(t *testing.T, reg *layout.Registry) *Manager {
	t.Helper()
	m, err := NewManager(Options{Logger: quietLogger(), Registry: reg})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func diamond(t *testing.T) *igr.Graph {
	t.Helper()
	g := igr.New(igr.Config{})
	for _, id := range []string{"A", "B", "C", "D"} {
		if _, err := g.AddNode(igr.Node{ID: id, Width: 100, Height: 50}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range [][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}} {
		if _, err := g.AddEdge(igr.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func node(g *igr.Graph, id string) *igr.Node {
	i, _ := g.NodeByID(id)
	return g.Node(i)
}

func TestDefaultRegistry(t *testing.T) {
	m := newManager(t, nil)
	want := []string{"dagre", "elk", "force", "graphviz", "hierarchical", "neato"}
	if diff := cmp.Diff(want, m.Engines()); diff != "" {
		t.Errorf("Engines() mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutDiamond(t *testing.T) {
	m := newManager(t, nil)
	g := diamond(t)

	res, err := m.LayoutWithCacheInfo(context.Background(), g, igr.Config{})
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if res.Engine != "hierarchical" || res.CacheHit || res.RunID == "" {
		t.Errorf("Result = %+v", res)
	}

	a, b, c, d := node(g, "A"), node(g, "B"), node(g, "C"), node(g, "D")
	if !(a.Y < b.Y && b.Y == c.Y && c.Y < d.Y) {
		t.Errorf("ranks: A.Y=%v B.Y=%v C.Y=%v D.Y=%v", a.Y, b.Y, c.Y, d.Y)
	}
	for _, e := range g.Edges() {
		from, to := e.Endpoints()
		if e.Start == (igr.Point{}) && e.End == (igr.Point{}) {
			t.Errorf("edge %s->%s has no endpoints", g.Node(from).ID, g.Node(to).ID)
		}
	}
}

func TestUnknownEngineFailsBeforeWork(t *testing.T) {
	eng := &countingEngine{Engine: hierarchical.New()}
	reg := layout.NewRegistry()
	reg.Register(layout.NameHierarchical, eng)
	m := newManager(t, reg)
	g := diamond(t)

	err := m.Layout(context.Background(), g, igr.Config{Algorithm: "spring-embedder"})
	if !errors.Is(err, errors.ErrCodeUnknownEngine) {
		t.Fatalf("Layout() error = %v, want UNKNOWN_ENGINE", err)
	}
	if eng.calls.Load() != 0 {
		t.Error("engine ran for an unknown engine name")
	}

	err = m.Layout(context.Background(), g, igr.Config{Fallback: "nope"})
	if !errors.Is(err, errors.ErrCodeUnknownEngine) {
		t.Errorf("unknown fallback: error = %v, want UNKNOWN_ENGINE", err)
	}
}

func TestInvalidInputs(t *testing.T) {
	m := newManager(t, nil)

	err := m.Layout(context.Background(), diamond(t), igr.Config{NodeSpacing: -5})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("negative spacing: error = %v, want INVALID_CONFIG", err)
	}

	g := igr.New(igr.Config{})
	if _, err := g.AddNode(igr.Node{ID: "bad", Width: -1, Height: 10}); err != nil {
		t.Fatal(err)
	}
	err = m.Layout(context.Background(), g, igr.Config{})
	if !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("negative size: error = %v, want INVALID_GRAPH", err)
	}
}

func TestCacheHitReturnsCopy(t *testing.T) {
	eng := &countingEngine{Engine: hierarchical.New()}
	reg := layout.NewRegistry()
	reg.Register(layout.NameHierarchical, eng)
	m := newManager(t, reg)
	ctx := context.Background()

	first := diamond(t)
	if err := m.Layout(ctx, first, igr.Config{}); err != nil {
		t.Fatal(err)
	}
	calls := eng.calls.Load()
	want := first.Snapshot()
	node(first, "A").X = 9999

	second := diamond(t)
	res, err := m.LayoutWithCacheInfo(ctx, second, igr.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheHit {
		t.Error("second layout was not a cache hit")
	}
	if eng.calls.Load() != calls {
		t.Error("engine ran on a cache hit")
	}
	if diff := cmp.Diff(want, second.Snapshot()); diff != "" {
		t.Errorf("cached geometry mismatch (-first +second):\n%s", diff)
	}

	if _, err := m.LayoutWithCacheInfo(ctx, diamond(t), igr.Config{Direction: igr.LeftToRight}); err != nil {
		t.Fatal(err)
	}
	if s := m.Stats(); s.Misses != 2 || s.Hits != 1 {
		t.Errorf("Stats() = %+v, want 2 misses and 1 hit", s)
	}

	m.Purge()
	if res, _ := m.LayoutWithCacheInfo(ctx, diamond(t), igr.Config{}); res.CacheHit {
		t.Error("cache hit after Purge")
	}
}

func TestConcurrentLayoutsComputeOnce(t *testing.T) {
	m := newManager(t, nil)
	ctx := context.Background()

	graphs := make([]*igr.Graph, 8)
	for i := range graphs {
		graphs[i] = diamond(t)
	}
	var wg sync.WaitGroup
	for _, g := range graphs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.Layout(ctx, g, igr.Config{}); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if s := m.Stats(); s.Misses != 1 {
		t.Errorf("%d computations for one fingerprint, want 1", s.Misses)
	}
	want := graphs[0].Snapshot()
	for i, g := range graphs[1:] {
		if diff := cmp.Diff(want, g.Snapshot()); diff != "" {
			t.Errorf("graph %d differs (-first +got):\n%s", i+1, diff)
		}
	}
}

func TestGraphConfigIsMerged(t *testing.T) {
	m := newManager(t, nil)
	g := diamond(t)
	g.Config.Direction = igr.LeftToRight

	if err := m.Layout(context.Background(), g, igr.Config{}); err != nil {
		t.Fatal(err)
	}
	if a, d := node(g, "A"), node(g, "D"); !(a.X < d.X && a.Y == d.Y) {
		t.Errorf("left-to-right: A=(%v,%v) D=(%v,%v)", a.X, a.Y, d.X, d.Y)
	}
}

func TestFallbackOnDelegateFailure(t *testing.T) {
	reg := layout.NewRegistry()
	reg.Register(layout.NameHierarchical, hierarchical.New())
	reg.Register(layout.NameGraphviz, &failingEngine{name: layout.NameGraphviz, code: errors.ErrCodeDelegateFailure})
	reg.Register(layout.NameForce, &failingEngine{name: layout.NameForce, code: errors.ErrCodeNumericInstability})
	m := newManager(t, reg)
	ctx := context.Background()

	res, err := m.LayoutWithCacheInfo(ctx, diamond(t), igr.Config{Algorithm: "graphviz", Fallback: "hierarchical"})
	if err != nil {
		t.Fatalf("with fallback: %v", err)
	}
	if res.Engine != layout.NameHierarchical {
		t.Errorf("Engine = %q, want hierarchical", res.Engine)
	}

	err = m.Layout(ctx, diamond(t), igr.Config{Algorithm: "graphviz"})
	if !errors.Is(err, errors.ErrCodeDelegateFailure) {
		t.Errorf("without fallback: error = %v, want DELEGATE_FAILURE", err)
	}

	err = m.Layout(ctx, diamond(t), igr.Config{Algorithm: "force", Fallback: "hierarchical"})
	if !errors.Is(err, errors.ErrCodeNumericInstability) {
		t.Errorf("non-delegate failure: error = %v, want NUMERIC_INSTABILITY", err)
	}

	err = m.Layout(ctx, diamond(t), igr.Config{Algorithm: "force", Fallback: "spring"})
	if !errors.Is(err, errors.ErrCodeUnknownEngine) {
		t.Errorf("unknown fallback: error = %v, want UNKNOWN_ENGINE", err)
	}
}

func TestUnreadableCachedLayoutIsRecomputed(t *testing.T) {
	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	eng := &countingEngine{Engine: hierarchical.New()}
	reg := layout.NewRegistry()
	reg.Register(layout.NameHierarchical, eng)

	first, err := NewManager(Options{Logger: quietLogger(), Registry: reg, Backend: backend})
	if err != nil {
		t.Fatal(err)
	}
	want := diamond(t)
	res, err := first.LayoutWithCacheInfo(ctx, want, igr.Config{})
	if err != nil {
		t.Fatal(err)
	}
	key := cache.NewDefaultKeyer().LayoutKey(res.Fingerprint)
	if err := backend.Set(ctx, key, []byte(`{"engine": "hierarchical", "snapshot": [`), 0); err != nil {
		t.Fatal(err)
	}

	// A fresh manager has an empty memory tier, so it reads the broken entry.
	second, err := NewManager(Options{Logger: quietLogger(), Registry: reg, Backend: backend})
	if err != nil {
		t.Fatal(err)
	}
	calls := eng.calls.Load()
	got := diamond(t)
	res, err = second.LayoutWithCacheInfo(ctx, got, igr.Config{})
	if err != nil {
		t.Fatalf("LayoutWithCacheInfo() error = %v, want recompute", err)
	}
	if res.CacheHit {
		t.Error("CacheHit = true for a recomputed layout")
	}
	if eng.calls.Load() == calls {
		t.Error("engine did not run after the cached entry was discarded")
	}
	if diff := cmp.Diff(want.Snapshot(), got.Snapshot()); diff != "" {
		t.Errorf("recomputed geometry mismatch (-want +got):\n%s", diff)
	}

	data, ok, err := backend.Get(ctx, key)
	if err != nil || !ok || !strings.Contains(string(data), `"snapshot"`) {
		t.Errorf("backend entry after recompute = %q, %v, %v", data, ok, err)
	}
}

func TestFailureKeepsGeometry(t *testing.T) {
	reg := layout.NewRegistry()
	reg.Register(layout.NameForce, &failingEngine{name: layout.NameForce, code: errors.ErrCodeNumericInstability})
	m := newManager(t, reg)

	g := diamond(t)
	node(g, "B").X = 42
	before := g.Snapshot()
	if err := m.Layout(context.Background(), g, igr.Config{Algorithm: "force"}); err == nil {
		t.Fatal("expected an error")
	}
	if diff := cmp.Diff(before, g.Snapshot()); diff != "" {
		t.Errorf("geometry changed on failure (-before +after):\n%s", diff)
	}
}

func TestForceThroughManagerIsDeterministic(t *testing.T) {
	ctx := context.Background()
	run := func() *igr.Snapshot {
		m := newManager(t, nil)
		g := diamond(t)
		if err := m.Layout(ctx, g, igr.Config{Algorithm: "force", Seed: 3}); err != nil {
			t.Fatal(err)
		}
		return g.Snapshot()
	}
	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("force layout not reproducible (-first +second):\n%s", diff)
	}
}
