package igr

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSnapshotApply(t *testing.T) {
	g := buildNested(t)
	g.Node(0).X, g.Node(0).Y = 12, 34
	g.Container(1).Bounds = Rect{X: 1, Y: 2, Width: 3, Height: 4}
	g.Edge(0).Start = Point{X: 5, Y: 6}

	snap := g.Snapshot()

	other := buildNested(t)
	if err := other.Apply(snap); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if diff := cmp.Diff(snap, other.Snapshot()); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}

	g.ResetGeometry()
	if g.Node(0).X != 0 || g.Container(1).Bounds != (Rect{}) || g.Edge(0).Start != (Point{}) {
		t.Error("ResetGeometry() left geometry behind")
	}
	if g.Node(0).Width != 100 {
		t.Errorf("ResetGeometry() changed width to %v", g.Node(0).Width)
	}
}

func TestApplyRejectsForeignSnapshot(t *testing.T) {
	g := buildNested(t)
	snap := g.Snapshot()
	delete(snap.Nodes, "c")

	other := buildNested(t)
	other.Node(0).X = 7
	if err := other.Apply(snap); err == nil {
		t.Fatal("Apply() error = nil, want missing node error")
	}
	if other.Node(0).X != 7 {
		t.Error("Apply() wrote geometry before failing")
	}
}

func TestFingerprint(t *testing.T) {
	base := buildNested(t).Fingerprint()

	if got := buildNested(t).Fingerprint(); got != base {
		t.Errorf("Fingerprint() = %x for equal graph, want %x", got, base)
	}

	tests := []struct {
		name   string
		mutate func(g *Graph)
		same   bool
	}{
		{"color ignored", func(g *Graph) { g.Node(0).Style.BackgroundColor = "#fff" }, true},
		{"sequential ignored", func(g *Graph) { g.Config.Sequential = true }, true},
		{"label", func(g *Graph) { g.Node(0).Label = "renamed" }, false},
		{"size", func(g *Graph) { g.Node(0).Width = 101 }, false},
		{"algorithm", func(g *Graph) { g.Config.Algorithm = "force" }, false},
		{"spacing", func(g *Graph) { g.Config.NodeSpacing = 1 }, false},
		{"edge", func(g *Graph) { g.AddEdge(Edge{From: "d", To: "a"}) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildNested(t)
			tt.mutate(g)
			if got := g.Fingerprint() == base; got != tt.same {
				t.Errorf("Fingerprint() equal = %v, want %v", got, tt.same)
			}
		})
	}
}
