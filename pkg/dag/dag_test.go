package dag

import (
	"errors"
	"slices"
	"testing"
)

func chain(ids ...string) *DAG {
	g := New()
	for i, id := range ids {
		g.AddNode(Node{ID: id, Row: i})
	}
	for i := 0; i+1 < len(ids); i++ {
		g.AddEdge(i, i+1)
	}
	return g
}

func TestAddEdgeErrors(t *testing.T) {
	g := chain("a", "b")
	tests := []struct {
		name     string
		from, to int
		want     error
	}{
		{"unknown source", 5, 0, ErrUnknownSourceNode},
		{"unknown target", 0, -1, ErrUnknownTargetNode},
		{"self loop", 1, 1, ErrSelfLoop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.AddEdge(tt.from, tt.to); !errors.Is(err, tt.want) {
				t.Errorf("AddEdge(%d, %d) error = %v, want %v", tt.from, tt.to, err, tt.want)
			}
		})
	}
}

func TestReverse(t *testing.T) {
	g := chain("a", "b", "c")
	g.Reverse(1)

	e := g.Edge(1)
	if e.From != 2 || e.To != 1 || !e.Reversed {
		t.Errorf("Reverse() edge = %+v, want 2->1 reversed", *e)
	}
	if got := g.Children(2); !slices.Equal(got, []int{1}) {
		t.Errorf("Children(c) = %v, want [1]", got)
	}
	if got := g.Parents(2); len(got) != 0 {
		t.Errorf("Parents(c) = %v, want none", got)
	}

	g.Reverse(1)
	if g.Edge(1).Reversed {
		t.Error("Reverse() twice left Reversed set")
	}
}

func TestRetarget(t *testing.T) {
	g := chain("a", "b")
	x := g.AddNode(Node{ID: "x", Row: 1})
	g.Retarget(0, x)

	if got := g.Children(0); !slices.Equal(got, []int{x}) {
		t.Errorf("Children(a) = %v, want [%d]", got, x)
	}
	if g.InDegree(1) != 0 || g.InDegree(x) != 1 {
		t.Errorf("InDegree(b)=%d InDegree(x)=%d, want 0 and 1", g.InDegree(1), g.InDegree(x))
	}
}

func TestRows(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a", Row: 1})
	g.AddNode(Node{ID: "b", Row: 0})
	g.AddNode(Node{ID: "c", Row: 1})

	rows := g.Rows(nil)
	if len(rows) != 2 || !slices.Equal(rows[0], []int{1}) || !slices.Equal(rows[1], []int{0, 2}) {
		t.Errorf("Rows(nil) = %v, want [[1] [0 2]]", rows)
	}
	if sub := g.Rows([]int{2}); len(sub) != 2 || len(sub[0]) != 0 || !slices.Equal(sub[1], []int{2}) {
		t.Errorf("Rows([2]) = %v, want [[] [2]]", sub)
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid chain", func(t *testing.T) {
		if err := chain("a", "b", "c").Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("skipping a row", func(t *testing.T) {
		g := chain("a", "b", "c")
		g.AddEdge(0, 2)
		if err := g.Validate(); !errors.Is(err, ErrNonConsecutiveRows) {
			t.Errorf("Validate() error = %v, want ErrNonConsecutiveRows", err)
		}
	})

	t.Run("cycle", func(t *testing.T) {
		g := New()
		g.AddNode(Node{ID: "a"})
		g.AddNode(Node{ID: "b"})
		g.AddEdge(0, 1)
		g.AddEdge(1, 0)
		if g.Acyclic() {
			t.Error("Acyclic() = true, want false")
		}
	})
}

func TestCountCrossings(t *testing.T) {
	// Complete bipartite K(2,2) in the worst order has one crossing.
	g := New()
	a := g.AddNode(Node{ID: "a"})
	b := g.AddNode(Node{ID: "b"})
	x := g.AddNode(Node{ID: "x", Row: 1})
	y := g.AddNode(Node{ID: "y", Row: 1})
	g.AddEdge(a, x)
	g.AddEdge(a, y)
	g.AddEdge(b, x)
	g.AddEdge(b, y)

	if got := CountCrossings(g, [][]int{{a, b}, {x, y}}); got != 1 {
		t.Errorf("CountCrossings(K22) = %d, want 1", got)
	}
	if got := CountCrossings(g, [][]int{{a, b}, {}}); got != 0 {
		t.Errorf("CountCrossings(empty row) = %d, want 0", got)
	}
}

func TestCountLayerCrossingsMatchesNaive(t *testing.T) {
	g := New()
	upper := make([]int, 5)
	lower := make([]int, 5)
	for i := range upper {
		upper[i] = g.AddNode(Node{Row: 0})
	}
	for i := range lower {
		lower[i] = g.AddNode(Node{Row: 1})
	}
	pairs := [][2]int{{0, 4}, {0, 1}, {1, 3}, {2, 0}, {3, 2}, {4, 1}, {4, 0}, {2, 4}}
	for _, p := range pairs {
		g.AddEdge(upper[p[0]], lower[p[1]])
	}

	naive := 0
	for i, p := range pairs {
		for _, q := range pairs[i+1:] {
			if (p[0]-q[0])*(p[1]-q[1]) < 0 {
				naive++
			}
		}
	}
	if got := CountLayerCrossings(g, upper, lower); got != naive {
		t.Errorf("CountLayerCrossings() = %d, want %d", got, naive)
	}
}
