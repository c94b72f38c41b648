package dag

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the source index
	// is out of range.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the target index
	// is out of range.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrSelfLoop is returned by [DAG.AddEdge] for an edge from a node to
	// itself. Self-loops carry no ranking information and are dropped by
	// callers before the graph is built.
	ErrSelfLoop = errors.New("self-loop")

	// ErrNonConsecutiveRows is returned by [DAG.Validate] when an edge
	// does not connect a node to one in the next row (From.Row+1 != To.Row).
	ErrNonConsecutiveRows = errors.New("edges must connect consecutive rows")

	// ErrGraphHasCycle is returned by [DAG.Validate] when a cycle is detected.
	// Cycles are detected using depth-first search with white/gray/black
	// coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// NodeKind distinguishes between original and synthetic nodes created during
// graph transformation.
type NodeKind int

const (
	// NodeKindRegular represents a box of the input graph.
	NodeKindRegular NodeKind = iota
	// NodeKindSubdivider represents a synthetic node inserted to subdivide a
	// long edge. Subdividers have zero extent and keep the index of the edge
	// they belong to in Origin.
	NodeKindSubdivider
)

// Node is a vertex with an assigned row (rank).
//
// Width and Height are the extent of the box the node stands for. Which of
// them counts along the rank depends on the layout direction, so both are
// kept.
type Node struct {
	ID     string
	Row    int
	Kind   NodeKind
	Width  float64
	Height float64

	// Origin is the index of the input edge a subdivider belongs to, or -1.
	Origin int
}

// IsSubdivider reports whether the node was inserted to break a long edge.
func (n Node) IsSubdivider() bool { return n.Kind == NodeKindSubdivider }

// Edge is a directed connection between two node indices.
type Edge struct {
	From int
	To   int

	// Reversed is set when cycle breaking flipped the edge. The input
	// direction is To -> From in that case.
	Reversed bool

	// Origin is the index of the input edge this edge or segment came from.
	Origin int
}

// DAG is a directed graph over integer node indices with ordered adjacency.
// Indices follow insertion order, and every traversal walks nodes and edges
// in that order, so all algorithms built on it are deterministic.
//
// Despite the name, a DAG may hold cycles until [transform.BreakCycles] has
// run; [DAG.Validate] reports them.
//
// The zero value is not usable; use [New].
// DAG is not safe for concurrent use without external synchronization.
type DAG struct {
	nodes []Node
	edges []Edge
	out   [][]int // node -> outgoing edge indices
	in    [][]int // node -> incoming edge indices
}

// New creates an empty DAG.
func New() *DAG {
	return &DAG{}
}

// AddNode appends a node and returns its index.
func (g *DAG) AddNode(n Node) int {
	g.nodes = append(g.nodes, n)
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return len(g.nodes) - 1
}

// AddEdge appends an edge from one node to another and returns its index.
// The edge is its own origin.
func (g *DAG) AddEdge(from, to int) (int, error) {
	return g.AddSegment(from, to, len(g.edges))
}

// AddSegment appends an edge that continues the input edge origin, as
// created when a long edge is subdivided.
func (g *DAG) AddSegment(from, to, origin int) (int, error) {
	if from < 0 || from >= len(g.nodes) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownSourceNode, from)
	}
	if to < 0 || to >= len(g.nodes) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownTargetNode, to)
	}
	if from == to {
		return 0, fmt.Errorf("%w: %q", ErrSelfLoop, g.nodes[from].ID)
	}
	idx := len(g.edges)
	g.edges = append(g.edges, Edge{From: from, To: to, Origin: origin})
	g.out[from] = append(g.out[from], idx)
	g.in[to] = append(g.in[to], idx)
	return idx, nil
}

// Reverse flips edge e in place and toggles its Reversed flag.
func (g *DAG) Reverse(e int) {
	ed := &g.edges[e]
	g.out[ed.From] = remove(g.out[ed.From], e)
	g.in[ed.To] = remove(g.in[ed.To], e)
	ed.From, ed.To = ed.To, ed.From
	ed.Reversed = !ed.Reversed
	g.out[ed.From] = append(g.out[ed.From], e)
	g.in[ed.To] = append(g.in[ed.To], e)
}

// Retarget points edge e at a new target node.
func (g *DAG) Retarget(e, to int) {
	ed := &g.edges[e]
	g.in[ed.To] = remove(g.in[ed.To], e)
	ed.To = to
	g.in[to] = append(g.in[to], e)
}

func remove(s []int, v int) []int {
	for i, x := range s {
		if x == v {
			return append(s[:i:i], s[i+1:]...)
		}
	}
	return s
}

// NodeCount returns the number of nodes.
func (g *DAG) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *DAG) EdgeCount() int { return len(g.edges) }

// Node returns the node at index i.
func (g *DAG) Node(i int) *Node { return &g.nodes[i] }

// Edge returns the edge at index i.
func (g *DAG) Edge(i int) *Edge { return &g.edges[i] }

// Edges returns a copy of all edges in index order.
func (g *DAG) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// OutEdges returns the indices of edges leaving node i, in insertion order.
// The slice must not be modified.
func (g *DAG) OutEdges(i int) []int { return g.out[i] }

// InEdges returns the indices of edges entering node i, in insertion order.
// The slice must not be modified.
func (g *DAG) InEdges(i int) []int { return g.in[i] }

// Children returns the targets of the edges leaving node i.
func (g *DAG) Children(i int) []int {
	out := make([]int, len(g.out[i]))
	for k, e := range g.out[i] {
		out[k] = g.edges[e].To
	}
	return out
}

// Parents returns the sources of the edges entering node i.
func (g *DAG) Parents(i int) []int {
	out := make([]int, len(g.in[i]))
	for k, e := range g.in[i] {
		out[k] = g.edges[e].From
	}
	return out
}

// InDegree returns the number of edges entering node i.
func (g *DAG) InDegree(i int) int { return len(g.in[i]) }

// OutDegree returns the number of edges leaving node i.
func (g *DAG) OutDegree(i int) int { return len(g.out[i]) }

// Sources returns the nodes without incoming edges, in index order.
func (g *DAG) Sources() []int {
	var out []int
	for i := range g.nodes {
		if len(g.in[i]) == 0 {
			out = append(out, i)
		}
	}
	return out
}

// RowCount returns one more than the highest row in use, or 0 for an empty
// graph.
func (g *DAG) RowCount() int {
	n := 0
	for i := range g.nodes {
		if g.nodes[i].Row+1 > n {
			n = g.nodes[i].Row + 1
		}
	}
	return n
}

// Rows groups the given nodes by row, keeping their relative order. A nil
// subset means every node. The result has [DAG.RowCount] entries.
func (g *DAG) Rows(subset []int) [][]int {
	rows := make([][]int, g.RowCount())
	if subset == nil {
		for i := range g.nodes {
			rows[g.nodes[i].Row] = append(rows[g.nodes[i].Row], i)
		}
		return rows
	}
	for _, i := range subset {
		rows[g.nodes[i].Row] = append(rows[g.nodes[i].Row], i)
	}
	return rows
}

// Validate checks that every edge connects consecutive rows and that the
// graph is acyclic.
func (g *DAG) Validate() error {
	for _, e := range g.edges {
		if g.nodes[e.From].Row+1 != g.nodes[e.To].Row {
			return fmt.Errorf("%w: %q (row %d) -> %q (row %d)", ErrNonConsecutiveRows,
				g.nodes[e.From].ID, g.nodes[e.From].Row, g.nodes[e.To].ID, g.nodes[e.To].Row)
		}
	}
	return g.detectCycles()
}

// Acyclic reports whether the graph has no directed cycle.
func (g *DAG) Acyclic() bool {
	return g.detectCycles() == nil
}

func (g *DAG) detectCycles() error {
	const (
		white = iota
		gray
		black
	)
	state := make([]uint8, len(g.nodes))
	var visit func(int) bool
	visit = func(u int) bool {
		state[u] = gray
		for _, e := range g.out[u] {
			v := g.edges[e].To
			if state[v] == gray {
				return true
			}
			if state[v] == white && visit(v) {
				return true
			}
		}
		state[u] = black
		return false
	}
	for i := range g.nodes {
		if state[i] == white && visit(i) {
			return ErrGraphHasCycle
		}
	}
	return nil
}

// PosMap maps each node index in order to its position.
func PosMap(order []int) map[int]int {
	m := make(map[int]int, len(order))
	for i, n := range order {
		m[n] = i
	}
	return m
}
