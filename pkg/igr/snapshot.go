package igr

import "fmt"

// Snapshot holds the geometric fields of a laid-out graph, keyed by id so
// it can be applied to any graph with the same topology.
type Snapshot struct {
	Nodes      map[string]Rect `json:"nodes"`
	Containers map[string]Rect `json:"containers,omitempty"`
	Edges      []EdgeGeometry  `json:"edges,omitempty"`
}

// EdgeGeometry holds the endpoints of one edge.
type EdgeGeometry struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Snapshot copies the current geometry out of g.
func (g *Graph) Snapshot() *Snapshot {
	s := &Snapshot{
		Nodes:      make(map[string]Rect, len(g.nodes)),
		Containers: make(map[string]Rect, len(g.containers)),
		Edges:      make([]EdgeGeometry, len(g.edges)),
	}
	for i := range g.nodes {
		s.Nodes[g.nodes[i].ID] = g.nodes[i].Rect()
	}
	for i := range g.containers {
		s.Containers[g.containers[i].ID] = g.containers[i].Bounds
	}
	for i := range g.edges {
		s.Edges[i] = EdgeGeometry{Start: g.edges[i].Start, End: g.edges[i].End}
	}
	return s
}

// Apply writes the geometry in s onto g. It fails without touching g when s
// does not cover every node, container and edge of g.
func (g *Graph) Apply(s *Snapshot) error {
	if len(s.Edges) != len(g.edges) {
		return fmt.Errorf("snapshot has %d edges, graph has %d", len(s.Edges), len(g.edges))
	}
	for i := range g.nodes {
		if _, ok := s.Nodes[g.nodes[i].ID]; !ok {
			return fmt.Errorf("snapshot has no node %q", g.nodes[i].ID)
		}
	}
	for i := range g.containers {
		if _, ok := s.Containers[g.containers[i].ID]; !ok {
			return fmt.Errorf("snapshot has no container %q", g.containers[i].ID)
		}
	}

	for i := range g.nodes {
		n := &g.nodes[i]
		r := s.Nodes[n.ID]
		n.X, n.Y, n.Width, n.Height = r.X, r.Y, r.Width, r.Height
	}
	for i := range g.containers {
		g.containers[i].Bounds = s.Containers[g.containers[i].ID]
	}
	for i := range g.edges {
		g.edges[i].Start, g.edges[i].End = s.Edges[i].Start, s.Edges[i].End
	}
	return nil
}

// ResetGeometry zeroes positions, container bounds and edge endpoints.
// Node sizes are kept since they are inputs to layout.
func (g *Graph) ResetGeometry() {
	for i := range g.nodes {
		g.nodes[i].X, g.nodes[i].Y = 0, 0
	}
	for i := range g.containers {
		g.containers[i].Bounds = Rect{}
	}
	for i := range g.edges {
		g.edges[i].Start, g.edges[i].End = Point{}, Point{}
	}
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		Config:     g.Config,
		nodes:      append([]Node(nil), g.nodes...),
		edges:      append([]Edge(nil), g.edges...),
		containers: make([]Container, len(g.containers)),
		order:      append([]Member(nil), g.order...),
		ids:        make(map[string]Member, len(g.ids)),
	}
	for i, ct := range g.containers {
		ct.Members = append([]Member(nil), ct.Members...)
		c.containers[i] = ct
	}
	for k, v := range g.ids {
		c.ids[k] = v
	}
	return c
}
