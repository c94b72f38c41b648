package igr

import (
	"errors"
	"fmt"

	dlerrors "github.com/matzehuels/drawlayout/pkg/errors"
)

var (
	// ErrDuplicateID is returned when a node or container id is already in use.
	// Nodes and containers share one id namespace.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrUnknownSource is returned when an edge's source node does not exist.
	ErrUnknownSource = errors.New("unknown source node")

	// ErrUnknownTarget is returned when an edge's target node does not exist.
	ErrUnknownTarget = errors.New("unknown target node")

	// ErrUnknownContainer is returned when a container handle or id does not exist.
	ErrUnknownContainer = errors.New("unknown container")

	// ErrUnknownMember is returned when a container member does not exist.
	ErrUnknownMember = errors.New("unknown container member")

	// ErrMultipleParents is returned when a node or container is added to a
	// second container.
	ErrMultipleParents = errors.New("element already belongs to a container")

	// ErrContainerCycle is returned when a container would contain itself,
	// directly or transitively.
	ErrContainerCycle = errors.New("container cycle")

	// ErrInvalidSize is returned for negative or non-finite explicit sizes.
	ErrInvalidSize = errors.New("invalid size")

	// ErrInvalidKind is returned for an unknown container kind.
	ErrInvalidKind = errors.New("invalid container kind")
)

// NodeIndex is the arena handle of a node.
type NodeIndex int

// ContainerIndex is the arena handle of a container.
type ContainerIndex int

// NoContainer marks an element that sits at the top level.
const NoContainer ContainerIndex = -1

// ArrowType describes how an edge is drawn between its endpoints.
type ArrowType string

// Arrow types understood by the generator.
const (
	ArrowSingle ArrowType = "single"
	ArrowDouble ArrowType = "double"
	ArrowLine   ArrowType = "line"
	ArrowWavy   ArrowType = "wavy"
)

// Style carries the visual attributes of an element. Only Shape, Font and
// FontSize influence layout; the rest is passed through to the generator.
type Style struct {
	Shape           string  `json:"shape,omitempty" yaml:"shape,omitempty"`
	StrokeColor     string  `json:"stroke_color,omitempty" yaml:"stroke_color,omitempty"`
	BackgroundColor string  `json:"background_color,omitempty" yaml:"background_color,omitempty"`
	FillStyle       string  `json:"fill_style,omitempty" yaml:"fill_style,omitempty"`
	StrokeStyle     string  `json:"stroke_style,omitempty" yaml:"stroke_style,omitempty"`
	StrokeWidth     float64 `json:"stroke_width,omitempty" yaml:"stroke_width,omitempty"`
	Roughness       int     `json:"roughness,omitempty" yaml:"roughness,omitempty"`
	Opacity         float64 `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	Font            string  `json:"font,omitempty" yaml:"font,omitempty"`
	FontSize        float64 `json:"font_size,omitempty" yaml:"font_size,omitempty"`
	Rounded         bool    `json:"rounded,omitempty" yaml:"rounded,omitempty"`
}

// Node is a sized box in the diagram.
type Node struct {
	ID     string
	Label  string
	Style  Style
	X, Y   float64
	Width  float64
	Height float64

	// Parent is the enclosing container, or NoContainer. Maintained by
	// [Graph.AddMember].
	Parent ContainerIndex
}

// Rect returns the node's box.
func (n *Node) Rect() Rect {
	return Rect{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
}

// Edge connects two nodes. From and To are node ids; the direction is kept
// as given even when a layout algorithm reverses the edge internally.
type Edge struct {
	From  string
	To    string
	Label string
	Arrow ArrowType
	Style Style

	// Start and End are the points where the edge meets the source and
	// target boundaries, set by layout.
	Start Point
	End   Point

	from, to NodeIndex
}

// Endpoints returns the arena handles of the edge's source and target.
func (e *Edge) Endpoints() (NodeIndex, NodeIndex) {
	return e.from, e.to
}

// MemberKind tells whether a container member is a node or a container.
type MemberKind uint8

const (
	MemberNode MemberKind = iota
	MemberContainer
)

// Member is a direct child of a container or of the top level.
type Member struct {
	Kind  MemberKind
	Index int
}

// NodeMember returns the member handle of a node.
func NodeMember(i NodeIndex) Member { return Member{Kind: MemberNode, Index: int(i)} }

// ContainerMember returns the member handle of a container.
func ContainerMember(i ContainerIndex) Member { return Member{Kind: MemberContainer, Index: int(i)} }

// Container groups nodes and nested containers.
type Container struct {
	ID      string
	Label   string
	Kind    ContainerKind
	Style   Style
	Members []Member
	Parent  ContainerIndex

	// Bounds is the box enclosing every descendant plus padding, set by layout.
	Bounds Rect
}

// Graph is the intermediate graph representation: nodes, edges, the
// container forest and the layout configuration.
type Graph struct {
	Config Config

	nodes      []Node
	edges      []Edge
	containers []Container

	// order records every node and container in insertion order.
	order []Member
	ids   map[string]Member
}

// New creates an empty graph with the given layout configuration.
func New(cfg Config) *Graph {
	return &Graph{
		Config: cfg,
		ids:    make(map[string]Member),
	}
}

// AddNode adds a node and returns its handle. An empty label defaults to the
// id. Returns [ErrDuplicateID] if the id is taken.
func (g *Graph) AddNode(n Node) (NodeIndex, error) {
	if err := dlerrors.ValidateIdentifier("node", n.ID); err != nil {
		return 0, err
	}
	if _, ok := g.ids[n.ID]; ok {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateID, n.ID)
	}
	if n.Label == "" {
		n.Label = n.ID
	}
	n.Parent = NoContainer
	idx := NodeIndex(len(g.nodes))
	g.nodes = append(g.nodes, n)
	m := NodeMember(idx)
	g.ids[n.ID] = m
	g.order = append(g.order, m)
	return idx, nil
}

// AddEdge adds an edge between two existing nodes and returns its index.
// Self-loops and parallel edges are allowed.
func (g *Graph) AddEdge(e Edge) (int, error) {
	from, ok := g.nodeByID(e.From)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSource, e.From)
	}
	to, ok := g.nodeByID(e.To)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTarget, e.To)
	}
	if e.Arrow == "" {
		e.Arrow = ArrowSingle
	}
	e.from, e.to = from, to
	g.edges = append(g.edges, e)
	return len(g.edges) - 1, nil
}

// AddContainer adds an empty container at the top level and returns its
// handle. Members are attached with [Graph.AddMember].
func (g *Graph) AddContainer(c Container) (ContainerIndex, error) {
	if err := dlerrors.ValidateIdentifier("container", c.ID); err != nil {
		return 0, err
	}
	if _, ok := g.ids[c.ID]; ok {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateID, c.ID)
	}
	kind, err := ParseContainerKind(string(c.Kind))
	if err != nil {
		return 0, err
	}
	c.Kind = kind
	if c.Label == "" {
		c.Label = c.ID
	}
	c.Members = nil
	c.Parent = NoContainer
	idx := ContainerIndex(len(g.containers))
	g.containers = append(g.containers, c)
	m := ContainerMember(idx)
	g.ids[c.ID] = m
	g.order = append(g.order, m)
	return idx, nil
}

// AddMember makes the node or container with the given id a direct child of
// container c. Members keep the order in which they are added.
func (g *Graph) AddMember(c ContainerIndex, id string) error {
	if !g.validContainer(c) {
		return fmt.Errorf("%w: handle %d", ErrUnknownContainer, c)
	}
	m, ok := g.ids[id]
	if !ok {
		return fmt.Errorf("%w: %q in container %q", ErrUnknownMember, id, g.containers[c].ID)
	}
	switch m.Kind {
	case MemberNode:
		n := &g.nodes[m.Index]
		if n.Parent != NoContainer {
			return fmt.Errorf("%w: node %q is in %q", ErrMultipleParents, id, g.containers[n.Parent].ID)
		}
		n.Parent = c
	case MemberContainer:
		child := ContainerIndex(m.Index)
		if child == c || g.isAncestor(child, c) {
			return fmt.Errorf("%w: %q cannot contain %q", ErrContainerCycle, g.containers[c].ID, id)
		}
		if p := g.containers[child].Parent; p != NoContainer {
			return fmt.Errorf("%w: container %q is in %q", ErrMultipleParents, id, g.containers[p].ID)
		}
		g.containers[child].Parent = c
	}
	g.containers[c].Members = append(g.containers[c].Members, m)
	return nil
}

// isAncestor reports whether a is a strict ancestor of c.
func (g *Graph) isAncestor(a, c ContainerIndex) bool {
	seen := 0
	for p := g.containers[c].Parent; p != NoContainer; p = g.containers[p].Parent {
		if p == a {
			return true
		}
		// A corrupted forest must not hang the walk.
		if seen++; seen > len(g.containers) {
			return true
		}
	}
	return false
}

func (g *Graph) nodeByID(id string) (NodeIndex, bool) {
	m, ok := g.ids[id]
	if !ok || m.Kind != MemberNode {
		return 0, false
	}
	return NodeIndex(m.Index), true
}

func (g *Graph) validContainer(c ContainerIndex) bool {
	return c >= 0 && int(c) < len(g.containers)
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// ContainerCount returns the number of containers.
func (g *Graph) ContainerCount() int { return len(g.containers) }

// Node returns the node with the given handle. The pointer stays valid
// until the next AddNode.
func (g *Graph) Node(i NodeIndex) *Node { return &g.nodes[i] }

// Edge returns the edge at index i.
func (g *Graph) Edge(i int) *Edge { return &g.edges[i] }

// Container returns the container with the given handle.
func (g *Graph) Container(i ContainerIndex) *Container { return &g.containers[i] }

// NodeByID looks up a node handle by id.
func (g *Graph) NodeByID(id string) (NodeIndex, bool) { return g.nodeByID(id) }

// ContainerByID looks up a container handle by id.
func (g *Graph) ContainerByID(id string) (ContainerIndex, bool) {
	m, ok := g.ids[id]
	if !ok || m.Kind != MemberContainer {
		return 0, false
	}
	return ContainerIndex(m.Index), true
}

// Nodes returns pointers to all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	for i := range g.nodes {
		out[i] = &g.nodes[i]
	}
	return out
}

// Edges returns pointers to all edges in insertion order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, len(g.edges))
	for i := range g.edges {
		out[i] = &g.edges[i]
	}
	return out
}

// Containers returns pointers to all containers in insertion order.
func (g *Graph) Containers() []*Container {
	out := make([]*Container, len(g.containers))
	for i := range g.containers {
		out[i] = &g.containers[i]
	}
	return out
}

// Roots returns the top-level members in insertion order.
func (g *Graph) Roots() []Member {
	var roots []Member
	for _, m := range g.order {
		if g.parentOf(m) == NoContainer {
			roots = append(roots, m)
		}
	}
	return roots
}

// ParentOf returns the container directly enclosing m, or NoContainer.
func (g *Graph) ParentOf(m Member) ContainerIndex { return g.parentOf(m) }

func (g *Graph) parentOf(m Member) ContainerIndex {
	if m.Kind == MemberNode {
		return g.nodes[m.Index].Parent
	}
	return g.containers[m.Index].Parent
}

// MemberID returns the id of a member.
func (g *Graph) MemberID(m Member) string {
	if m.Kind == MemberNode {
		return g.nodes[m.Index].ID
	}
	return g.containers[m.Index].ID
}

// MemberRect returns the current box of a member: the node's box or the
// container's bounds.
func (g *Graph) MemberRect(m Member) Rect {
	if m.Kind == MemberNode {
		return g.nodes[m.Index].Rect()
	}
	return g.containers[m.Index].Bounds
}

// Depth returns the nesting depth of a container; top-level containers have
// depth 0.
func (g *Graph) Depth(c ContainerIndex) int {
	d := 0
	for p := g.containers[c].Parent; p != NoContainer; p = g.containers[p].Parent {
		d++
	}
	return d
}

// Descendants returns every node nested in c at any depth, in member order.
func (g *Graph) Descendants(c ContainerIndex) []NodeIndex {
	var out []NodeIndex
	var walk func(ContainerIndex)
	walk = func(c ContainerIndex) {
		for _, m := range g.containers[c].Members {
			if m.Kind == MemberNode {
				out = append(out, NodeIndex(m.Index))
			} else {
				walk(ContainerIndex(m.Index))
			}
		}
	}
	walk(c)
	return out
}

// ChildOf returns the direct child of scope that contains node n: the node
// itself when it is a direct member, or the nested container holding it.
// scope NoContainer means the top level. ok is false when n is not inside
// scope.
func (g *Graph) ChildOf(scope ContainerIndex, n NodeIndex) (m Member, ok bool) {
	m = NodeMember(n)
	for {
		p := g.parentOf(m)
		if p == scope {
			return m, true
		}
		if p == NoContainer {
			return Member{}, false
		}
		m = ContainerMember(p)
	}
}
