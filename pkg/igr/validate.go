package igr

import (
	"fmt"
	"math"

	dlerrors "github.com/matzehuels/drawlayout/pkg/errors"
)

// Validate runs the validation pass required before layout. It checks that
// every edge endpoint exists, that every container member exists and has
// exactly one parent and that the container forest is acyclic. Explicit node
// sizes must be finite and non-negative and container kinds must be known.
// The first violation is returned as an INVALID_GRAPH error wrapping one of
// the package sentinels.
func (g *Graph) Validate() error {
	if err := g.validate(); err != nil {
		return dlerrors.Wrap(dlerrors.ErrCodeInvalidGraph, err, "validate graph")
	}
	return nil
}

func (g *Graph) validate() error {
	for i := range g.nodes {
		n := &g.nodes[i]
		if err := dlerrors.ValidateIdentifier("node", n.ID); err != nil {
			return err
		}
		if !validSize(n.Width) || !validSize(n.Height) {
			return fmt.Errorf("%w: node %q is %vx%v", ErrInvalidSize, n.ID, n.Width, n.Height)
		}
		if n.Parent != NoContainer && !g.validContainer(n.Parent) {
			return fmt.Errorf("%w: parent of node %q", ErrUnknownContainer, n.ID)
		}
	}

	for i := range g.edges {
		e := &g.edges[i]
		if !g.validNode(e.from) || g.nodes[e.from].ID != e.From {
			return fmt.Errorf("%w: %q (edge %d)", ErrUnknownSource, e.From, i)
		}
		if !g.validNode(e.to) || g.nodes[e.to].ID != e.To {
			return fmt.Errorf("%w: %q (edge %d)", ErrUnknownTarget, e.To, i)
		}
	}

	for i := range g.containers {
		if _, err := ParseContainerKind(string(g.containers[i].Kind)); err != nil {
			return fmt.Errorf("%w (container %q)", err, g.containers[i].ID)
		}
	}

	if err := g.validateMembers(); err != nil {
		return err
	}
	return g.validateForest()
}

// validateMembers checks that member lists and parent links agree: every
// member exists, lists its container as parent, and is listed only once.
func (g *Graph) validateMembers() error {
	listed := make(map[Member]ContainerIndex)
	for ci := range g.containers {
		c := &g.containers[ci]
		for _, m := range c.Members {
			if !g.validMember(m) {
				return fmt.Errorf("%w: handle %d in container %q", ErrUnknownMember, m.Index, c.ID)
			}
			if prev, dup := listed[m]; dup {
				return fmt.Errorf("%w: %q is listed by %q and %q",
					ErrMultipleParents, g.MemberID(m), g.containers[prev].ID, c.ID)
			}
			listed[m] = ContainerIndex(ci)
			if g.parentOf(m) != ContainerIndex(ci) {
				return fmt.Errorf("%w: %q is listed by %q but not linked to it",
					ErrMultipleParents, g.MemberID(m), c.ID)
			}
		}
	}
	for i := range g.nodes {
		if p := g.nodes[i].Parent; p != NoContainer && !listedBy(listed, NodeMember(NodeIndex(i)), p) {
			return fmt.Errorf("%w: node %q is not listed by its parent", ErrUnknownMember, g.nodes[i].ID)
		}
	}
	for i := range g.containers {
		if p := g.containers[i].Parent; p != NoContainer {
			if !g.validContainer(p) {
				return fmt.Errorf("%w: parent of container %q", ErrUnknownContainer, g.containers[i].ID)
			}
			if !listedBy(listed, ContainerMember(ContainerIndex(i)), p) {
				return fmt.Errorf("%w: container %q is not listed by its parent", ErrUnknownMember, g.containers[i].ID)
			}
		}
	}
	return nil
}

// validateForest detects cycles in the parent links with a white/gray/black
// walk.
func (g *Graph) validateForest() error {
	const (
		white = iota
		gray
		black
	)
	state := make([]uint8, len(g.containers))
	for start := range g.containers {
		var path []int
		c := start
		for c != int(NoContainer) && state[c] == white {
			state[c] = gray
			path = append(path, c)
			c = int(g.containers[c].Parent)
		}
		if c != int(NoContainer) && state[c] == gray {
			return fmt.Errorf("%w: through %q", ErrContainerCycle, g.containers[c].ID)
		}
		for _, p := range path {
			state[p] = black
		}
	}
	return nil
}

func listedBy(listed map[Member]ContainerIndex, m Member, p ContainerIndex) bool {
	q, ok := listed[m]
	return ok && q == p
}

func (g *Graph) validNode(n NodeIndex) bool {
	return n >= 0 && int(n) < len(g.nodes)
}

func (g *Graph) validMember(m Member) bool {
	switch m.Kind {
	case MemberNode:
		return g.validNode(NodeIndex(m.Index))
	case MemberContainer:
		return g.validContainer(ContainerIndex(m.Index))
	}
	return false
}

func validSize(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
