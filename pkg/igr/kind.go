package igr

import (
	"fmt"
	"strings"
)

// ContainerKind selects how a container arranges its children.
type ContainerKind string

// Container kinds. A plain container runs the layout engine on its children
// and is padded by Config.Padding. Groups use fixed paddings; a flow group
// skips the engine and lines its children up left to right in member order.
const (
	KindContainer ContainerKind = "container"
	KindGroup     ContainerKind = "group"
	KindFlow      ContainerKind = "flow"
	KindSemantic  ContainerKind = "semantic"
)

// Group paddings.
const (
	GroupPadding    = 25.0
	FlowPadding     = 30.0
	SemanticPadding = 35.0

	// FlowGapFactor scales Config.NodeSpacing between the children of a flow.
	FlowGapFactor = 1.5
)

// ParseContainerKind parses a kind name. The empty string is a plain
// container; "basic" is accepted for a group.
func ParseContainerKind(s string) (ContainerKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "container":
		return KindContainer, nil
	case "group", "basic":
		return KindGroup, nil
	case "flow":
		return KindFlow, nil
	case "semantic":
		return KindSemantic, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Padding returns the space kept between the container's edge and its
// children.
func (k ContainerKind) Padding(cfg Config) float64 {
	switch k {
	case KindGroup:
		return GroupPadding
	case KindFlow:
		return FlowPadding
	case KindSemantic:
		return SemanticPadding
	default:
		return cfg.Padding
	}
}
