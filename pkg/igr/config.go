package igr

import (
	"math"
	"strings"

	dlerrors "github.com/matzehuels/drawlayout/pkg/errors"
)

// Direction is the flow direction of a hierarchical layout.
type Direction string

// Supported directions.
const (
	TopToBottom Direction = "top-to-bottom"
	BottomToTop Direction = "bottom-to-top"
	LeftToRight Direction = "left-to-right"
	RightToLeft Direction = "right-to-left"
)

// Default configuration values.
const (
	DefaultAlgorithm       = "hierarchical"
	DefaultDirection       = TopToBottom
	DefaultNodeSpacing     = 80.0
	DefaultEdgeSpacing     = 20.0
	DefaultRankSpacing     = 150.0
	DefaultSweeps          = 8
	DefaultIterations      = 200
	DefaultIdealEdgeLength = 150.0
	DefaultPadding         = 20.0
	DefaultSeed            = 1

	// MaxBudget caps both the sweep and the iteration budget.
	MaxBudget = 10000
)

// ParseDirection parses a direction name. Besides the long names it accepts
// the short forms TB, BT, LR and RL in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "top-to-bottom", "tb", "td", "down":
		return TopToBottom, nil
	case "bottom-to-top", "bt", "up":
		return BottomToTop, nil
	case "left-to-right", "lr", "right":
		return LeftToRight, nil
	case "right-to-left", "rl", "left":
		return RightToLeft, nil
	default:
		return "", dlerrors.New(dlerrors.ErrCodeInvalidConfig, "unknown direction %q", s)
	}
}

// Horizontal reports whether ranks advance along the x axis.
func (d Direction) Horizontal() bool {
	return d == LeftToRight || d == RightToLeft
}

// Reversed reports whether ranks advance toward decreasing coordinates.
func (d Direction) Reversed() bool {
	return d == BottomToTop || d == RightToLeft
}

// Config is the global layout configuration carried by a graph.
//
// A zero field means "use the default"; see [Config.WithDefaults]. An explicit
// zero therefore cannot be expressed: padding: 0 or node_spacing: 0 yields
// the default, and the smallest usable value is any positive number such as
// 0.001. Seed is the exception: zero is a valid seed, it only loses to a
// non-zero seed in [Config.Merge].
type Config struct {
	// Algorithm names the layout engine: hierarchical (alias dagre), force,
	// or an external delegate (elk, graphviz, neato).
	Algorithm string `json:"layout,omitempty" yaml:"layout,omitempty" toml:"layout"`

	Direction Direction `json:"direction,omitempty" yaml:"direction,omitempty" toml:"direction"`

	// NodeSpacing is the minimum gap between neighbouring boxes in a rank.
	NodeSpacing float64 `json:"node_spacing,omitempty" yaml:"node_spacing,omitempty" toml:"node_spacing"`
	// EdgeSpacing is the gap reserved around edge bends (virtual nodes).
	EdgeSpacing float64 `json:"edge_spacing,omitempty" yaml:"edge_spacing,omitempty" toml:"edge_spacing"`
	// RankSpacing is the gap between consecutive ranks.
	RankSpacing float64 `json:"rank_spacing,omitempty" yaml:"rank_spacing,omitempty" toml:"rank_spacing"`

	// Sweeps is the crossing-minimization sweep budget.
	Sweeps int `json:"sweeps,omitempty" yaml:"sweeps,omitempty" toml:"sweeps"`
	// Iterations is the force simulation step budget.
	Iterations int `json:"iterations,omitempty" yaml:"iterations,omitempty" toml:"iterations"`
	// Seed drives the deterministic jitter of the force simulation.
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty" toml:"seed"`
	// IdealEdgeLength is the spring rest length of the force simulation.
	IdealEdgeLength float64 `json:"ideal_edge_length,omitempty" yaml:"ideal_edge_length,omitempty" toml:"ideal_edge_length"`

	// Padding surrounds the children of every container.
	Padding float64 `json:"padding,omitempty" yaml:"padding,omitempty" toml:"padding"`

	// Sequential disables parallel layout of sibling containers.
	Sequential bool `json:"sequential,omitempty" yaml:"sequential,omitempty" toml:"sequential"`

	// Fallback names an engine to retry with when the selected engine is an
	// external delegate and it fails. Empty disables fallback.
	Fallback string `json:"fallback,omitempty" yaml:"fallback,omitempty" toml:"fallback"`
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() Config {
	return Config{}.WithDefaults()
}

// WithDefaults returns a copy with zero fields replaced by defaults and
// names normalized.
func (c Config) WithDefaults() Config {
	c.Algorithm = strings.ToLower(strings.TrimSpace(c.Algorithm))
	if c.Algorithm == "" {
		c.Algorithm = DefaultAlgorithm
	}
	c.Fallback = strings.ToLower(strings.TrimSpace(c.Fallback))
	if d, err := ParseDirection(string(c.Direction)); err == nil {
		c.Direction = d
	}
	if c.NodeSpacing == 0 {
		c.NodeSpacing = DefaultNodeSpacing
	}
	if c.EdgeSpacing == 0 {
		c.EdgeSpacing = DefaultEdgeSpacing
	}
	if c.RankSpacing == 0 {
		c.RankSpacing = DefaultRankSpacing
	}
	if c.Sweeps == 0 {
		c.Sweeps = DefaultSweeps
	}
	if c.Iterations == 0 {
		c.Iterations = DefaultIterations
	}
	if c.IdealEdgeLength == 0 {
		c.IdealEdgeLength = DefaultIdealEdgeLength
	}
	if c.Padding == 0 {
		c.Padding = DefaultPadding
	}
	return c
}

// Merge returns c with every non-zero field of override applied on top.
func (c Config) Merge(override Config) Config {
	if override.Algorithm != "" {
		c.Algorithm = override.Algorithm
	}
	if override.Direction != "" {
		c.Direction = override.Direction
	}
	if override.NodeSpacing != 0 {
		c.NodeSpacing = override.NodeSpacing
	}
	if override.EdgeSpacing != 0 {
		c.EdgeSpacing = override.EdgeSpacing
	}
	if override.RankSpacing != 0 {
		c.RankSpacing = override.RankSpacing
	}
	if override.Sweeps != 0 {
		c.Sweeps = override.Sweeps
	}
	if override.Iterations != 0 {
		c.Iterations = override.Iterations
	}
	if override.Seed != 0 {
		c.Seed = override.Seed
	}
	if override.IdealEdgeLength != 0 {
		c.IdealEdgeLength = override.IdealEdgeLength
	}
	if override.Padding != 0 {
		c.Padding = override.Padding
	}
	if override.Sequential {
		c.Sequential = true
	}
	if override.Fallback != "" {
		c.Fallback = override.Fallback
	}
	return c
}

// Validate checks a configuration after defaults have been applied.
func (c Config) Validate() error {
	if _, err := ParseDirection(string(c.Direction)); err != nil {
		return err
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"node_spacing", c.NodeSpacing},
		{"edge_spacing", c.EdgeSpacing},
		{"rank_spacing", c.RankSpacing},
		{"ideal_edge_length", c.IdealEdgeLength},
		{"padding", c.Padding},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return dlerrors.New(dlerrors.ErrCodeInvalidConfig, "%s must be a finite non-negative number, got %v", f.name, f.v)
		}
	}
	if c.Sweeps < 0 || c.Sweeps > MaxBudget {
		return dlerrors.New(dlerrors.ErrCodeInvalidConfig, "sweeps must be between 0 and %d, got %d", MaxBudget, c.Sweeps)
	}
	if c.Iterations < 0 || c.Iterations > MaxBudget {
		return dlerrors.New(dlerrors.ErrCodeInvalidConfig, "iterations must be between 0 and %d, got %d", MaxBudget, c.Iterations)
	}
	return nil
}
