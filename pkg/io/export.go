package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/drawlayout/pkg/errors"
	"github.com/matzehuels/drawlayout/pkg/igr"
)

// Document is the serialized form of a graph.
type Document struct {
	Nodes      []Node      `json:"nodes" yaml:"nodes"`
	Edges      []Edge      `json:"edges,omitempty" yaml:"edges,omitempty"`
	Containers []Container `json:"containers,omitempty" yaml:"containers,omitempty"`
	Config     igr.Config  `json:"config" yaml:"config,omitempty"`
}

// Node is a document node.
type Node struct {
	ID     string     `json:"id" yaml:"id"`
	Label  string     `json:"label,omitempty" yaml:"label,omitempty"`
	Style  *igr.Style `json:"style,omitempty" yaml:"style,omitempty"`
	X      float64    `json:"x,omitempty" yaml:"x,omitempty"`
	Y      float64    `json:"y,omitempty" yaml:"y,omitempty"`
	Width  float64    `json:"width,omitempty" yaml:"width,omitempty"`
	Height float64    `json:"height,omitempty" yaml:"height,omitempty"`
}

// Edge is a document edge.
type Edge struct {
	Source string        `json:"source" yaml:"source"`
	Target string        `json:"target" yaml:"target"`
	Label  string        `json:"label,omitempty" yaml:"label,omitempty"`
	Arrow  igr.ArrowType `json:"arrow,omitempty" yaml:"arrow,omitempty"`
	Style  *igr.Style    `json:"style,omitempty" yaml:"style,omitempty"`
	Start  *igr.Point    `json:"start,omitempty" yaml:"start,omitempty"`
	End    *igr.Point    `json:"end,omitempty" yaml:"end,omitempty"`
}

// Container is a document container.
type Container struct {
	ID      string     `json:"id" yaml:"id"`
	Label   string     `json:"label,omitempty" yaml:"label,omitempty"`
	Kind    string     `json:"kind,omitempty" yaml:"kind,omitempty"`
	Members []string   `json:"members,omitempty" yaml:"members,omitempty"`
	Style   *igr.Style `json:"style,omitempty" yaml:"style,omitempty"`
	Bounds  *igr.Rect  `json:"bounds,omitempty" yaml:"bounds,omitempty"`
}

func stylePtr(s igr.Style) *igr.Style {
	if s == (igr.Style{}) {
		return nil
	}
	return &s
}

// NewDocument captures g, including its current geometry.
func NewDocument(g *igr.Graph) *Document {
	doc := &Document{
		Nodes:  make([]Node, 0, g.NodeCount()),
		Config: g.Config,
	}
	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, Node{
			ID: n.ID, Label: n.Label, Style: stylePtr(n.Style),
			X: n.X, Y: n.Y, Width: n.Width, Height: n.Height,
		})
	}
	for _, e := range g.Edges() {
		start, end := e.Start, e.End
		doc.Edges = append(doc.Edges, Edge{
			Source: e.From, Target: e.To, Label: e.Label, Arrow: e.Arrow,
			Style: stylePtr(e.Style), Start: &start, End: &end,
		})
	}
	for _, c := range g.Containers() {
		members := make([]string, len(c.Members))
		for i, m := range c.Members {
			members[i] = g.MemberID(m)
		}
		bounds := c.Bounds
		kind := string(c.Kind)
		if c.Kind == igr.KindContainer {
			kind = ""
		}
		doc.Containers = append(doc.Containers, Container{
			ID: c.ID, Label: c.Label, Kind: kind, Members: members,
			Style: stylePtr(c.Style), Bounds: &bounds,
		})
	}
	return doc
}

// Write encodes g, with its geometry, to w.
func Write(g *igr.Graph, w io.Writer, format Format) error {
	doc := NewDocument(g)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", format)
	}
	return nil
}

// Export writes g to the file at path, picking the format from its
// extension.
func Export(g *igr.Graph, path string) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(g, f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
