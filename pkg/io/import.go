package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/drawlayout/pkg/errors"
	"github.com/matzehuels/drawlayout/pkg/igr"
)

// Format is a document encoding.
type Format string

// Supported document formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported document extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Read decodes a document from r and builds the graph it describes.
func Read(r io.Reader, format Format) (*igr.Graph, error) {
	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON document")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode YAML document")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", format)
	}
	return doc.Graph()
}

// Decode is Read on a byte slice.
func Decode(data []byte, format Format) (*igr.Graph, error) {
	return Read(bytes.NewReader(data), format)
}

// Import reads the document at path, picking the format from its extension.
func Import(path string) (*igr.Graph, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, format)
}

// Graph builds the graph a document describes. Nodes are added first, then
// containers, then memberships, then edges, so members and edges may refer
// to any id in the document.
func (d *Document) Graph() (*igr.Graph, error) {
	g := igr.New(d.Config)

	for _, n := range d.Nodes {
		node := igr.Node{ID: n.ID, Label: n.Label, Width: n.Width, Height: n.Height}
		if n.Style != nil {
			node.Style = *n.Style
		}
		if _, err := g.AddNode(node); err != nil {
			return nil, invalid(err, "node %q", n.ID)
		}
	}

	handles := make([]igr.ContainerIndex, len(d.Containers))
	for i, c := range d.Containers {
		ct := igr.Container{ID: c.ID, Label: c.Label, Kind: igr.ContainerKind(c.Kind)}
		if c.Style != nil {
			ct.Style = *c.Style
		}
		h, err := g.AddContainer(ct)
		if err != nil {
			return nil, invalid(err, "container %q", c.ID)
		}
		handles[i] = h
	}
	for i, c := range d.Containers {
		for _, m := range c.Members {
			if err := g.AddMember(handles[i], m); err != nil {
				return nil, invalid(err, "container %q", c.ID)
			}
		}
	}

	for _, e := range d.Edges {
		edge := igr.Edge{From: e.Source, To: e.Target, Label: e.Label, Arrow: e.Arrow}
		if e.Style != nil {
			edge.Style = *e.Style
		}
		if _, err := g.AddEdge(edge); err != nil {
			return nil, invalid(err, "edge %s->%s", e.Source, e.Target)
		}
	}
	return g, nil
}

// invalid wraps a construction error as INVALID_GRAPH unless it already
// carries a code.
func invalid(err error, format string, args ...any) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInvalidGraph
	}
	return errors.Wrap(code, err, format, args...)
}

// ReadConfigFile reads layout options from a TOML file.
func ReadConfigFile(path string) (igr.Config, error) {
	var cfg igr.Config
	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Direction != "" {
		d, err := igr.ParseDirection(string(cfg.Direction))
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
		}
		cfg.Direction = d
	}
	return cfg, nil
}
