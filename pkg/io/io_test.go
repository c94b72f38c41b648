package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/drawlayout/pkg/errors"
	"github.com/matzehuels/drawlayout/pkg/igr"
)

const sampleJSON = `{
  "nodes": [
    {"id": "lb", "label": "Load Balancer"},
    {"id": "api", "style": {"shape": "ellipse", "font_size": 16}},
    {"id": "db", "width": 120, "height": 80}
  ],
  "edges": [
    {"source": "lb", "target": "api"},
    {"source": "api", "target": "db", "arrow": "double", "label": "sql"}
  ],
  "containers": [
    {"id": "backend", "label": "Backend", "members": ["api", "store"]},
    {"id": "store", "kind": "group", "members": ["db"]}
  ],
  "config": {"layout": "force", "direction": "LR", "seed": 7}
}`

const sampleYAML = `
nodes:
  - id: lb
    label: Load Balancer
  - id: api
    style:
      shape: ellipse
      font_size: 16
  - id: db
    width: 120
    height: 80
edges:
  - source: lb
    target: api
  - source: api
    target: db
    arrow: double
    label: sql
containers:
  - id: backend
    label: Backend
    members: [api, store]
  - id: store
    kind: group
    members: [db]
config:
  layout: force
  direction: LR
  seed: 7
`

func checkSample(t *testing.T, g *igr.Graph) {
	t.Helper()
	if g.NodeCount() != 3 || g.EdgeCount() != 2 || g.ContainerCount() != 2 {
		t.Fatalf("counts = %d/%d/%d, want 3/2/2", g.NodeCount(), g.EdgeCount(), g.ContainerCount())
	}
	if g.Config.Algorithm != "force" || g.Config.Seed != 7 {
		t.Errorf("config = %+v", g.Config)
	}
	api, _ := g.NodeByID("api")
	if got := g.Node(api).Style; got.Shape != "ellipse" || got.FontSize != 16 {
		t.Errorf("api style = %+v", got)
	}
	db, _ := g.NodeByID("db")
	if n := g.Node(db); n.Width != 120 || n.Height != 80 {
		t.Errorf("db size = %vx%v", n.Width, n.Height)
	}
	store, _ := g.ContainerByID("store")
	backend, _ := g.ContainerByID("backend")
	if g.Container(store).Parent != backend {
		t.Errorf("store parent = %d, want %d", g.Container(store).Parent, backend)
	}
	if k := g.Container(store).Kind; k != igr.KindGroup {
		t.Errorf("store kind = %q, want %q", k, igr.KindGroup)
	}
	if k := g.Container(backend).Kind; k != igr.KindContainer {
		t.Errorf("backend kind = %q, want %q", k, igr.KindContainer)
	}
	if e := g.Edge(1); e.Arrow != igr.ArrowDouble || e.Label != "sql" {
		t.Errorf("edge 1 = %+v", e)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestReadJSON(t *testing.T) {
	g, err := Decode([]byte(sampleJSON), FormatJSON)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	checkSample(t, g)
}

func TestReadYAML(t *testing.T) {
	g, err := Decode([]byte(sampleYAML), FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	checkSample(t, g)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
		code   errors.Code
	}{
		{"syntax", FormatJSON, `{"nodes": [`, errors.ErrCodeInvalidFormat},
		{"unknown field", FormatJSON, `{"nodes": [{"id": "a", "colour": "red"}]}`, errors.ErrCodeInvalidFormat},
		{"yaml unknown field", FormatYAML, "nodes:\n  - id: a\n    colour: red\n", errors.ErrCodeInvalidFormat},
		{"duplicate id", FormatJSON, `{"nodes": [{"id": "a"}, {"id": "a"}]}`, errors.ErrCodeInvalidGraph},
		{"unknown target", FormatJSON, `{"nodes": [{"id": "a"}], "edges": [{"source": "a", "target": "b"}]}`, errors.ErrCodeInvalidGraph},
		{"unknown member", FormatJSON, `{"nodes": [{"id": "a"}], "containers": [{"id": "c", "members": ["z"]}]}`, errors.ErrCodeInvalidGraph},
		{"unknown kind", FormatJSON, `{"nodes": [{"id": "a"}], "containers": [{"id": "c", "kind": "lane", "members": ["a"]}]}`, errors.ErrCodeInvalidGraph},
		{"bad format", Format("xml"), `<graph/>`, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input), tt.format)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestEmptyYAMLDocument(t *testing.T) {
	g, err := Decode(nil, FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if g.NodeCount() != 0 {
		t.Errorf("NodeCount = %d, want 0", g.NodeCount())
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"graph.json":   FormatJSON,
		"graph.YAML":   FormatYAML,
		"dir/g.yml":    FormatYAML,
		"graph.layout": "",
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		if got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
		if want == "" && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("FormatFromPath(%q) err = %v", path, err)
		}
	}
}

func positioned(t *testing.T) *igr.Graph {
	t.Helper()
	g, err := Decode([]byte(sampleJSON), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	for i, n := range g.Nodes() {
		n.X, n.Y = float64(i*100), 10
		if n.Width == 0 {
			n.Width, n.Height = 80, 40
		}
	}
	g.Edge(0).Start = igr.Point{X: 40, Y: 50}
	g.Edge(0).End = igr.Point{X: 140, Y: 10}
	c, _ := g.ContainerByID("backend")
	g.Container(c).Bounds = igr.Rect{X: 80, Y: -10, Width: 340, Height: 120}
	return g
}

func TestWriteRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			g := positioned(t)
			var buf bytes.Buffer
			if err := Write(g, &buf, format); err != nil {
				t.Fatalf("Write: %v", err)
			}
			back, err := Read(&buf, format)
			if err != nil {
				t.Fatalf("Read: %v\n%s", err, buf.String())
			}
			if diff := cmp.Diff(ids(g), ids(back)); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
			if back.Config != g.Config {
				t.Errorf("config = %+v, want %+v", back.Config, g.Config)
			}
		})
	}
}

func ids(g *igr.Graph) []string {
	var out []string
	for _, n := range g.Nodes() {
		out = append(out, "n:"+n.ID)
	}
	for _, e := range g.Edges() {
		out = append(out, "e:"+e.From+"->"+e.To)
	}
	for _, c := range g.Containers() {
		out = append(out, "k:"+c.ID+"="+string(c.Kind))
		for _, m := range c.Members {
			out = append(out, "c:"+c.ID+"/"+g.MemberID(m))
		}
	}
	return out
}

func TestNewDocumentGeometry(t *testing.T) {
	doc := NewDocument(positioned(t))
	if n := doc.Nodes[1]; n.X != 100 || n.Y != 10 || n.Width != 80 {
		t.Errorf("node api = %+v", n)
	}
	if doc.Nodes[0].Style != nil {
		t.Errorf("unstyled node carries style %+v", doc.Nodes[0].Style)
	}
	want := igr.Point{X: 140, Y: 10}
	if got := *doc.Edges[0].End; got != want {
		t.Errorf("edge end = %+v, want %+v", got, want)
	}
	if b := doc.Containers[0].Bounds; b == nil || b.Width != 340 {
		t.Errorf("container bounds = %+v", b)
	}
	if diff := cmp.Diff([]string{"api", "store"}, doc.Containers[0].Members); diff != "" {
		t.Errorf("members mismatch (-want +got):\n%s", diff)
	}
	if k0, k1 := doc.Containers[0].Kind, doc.Containers[1].Kind; k0 != "" || k1 != "group" {
		t.Errorf("container kinds = %q, %q, want \"\", group", k0, k1)
	}
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.yaml")
	if err := os.WriteFile(in, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := Import(in)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	out := filepath.Join(dir, "out.json")
	if err := Export(g, out); err != nil {
		t.Fatalf("Export: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"source": "api"`) {
		t.Errorf("exported JSON missing edge:\n%s", data)
	}

	if _, err := Import(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v", err)
	}
	if err := Export(g, filepath.Join(dir, "out.txt")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad extension err = %v", err)
	}
	if err := Export(g, dir+"/"); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("directory path err = %v", err)
	}
}

func TestReadConfigFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	cfg, err := ReadConfigFile(write("ok.toml", `
layout = "force"
direction = "rl"
iterations = 500
seed = 7
padding = 12.5
sequential = true
`))
	if err != nil {
		t.Fatalf("ReadConfigFile: %v", err)
	}
	want := igr.Config{
		Algorithm:  "force",
		Direction:  igr.RightToLeft,
		Iterations: 500,
		Seed:       7,
		Padding:    12.5,
		Sequential: true,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	if _, err := ReadConfigFile(write("unknown.toml", "layuot = \"force\"\n")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown key err = %v", err)
	}
	if _, err := ReadConfigFile(write("dir.toml", "direction = \"sideways\"\n")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad direction err = %v", err)
	}
	if _, err := ReadConfigFile(write("syntax.toml", "layout = \n")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("syntax err = %v", err)
	}
	if _, err := ReadConfigFile(filepath.Join(dir, "none.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing err = %v", err)
	}
}
