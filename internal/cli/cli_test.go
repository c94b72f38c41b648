package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/drawlayout/pkg/errors"
	"github.com/matzehuels/drawlayout/pkg/igr"
)

const testDocument = `{
  "nodes": [
    {"id": "lb", "label": "Load Balancer"},
    {"id": "api"},
    {"id": "db"}
  ],
  "edges": [
    {"source": "lb", "target": "api"},
    {"source": "api", "target": "db"}
  ],
  "containers": [
    {"id": "backend", "members": ["api", "db"]}
  ]
}`

// execute runs the root command with args and returns what it wrote to
// the command output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeDocument(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEnginesCommand(t *testing.T) {
	out, err := execute(t, "engines")
	if err != nil {
		t.Fatalf("engines: %v", err)
	}
	for _, name := range []string{"hierarchical", "dagre", "force", "graphviz", "elk", "neato", "(default)"} {
		if !strings.Contains(out, name) {
			t.Errorf("engines output missing %q:\n%s", name, out)
		}
	}
}

func TestLayoutCommand(t *testing.T) {
	input := writeDocument(t, "graph.json", testDocument)
	output := filepath.Join(filepath.Dir(input), "out.json")

	if _, err := execute(t, "layout", input, "-o", output, "--cache", "none", "--direction", "LR"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Nodes []struct {
			ID    string  `json:"id"`
			X     float64 `json:"x"`
			Width float64 `json:"width"`
		} `json:"nodes"`
		Containers []struct {
			Bounds *igr.Rect `json:"bounds"`
		} `json:"containers"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(doc.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(doc.Nodes))
	}
	for _, n := range doc.Nodes {
		if n.Width <= 0 {
			t.Errorf("node %s has width %v", n.ID, n.Width)
		}
	}
	if doc.Nodes[0].X >= doc.Nodes[1].X {
		t.Errorf("left-to-right layout put lb (x=%v) after api (x=%v)", doc.Nodes[0].X, doc.Nodes[1].X)
	}
	if len(doc.Containers) != 1 || doc.Containers[0].Bounds == nil || doc.Containers[0].Bounds.Width == 0 {
		t.Errorf("container bounds missing: %+v", doc.Containers)
	}
}

func TestLayoutCommandFileCache(t *testing.T) {
	input := writeDocument(t, "graph.yaml", "nodes:\n  - id: a\n  - id: b\nedges:\n  - {source: a, target: b}\n")
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"layout", input})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("layout: %v", err)
	}

	if _, err := os.Stat(defaultOutput(input)); err != nil {
		t.Errorf("default output not written: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(cacheHome, appName))
	if err != nil || len(entries) == 0 {
		t.Errorf("file cache is empty (err %v)", err)
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	input := writeDocument(t, "graph.json", testDocument)

	if _, err := execute(t, "layout", input, "--cache", "floppy"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown backend err = %v", err)
	}
	if _, err := execute(t, "layout", input, "--cache", "none", "--engine", "circo"); !errors.Is(err, errors.ErrCodeUnknownEngine) {
		t.Errorf("unknown engine err = %v", err)
	}
	if _, err := execute(t, "layout", filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing input err = %v", err)
	}
}

func TestDOTCommand(t *testing.T) {
	input := writeDocument(t, "graph.json", testDocument)
	out, err := execute(t, "dot", input, "--direction", "LR")
	if err != nil {
		t.Fatalf("dot: %v", err)
	}
	for _, want := range []string{"digraph", "rankdir=LR", `label="lb"`, `label="backend"`} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q:\n%s", want, out)
		}
	}
}

func TestCacheCommands(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	dir := filepath.Join(cacheHome, appName)

	run := func(args ...string) string {
		t.Helper()
		root := New(io.Discard, LogInfo).RootCommand()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs(args)
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	if got := strings.TrimSpace(run("cache", "path")); got != dir {
		t.Errorf("cache path = %q, want %q", got, dir)
	}

	if err := os.MkdirAll(filepath.Join(dir, "ab"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ab", "cdef.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	run("cache", "clear")
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cache clear left %d entries", len(entries))
	}
}

func TestConfigPrecedence(t *testing.T) {
	file := writeDocument(t, "layout.toml", "layout = \"force\"\niterations = 500\nseed = 3\n")
	flags := configFlags{file: file, cfg: igr.Config{Iterations: 50, Direction: igr.LeftToRight}}

	got, err := flags.resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := igr.Config{Algorithm: "force", Iterations: 50, Seed: 3, Direction: igr.LeftToRight}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultOutput(t *testing.T) {
	tests := map[string]string{
		"graph.json":      "graph.layout.json",
		"dir/arch.yaml":   "dir/arch.layout.yaml",
		"noext":           "noext.layout",
		"a.b/diagram.yml": "a.b/diagram.layout.yml",
	}
	for in, want := range tests {
		if got := defaultOutput(in); got != want {
			t.Errorf("defaultOutput(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, appName) {
		t.Errorf("bash completion does not mention %s", appName)
	}
}
