// Package pkg holds the drawlayout libraries.
//
// # Overview
//
// drawlayout computes positions for boxes-and-arrows diagrams: nodes, edges
// and nested containers described by an intermediate graph representation
// (IGR). The pkg directory is organized as:
//
//  1. [igr] - The graph model: nodes, edges, containers, configuration and
//     geometry
//  2. [layout] - Engines that place flat graphs, and the container
//     orchestrator that applies them to nested graphs
//  3. [pipeline] - The layout manager: validation, dispatch, memoization
//     and fallback
//  4. [cache] - Memo and persistent stores (file, Redis, MongoDB)
//  5. [io] - JSON and YAML documents and TOML configuration files
//
// # Architecture
//
// The data flow of one layout:
//
//	JSON/YAML document
//	         ↓
//	    [io] package (decode into *igr.Graph)
//	         ↓
//	    [pipeline] package (validate, fingerprint, memo lookup)
//	         ↓
//	    [layout/container] package (bottom-up over the container forest)
//	         ↓
//	    engine: [layout/hierarchical], [layout/force] or [layout/delegate]
//	         ↓
//	    positioned *igr.Graph → JSON/YAML document
//
// # Quick Start
//
//	g, err := io.Import("architecture.yaml")
//	if err != nil {
//	    return err
//	}
//	m, err := pipeline.NewManager(pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//	if err := m.Layout(ctx, g, igr.Config{Direction: igr.LeftToRight}); err != nil {
//	    return err
//	}
//	return io.Export(g, "architecture.layout.yaml")
//
// # Supporting Packages
//
// [dag] and [dag/transform] - The layered graph used by the hierarchical
// engine: cycle breaking, longest-path layering, edge subdivision and
// crossing counts.
//
// [errors] - Error codes shared by every package.
//
// [observability] - Hooks for layout and cache events.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [igr]: https://pkg.go.dev/github.com/matzehuels/drawlayout/pkg/igr
// [layout]: https://pkg.go.dev/github.com/matzehuels/drawlayout/pkg/layout
// [layout/container]: https://pkg.go.dev/github.com/matzehuels/drawlayout/pkg/layout/container
// [layout/hierarchical]: https://pkg.go.dev/github.com/matzehuels/drawlayout/pkg/layout/hierarchical
// [layout/force]: https://pkg.go.dev/github.com/matzehuels/drawlayout/pkg/layout/force
// [layout/delegate]: https://pkg.go.dev/github.com/matzehuels/drawlayout/pkg/layout/delegate
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/drawlayout/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/drawlayout/pkg/cache
// [io]: https://pkg.go.dev/github.com/matzehuels/drawlayout/pkg/io
// [dag]: https://pkg.go.dev/github.com/matzehuels/drawlayout/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/drawlayout/pkg/dag/transform
// [errors]: https://pkg.go.dev/github.com/matzehuels/drawlayout/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/drawlayout/pkg/observability
package pkg
