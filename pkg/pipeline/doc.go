// Package pipeline is the entry point for laying out graphs.
//
// A [Manager] validates the graph and its configuration, picks the engine
// named by the configuration from a [layout.Registry], and runs it through
// the container orchestrator. Results are memoized by graph fingerprint, so
// laying out an unchanged graph again is a cache hit; concurrent calls for
// the same fingerprint share one computation.
//
// # Usage
//
//	m, err := pipeline.NewManager(pipeline.Options{Logger: logger})
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//
//	if err := m.Layout(ctx, g, igr.Config{Algorithm: "force", Seed: 7}); err != nil {
//	    return err
//	}
//
// The configuration passed to Layout is merged over the graph's own; its
// non-zero fields win.
//
// # Persistence
//
// Set [Options.Backend] to a [cache.Cache] (file, Redis or MongoDB) to keep
// layouts across processes. Backend failures are logged and counted but
// never fail a layout.
//
// # Fallback
//
// When the configuration names a fallback engine and an external delegate
// fails with DELEGATE_FAILURE, the layout is retried once with the
// fallback. [Result.Engine] reports the engine that produced the geometry.
//
// [layout.Registry]: github.com/matzehuels/drawlayout/pkg/layout#Registry
// [cache.Cache]: github.com/matzehuels/drawlayout/pkg/cache#Cache
package pipeline
