package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/drawlayout/pkg/cache"
	"github.com/matzehuels/drawlayout/pkg/errors"
	"github.com/matzehuels/drawlayout/pkg/igr"
	"github.com/matzehuels/drawlayout/pkg/layout"
	"github.com/matzehuels/drawlayout/pkg/layout/container"
	"github.com/matzehuels/drawlayout/pkg/observability"
)

// Options configures a [Manager]. The zero value is usable.
type Options struct {
	// CacheSize is the number of layouts kept in memory (default 100).
	CacheSize int
	// Backend persists layouts across processes (default none).
	Backend cache.Cache
	// TTL is the backend expiry; zero never expires.
	TTL time.Duration
	// Keyer maps fingerprints to backend keys.
	Keyer cache.Keyer
	// Logger receives debug and warning output (default log.Default()).
	Logger *log.Logger
	// Registry maps engine names to engines (default DefaultRegistry()).
	Registry *layout.Registry
}

// Result describes one layout run.
type Result struct {
	RunID       string        // unique id of this call
	Requested   string        // engine selected by the configuration
	Engine      string        // engine that produced the geometry
	Fingerprint uint64        // cache key of the graph and configuration
	CacheHit    bool          // served without running an engine
	Duration    time.Duration // wall time of the call
}

// Manager dispatches graphs to layout engines and caches the results.
// It is safe for concurrent use.
type Manager struct {
	registry *layout.Registry
	memo     *cache.Memo
	logger   *log.Logger
}

// NewManager creates a manager.
func NewManager(opts Options) (*Manager, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Registry == nil {
		opts.Registry = DefaultRegistry()
	}
	memo, err := cache.NewMemo(cache.MemoOptions{
		Size:    opts.CacheSize,
		Backend: opts.Backend,
		TTL:     opts.TTL,
		Keyer:   opts.Keyer,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCache, err, "create layout cache")
	}
	return &Manager{registry: opts.Registry, memo: memo, logger: opts.Logger}, nil
}

// entry is the cached form of a layout.
type entry struct {
	Engine   string        `json:"engine"`
	Snapshot *igr.Snapshot `json:"snapshot"`
}

// Layout positions every node, container and edge endpoint of g. cfg is
// merged over g.Config; its non-zero fields win.
//
// Validation happens before any work: an unknown engine fails with
// UNKNOWN_ENGINE, a bad configuration with INVALID_CONFIG and a broken graph
// with INVALID_GRAPH. On failure g keeps its previous geometry.
func (m *Manager) Layout(ctx context.Context, g *igr.Graph, cfg igr.Config) error {
	_, err := m.LayoutWithCacheInfo(ctx, g, cfg)
	return err
}

// LayoutWithCacheInfo is Layout, also reporting how the result was obtained.
func (m *Manager) LayoutWithCacheInfo(ctx context.Context, g *igr.Graph, cfg igr.Config) (Result, error) {
	start := time.Now()
	res := Result{RunID: uuid.NewString()}
	logger := m.logger.With("run", res.RunID[:8])

	eff := g.Config.Merge(cfg).WithDefaults()
	if err := eff.Validate(); err != nil {
		return res, err
	}
	family, engine, err := m.registry.Resolve(eff.Algorithm)
	if err != nil {
		return res, err
	}
	// Only external delegates fall back; the name is checked regardless.
	var fallback layout.Engine
	if eff.Fallback != "" {
		fb, err := m.registry.Lookup(eff.Fallback)
		if err != nil {
			return res, err
		}
		if family == layout.Delegate {
			fallback = fb
		}
	}
	if err := g.Validate(); err != nil {
		return res, err
	}

	res.Requested = engine.Name()

	work := g.Clone()
	work.Config = eff
	work.ResetGeometry()
	work.EnsureSizes()
	res.Fingerprint = work.Fingerprint()

	observability.Layout().OnLayoutStart(ctx, engine.Name(), work.NodeCount())
	compute := func(ctx context.Context) ([]byte, error) {
		return m.compute(ctx, logger, work, eff, engine, fallback)
	}
	e, err := m.lookupOrCompute(ctx, logger, g, &res, compute)
	res.Duration = time.Since(start)
	observability.Layout().OnLayoutComplete(ctx, engine.Name(), res.Duration, err)
	if err != nil {
		return res, err
	}
	res.Engine = e.Engine

	logger.Debug("layout complete",
		"engine", res.Engine,
		"nodes", g.NodeCount(),
		"containers", g.ContainerCount(),
		"cached", res.CacheHit,
		"duration", res.Duration)
	return res, nil
}

// lookupOrCompute fetches the layout of res.Fingerprint from the memo,
// computing it on a miss, and applies it to g. A cached entry that cannot be
// decoded or applied counts as a miss and is recomputed once.
func (m *Manager) lookupOrCompute(ctx context.Context, logger *log.Logger, g *igr.Graph, res *Result, compute func(context.Context) ([]byte, error)) (*entry, error) {
	data, cached, err := m.memo.GetOrCompute(ctx, res.Fingerprint, compute)
	res.CacheHit = cached
	if err != nil {
		return nil, err
	}
	e, err := decodeEntry(data, g)
	if err != nil && cached {
		logger.Warn("discarding unreadable cached layout", "err", err)
		if ferr := m.memo.Forget(ctx, res.Fingerprint); ferr != nil {
			logger.Debug("forget cached layout", "err", ferr)
		}
		data, cached, err = m.memo.GetOrCompute(ctx, res.Fingerprint, compute)
		res.CacheHit = cached
		if err != nil {
			return nil, err
		}
		e, err = decodeEntry(data, g)
	}
	if err != nil {
		_ = m.memo.Forget(ctx, res.Fingerprint)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "apply layout")
	}
	return e, nil
}

// decodeEntry decodes a cached layout and applies it to g. g is untouched on
// error.
func decodeEntry(data []byte, g *igr.Graph) (*entry, error) {
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode cached layout: %w", err)
	}
	if e.Snapshot == nil {
		return nil, fmt.Errorf("decode cached layout: no snapshot")
	}
	if err := g.Apply(e.Snapshot); err != nil {
		return nil, err
	}
	return &e, nil
}

// compute lays out work and returns the encoded entry. A DELEGATE_FAILURE
// is retried once with the fallback engine, when one is configured.
func (m *Manager) compute(ctx context.Context, logger *log.Logger, work *igr.Graph, cfg igr.Config, engine, fallback layout.Engine) ([]byte, error) {
	used := engine
	err := container.New(engine, logger).Layout(ctx, work, cfg)
	if err != nil && fallback != nil && errors.Is(err, errors.ErrCodeDelegateFailure) {
		logger.Warn("layout engine failed, using fallback",
			"engine", engine.Name(),
			"fallback", fallback.Name(),
			"err", errors.UserMessage(err))
		observability.Layout().OnFallback(ctx, engine.Name(), fallback.Name(), err)
		work.ResetGeometry()
		used = fallback
		err = container.New(fallback, logger).Layout(ctx, work, cfg)
	}
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(entry{Engine: used.Name(), Snapshot: work.Snapshot()})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
	}
	return data, nil
}

// Register binds name to engine, replacing any previous binding. It panics
// if name is not an algorithm name.
func (m *Manager) Register(name string, engine layout.Engine) {
	m.registry.Register(name, engine)
}

// Engines returns the registered engine names in sorted order.
func (m *Manager) Engines() []string {
	return m.registry.Names()
}

// Purge drops every layout held in memory.
func (m *Manager) Purge() {
	m.memo.Purge()
}

// Stats returns cache counters.
func (m *Manager) Stats() cache.Stats {
	return m.memo.Stats()
}

// Close releases engines that hold resources and the cache backend.
func (m *Manager) Close() error {
	var first error
	closed := make(map[layout.Engine]bool)
	for _, name := range m.registry.Names() {
		e, err := m.registry.Lookup(name)
		if err != nil || closed[e] {
			continue
		}
		closed[e] = true
		if c, ok := e.(io.Closer); ok {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	if err := m.memo.Close(); err != nil && first == nil {
		first = err
	}
	return first
}
