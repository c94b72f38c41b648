package cache

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/drawlayout/pkg/observability"
)

// DefaultMemoSize is the number of layouts kept in memory by default.
const DefaultMemoSize = 100

// Cache tiers reported to observability hooks.
const (
	TierMemory  = "memory"
	TierBackend = "backend"
)

// MemoOptions configures a [Memo].
type MemoOptions struct {
	Size    int           // LRU capacity, default DefaultMemoSize
	Backend Cache         // persistent tier, default NullCache
	TTL     time.Duration // backend expiry, zero never expires
	Keyer   Keyer         // backend keys, default DefaultKeyer
}

// Stats counts memo traffic since creation.
type Stats struct {
	Hits          uint64 // served from memory
	BackendHits   uint64 // served from the persistent backend
	Misses        uint64 // computed
	Shared        uint64 // waited for a concurrent computation
	BackendErrors uint64 // backend reads or writes that failed
	Entries       int    // entries currently in memory
}

// Memo caches computed values by fingerprint. At most one computation per
// fingerprint runs at a time; concurrent callers wait for it and share its
// result. Entries are evicted least recently used first; writes are
// last-writer-wins.
//
// Backend failures never fail a lookup: a failed read is a miss and a failed
// write only loses persistence. Both are counted in [Stats].
type Memo struct {
	lru     *lru.Cache[uint64, []byte]
	backend Cache
	ttl     time.Duration
	keyer   Keyer
	group   singleflight.Group

	hits, backendHits, misses, shared, backendErrors atomic.Uint64
}

// NewMemo creates a memo.
func NewMemo(opts MemoOptions) (*Memo, error) {
	if opts.Size <= 0 {
		opts.Size = DefaultMemoSize
	}
	if opts.Backend == nil {
		opts.Backend = NewNullCache()
	}
	if opts.Keyer == nil {
		opts.Keyer = NewDefaultKeyer()
	}
	c, err := lru.New[uint64, []byte](opts.Size)
	if err != nil {
		return nil, err
	}
	return &Memo{lru: c, backend: opts.Backend, ttl: opts.TTL, keyer: opts.Keyer}, nil
}

// GetOrCompute returns the value cached for fingerprint, or calls compute
// and caches its result. cached reports whether this caller did not run
// compute itself. Errors from compute are returned and not cached. The
// returned bytes are shared and must not be modified.
func (m *Memo) GetOrCompute(ctx context.Context, fingerprint uint64, compute func(ctx context.Context) ([]byte, error)) (data []byte, cached bool, err error) {
	if data, ok := m.lru.Get(fingerprint); ok {
		m.hits.Add(1)
		observability.Cache().OnCacheHit(ctx, TierMemory)
		return data, true, nil
	}

	ran := false
	v, err, shared := m.group.Do(strconv.FormatUint(fingerprint, 16), func() (any, error) {
		if data, ok := m.lru.Get(fingerprint); ok {
			m.hits.Add(1)
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, TierMemory)

		key := m.keyer.LayoutKey(fingerprint)
		data, ok, err := m.backend.Get(ctx, key)
		if err != nil {
			m.backendErrors.Add(1)
		}
		if ok {
			m.backendHits.Add(1)
			observability.Cache().OnCacheHit(ctx, TierBackend)
			m.lru.Add(fingerprint, data)
			return data, nil
		}

		ran = true
		m.misses.Add(1)
		data, err = compute(ctx)
		if err != nil {
			return nil, err
		}
		m.lru.Add(fingerprint, data)
		err = RetryWithBackoff(ctx, func() error {
			return m.backend.Set(ctx, key, data, m.ttl)
		})
		if err != nil {
			m.backendErrors.Add(1)
		} else {
			observability.Cache().OnCacheSet(ctx, TierBackend, len(data))
		}
		return data, nil
	})
	if err != nil {
		return nil, false, err
	}
	if shared && !ran {
		m.shared.Add(1)
	}
	return v.([]byte), !ran, nil
}

// Forget drops fingerprint from both tiers.
func (m *Memo) Forget(ctx context.Context, fingerprint uint64) error {
	m.lru.Remove(fingerprint)
	return m.backend.Delete(ctx, m.keyer.LayoutKey(fingerprint))
}

// Purge empties the in-memory tier. The backend is untouched.
func (m *Memo) Purge() {
	m.lru.Purge()
}

// Stats returns a snapshot of the counters.
func (m *Memo) Stats() Stats {
	return Stats{
		Hits:          m.hits.Load(),
		BackendHits:   m.backendHits.Load(),
		Misses:        m.misses.Load(),
		Shared:        m.shared.Load(),
		BackendErrors: m.backendErrors.Load(),
		Entries:       m.lru.Len(),
	}
}

// Close closes the backend.
func (m *Memo) Close() error {
	return m.backend.Close()
}
