package observability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	l := NoopLayoutHooks{}
	l.OnLayoutStart(ctx, "hierarchical", 100)
	l.OnLayoutComplete(ctx, "hierarchical", time.Second, nil)
	l.OnContainerLaidOut(ctx, "backend", 4, time.Millisecond)
	l.OnFallback(ctx, "graphviz", "hierarchical", errors.New("boom"))

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "memory")
	c.OnCacheMiss(ctx, "backend")
	c.OnCacheSet(ctx, "backend", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset() should restore NoopCacheHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	custom := &testLayoutHooks{}
	SetLayoutHooks(custom)
	SetLayoutHooks(nil)
	if Layout() != custom {
		t.Error("SetLayoutHooks(nil) should keep the previous hooks")
	}

	cache := &testCacheHooks{}
	SetCacheHooks(cache)
	SetCacheHooks(nil)
	if Cache() != cache {
		t.Error("SetCacheHooks(nil) should keep the previous hooks")
	}
}

func TestHooksReceiveEvents(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	h := &testLayoutHooks{}
	SetLayoutHooks(h)

	ctx := context.Background()
	Layout().OnLayoutStart(ctx, "force", 3)
	Layout().OnContainerLaidOut(ctx, "", 3, time.Millisecond)
	Layout().OnLayoutComplete(ctx, "force", time.Millisecond, nil)

	want := []string{"start:force", "container:", "complete:force"}
	if len(h.events) != len(want) {
		t.Fatalf("events = %v, want %v", h.events, want)
	}
	for i := range want {
		if h.events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, h.events[i], want[i])
		}
	}
}

type testLayoutHooks struct {
	mu     sync.Mutex
	events []string
}

func (h *testLayoutHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *testLayoutHooks) OnLayoutStart(_ context.Context, engine string, _ int) {
	h.record("start:" + engine)
}

func (h *testLayoutHooks) OnLayoutComplete(_ context.Context, engine string, _ time.Duration, _ error) {
	h.record("complete:" + engine)
}

func (h *testLayoutHooks) OnContainerLaidOut(_ context.Context, id string, _ int, _ time.Duration) {
	h.record("container:" + id)
}

func (h *testLayoutHooks) OnFallback(_ context.Context, from, to string, _ error) {
	h.record("fallback:" + from + "->" + to)
}

type testCacheHooks struct{}

func (*testCacheHooks) OnCacheHit(context.Context, string)      {}
func (*testCacheHooks) OnCacheMiss(context.Context, string)     {}
func (*testCacheHooks) OnCacheSet(context.Context, string, int) {}
