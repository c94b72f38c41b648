package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	var w syncBuffer
	s := newSpinnerTo(context.Background(), &w, "Computing layout...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := w.String()
	if !strings.Contains(out, "Computing layout...") {
		t.Errorf("spinner output %q missing message", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("spinner output should end by clearing the line, got %q", out)
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after Stop, want false")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var w syncBuffer
	s := newSpinnerTo(ctx, &w, "Testing with context...")
	s.Start()

	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Cancelled() = false after context cancellation, want true")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var w syncBuffer
	s := newSpinnerTo(context.Background(), &w, "Testing idempotent stop...")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	var w syncBuffer
	s := newSpinnerTo(context.Background(), &w, "never started")
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() blocked on a spinner that was never started")
	}
}
