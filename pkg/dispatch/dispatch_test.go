package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestDispatcher_HandlesItems(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		seen []int
	)
	d := New(zap.NewNop(), func(_ context.Context, item int) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, item)
	}, 10, 2, 0)

	d.Start(context.Background())
	for i := 0; i < 5; i++ {
		if !d.TryAdd(i) {
			t.Fatalf("item %d rejected", i)
		}
	}
	d.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 5 {
		t.Fatalf("expected 5 handled items after drain, got %d", len(seen))
	}
}

func TestDispatcher_TryAddNeverBlocks(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	var handled atomic.Int32
	d := New(zap.NewNop(), func(_ context.Context, _ int) {
		<-release
		handled.Add(1)
	}, 1, 1, 0)
	d.Start(context.Background())

	accepted := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			if d.TryAdd(i) {
				accepted++
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("TryAdd blocked on a full buffer")
	}
	if accepted < 1 || accepted > 2 {
		t.Fatalf("expected one in flight plus one buffered at most, accepted %d", accepted)
	}

	close(release)
	d.Stop()
	if int(handled.Load()) != accepted {
		t.Fatalf("expected %d handled, got %d", accepted, handled.Load())
	}
}

func TestDispatcher_RejectsAfterStop(t *testing.T) {
	t.Parallel()

	d := New(zap.NewNop(), func(context.Context, int) {}, 4, 1, 100)
	d.Start(context.Background())
	d.Stop()
	d.Stop()

	if d.TryAdd(1) {
		t.Fatal("expected stopped dispatcher to reject items")
	}
}

func TestDispatcher_ContextCancelStopsWorkers(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var handled atomic.Int32
	d := New(zap.NewNop(), func(context.Context, int) { handled.Add(1) }, 4, 2, 0)
	d.Start(ctx)
	cancel()

	stopped := make(chan struct{})
	go func() {
		d.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("workers did not exit after context cancel")
	}
}
