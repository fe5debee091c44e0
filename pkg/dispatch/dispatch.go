// Package dispatch provides a bounded, rate limited, fire-and-forget work queue.
package dispatch

import (
	"context"
	"sync"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// Dispatcher hands items to a fixed set of workers. TryAdd never blocks: when the buffer
// is full or the dispatcher is stopped the item is rejected.
type Dispatcher[T any] struct {
	handle  func(context.Context, T)
	itemsCh chan T
	workers int
	rl      ratelimit.Limiter
	logger  *zap.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// New constructs a Dispatcher. rps <= 0 disables the rate limit.
func New[T any](logger *zap.Logger, handle func(context.Context, T), buffer, workers, rps int) *Dispatcher[T] {
	if buffer < 1 {
		buffer = 1
	}
	if workers < 1 {
		workers = 1
	}
	rl := ratelimit.NewUnlimited()
	if rps > 0 {
		rl = ratelimit.New(rps)
	}
	return &Dispatcher[T]{
		logger:  logger,
		handle:  handle,
		itemsCh: make(chan T, buffer),
		workers: workers,
		rl:      rl,
	}
}

// Start launches the workers.
func (d *Dispatcher[T]) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run(ctx)
	}
}

// Stop rejects new items, lets the workers drain the buffer and waits for them.
func (d *Dispatcher[T]) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.itemsCh)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// TryAdd queues item without blocking and reports whether it was accepted.
func (d *Dispatcher[T]) TryAdd(item T) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return false
	}

	select {
	case d.itemsCh <- item:
		return true
	default:
		d.logger.Warn("dispatch buffer full, item dropped", zap.Int("buffer", cap(d.itemsCh)))
		return false
	}
}

// Pending returns the number of buffered items.
func (d *Dispatcher[T]) Pending() int {
	return len(d.itemsCh)
}

func (d *Dispatcher[T]) run(ctx context.Context) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-d.itemsCh:
			if !ok {
				return
			}
			d.rl.Take()
			d.handle(ctx, item)
		}
	}
}
