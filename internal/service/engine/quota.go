package engine

import (
	"context"
	"sync"
	"time"

	"github.com/goodnatureofminers/digzone-backend/internal/clock"
	"github.com/goodnatureofminers/digzone-backend/internal/grid"
)

// quota tracks claims per identity for the current UTC day. It is seeded from the grid
// (owner + dugAt) the first time a day is seen and then maintained in memory, so it only
// serializes claims made through this process.
type quota struct {
	limit int

	mu     sync.Mutex
	day    string
	counts map[string]int
}

func newQuota(limit int) *quota {
	return &quota{limit: limit}
}

// reserve takes one of identity's digs for the day of now. The returned release gives it
// back when the claim fails.
func (q *quota) reserve(
	ctx context.Context,
	identity string,
	now time.Time,
	load func(context.Context) (*grid.Document, error),
) (func(), error) {
	if q.limit <= 0 {
		return func() {}, nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	day := clock.Day(now)
	if q.counts == nil || q.day != day {
		doc, err := load(ctx)
		if err != nil {
			return nil, err
		}
		q.seed(doc.Grid, day)
	}

	if q.counts[identity] >= q.limit {
		return nil, &grid.QuotaExceededError{Identity: identity, Limit: q.limit}
	}
	q.counts[identity]++

	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		if q.day == day && q.counts[identity] > 0 {
			q.counts[identity]--
		}
	}, nil
}

func (q *quota) seed(g grid.Grid, day string) {
	q.day = day
	q.counts = make(map[string]int)
	for _, b := range g {
		if b.IsDug() && !b.DugAt.IsZero() && clock.Day(b.DugAt) == day {
			q.counts[b.Owner]++
		}
	}
}

// invalidate forces a reseed on the next reservation.
func (q *quota) invalidate() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.counts = nil
}
