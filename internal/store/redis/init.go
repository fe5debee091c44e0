package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goodnatureofminers/digzone-backend/internal/grid"
)

// Init records the grid size when the namespace is empty. Blocks need no seeding since
// a missing block hash reads as undug. An existing namespace must match total unless
// total <= 0.
func (s *Store) Init(ctx context.Context, total int) (err error) {
	start := time.Now()
	defer func() {
		s.metrics.Observe("init", err, start)
	}()

	if total > 0 {
		if err = s.rdb.HSetNX(ctx, metaKey(s.namespace), fieldTotal, total).Err(); err != nil {
			return fmt.Errorf("write grid size: %w", err)
		}
	}

	stored, err := s.total(ctx)
	if err != nil {
		return err
	}
	if total > 0 && stored != total {
		err = fmt.Errorf("redis namespace %q holds %d blocks, configured size is %d", s.namespace, stored, total)
		return err
	}
	return nil
}

var errNotInitialized = errors.New("redis namespace is not initialized")

func (s *Store) total(ctx context.Context) (int, error) {
	raw, err := s.rdb.HGet(ctx, metaKey(s.namespace), fieldTotal).Result()
	if errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("%w: %q", errNotInitialized, s.namespace)
	}
	if err != nil {
		return 0, fmt.Errorf("read grid size: %w", err)
	}
	total, err := strconv.Atoi(raw)
	if err != nil || total <= 0 {
		return 0, &grid.CorruptStateError{Index: -1, Reason: fmt.Sprintf("invalid grid size %q", raw), Err: err}
	}
	return total, nil
}
