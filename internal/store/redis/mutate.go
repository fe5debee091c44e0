package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goodnatureofminers/digzone-backend/internal/clock"
	"github.com/goodnatureofminers/digzone-backend/internal/grid"
)

// Mutate applies fn to the block at index under WATCH. A concurrent write to the same
// block aborts the transaction, and the transition is retried against the fresh state.
func (s *Store) Mutate(ctx context.Context, index int, fn grid.TransitionFunc) (block grid.Block, err error) {
	start := time.Now()
	defer func() {
		s.metrics.Observe("mutate", err, start)
	}()

	total, err := s.total(ctx)
	if err != nil {
		return grid.Block{}, err
	}
	if index < 0 || index >= total {
		err = &grid.OutOfRangeError{Index: index, Total: total}
		return grid.Block{}, err
	}

	key := blockKey(s.namespace, index)
	var updated grid.Block
	txf := func(tx *redis.Tx) error {
		hash, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("read block %d: %w", index, err)
		}
		b, err := hashToBlock(index, hash)
		if err != nil {
			return err
		}
		if err = b.Validate(total); err != nil {
			return err
		}
		if err = fn(&b); err != nil {
			return err
		}
		if b.Index != index {
			return fmt.Errorf("transition moved block %d to index %d", index, b.Index)
		}
		if err = b.Validate(total); err != nil {
			return fmt.Errorf("transition broke block invariants: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.HSet(ctx, key, blockToHash(b))
			return nil
		})
		if err != nil {
			return err
		}
		updated = b
		return nil
	}

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		err = s.rdb.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
		if sleepErr := clock.SleepWithContext(ctx, clock.Backoff(retryBase, retryLimit, attempt)); sleepErr != nil {
			err = sleepErr
			break
		}
	}
	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			err = fmt.Errorf("block %d: too much contention after %d attempts: %w", index, s.maxRetries, err)
		}
		return grid.Block{}, err
	}
	return updated.Clone(), nil
}
