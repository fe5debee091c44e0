package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goodnatureofminers/digzone-backend/internal/grid"
)

// Save replaces the namespace contents with doc in a single MULTI/EXEC.
func (s *Store) Save(ctx context.Context, doc *grid.Document) (err error) {
	start := time.Now()
	defer func() {
		s.metrics.Observe("save", err, start)
	}()

	if err = doc.Validate(); err != nil {
		return err
	}

	users := make(map[string]any, len(doc.Users))
	for _, u := range doc.Users {
		var data []byte
		if data, err = json.Marshal(u); err != nil {
			return fmt.Errorf("encode user %q: %w", u.Username, err)
		}
		users[u.Username] = string(data)
	}

	// blocks past the new size must not resurface if the grid grows again
	previous, err := s.total(ctx)
	switch {
	case errors.Is(err, errNotInitialized), errors.Is(err, grid.ErrCorruptState):
		// Save is how a missing or broken namespace gets written
		previous, err = 0, nil
	case err != nil:
		return err
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, metaKey(s.namespace), fieldTotal, len(doc.Grid))
		for i := len(doc.Grid); i < previous; i++ {
			pipe.Del(ctx, blockKey(s.namespace, i))
		}
		for _, b := range doc.Grid {
			key := blockKey(s.namespace, b.Index)
			pipe.Del(ctx, key)
			if b.IsDug() || b.Visual != nil {
				pipe.HSet(ctx, key, blockToHash(b))
			}
		}
		pipe.Del(ctx, usersKey(s.namespace))
		if len(users) > 0 {
			pipe.HSet(ctx, usersKey(s.namespace), users)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write grid: %w", err)
	}
	return nil
}
