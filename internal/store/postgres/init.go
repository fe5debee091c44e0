package postgres

import (
	"context"
	"fmt"
	"time"
)

// Init seeds total undug rows into an empty table. A populated table must hold exactly
// total rows unless total <= 0.
func (s *Store) Init(ctx context.Context, total int) (err error) {
	start := time.Now()
	defer func() {
		s.metrics.Observe("init", err, start)
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin init: %w", err)
	}
	defer rollback(tx, &err)

	var stored int
	if err = tx.QueryRowContext(ctx, countBlocksQuery).Scan(&stored); err != nil {
		return fmt.Errorf("count blocks: %w", err)
	}

	switch {
	case stored == 0 && total <= 0:
		err = fmt.Errorf("dig_blocks is empty and no size was given")
		return err
	case stored == 0:
		if _, err = tx.ExecContext(ctx, seedBlocksQuery, total); err != nil {
			return fmt.Errorf("seed blocks: %w", err)
		}
	case total > 0 && stored != total:
		err = fmt.Errorf("dig_blocks holds %d blocks, configured size is %d", stored, total)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit init: %w", err)
	}
	return nil
}
