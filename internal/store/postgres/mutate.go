package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/digzone-backend/internal/grid"
)

// Mutate locks the block row, applies fn and writes the row back before committing.
// Concurrent claims on the same index queue on the row lock.
func (s *Store) Mutate(ctx context.Context, index int, fn grid.TransitionFunc) (block grid.Block, err error) {
	start := time.Now()
	defer func() {
		s.metrics.Observe("mutate", err, start)
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return grid.Block{}, fmt.Errorf("begin mutate: %w", err)
	}
	defer rollback(tx, &err)

	var total int
	if err = tx.QueryRowContext(ctx, countBlocksQuery).Scan(&total); err != nil {
		return grid.Block{}, fmt.Errorf("count blocks: %w", err)
	}
	if index < 0 || index >= total {
		err = &grid.OutOfRangeError{Index: index, Total: total}
		return grid.Block{}, err
	}

	b, err := scanBlock(tx.QueryRowContext(ctx, selectBlockForUpdateQuery, index))
	if errors.Is(err, sql.ErrNoRows) {
		err = grid.Corrupt(index, "block row missing")
		return grid.Block{}, err
	}
	if err != nil {
		return grid.Block{}, fmt.Errorf("lock block %d: %w", index, err)
	}
	if err = b.Validate(total); err != nil {
		return grid.Block{}, err
	}

	if err = fn(&b); err != nil {
		return grid.Block{}, err
	}
	if b.Index != index {
		err = fmt.Errorf("transition moved block %d to index %d", index, b.Index)
		return grid.Block{}, err
	}
	if err = b.Validate(total); err != nil {
		err = fmt.Errorf("transition broke block invariants: %w", err)
		return grid.Block{}, err
	}

	if _, err = tx.ExecContext(ctx, updateBlockQuery, blockArgs(b)...); err != nil {
		return grid.Block{}, fmt.Errorf("update block %d: %w", index, err)
	}
	if err = tx.Commit(); err != nil {
		return grid.Block{}, fmt.Errorf("commit mutate: %w", err)
	}
	return b.Clone(), nil
}
