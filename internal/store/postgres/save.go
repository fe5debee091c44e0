package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/goodnatureofminers/digzone-backend/internal/grid"
)

// Save replaces all rows with doc in one transaction.
func (s *Store) Save(ctx context.Context, doc *grid.Document) (err error) {
	start := time.Now()
	defer func() {
		s.metrics.Observe("save", err, start)
	}()

	if err = doc.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer rollback(tx, &err)

	if _, err = tx.ExecContext(ctx, deleteBlocksQuery); err != nil {
		return fmt.Errorf("clear blocks: %w", err)
	}
	for _, b := range doc.Grid {
		if _, err = tx.ExecContext(ctx, insertBlockQuery, blockArgs(b)...); err != nil {
			return fmt.Errorf("insert block %d: %w", b.Index, err)
		}
	}

	if _, err = tx.ExecContext(ctx, deleteUsersQuery); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}
	for _, u := range doc.Users {
		var data []byte
		if data, err = json.Marshal(u); err != nil {
			return fmt.Errorf("encode user %q: %w", u.Username, err)
		}
		if _, err = tx.ExecContext(ctx, insertUserQuery, u.Username, data); err != nil {
			return fmt.Errorf("insert user %q: %w", u.Username, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}
