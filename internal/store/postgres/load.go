package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/goodnatureofminers/digzone-backend/internal/grid"
)

// Load reads every block row in index order plus the known users.
func (s *Store) Load(ctx context.Context) (doc *grid.Document, err error) {
	start := time.Now()
	defer func() {
		s.metrics.Observe("load", err, start)
	}()

	doc = &grid.Document{}
	if doc.Grid, err = s.loadBlocks(ctx); err != nil {
		return nil, err
	}
	if doc.Users, err = s.loadUsers(ctx); err != nil {
		return nil, err
	}
	if err = doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Store) loadBlocks(ctx context.Context) (g grid.Grid, err error) {
	rows, err := s.db.QueryContext(ctx, selectBlocksQuery)
	if err != nil {
		return nil, fmt.Errorf("query blocks: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	g = grid.Grid{}
	for rows.Next() {
		var b grid.Block
		if b, err = scanBlock(rows); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		g = append(g, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocks: %w", err)
	}
	return g, nil
}

func (s *Store) loadUsers(ctx context.Context) (users []grid.User, err error) {
	rows, err := s.db.QueryContext(ctx, selectUsersQuery)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	users = []grid.User{}
	for rows.Next() {
		var (
			username string
			data     []byte
		)
		if err = rows.Scan(&username, &data); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		var u grid.User
		if err = json.Unmarshal(data, &u); err != nil {
			return nil, &grid.CorruptStateError{Index: -1, Reason: fmt.Sprintf("malformed user %q", username), Err: err}
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}
