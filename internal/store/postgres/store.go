// Package postgres implements the grid store over a dig_blocks table, one row per block.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	// registers the "pgx" database/sql driver
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// Store keeps the grid in Postgres. Claims lock the block row with SELECT ... FOR UPDATE.
type Store struct {
	db      *sql.DB
	metrics Metrics
}

// NewStore opens a connection pool for dsn.
func NewStore(dsn string, metrics Metrics) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}
	return newStore(db, metrics)
}

func newStore(db *sql.DB, metrics Metrics) (*Store, error) {
	if db == nil {
		return nil, errors.New("postgres connection is required")
	}
	if metrics == nil {
		return nil, errors.New("postgres store metrics is required")
	}
	return &Store{db: db, metrics: metrics}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func rollback(tx *sql.Tx, err *error) {
	if *err == nil {
		return
	}
	if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
		*err = errors.Join(*err, fmt.Errorf("rollback: %w", rbErr))
	}
}
