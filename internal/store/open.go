// Package store selects and opens a grid store backend.
package store

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/goodnatureofminers/digzone-backend/internal/grid"
	"github.com/goodnatureofminers/digzone-backend/internal/metrics"
	"github.com/goodnatureofminers/digzone-backend/internal/store/file"
	"github.com/goodnatureofminers/digzone-backend/internal/store/postgres"
	"github.com/goodnatureofminers/digzone-backend/internal/store/redis"
)

const (
	KindFile     = "file"
	KindRedis    = "redis"
	KindPostgres = "postgres"
)

// Backend is what every store implementation provides.
type Backend interface {
	Init(ctx context.Context, total int) error
	Load(ctx context.Context) (*grid.Document, error)
	Save(ctx context.Context, doc *grid.Document) error
	Mutate(ctx context.Context, index int, fn grid.TransitionFunc) (grid.Block, error)
}

// Config picks a backend and carries its connection settings.
type Config struct {
	Kind           string
	Path           string
	RedisAddr      string
	RedisNamespace string
	PostgresDSN    string
}

// Open builds the configured backend. The returned close func releases its connections.
func Open(cfg Config) (Backend, func() error, error) {
	m := metrics.NewStore(cfg.Kind)
	switch cfg.Kind {
	case KindFile:
		s, err := file.NewStore(cfg.Path, m)
		if err != nil {
			return nil, nil, err
		}
		return s, func() error { return nil }, nil
	case KindRedis:
		rdb := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		s, err := redis.NewStore(rdb, cfg.RedisNamespace, m)
		if err != nil {
			_ = rdb.Close()
			return nil, nil, err
		}
		return s, rdb.Close, nil
	case KindPostgres:
		s, err := postgres.NewStore(cfg.PostgresDSN, m)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Kind)
	}
}
