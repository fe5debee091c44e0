// Package redis implements the grid store over Redis hashes, one hash per block.
package redis

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

const (
	defaultMaxRetries = 16
	retryBase         = 5 * time.Millisecond
	retryLimit        = 200 * time.Millisecond
)

// Store keeps the grid in Redis. Claims use WATCH/MULTI on the block hash, so several
// processes may share one namespace.
type Store struct {
	rdb        redis.UniversalClient
	namespace  string
	metrics    Metrics
	maxRetries int
}

// NewStore returns a store rooted at the given key namespace.
func NewStore(rdb redis.UniversalClient, namespace string, metrics Metrics) (*Store, error) {
	if rdb == nil {
		return nil, errors.New("redis client is required")
	}
	if namespace == "" {
		return nil, errors.New("redis namespace is required")
	}
	if metrics == nil {
		return nil, errors.New("redis store metrics is required")
	}
	return &Store{rdb: rdb, namespace: namespace, metrics: metrics, maxRetries: defaultMaxRetries}, nil
}
