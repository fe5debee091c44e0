package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goodnatureofminers/digzone-backend/internal/grid"
)

// Load reads every block hash in one pipeline plus the users hash.
func (s *Store) Load(ctx context.Context) (doc *grid.Document, err error) {
	start := time.Now()
	defer func() {
		s.metrics.Observe("load", err, start)
	}()

	total, err := s.total(ctx)
	if err != nil {
		return nil, err
	}

	cmds := make([]*redis.MapStringStringCmd, total)
	var usersCmd *redis.MapStringStringCmd
	if _, err = s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i := range cmds {
			cmds[i] = pipe.HGetAll(ctx, blockKey(s.namespace, i))
		}
		usersCmd = pipe.HGetAll(ctx, usersKey(s.namespace))
		return nil
	}); err != nil {
		return nil, fmt.Errorf("read grid: %w", err)
	}

	doc = &grid.Document{Grid: make(grid.Grid, total)}
	for i, cmd := range cmds {
		var b grid.Block
		if b, err = hashToBlock(i, cmd.Val()); err != nil {
			return nil, err
		}
		doc.Grid[i] = b
	}
	if doc.Users, err = decodeUsers(usersCmd.Val()); err != nil {
		return nil, err
	}
	if err = doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeUsers(raw map[string]string) ([]grid.User, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	users := make([]grid.User, 0, len(names))
	for _, name := range names {
		var u grid.User
		if err := json.Unmarshal([]byte(raw[name]), &u); err != nil {
			return nil, &grid.CorruptStateError{Index: -1, Reason: fmt.Sprintf("malformed user %q", name), Err: err}
		}
		users = append(users, u)
	}
	return users, nil
}
