// Package engine applies the claim rules to the grid and owns the concurrency discipline
// around the store.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/digzone-backend/internal/clock"
	"github.com/goodnatureofminers/digzone-backend/internal/grid"
	"github.com/goodnatureofminers/digzone-backend/internal/notifier"
)

// Options tune the engine. The zero value disables the daily quota and uses the wall clock.
type Options struct {
	DailyDigLimit int
	Now           clock.Func
}

// Service is the grid engine.
type Service struct {
	store    Store
	notifier Notifier
	metrics  Metrics
	logger   *zap.Logger
	now      clock.Func
	quota    *quota

	mu       sync.RWMutex
	snapshot *grid.Document
	degraded error
}

// New constructs the engine.
func New(store Store, n Notifier, metrics Metrics, logger *zap.Logger, opts Options) (*Service, error) {
	if store == nil {
		return nil, errors.New("grid store is required")
	}
	if n == nil {
		return nil, errors.New("notifier is required")
	}
	if metrics == nil {
		return nil, errors.New("engine metrics is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.DailyDigLimit < 0 {
		return nil, fmt.Errorf("daily dig limit must not be negative, got %d", opts.DailyDigLimit)
	}
	now := opts.Now
	if now == nil {
		now = clock.UTC
	}

	return &Service{
		store:    store,
		notifier: n,
		metrics:  metrics,
		logger:   logger.Named("engine"),
		now:      now,
		quota:    newQuota(opts.DailyDigLimit),
	}, nil
}

// DailyDigLimit returns the configured limit; 0 means unlimited.
func (s *Service) DailyDigLimit() int {
	return s.quota.limit
}

// Claim digs the block at index for identity. The store transition is not cancelled by
// ctx once started. Range and ownership are decided before the daily quota, so a claim on
// a missing or dug block always reports that. A verification notification is queued
// after a successful claim and its outcome never affects the result.
func (s *Service) Claim(ctx context.Context, index int, identity, color string) (block grid.Block, err error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveClaim(err, started)
	}()

	identity = strings.TrimSpace(identity)
	if identity == "" {
		return grid.Block{}, fmt.Errorf("%w: identity is required", grid.ErrInvalidArgument)
	}
	if err = s.writable(); err != nil {
		return grid.Block{}, err
	}

	now := s.now().UTC()
	ctx = context.WithoutCancel(ctx)
	// the store may run the transition more than once, the reservation is taken once
	var release func()
	block, err = s.store.Mutate(ctx, index, func(b *grid.Block) error {
		if err := b.Dig(identity, color, now); err != nil {
			return err
		}
		if release != nil {
			return nil
		}
		r, err := s.quota.reserve(ctx, identity, now, s.store.Load)
		if err != nil {
			return err
		}
		release = r
		return nil
	})
	if err != nil {
		if release != nil {
			release()
		}
		s.checkCorrupt(err)
		return grid.Block{}, err
	}

	s.remember(block)
	if !s.notifier.Dispatch(notifier.NewPayload(block.Index, identity, block.Color, block.DugAt)) {
		s.logger.Warn("verification notification not queued", zap.Int("index", index))
	}
	s.logger.Info("block claimed",
		zap.Int("index", index),
		zap.String("identity", identity),
		zap.String("color", color),
	)
	return block, nil
}

// SetColor recolors a dug block on behalf of its owner.
func (s *Service) SetColor(ctx context.Context, index int, identity, color string) (block grid.Block, err error) {
	defer func() {
		s.metrics.ObserveSetColor(err)
	}()

	identity = strings.TrimSpace(identity)
	if identity == "" {
		return grid.Block{}, fmt.Errorf("%w: identity is required", grid.ErrInvalidArgument)
	}
	color = strings.TrimSpace(color)
	if color == "" {
		return grid.Block{}, fmt.Errorf("%w: color is required", grid.ErrInvalidArgument)
	}
	if err = s.writable(); err != nil {
		return grid.Block{}, err
	}

	block, err = s.store.Mutate(context.WithoutCancel(ctx), index, func(b *grid.Block) error {
		return b.Recolor(identity, color)
	})
	if err != nil {
		s.checkCorrupt(err)
		return grid.Block{}, err
	}
	s.remember(block)
	s.logger.Info("block recolored", zap.Int("index", index), zap.String("color", color))
	return block, nil
}

// SetVisual sets or clears (visual == nil) the asset reference of a block. It does not
// check ownership and is idempotent.
func (s *Service) SetVisual(ctx context.Context, index int, visual *string) (block grid.Block, err error) {
	defer func() {
		s.metrics.ObserveSetVisual(err)
	}()

	if err = s.writable(); err != nil {
		return grid.Block{}, err
	}

	block, err = s.store.Mutate(context.WithoutCancel(ctx), index, func(b *grid.Block) error {
		b.SetVisual(visual)
		return nil
	})
	if err != nil {
		s.checkCorrupt(err)
		return grid.Block{}, err
	}
	s.remember(block)
	return block, nil
}

// GetBlock returns a copy of the block at index.
func (s *Service) GetBlock(ctx context.Context, index int) (grid.Block, error) {
	doc, err := s.Document(ctx)
	if err != nil {
		return grid.Block{}, err
	}
	return doc.Grid.At(index)
}

// GetGrid returns a copy of the whole grid.
func (s *Service) GetGrid(ctx context.Context) (grid.Grid, error) {
	doc, err := s.Document(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Grid, nil
}

// Document loads the current document. When the stored state is corrupt the engine turns
// degraded and, if it has one, serves the last document that loaded cleanly.
func (s *Service) Document(ctx context.Context) (*grid.Document, error) {
	doc, err := s.store.Load(ctx)
	if err == nil {
		s.mu.Lock()
		s.snapshot = doc.Clone()
		s.mu.Unlock()
		return doc, nil
	}
	if !s.checkCorrupt(err) {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, err
	}
	s.logger.Warn("serving last known good grid", zap.Error(err))
	return s.snapshot.Clone(), nil
}

// Degraded returns the corrupt-state error that put the engine in read-only mode, or nil.
func (s *Service) Degraded() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

// Reload re-reads the store. On success the snapshot is replaced and writes are allowed
// again; on a corrupt store the engine stays (or becomes) degraded.
func (s *Service) Reload(ctx context.Context) error {
	doc, err := s.store.Load(ctx)
	if err != nil {
		s.checkCorrupt(err)
		return err
	}

	s.mu.Lock()
	wasDegraded := s.degraded != nil
	s.snapshot = doc.Clone()
	s.degraded = nil
	s.mu.Unlock()

	s.quota.invalidate()
	s.metrics.SetDegraded(false)
	if wasDegraded {
		s.logger.Info("grid reloaded, writes enabled")
	}
	return nil
}

func (s *Service) writable() error {
	if err := s.Degraded(); err != nil {
		return fmt.Errorf("writes refused until the grid is repaired: %w", err)
	}
	return nil
}

// checkCorrupt switches to degraded mode when err reports corrupt state.
func (s *Service) checkCorrupt(err error) bool {
	if !errors.Is(err, grid.ErrCorruptState) {
		return false
	}

	s.mu.Lock()
	first := s.degraded == nil
	if first {
		s.degraded = err
	}
	s.mu.Unlock()

	if first {
		s.metrics.SetDegraded(true)
		s.logger.Error("grid state is corrupt, refusing writes", zap.Error(err))
	}
	return true
}

func (s *Service) remember(b grid.Block) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot != nil && b.Index >= 0 && b.Index < len(s.snapshot.Grid) {
		s.snapshot.Grid[b.Index] = b.Clone()
	}
}
