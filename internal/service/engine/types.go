package engine

import (
	"context"
	"time"

	"github.com/goodnatureofminers/digzone-backend/internal/grid"
	"github.com/goodnatureofminers/digzone-backend/internal/notifier"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Store interface {
		Load(ctx context.Context) (*grid.Document, error)
		Mutate(ctx context.Context, index int, fn grid.TransitionFunc) (grid.Block, error)
	}
	Notifier interface {
		Dispatch(p notifier.Payload) bool
	}
	Metrics interface {
		ObserveClaim(err error, started time.Time)
		ObserveSetVisual(err error)
		ObserveSetColor(err error)
		SetDegraded(degraded bool)
	}
)
