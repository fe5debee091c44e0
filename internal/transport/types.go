package transport

import (
	"context"

	"github.com/goodnatureofminers/digzone-backend/internal/grid"
	"github.com/goodnatureofminers/digzone-backend/internal/stats"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	GridService interface {
		Claim(ctx context.Context, index int, identity, color string) (grid.Block, error)
		SetVisual(ctx context.Context, index int, visual *string) (grid.Block, error)
		SetColor(ctx context.Context, index int, identity, color string) (grid.Block, error)
		GetBlock(ctx context.Context, index int) (grid.Block, error)
		GetGrid(ctx context.Context) (grid.Grid, error)
		Stats(ctx context.Context) (stats.Report, error)
		TopMiners(ctx context.Context, limit int) ([]stats.Miner, error)
		UserStats(ctx context.Context, identity string) (stats.UserSummary, error)
		Degraded() error
	}
)
