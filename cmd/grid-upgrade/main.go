// Command grid-upgrade rewrites a file grid document in the canonical schema.
// Stop the server before running it against the same document.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/digzone-backend/internal/metrics"
	"github.com/goodnatureofminers/digzone-backend/internal/store/file"
)

type config struct {
	DataPath string `long:"data-path" env:"DIGZONE_DATA_PATH" description:"grid document path" default:"data/grid.json"`
	DryRun   bool   `long:"dry-run" env:"GRID_UPGRADE_DRY_RUN" description:"report legacy fields without rewriting"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("grid upgrade failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	s, err := file.NewStore(cfg.DataPath, metrics.NewStore("file"))
	if err != nil {
		return err
	}
	report, err := s.Upgrade(ctx, cfg.DryRun)
	if err != nil {
		return fmt.Errorf("upgrade %s: %w", cfg.DataPath, err)
	}

	fields := []zap.Field{
		zap.String("path", cfg.DataPath),
		zap.Int("blocks", report.Blocks),
		zap.Int("missing_status", report.MissingStatus),
		zap.Int("missing_owner", report.MissingOwner),
		zap.Int("missing_dug_by", report.MissingDugBy),
		zap.Int("missing_visual", report.MissingVisual),
	}
	switch {
	case !report.Changed():
		logger.Info("grid document already canonical", fields...)
	case cfg.DryRun:
		logger.Info("grid document needs upgrade, dry run left it untouched", fields...)
	default:
		logger.Info("grid document upgraded", fields...)
	}
	return nil
}
