// Command grid-report prints the claimed count and per-user distribution without writing.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/digzone-backend/internal/stats"
	"github.com/goodnatureofminers/digzone-backend/internal/store"
)

type config struct {
	Store          string `long:"store" env:"DIGZONE_STORE" description:"grid store backend" choice:"file" choice:"redis" choice:"postgres" default:"file"`
	DataPath       string `long:"data-path" env:"DIGZONE_DATA_PATH" description:"grid document path for the file store" default:"data/grid.json"`
	RedisAddr      string `long:"redis-addr" env:"DIGZONE_REDIS_ADDR" description:"Redis address" default:"localhost:6379"`
	RedisNamespace string `long:"redis-namespace" env:"DIGZONE_REDIS_NAMESPACE" description:"Redis key namespace" default:"main"`
	PostgresDSN    string `long:"postgres-dsn" env:"DIGZONE_POSTGRES_DSN" description:"Postgres DSN"`
	Format         string `long:"format" env:"GRID_REPORT_FORMAT" description:"output format" choice:"text" choice:"json" default:"text"`
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

	if err := run(ctx, cfg, os.Stdout); err != nil {
		logger.Fatal("grid report failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, w io.Writer) error {
	backend, closeStore, err := store.Open(store.Config{
		Kind:           cfg.Store,
		Path:           cfg.DataPath,
		RedisAddr:      cfg.RedisAddr,
		RedisNamespace: cfg.RedisNamespace,
		PostgresDSN:    cfg.PostgresDSN,
	})
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	defer func() {
		_ = closeStore()
	}()

	doc, err := backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("load grid: %w", err)
	}
	return write(w, stats.NewReport(doc.Grid), cfg.Format)
}

func write(w io.Writer, r stats.Report, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "total\t%d\n", r.Total)
	fmt.Fprintf(tw, "claimed\t%d\n", r.Claimed)
	fmt.Fprintf(tw, "empty\t%d\n", r.Empty)
	if len(r.Distribution) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "identity\tblocks")
		for _, uc := range r.Distribution {
			fmt.Fprintf(tw, "%s\t%d\n", uc.Identity, uc.Count)
		}
	}
	return tw.Flush()
}
