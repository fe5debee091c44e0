package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goodnatureofminers/digzone-backend/internal/metrics"
	"github.com/goodnatureofminers/digzone-backend/internal/notifier"
	"github.com/goodnatureofminers/digzone-backend/internal/service/engine"
	"github.com/goodnatureofminers/digzone-backend/internal/store"
	"github.com/goodnatureofminers/digzone-backend/internal/transport"
)

type config struct {
	Store           string        `long:"store" env:"DIGZONE_STORE" description:"grid store backend" choice:"file" choice:"redis" choice:"postgres" default:"file"`
	DataPath        string        `long:"data-path" env:"DIGZONE_DATA_PATH" description:"grid document path for the file store" default:"data/grid.json"`
	TotalBlocks     int           `long:"total-blocks" env:"DIGZONE_TOTAL_BLOCKS" description:"grid size used when the store is empty" default:"100"`
	RedisAddr       string        `long:"redis-addr" env:"DIGZONE_REDIS_ADDR" description:"Redis address" default:"localhost:6379"`
	RedisNamespace  string        `long:"redis-namespace" env:"DIGZONE_REDIS_NAMESPACE" description:"Redis key namespace" default:"main"`
	PostgresDSN     string        `long:"postgres-dsn" env:"DIGZONE_POSTGRES_DSN" description:"Postgres DSN"`
	WebhookURL      string        `long:"webhook-url" env:"DIGZONE_VERIFICATION_WEBHOOK_URL" description:"verification webhook; empty skips notifications"`
	WebhookTimeout  time.Duration `long:"webhook-timeout" env:"DIGZONE_WEBHOOK_TIMEOUT" description:"verification webhook timeout" default:"2s"`
	DailyDigLimit   int           `long:"daily-dig-limit" env:"DIGZONE_DAILY_DIG_LIMIT" description:"claims per identity per UTC day, 0 disables" default:"12"`
	NotifierBuffer  int           `long:"notifier-buffer" env:"DIGZONE_NOTIFIER_BUFFER" description:"queued notifications before dropping" default:"1024"`
	NotifierWorkers int           `long:"notifier-workers" env:"DIGZONE_NOTIFIER_WORKERS" description:"concurrent webhook calls" default:"4"`
	NotifierRPS     int           `long:"notifier-rps" env:"DIGZONE_NOTIFIER_RPS" description:"webhook calls per second, 0 is unlimited" default:"0"`
	Addr            string        `long:"addr" env:"DIGZONE_ADDR" description:"API listen address" default:":8080"`
	MetricsAddr     string        `long:"metrics-addr" env:"DIGZONE_METRICS_ADDR" description:"address for metrics server, empty disables" default:":2112"`
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
		logger.Fatal("digzone failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
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
		if err := closeStore(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}()
	if err := backend.Init(ctx, cfg.TotalBlocks); err != nil {
		return fmt.Errorf("init %s store: %w", cfg.Store, err)
	}

	notifierMetrics := metrics.NewNotifier()
	webhook, err := notifier.NewWebhook(cfg.WebhookURL, cfg.WebhookTimeout, notifierMetrics, logger)
	if err != nil {
		return fmt.Errorf("init webhook: %w", err)
	}
	async, err := notifier.NewAsync(webhook, notifierMetrics, logger, notifier.AsyncConfig{
		Buffer:  cfg.NotifierBuffer,
		Workers: cfg.NotifierWorkers,
		RPS:     cfg.NotifierRPS,
	})
	if err != nil {
		return fmt.Errorf("init notifier: %w", err)
	}
	// Workers outlive ctx so queued notifications drain during shutdown.
	async.Start(context.WithoutCancel(ctx))
	defer async.Stop()
	if cfg.WebhookURL == "" {
		logger.Info("verification webhook not configured, notifications are skipped")
	}

	svc, err := engine.New(backend, async, metrics.NewEngine(), logger, engine.Options{
		DailyDigLimit: cfg.DailyDigLimit,
	})
	if err != nil {
		return err
	}
	if err := svc.Reload(ctx); err != nil {
		logger.Error("initial grid load failed, serving in degraded mode", zap.Error(err))
	}

	handler, err := transport.NewHandler(svc, logger)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	handler.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serve(ctx, newServer(cfg.Addr, api(mux, logger)), "api", logger)
	})
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			metricsMux := http.NewServeMux()
			metricsMux.Handle("/metrics", promhttp.Handler())
			return serve(ctx, newServer(cfg.MetricsAddr, metricsMux), "metrics", logger)
		})
	}
	g.Go(func() error {
		reloadOnHangup(ctx, svc, logger)
		return nil
	})
	return g.Wait()
}

func api(mux http.Handler, logger *zap.Logger) http.Handler {
	return transport.RequestID(transport.AccessLog(logger)(transport.CORS(mux)))
}

// reloadOnHangup re-reads the store on SIGHUP, which is how an operator re-enables writes
// after repairing a corrupt grid.
func reloadOnHangup(ctx context.Context, svc *engine.Service, logger *zap.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := svc.Reload(ctx); err != nil {
				logger.Error("grid reload failed", zap.Error(err))
				continue
			}
			logger.Info("grid reloaded")
		}
	}
}

func newServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
}

func serve(ctx context.Context, srv *http.Server, name string, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting "+name+" server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%s server: %w", name, err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down the " + name + " server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown "+name+" server", zap.Error(err))
	}
	return nil
}
