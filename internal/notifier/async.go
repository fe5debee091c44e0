package notifier

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/digzone-backend/pkg/dispatch"
)

// AsyncConfig sizes the hand-off between claims and webhook calls.
type AsyncConfig struct {
	Buffer  int
	Workers int
	RPS     int
}

// Async sends payloads from background workers so callers never wait on the network.
type Async struct {
	sender     Sender
	metrics    Metrics
	logger     *zap.Logger
	dispatcher *dispatch.Dispatcher[Payload]
}

// NewAsync wraps sender with a bounded dispatcher.
func NewAsync(sender Sender, metrics Metrics, logger *zap.Logger, cfg AsyncConfig) (*Async, error) {
	if sender == nil {
		return nil, errors.New("notification sender is required")
	}
	if metrics == nil {
		return nil, errors.New("notifier metrics is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	a := &Async{
		sender:  sender,
		metrics: metrics,
		logger:  logger.Named("notifier"),
	}
	a.dispatcher = dispatch.New(a.logger, a.send, cfg.Buffer, cfg.Workers, cfg.RPS)
	return a, nil
}

// Start launches the workers.
func (a *Async) Start(ctx context.Context) {
	a.dispatcher.Start(ctx)
}

// Stop waits for queued notifications to finish.
func (a *Async) Stop() {
	a.dispatcher.Stop()
}

// Dispatch queues p and returns immediately. A full buffer drops p and counts it as failed.
func (a *Async) Dispatch(p Payload) bool {
	if a.dispatcher.TryAdd(p) {
		return true
	}
	a.metrics.ObserveDropped()
	a.logger.Warn("notification dropped", zap.Int("index", p.Index), zap.String("id", p.ID))
	return false
}

func (a *Async) send(ctx context.Context, p Payload) {
	outcome, err := a.sender.Notify(ctx, p)
	fields := []zap.Field{
		zap.String("id", p.ID),
		zap.Int("index", p.Index),
		zap.String("outcome", string(outcome)),
	}
	if err != nil {
		a.logger.Warn("notification failed", append(fields, zap.Error(err))...)
		return
	}
	a.logger.Debug("notification sent", fields...)
}
