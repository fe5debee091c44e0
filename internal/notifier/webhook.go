// Package notifier delivers best-effort claim notifications to an external verification webhook.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single webhook call.
const DefaultTimeout = 2 * time.Second

// EventBlockClaimed is the only event sent today.
const EventBlockClaimed = "block.claimed"

// Outcome of one notification attempt.
type Outcome string

const (
	Delivered Outcome = "delivered"
	Skipped   Outcome = "skipped"
	Failed    Outcome = "failed"
)

// Payload is the JSON body posted to the webhook.
type Payload struct {
	Event     string    `json:"event"`
	ID        string    `json:"id"`
	Index     int       `json:"index"`
	Identity  string    `json:"identity"`
	Color     string    `json:"color,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewPayload builds a block.claimed payload with a fresh id.
func NewPayload(index int, identity, color string, at time.Time) Payload {
	return Payload{
		Event:     EventBlockClaimed,
		ID:        uuid.NewString(),
		Index:     index,
		Identity:  identity,
		Color:     color,
		Timestamp: at.UTC(),
	}
}

// NotificationError reports a failed delivery. Status is 0 when no response was received.
type NotificationError struct {
	Status int
	Err    error
}

func (e *NotificationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("verification webhook responded %d", e.Status)
	}
	return fmt.Sprintf("verification webhook call failed: %v", e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

// Webhook posts payloads to one URL. Calls are never retried.
type Webhook struct {
	url     string
	client  *resty.Client
	metrics Metrics
	logger  *zap.Logger
}

// NewWebhook returns a webhook sender. An empty url yields a sender that always skips.
// timeout <= 0 selects DefaultTimeout.
func NewWebhook(url string, timeout time.Duration, metrics Metrics, logger *zap.Logger) (*Webhook, error) {
	if metrics == nil {
		return nil, errors.New("notifier metrics is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json")

	return &Webhook{
		url:     url,
		client:  client,
		metrics: metrics,
		logger:  logger.Named("webhook"),
	}, nil
}

// Notify posts p once. Failures are returned as *NotificationError for logging only.
func (w *Webhook) Notify(ctx context.Context, p Payload) (outcome Outcome, err error) {
	start := time.Now()
	defer func() {
		w.metrics.Observe(string(outcome), start)
	}()

	if w.url == "" {
		return Skipped, nil
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(p).
		Post(w.url)
	if err != nil {
		return Failed, &NotificationError{Err: err}
	}
	if !resp.IsSuccess() {
		return Failed, &NotificationError{Status: resp.StatusCode()}
	}
	return Delivered, nil
}
