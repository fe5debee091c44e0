package notifier

import (
	"context"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(outcome string, started time.Time)
		ObserveDropped()
	}

	Sender interface {
		Notify(ctx context.Context, p Payload) (Outcome, error)
	}
)
