// Package janitor deletes abandoned anonymous carts. A cart qualifies
// when it has no owning user, is still current, and its expiry date
// lies in the past. The sweep predicate is re-evaluated on every run,
// so an interrupted sweep is simply picked up by the next one.
package janitor

import (
	"context"
	"io"
	"log"
	"time"
)

type cartSweeper interface {
	DeleteExpiredAnonymous(ctx context.Context) (int64, error)
}

type Janitor struct {
	carts    cartSweeper
	interval time.Duration
	logger   *log.Logger
}

func New(carts cartSweeper, interval time.Duration, logger *log.Logger) *Janitor {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Janitor{carts: carts, interval: interval, logger: logger}
}

// Run sweeps once immediately and then on every tick until the
// context is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	j.sweep(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	deleted, err := j.carts.DeleteExpiredAnonymous(ctx)
	if err != nil {
		j.logger.Printf("sweep expired carts: %v", err)
		return
	}
	if deleted > 0 {
		j.logger.Printf("deleted %d expired anonymous carts", deleted)
	}
}
