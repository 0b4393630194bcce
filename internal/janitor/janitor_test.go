package janitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingSweeper struct {
	calls   atomic.Int64
	deleted int64
	err     error
}

func (s *countingSweeper) DeleteExpiredAnonymous(_ context.Context) (int64, error) {
	s.calls.Add(1)
	return s.deleted, s.err
}

func TestRunSweepsImmediately(t *testing.T) {
	sweeper := &countingSweeper{deleted: 3}
	j := New(sweeper, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Run(ctx)
		close(done)
	}()

	deadline := time.After(time.Second)
	for sweeper.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("expected an immediate sweep")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop on context cancel")
	}
}

func TestRunSweepsOnTicks(t *testing.T) {
	sweeper := &countingSweeper{}
	j := New(sweeper, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go j.Run(ctx)

	deadline := time.After(time.Second)
	for sweeper.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 sweeps, got %d", sweeper.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestRunKeepsGoingAfterSweepError(t *testing.T) {
	sweeper := &countingSweeper{err: errors.New("db down")}
	j := New(sweeper, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go j.Run(ctx)

	deadline := time.After(time.Second)
	for sweeper.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("expected the janitor to retry after an error")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
