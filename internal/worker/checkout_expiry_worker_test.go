package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeSweeper struct {
	mu      sync.Mutex
	cutoffs []time.Time
	removed int64
	err     error
}

func (f *fakeSweeper) DeleteExpiredPending(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.removed, f.err
}

func TestCheckoutExpiryWorker_SweepCutoff(t *testing.T) {
	sweeper := &fakeSweeper{removed: 3}
	w := NewCheckoutExpiryWorker(sweeper, 48*time.Hour, zerolog.Nop())

	before := time.Now().Add(-48 * time.Hour)
	w.sweep(context.Background())
	after := time.Now().Add(-48 * time.Hour)

	if len(sweeper.cutoffs) != 1 {
		t.Fatalf("expected 1 sweep, got %d", len(sweeper.cutoffs))
	}
	cutoff := sweeper.cutoffs[0]
	if cutoff.Before(before) || cutoff.After(after) {
		t.Fatalf("cutoff %v outside expected window [%v, %v]", cutoff, before, after)
	}
}

func TestCheckoutExpiryWorker_SweepErrorDoesNotPanic(t *testing.T) {
	sweeper := &fakeSweeper{err: errors.New("db down")}
	w := NewCheckoutExpiryWorker(sweeper, 48*time.Hour, zerolog.Nop())

	w.sweep(context.Background())

	if len(sweeper.cutoffs) != 1 {
		t.Fatalf("expected 1 sweep attempt, got %d", len(sweeper.cutoffs))
	}
}

func TestCheckoutExpiryWorker_StopsOnContextCancel(t *testing.T) {
	sweeper := &fakeSweeper{}
	w := NewCheckoutExpiryWorker(sweeper, 48*time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after context cancel")
	}
}
