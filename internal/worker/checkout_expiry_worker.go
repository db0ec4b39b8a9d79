package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ExpiredSweeper deletes pending enrollments older than a cutoff.
// *repository.EnrollmentRepository satisfies it.
type ExpiredSweeper interface {
	DeleteExpiredPending(ctx context.Context, cutoff time.Time) (int64, error)
}

// CheckoutExpiryWorker sweeps abandoned pending selections so they stop
// squatting on catalog rows. Paid enrollments are never touched; the sweep
// is a plain conditional delete, so running several instances is harmless.
type CheckoutExpiryWorker struct {
	enrollments ExpiredSweeper
	ttl         time.Duration
	interval    time.Duration
	log         zerolog.Logger
}

// NewCheckoutExpiryWorker creates a new CheckoutExpiryWorker.
func NewCheckoutExpiryWorker(enrollments ExpiredSweeper, ttl time.Duration, log zerolog.Logger) *CheckoutExpiryWorker {
	return &CheckoutExpiryWorker{
		enrollments: enrollments,
		ttl:         ttl,
		interval:    10 * time.Minute,
		log:         log.With().Str("component", "checkout_expiry_worker").Logger(),
	}
}

// Start begins the sweep loop. Call in a goroutine; returns when ctx is done.
func (w *CheckoutExpiryWorker) Start(ctx context.Context) {
	w.log.Info().Dur("ttl", w.ttl).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *CheckoutExpiryWorker) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-w.ttl)
	removed, err := w.enrollments.DeleteExpiredPending(ctx, cutoff)
	if err != nil {
		w.log.Error().Err(err).Msg("Sweep failed")
		return
	}
	if removed > 0 {
		w.log.Info().Int64("removed", removed).Msg("Expired pending selections swept")
	}
}
