package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lotusroom/enroll-backend/internal/config"
	"github.com/lotusroom/enroll-backend/internal/model"
	"github.com/lotusroom/enroll-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Settlement errors.
var (
	// ErrInvalidAmount rejects non-positive charge amounts.
	ErrInvalidAmount = errors.New("amount must be a positive number of cents")
	// ErrProvider wraps failures coming back from the payment provider.
	// The provider's own message is preserved in the chain, untouched.
	ErrProvider = errors.New("payment provider")
)

// PaymentProvider creates provider-side authorizations. Implementations must
// not touch local state; the returned secret is completed out-of-band.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, amountCents int64) (clientSecret string, err error)
}

// SettlementStore performs the atomic settlement transaction.
type SettlementStore interface {
	Settle(ctx context.Context, enrollmentID uuid.UUID, providerRef string) (*repository.SettleResult, error)
	ListByStudent(ctx context.Context, studentEmail string) ([]model.PaymentReceipt, error)
}

// EnrollmentGetter resolves enrollments for checkout.
type EnrollmentGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Enrollment, error)
}

// PaymentService bridges the payment provider and the enrollment ledger.
// It is the single settlement entry point: every confirmation funnels
// through Confirm, and the store's conditional updates guarantee at most
// one receipt per enrollment and no oversold seats.
type PaymentService struct {
	provider    PaymentProvider
	enrollments EnrollmentGetter
	payments    SettlementStore
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewPaymentService creates a new PaymentService. rdb may be nil; seat
// updates are then simply not published.
func NewPaymentService(provider PaymentProvider, enrollments EnrollmentGetter, payments SettlementStore, rdb *redis.Client, log zerolog.Logger) *PaymentService {
	return &PaymentService{
		provider:    provider,
		enrollments: enrollments,
		payments:    payments,
		rdb:         rdb,
		log:         log.With().Str("component", "payment_service").Logger(),
	}
}

// CreateCheckoutIntent asks the provider to authorize the snapshotted price
// of the student's own pending selection. No local state changes; provider
// failures surface wrapped in ErrProvider with the original message intact.
func (s *PaymentService) CreateCheckoutIntent(ctx context.Context, studentEmail string, selectionID uuid.UUID) (*model.CheckoutIntentResponse, error) {
	e, err := s.enrollments.GetByID(ctx, selectionID)
	if err != nil {
		return nil, err
	}
	if e.StudentEmail != studentEmail {
		return nil, ErrNotOwner
	}
	if e.PaymentState != model.PaymentStatePending {
		return nil, repository.ErrAlreadyPaid
	}
	if e.PriceCents <= 0 {
		return nil, ErrInvalidAmount
	}

	secret, err := s.provider.CreateIntent(ctx, e.PriceCents)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	return &model.CheckoutIntentResponse{
		ClientSecret: secret,
		AmountCents:  e.PriceCents,
	}, nil
}

// Confirm settles a pending enrollment exactly once: seat decrement, state
// flip and receipt insert commit as one transaction in the store. A repeat
// call with the same selection reports repository.ErrAlreadyPaid, which
// callers should treat as "already handled" — that is what makes retries
// after a partial failure safe.
func (s *PaymentService) Confirm(ctx context.Context, studentEmail string, selectionID uuid.UUID, providerRef string) (*model.PaymentReceipt, error) {
	e, err := s.enrollments.GetByID(ctx, selectionID)
	if err != nil {
		return nil, err
	}
	if e.StudentEmail != studentEmail {
		return nil, ErrNotOwner
	}
	if e.PaymentState == model.PaymentStatePaid {
		return nil, repository.ErrAlreadyPaid
	}

	res, err := s.payments.Settle(ctx, selectionID, providerRef)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("enrollment_id", selectionID.String()).
		Str("class_id", res.ClassID.String()).
		Int64("amount_cents", res.Receipt.AmountCents).
		Int("remaining_seats", res.RemainingSeats).
		Msg("Settlement committed")

	s.publishSeats(ctx, res.ClassID, res.RemainingSeats)

	return &res.Receipt, nil
}

// ListReceiptsByStudent retrieves a student's own payment history.
func (s *PaymentService) ListReceiptsByStudent(ctx context.Context, studentEmail string) ([]model.PaymentReceipt, error) {
	return s.payments.ListByStudent(ctx, studentEmail)
}

// SeatUpdate is the payload published on a class's seat channel.
type SeatUpdate struct {
	ClassID        uuid.UUID `json:"class_id"`
	AvailableSeats int       `json:"available_seats"`
}

func (s *PaymentService) publishSeats(ctx context.Context, classID uuid.UUID, remaining int) {
	if s.rdb == nil {
		return
	}
	payload, err := json.Marshal(SeatUpdate{ClassID: classID, AvailableSeats: remaining})
	if err != nil {
		return
	}
	channel := config.CacheKey.ClassSeatsChannel(classID.String())
	if err := s.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		s.log.Warn().Err(err).Str("channel", channel).Msg("Seat update publish failed")
	}
	// Listings embed seat counts; drop them so the next read is fresh.
	if err := s.rdb.Del(ctx, config.CacheKey.ApprovedClassesKey(), config.CacheKey.PopularClassesKey()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Catalog cache invalidation failed")
	}
}
