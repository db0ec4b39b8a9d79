package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lotusroom/enroll-backend/internal/model"
)

// PaymentRepository handles payment receipts and the settlement transaction.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// SettleResult reports the outcome of a committed settlement.
type SettleResult struct {
	Receipt        model.PaymentReceipt
	ClassID        uuid.UUID
	RemainingSeats int
}

// Settle performs the whole PENDING→PAID transition as one transaction:
// conditional state flip, conditional seat decrement, receipt insert.
// Both UPDATEs carry their precondition in the WHERE clause, so two
// settlements racing on the last seat cannot both commit — the storage
// layer, not the process, enforces the invariant.
//
// Returns ErrNotFound, ErrAlreadyPaid or ErrSeatUnavailable; any of those
// leaves the ledger untouched.
func (r *PaymentRepository) Settle(ctx context.Context, enrollmentID uuid.UUID, providerRef string) (*SettleResult, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin settlement: %w", err)
	}
	defer tx.Rollback(ctx)

	res := &SettleResult{}

	// Flip the enrollment to PAID only if it is still PENDING.
	err = tx.QueryRow(ctx,
		`UPDATE enrollments SET payment_state = $1
		 WHERE id = $2 AND payment_state = $3
		 RETURNING class_id, student_email, price_cents`,
		model.PaymentStatePaid, enrollmentID, model.PaymentStatePending,
	).Scan(&res.ClassID, &res.Receipt.StudentEmail, &res.Receipt.AmountCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyMissedFlip(ctx, enrollmentID)
		}
		return nil, fmt.Errorf("mark enrollment paid: %w", err)
	}

	// Take the seat only while capacity remains.
	var remaining int
	err = tx.QueryRow(ctx,
		`UPDATE classes SET available_seats = available_seats - 1
		 WHERE id = $1 AND available_seats > 0
		 RETURNING available_seats`,
		res.ClassID,
	).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSeatUnavailable
		}
		return nil, fmt.Errorf("decrement seats: %w", err)
	}
	res.RemainingSeats = remaining

	// Exactly one receipt per enrollment; the unique index backs up the
	// state flip above.
	res.Receipt.ID = uuid.New()
	res.Receipt.EnrollmentID = enrollmentID
	res.Receipt.ClassID = res.ClassID
	res.Receipt.ProviderRef = providerRef
	err = tx.QueryRow(ctx,
		`INSERT INTO payments (id, enrollment_id, student_email, class_id, amount_cents, provider_ref)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		res.Receipt.ID, enrollmentID, res.Receipt.StudentEmail, res.ClassID,
		res.Receipt.AmountCents, providerRef,
	).Scan(&res.Receipt.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyPaid
		}
		return nil, fmt.Errorf("insert receipt: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit settlement: %w", err)
	}
	return res, nil
}

// classifyMissedFlip distinguishes an absent enrollment from one that is
// already paid, outside the aborted transaction.
func (r *PaymentRepository) classifyMissedFlip(ctx context.Context, enrollmentID uuid.UUID) error {
	var state model.PaymentState
	err := r.pool.QueryRow(ctx,
		`SELECT payment_state FROM enrollments WHERE id = $1`, enrollmentID).Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if state == model.PaymentStatePaid {
		return ErrAlreadyPaid
	}
	return ErrNotFound
}

// ListByStudent retrieves a student's receipts, newest first.
func (r *PaymentRepository) ListByStudent(ctx context.Context, studentEmail string) ([]model.PaymentReceipt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, enrollment_id, student_email, class_id, amount_cents, provider_ref, created_at
		 FROM payments WHERE student_email = $1 ORDER BY created_at DESC`, studentEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []model.PaymentReceipt
	for rows.Next() {
		var p model.PaymentReceipt
		if err := rows.Scan(&p.ID, &p.EnrollmentID, &p.StudentEmail, &p.ClassID,
			&p.AmountCents, &p.ProviderRef, &p.CreatedAt); err != nil {
			return nil, err
		}
		receipts = append(receipts, p)
	}
	return receipts, rows.Err()
}
