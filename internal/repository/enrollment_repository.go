package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lotusroom/enroll-backend/internal/model"
)

// EnrollmentRepository handles enrollment ledger data access.
type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// Create inserts a new pending enrollment. The unique index on
// (student_email, class_id) rejects a second selection of the same class;
// that surfaces as ErrDuplicate.
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO enrollments (id, student_email, class_id, price_cents, payment_state)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		e.ID, e.StudentEmail, e.ClassID, e.PriceCents, model.PaymentStatePending,
	).Scan(&e.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID retrieves an enrollment by id. Returns ErrNotFound if absent.
func (r *EnrollmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Enrollment, error) {
	e := &model.Enrollment{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, student_email, class_id, price_cents, payment_state, created_at
		 FROM enrollments WHERE id = $1`, id,
	).Scan(&e.ID, &e.StudentEmail, &e.ClassID, &e.PriceCents, &e.PaymentState, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// DeletePending removes a pending enrollment. The state predicate keeps paid
// enrollments immutable through this path: a paid row yields ErrAlreadyPaid,
// a missing row ErrNotFound.
func (r *EnrollmentRepository) DeletePending(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM enrollments WHERE id = $1 AND payment_state = $2`,
		id, model.PaymentStatePending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var state model.PaymentState
	err = r.pool.QueryRow(ctx,
		`SELECT payment_state FROM enrollments WHERE id = $1`, id).Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrAlreadyPaid
}

// ListByStudent retrieves all of a student's enrollments with class names,
// optionally filtered to one payment state.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentEmail string, state *model.PaymentState) ([]model.Enrollment, error) {
	query := `SELECT e.id, e.student_email, e.class_id, c.name, e.price_cents, e.payment_state, e.created_at
	          FROM enrollments e
	          JOIN classes c ON c.id = e.class_id
	          WHERE e.student_email = $1`
	args := []any{studentEmail}
	if state != nil {
		args = append(args, *state)
		query += ` AND e.payment_state = $2`
	}
	query += ` ORDER BY e.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []model.Enrollment
	for rows.Next() {
		var e model.Enrollment
		if err := rows.Scan(&e.ID, &e.StudentEmail, &e.ClassID, &e.ClassName,
			&e.PriceCents, &e.PaymentState, &e.CreatedAt); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// DeleteExpiredPending sweeps pending enrollments created before the cutoff.
// Paid rows are never touched. Returns the number of rows removed.
func (r *EnrollmentRepository) DeleteExpiredPending(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM enrollments WHERE payment_state = $1 AND created_at < $2`,
		model.PaymentStatePending, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
