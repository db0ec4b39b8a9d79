package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lotusroom/enroll-backend/internal/model"
)

// ClassRepository handles class catalog data access.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

const classColumns = `id, name, instructor_email, price_cents, available_seats, approval_status, COALESCE(feedback, ''), created_at, updated_at`

func scanClass(row pgx.Row) (*model.Class, error) {
	c := &model.Class{}
	err := row.Scan(&c.ID, &c.Name, &c.InstructorEmail, &c.PriceCents,
		&c.AvailableSeats, &c.ApprovalStatus, &c.Feedback, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// GetByID retrieves a class by its ID. Returns ErrNotFound if absent.
func (r *ClassRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Class, error) {
	return scanClass(r.pool.QueryRow(ctx,
		`SELECT `+classColumns+` FROM classes WHERE id = $1`, id))
}

// Create inserts a new class in Pending approval status.
func (r *ClassRepository) Create(ctx context.Context, c *model.Class) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO classes (id, name, instructor_email, price_cents, available_seats, approval_status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		c.ID, c.Name, c.InstructorEmail, c.PriceCents, c.AvailableSeats, model.ApprovalPending,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// Update modifies catalog fields of a class owned by instructorEmail.
// Returns ErrNotFound when the class is absent or owned by someone else.
func (r *ClassRepository) Update(ctx context.Context, id uuid.UUID, instructorEmail string, name string, priceCents int64, availableSeats int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE classes
		 SET name = $1, price_cents = $2, available_seats = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4 AND instructor_email = $5`,
		name, priceCents, availableSeats, id, instructorEmail)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetApproval transitions a class's review status.
func (r *ClassRepository) SetApproval(ctx context.Context, id uuid.UUID, status model.ApprovalStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE classes SET approval_status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetFeedback records admin review feedback on a class.
func (r *ClassRepository) SetFeedback(ctx context.Context, id uuid.UUID, feedback string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE classes SET feedback = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		feedback, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAll retrieves every class regardless of status (admin view).
func (r *ClassRepository) ListAll(ctx context.Context) ([]model.Class, error) {
	return r.list(ctx, `SELECT `+classColumns+` FROM classes ORDER BY created_at DESC`)
}

// ListApproved retrieves the public catalog of approved classes.
func (r *ClassRepository) ListApproved(ctx context.Context) ([]model.Class, error) {
	return r.list(ctx,
		`SELECT `+classColumns+` FROM classes WHERE approval_status = $1 ORDER BY created_at DESC`,
		model.ApprovalApproved)
}

// ListByInstructor retrieves an instructor's own classes.
func (r *ClassRepository) ListByInstructor(ctx context.Context, instructorEmail string) ([]model.Class, error) {
	return r.list(ctx,
		`SELECT `+classColumns+` FROM classes WHERE instructor_email = $1 ORDER BY created_at DESC`,
		instructorEmail)
}

// ListPopular retrieves approved classes ranked by confirmed enrollments.
func (r *ClassRepository) ListPopular(ctx context.Context, limit int) ([]model.PopularClass, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.name, c.instructor_email, c.price_cents, c.available_seats,
		        c.approval_status, COALESCE(c.feedback, ''), c.created_at, c.updated_at,
		        COUNT(e.id) AS enrolled_count
		 FROM classes c
		 LEFT JOIN enrollments e ON e.class_id = c.id AND e.payment_state = $1
		 WHERE c.approval_status = $2
		 GROUP BY c.id
		 ORDER BY enrolled_count DESC, c.created_at DESC
		 LIMIT $3`,
		model.PaymentStatePaid, model.ApprovalApproved, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.PopularClass
	for rows.Next() {
		var p model.PopularClass
		if err := rows.Scan(&p.ID, &p.Name, &p.InstructorEmail, &p.PriceCents,
			&p.AvailableSeats, &p.ApprovalStatus, &p.Feedback, &p.CreatedAt, &p.UpdatedAt,
			&p.EnrolledCount); err != nil {
			return nil, err
		}
		classes = append(classes, p)
	}
	return classes, rows.Err()
}

func (r *ClassRepository) list(ctx context.Context, query string, args ...any) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		var c model.Class
		if err := rows.Scan(&c.ID, &c.Name, &c.InstructorEmail, &c.PriceCents,
			&c.AvailableSeats, &c.ApprovalStatus, &c.Feedback, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}
