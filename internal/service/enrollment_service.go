package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lotusroom/enroll-backend/internal/model"
)

// Enrollment ledger errors.
var (
	// ErrClassNotApproved rejects selection of a class still under review.
	ErrClassNotApproved = errors.New("class not approved for enrollment")
	// ErrNotOwner rejects operations on another student's enrollment.
	ErrNotOwner = errors.New("enrollment belongs to a different student")
)

// EnrollmentStore is the data access the ledger needs.
type EnrollmentStore interface {
	Create(ctx context.Context, e *model.Enrollment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Enrollment, error)
	DeletePending(ctx context.Context, id uuid.UUID) error
	ListByStudent(ctx context.Context, studentEmail string, state *model.PaymentState) ([]model.Enrollment, error)
}

// ClassGetter resolves class records for price snapshots.
type ClassGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Class, error)
}

// EnrollmentService tracks a student's pending and confirmed selections.
type EnrollmentService struct {
	enrollments EnrollmentStore
	classes     ClassGetter
}

// NewEnrollmentService creates a new EnrollmentService.
func NewEnrollmentService(enrollments EnrollmentStore, classes ClassGetter) *EnrollmentService {
	return &EnrollmentService{enrollments: enrollments, classes: classes}
}

// Select creates a pending enrollment for an approved class, snapshotting
// the current price so later catalog edits cannot alter this checkout.
// Selecting the same class twice surfaces repository.ErrDuplicate.
func (s *EnrollmentService) Select(ctx context.Context, studentEmail string, classID uuid.UUID) (*model.Enrollment, error) {
	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if class.ApprovalStatus != model.ApprovalApproved {
		return nil, ErrClassNotApproved
	}

	e := &model.Enrollment{
		ID:           uuid.New(),
		StudentEmail: studentEmail,
		ClassID:      classID,
		ClassName:    class.Name,
		PriceCents:   class.PriceCents,
		PaymentState: model.PaymentStatePending,
	}
	if err := s.enrollments.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Withdraw deletes a student's own pending enrollment. Paid enrollments are
// immutable through this path (repository.ErrAlreadyPaid); enrollments of
// other students are never touched.
func (s *EnrollmentService) Withdraw(ctx context.Context, studentEmail string, id uuid.UUID) error {
	e, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e.StudentEmail != studentEmail {
		return ErrNotOwner
	}
	return s.enrollments.DeletePending(ctx, id)
}

// ListByStudent retrieves all of a student's selections, pending and paid.
func (s *EnrollmentService) ListByStudent(ctx context.Context, studentEmail string) ([]model.Enrollment, error) {
	return s.enrollments.ListByStudent(ctx, studentEmail, nil)
}

// ListPaidByStudent retrieves only confirmed enrollments — the "my enrolled
// classes" view.
func (s *EnrollmentService) ListPaidByStudent(ctx context.Context, studentEmail string) ([]model.Enrollment, error) {
	paid := model.PaymentStatePaid
	return s.enrollments.ListByStudent(ctx, studentEmail, &paid)
}
