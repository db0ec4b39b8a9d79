package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lotusroom/enroll-backend/internal/model"
	"github.com/lotusroom/enroll-backend/internal/repository"
)

func approvedClass(price int64) *model.Class {
	return &model.Class{
		ID:              uuid.New(),
		Name:            "Morning Vinyasa",
		InstructorEmail: "ines@example.com",
		PriceCents:      price,
		AvailableSeats:  10,
		ApprovalStatus:  model.ApprovalApproved,
	}
}

func TestEnrollmentService_SelectSnapshotsPrice(t *testing.T) {
	class := approvedClass(4500)
	classes := &fakeClassGetter{classes: map[uuid.UUID]*model.Class{class.ID: class}}
	ledger := newFakeLedger()
	svc := NewEnrollmentService(ledger, classes)
	ctx := context.Background()

	e, err := svc.Select(ctx, "alice@example.com", class.ID)
	if err != nil {
		t.Fatalf("select: unexpected error: %v", err)
	}
	if e.PriceCents != 4500 {
		t.Fatalf("expected snapshot price 4500, got %d", e.PriceCents)
	}
	if e.PaymentState != model.PaymentStatePending {
		t.Fatalf("expected state %s got %s", model.PaymentStatePending, e.PaymentState)
	}

	// A later catalog edit must not move the snapshot.
	classes.classes[class.ID].PriceCents = 9900
	stored, err := ledger.GetByID(ctx, e.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.PriceCents != 4500 {
		t.Fatalf("snapshot drifted: got %d", stored.PriceCents)
	}
}

func TestEnrollmentService_SelectUnapprovedClass(t *testing.T) {
	class := approvedClass(4500)
	class.ApprovalStatus = model.ApprovalPending
	classes := &fakeClassGetter{classes: map[uuid.UUID]*model.Class{class.ID: class}}
	svc := NewEnrollmentService(newFakeLedger(), classes)

	if _, err := svc.Select(context.Background(), "alice@example.com", class.ID); !errors.Is(err, ErrClassNotApproved) {
		t.Fatalf("expected ErrClassNotApproved, got %v", err)
	}
}

func TestEnrollmentService_SelectUnknownClass(t *testing.T) {
	classes := &fakeClassGetter{classes: map[uuid.UUID]*model.Class{}}
	svc := NewEnrollmentService(newFakeLedger(), classes)

	if _, err := svc.Select(context.Background(), "alice@example.com", uuid.New()); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEnrollmentService_SelectDuplicate(t *testing.T) {
	class := approvedClass(4500)
	classes := &fakeClassGetter{classes: map[uuid.UUID]*model.Class{class.ID: class}}
	svc := NewEnrollmentService(newFakeLedger(), classes)
	ctx := context.Background()

	if _, err := svc.Select(ctx, "alice@example.com", class.ID); err != nil {
		t.Fatalf("first select: %v", err)
	}
	if _, err := svc.Select(ctx, "alice@example.com", class.ID); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestEnrollmentService_WithdrawPending(t *testing.T) {
	class := approvedClass(4500)
	classes := &fakeClassGetter{classes: map[uuid.UUID]*model.Class{class.ID: class}}
	ledger := newFakeLedger()
	svc := NewEnrollmentService(ledger, classes)
	ctx := context.Background()

	e, err := svc.Select(ctx, "alice@example.com", class.ID)
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	if err := svc.Withdraw(ctx, "alice@example.com", e.ID); err != nil {
		t.Fatalf("withdraw: unexpected error: %v", err)
	}
	if _, err := ledger.GetByID(ctx, e.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected enrollment gone, got %v", err)
	}
}

func TestEnrollmentService_WithdrawNotOwner(t *testing.T) {
	class := approvedClass(4500)
	classes := &fakeClassGetter{classes: map[uuid.UUID]*model.Class{class.ID: class}}
	ledger := newFakeLedger()
	svc := NewEnrollmentService(ledger, classes)
	ctx := context.Background()

	e, err := svc.Select(ctx, "alice@example.com", class.ID)
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	if err := svc.Withdraw(ctx, "mallory@example.com", e.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, err := ledger.GetByID(ctx, e.ID); err != nil {
		t.Fatalf("enrollment must survive a foreign withdraw, got %v", err)
	}
}

func TestEnrollmentService_WithdrawPaidFails(t *testing.T) {
	class := approvedClass(4500)
	classes := &fakeClassGetter{classes: map[uuid.UUID]*model.Class{class.ID: class}}
	ledger := newFakeLedger()
	ledger.seats[class.ID] = 5
	svc := NewEnrollmentService(ledger, classes)
	ctx := context.Background()

	e, err := svc.Select(ctx, "alice@example.com", class.ID)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, err := ledger.Settle(ctx, e.ID, "pi_test"); err != nil {
		t.Fatalf("settle: %v", err)
	}

	if err := svc.Withdraw(ctx, "alice@example.com", e.ID); !errors.Is(err, repository.ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid, got %v", err)
	}
}

func TestEnrollmentService_ListFilters(t *testing.T) {
	classA := approvedClass(4500)
	classB := approvedClass(3000)
	classes := &fakeClassGetter{classes: map[uuid.UUID]*model.Class{
		classA.ID: classA,
		classB.ID: classB,
	}}
	ledger := newFakeLedger()
	ledger.seats[classA.ID] = 1
	svc := NewEnrollmentService(ledger, classes)
	ctx := context.Background()

	paid, err := svc.Select(ctx, "alice@example.com", classA.ID)
	if err != nil {
		t.Fatalf("select A: %v", err)
	}
	if _, err := svc.Select(ctx, "alice@example.com", classB.ID); err != nil {
		t.Fatalf("select B: %v", err)
	}
	if _, err := ledger.Settle(ctx, paid.ID, "pi_test"); err != nil {
		t.Fatalf("settle: %v", err)
	}

	all, err := svc.ListByStudent(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 selections, got %d", len(all))
	}

	enrolled, err := svc.ListPaidByStudent(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("list paid: %v", err)
	}
	if len(enrolled) != 1 {
		t.Fatalf("expected 1 paid enrollment, got %d", len(enrolled))
	}
	if enrolled[0].ID != paid.ID {
		t.Fatalf("expected paid enrollment %s, got %s", paid.ID, enrolled[0].ID)
	}
}
