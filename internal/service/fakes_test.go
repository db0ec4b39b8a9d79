package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lotusroom/enroll-backend/internal/model"
	"github.com/lotusroom/enroll-backend/internal/repository"
)

// fakeUserStore keeps users in memory, keyed by email.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (f *fakeUserStore) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.Email]; ok {
		return repository.ErrDuplicate
	}
	cp := *u
	cp.CreatedAt = time.Now()
	f.users[u.Email] = &cp
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) List(_ context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserStore) ListByRole(_ context.Context, role model.Role) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserStore) SetRole(_ context.Context, id uuid.UUID, role model.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			u.Role = role
			return nil
		}
	}
	return repository.ErrNotFound
}

// fakeClassGetter serves class records from a fixed map.
type fakeClassGetter struct {
	classes map[uuid.UUID]*model.Class
}

func (f *fakeClassGetter) GetByID(_ context.Context, id uuid.UUID) (*model.Class, error) {
	c, ok := f.classes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// fakeLedger backs both the enrollment store and the settlement store.
// Settle mirrors the real repository's contract: state flip, seat
// decrement and receipt insert succeed or fail as a unit, guarded by
// one mutex the way the database guards them with one transaction.
type fakeLedger struct {
	mu          sync.Mutex
	enrollments map[uuid.UUID]*model.Enrollment
	seats       map[uuid.UUID]int
	receipts    map[uuid.UUID]*model.PaymentReceipt
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		enrollments: make(map[uuid.UUID]*model.Enrollment),
		seats:       make(map[uuid.UUID]int),
		receipts:    make(map[uuid.UUID]*model.PaymentReceipt),
	}
}

func (f *fakeLedger) Create(_ context.Context, e *model.Enrollment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.enrollments {
		if existing.StudentEmail == e.StudentEmail && existing.ClassID == e.ClassID {
			return repository.ErrDuplicate
		}
	}
	cp := *e
	cp.CreatedAt = time.Now()
	f.enrollments[e.ID] = &cp
	return nil
}

func (f *fakeLedger) GetByID(_ context.Context, id uuid.UUID) (*model.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.enrollments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeLedger) DeletePending(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.enrollments[id]
	if !ok {
		return repository.ErrNotFound
	}
	if e.PaymentState != model.PaymentStatePending {
		return repository.ErrAlreadyPaid
	}
	delete(f.enrollments, id)
	return nil
}

func (f *fakeLedger) ListByStudent(_ context.Context, studentEmail string, state *model.PaymentState) ([]model.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Enrollment
	for _, e := range f.enrollments {
		if e.StudentEmail != studentEmail {
			continue
		}
		if state != nil && e.PaymentState != *state {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeLedger) Settle(_ context.Context, enrollmentID uuid.UUID, providerRef string) (*repository.SettleResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.enrollments[enrollmentID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if e.PaymentState != model.PaymentStatePending {
		return nil, repository.ErrAlreadyPaid
	}
	if f.seats[e.ClassID] <= 0 {
		return nil, repository.ErrSeatUnavailable
	}

	e.PaymentState = model.PaymentStatePaid
	f.seats[e.ClassID]--

	receipt := &model.PaymentReceipt{
		ID:           uuid.New(),
		EnrollmentID: enrollmentID,
		StudentEmail: e.StudentEmail,
		ClassID:      e.ClassID,
		AmountCents:  e.PriceCents,
		ProviderRef:  providerRef,
		CreatedAt:    time.Now(),
	}
	f.receipts[enrollmentID] = receipt

	cp := *receipt
	return &repository.SettleResult{
		Receipt:        cp,
		ClassID:        e.ClassID,
		RemainingSeats: f.seats[e.ClassID],
	}, nil
}

// fakeSettlementStore adapts fakeLedger to the settlement store interface;
// the enrollment and settlement sides of the ledger share one mutex.
type fakeSettlementStore struct {
	ledger *fakeLedger
}

func (f *fakeSettlementStore) Settle(ctx context.Context, enrollmentID uuid.UUID, providerRef string) (*repository.SettleResult, error) {
	return f.ledger.Settle(ctx, enrollmentID, providerRef)
}

func (f *fakeSettlementStore) ListByStudent(_ context.Context, studentEmail string) ([]model.PaymentReceipt, error) {
	f.ledger.mu.Lock()
	defer f.ledger.mu.Unlock()
	var out []model.PaymentReceipt
	for _, r := range f.ledger.receipts {
		if r.StudentEmail == studentEmail {
			out = append(out, *r)
		}
	}
	return out, nil
}

// fakeProvider returns a canned client secret or a fixed error.
type fakeProvider struct {
	secret string
	err    error
	calls  int
}

func (f *fakeProvider) CreateIntent(_ context.Context, _ int64) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.secret, nil
}
