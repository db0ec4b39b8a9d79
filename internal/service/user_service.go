package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lotusroom/enroll-backend/internal/model"
	"github.com/lotusroom/enroll-backend/internal/repository"
)

// UserStore is the data access the role directory needs.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
	SetRole(ctx context.Context, id uuid.UUID, role model.Role) error
}

// UserService is the role directory: it maps identities to their current
// role and owns the only code path that changes one.
type UserService struct {
	users UserStore
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Register creates a new account. The role is always Student here; elevation
// is an Admin-guarded operation (SetRole), never self-service.
func (s *UserService) Register(ctx context.Context, email, name, passwordHash string) (*model.User, error) {
	u := &model.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         model.RoleStudent,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// GetByEmail retrieves a user by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.users.GetByEmail(ctx, email)
}

// RoleOf resolves an identity's current role. An absent record means "no
// privileged role" and resolves to Student — never to an error that could
// be mistaken for a grant.
func (s *UserService) RoleOf(ctx context.Context, email string) (model.Role, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.RoleStudent, nil
		}
		return "", err
	}
	return u.Role, nil
}

// SetRole changes a user's role. Callers reach this only through the
// Admin-guarded route; the handler enforces that before any mutation.
func (s *UserService) SetRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, errors.New("unknown role")
	}
	if err := s.users.SetRole(ctx, id, role); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

// List retrieves all users.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// ListInstructors retrieves the public instructor roster.
func (s *UserService) ListInstructors(ctx context.Context) ([]model.User, error) {
	return s.users.ListByRole(ctx, model.RoleInstructor)
}
