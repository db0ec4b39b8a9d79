package model

import (
	"time"

	"github.com/google/uuid"
)

// Role governs which operations an identity may perform.
type Role string

const (
	RoleStudent    Role = "Student"
	RoleInstructor Role = "Instructor"
	RoleAdmin      Role = "Admin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered identity. Email is the stable identifier used
// for authorization decisions; the role is only ever changed by an Admin.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest is the payload for creating a new account.
// New accounts always start as Student; elevation is a separate Admin action.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the payload for credential verification.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginResponse is returned after successful authentication.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SetRoleRequest is the payload for an Admin changing a user's role.
type SetRoleRequest struct {
	Role Role `json:"role" binding:"required,oneof=Student Instructor Admin"`
}
