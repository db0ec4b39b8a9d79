package model

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus enumerates the review states of a submitted class.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "Pending"
	ApprovalApproved ApprovalStatus = "Approved"
	ApprovalDenied   ApprovalStatus = "Denied"
)

// Class represents an instructor-submitted class. The enrollment core only
// touches PriceCents, AvailableSeats and ApprovalStatus; the rest is catalog
// metadata.
type Class struct {
	ID              uuid.UUID      `json:"id"`
	Name            string         `json:"name"`
	InstructorEmail string         `json:"instructor_email"`
	PriceCents      int64          `json:"price_cents"`
	AvailableSeats  int            `json:"available_seats"`
	ApprovalStatus  ApprovalStatus `json:"approval_status"`
	Feedback        string         `json:"feedback,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// CreateClassRequest is the payload for an instructor submitting a new class.
// Price is in minor currency units (cents).
type CreateClassRequest struct {
	Name           string `json:"name" binding:"required,min=2,max=120"`
	PriceCents     int64  `json:"price_cents" binding:"required,gt=0"`
	AvailableSeats int    `json:"available_seats" binding:"required,gte=1"`
}

// UpdateClassRequest is the payload for an instructor editing an own class.
type UpdateClassRequest struct {
	Name           string `json:"name" binding:"required,min=2,max=120"`
	PriceCents     int64  `json:"price_cents" binding:"required,gt=0"`
	AvailableSeats int    `json:"available_seats" binding:"gte=0"`
}

// FeedbackRequest is the payload for an Admin leaving review feedback.
type FeedbackRequest struct {
	Feedback string `json:"feedback" binding:"required,min=1,max=2000"`
}

// PopularClass is a catalog listing entry ranked by confirmed enrollments.
type PopularClass struct {
	Class
	EnrolledCount int `json:"enrolled_count"`
}
