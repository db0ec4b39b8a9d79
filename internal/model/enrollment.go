package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentState enumerates the lifecycle of an enrollment.
// PENDING -> PAID is the only transition; PAID is terminal.
type PaymentState string

const (
	PaymentStatePending PaymentState = "PENDING"
	PaymentStatePaid    PaymentState = "PAID"
)

// Enrollment is a student's claim on a class seat. PriceCents is snapshotted
// at selection time so later catalog price changes cannot alter an in-flight
// checkout. At most one enrollment exists per (student, class).
type Enrollment struct {
	ID           uuid.UUID    `json:"id"`
	StudentEmail string       `json:"student_email"`
	ClassID      uuid.UUID    `json:"class_id"`
	ClassName    string       `json:"class_name,omitempty"`
	PriceCents   int64        `json:"price_cents"`
	PaymentState PaymentState `json:"payment_state"`
	CreatedAt    time.Time    `json:"created_at"`
}

// SelectClassRequest is the payload for a student selecting a class.
type SelectClassRequest struct {
	ClassID uuid.UUID `json:"class_id" binding:"required"`
}
