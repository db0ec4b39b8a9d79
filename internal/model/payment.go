package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentReceipt is the immutable record of a completed settlement.
// Exactly one receipt exists per enrollment; receipts are never updated
// or deleted.
type PaymentReceipt struct {
	ID           uuid.UUID `json:"id"`
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	StudentEmail string    `json:"student_email"`
	ClassID      uuid.UUID `json:"class_id"`
	AmountCents  int64     `json:"amount_cents"`
	ProviderRef  string    `json:"provider_ref"`
	CreatedAt    time.Time `json:"created_at"`
}

// CheckoutIntentRequest asks the provider to authorize the snapshotted price
// of a pending selection. The amount is resolved server-side; clients never
// supply it.
type CheckoutIntentRequest struct {
	SelectionID uuid.UUID `json:"selection_id" binding:"required"`
}

// CheckoutIntentResponse carries the provider secret the client uses to
// complete payment out-of-band.
type CheckoutIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	AmountCents  int64  `json:"amount_cents"`
}

// ConfirmPaymentRequest finalizes a settlement after the provider reports
// the payment went through.
type ConfirmPaymentRequest struct {
	SelectionID uuid.UUID `json:"selection_id" binding:"required"`
	ProviderRef string    `json:"provider_ref" binding:"required,min=1,max=255"`
}
