package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrRoleRequired      ErrCode = "ROLE_REQUIRED"
	ErrOwnershipRequired ErrCode = "OWNERSHIP_REQUIRED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Enrollment & settlement ───────────────────────────────────────
	ErrDuplicateSelection ErrCode = "DUPLICATE_SELECTION"
	ErrClassNotApproved   ErrCode = "CLASS_NOT_APPROVED"
	ErrAlreadyPaid        ErrCode = "ALREADY_PAID"
	ErrSeatUnavailable    ErrCode = "SEAT_UNAVAILABLE"
	ErrPaymentProvider    ErrCode = "PAYMENT_PROVIDER_ERROR"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is not valid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrRoleRequired:
		return "Your account role does not permit this action."
	case ErrOwnershipRequired:
		return "This resource belongs to a different account."

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "The ID format is not valid."
	case ErrInvalidPayload:
		return "The request payload is not valid."

	case ErrNotFound:
		return "The requested resource was not found."
	case ErrConflict:
		return "The resource already exists."

	case ErrDuplicateSelection:
		return "You have already selected this class."
	case ErrClassNotApproved:
		return "This class has not been approved for enrollment."
	case ErrAlreadyPaid:
		return "This selection has already been paid."
	case ErrSeatUnavailable:
		return "No seats remain in this class."
	case ErrPaymentProvider:
		return "The payment provider rejected the request."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
