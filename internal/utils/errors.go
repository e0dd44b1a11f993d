package utils

import (
	"errors"
	"net/http"
)

// Domain-level errors used by the service layer to provide
// fine-grained failure reasons.
var (
	ErrCollectionNotFound  = errors.New("collection_not_found")
	ErrPricingTierNotFound = errors.New("pricing_tier_not_found")
	ErrBookingNotFound     = errors.New("booking_not_found")
	ErrUnitNotFound        = errors.New("unit_not_found")

	// The unit's cumulative ownership would pass 10000 basis points.
	ErrCapacityExceeded = errors.New("capacity_exceeded")

	// No unit in the collection has enough remaining capacity.
	ErrCollectionSoldOut = errors.New("collection_sold_out")

	// The payment was captured and recorded but allocation failed afterwards.
	// Requires manual reconciliation; never retried automatically.
	ErrAllocationFailedAfterPayment = errors.New("allocation_failed_after_payment")

	// Idempotency gate hit: the external id was already applied.
	// Treated as success by callers.
	ErrDuplicateEvent = errors.New("duplicate_event")

	ErrInvalidBookingTransition = errors.New("invalid_booking_transition")
	ErrInvalidEmail             = errors.New("invalid_email")

	// For concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")

	ErrNoRowsUpdated = errors.New("no_rows_updated")
)

// AppError for structured error handling from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, nil, appErr.Err)
	} else {
		// Fallback for unexpected error types
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
