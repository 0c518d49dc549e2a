package status

import "errors"

// Reservation outcome taxonomy. Handlers map these onto HTTP statuses;
// callers must not conflate ErrLockUnavailable (retryable) with
// ErrPaymentFailed (terminal for this attempt).
var (
	ErrLockUnavailable      = errors.New("lock: lock unavailable")
	ErrEventNotFound        = errors.New("event: event not found")
	ErrBookingNotFound      = errors.New("booking: booking not found")
	ErrSoldOut              = errors.New("event: sold out")
	ErrInvalidRequest       = errors.New("booking: invalid purchaser identity")
	ErrPaymentFailed        = errors.New("payment: payment failed")
	ErrForbidden            = errors.New("booking: forbidden")
	ErrConsistencyViolation = errors.New("storage: consistency violation")
)
