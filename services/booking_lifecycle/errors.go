package booking_lifecycle

import (
	"errors"

	"github.com/renthub/renthub/models/booking_models"
)

// Precondition errors: a transition was attempted from a state it is not
// legal for. The booking is left untouched and the message names the
// required precondition.
var (
	ErrOnlyPendingConfirmed  = errors.New("only pending bookings can be confirmed")
	ErrOnlyPendingRejected   = errors.New("only pending bookings can be rejected")
	ErrOnlyConfirmedCancel   = errors.New("only confirmed bookings can be cancelled")
	ErrRejectionReasonNeeded = errors.New("rejection reason is required")
	ErrRefundDetailsRejected = errors.New("refund details can only be submitted for rejected bookings")
	ErrRefundNotEligible     = errors.New("only cancelled or rejected bookings can be marked as refunded")
	ErrRefundAlreadyComplete = errors.New("refund already marked as completed")
	ErrNotBookingOwner       = errors.New("booking does not belong to this user")
)

// Validation errors for incoming booking requests.
var (
	ErrInvalidStartDate     = errors.New("invalid start date; use YYYY-MM-DD")
	ErrInvalidStartTime     = errors.New("invalid start time; use HH:mm in 24-hour format")
	ErrInvalidDuration      = errors.New("duration must be at least 1 hour")
	ErrTransactionRequired  = errors.New("transaction id is required")
	ErrInvalidVehicleType   = errors.New("invalid vehicle type")
	ErrInvalidRefundDetails = errors.New("refund details must include a UPI id or bank account information")
	ErrEditTerminalBooking  = errors.New("cancelled or rejected bookings cannot be edited")
)

// ErrMissingConfirmation is an integrity error: a confirmed booking without
// a confirmation timestamp cannot be cancelled because the refund window is
// computed against it. This is a data problem, not a user error.
var ErrMissingConfirmation = errors.New("booking has no confirmation timestamp; cannot compute refund")

// ConflictError reports a booking time conflict, carrying the diagnostic
// that names the blocking booking.
type ConflictError struct {
	Result booking_models.ConflictResult
}

func (e *ConflictError) Error() string {
	return e.Result.Message
}
