package booking_models

import (
	"errors"
	"math"
	"time"

	"github.com/renthub/renthub/utils"
)

// FullRefundWindowHours is how long after confirmation a cancellation still
// refunds the whole advance.
const FullRefundWindowHours = 2.0

// LateRefundRate is the fraction of the advance refunded after the full
// refund window has passed.
const LateRefundRate = 0.7

// ErrNoConfirmationTimestamp flags a confirmed booking with no recorded
// confirmation time. Refund math cannot run without it; this is a data
// problem, not a user error.
var ErrNoConfirmationTimestamp = errors.New("booking has no confirmation timestamp")

// CalculateRefund computes the refund for cancelling a confirmed booking.
// Within FullRefundWindowHours of confirmation the whole advance comes back;
// after that, LateRefundRate of the advance, rounded once. The deduction is
// the exact complement so refund + deduction == advance always holds.
func CalculateRefund(confirmationTimestamp string, now time.Time, advance float64) (refund, deduction float64, err error) {
	if confirmationTimestamp == "" {
		return 0, 0, ErrNoConfirmationTimestamp
	}

	confirmedAt, err := utils.ParseISTTimestamp(confirmationTimestamp)
	if err != nil {
		return 0, 0, ErrNoConfirmationTimestamp
	}

	hoursSinceConfirmation := now.In(utils.ISTLocation()).Sub(confirmedAt).Hours()

	if hoursSinceConfirmation <= FullRefundWindowHours {
		return advance, 0, nil
	}

	refund = math.Round(advance * LateRefundRate)
	deduction = advance - refund
	return refund, deduction, nil
}
