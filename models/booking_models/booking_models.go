package booking_models

import (
	"time"

	"github.com/renthub/renthub/models/shared_models"
	"github.com/renthub/renthub/utils"
)

// AdvancePayment is the fixed deposit collected at booking time. It is the
// only amount refund logic ever operates on; the remaining balance is paid at
// pickup and never refunded here.
const AdvancePayment = 100.0

// RefundDetails is the payout destination a user supplies for a refund.
type RefundDetails struct {
	Method        string `json:"method"` // "upi" or "bank"
	UpiID         string `json:"upiId,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	IFSCCode      string `json:"ifscCode,omitempty"`
	HolderName    string `json:"holderName,omitempty"`
}

// Booking is the central entity: one reservation of one vehicle for a
// contiguous block of hours on a single calendar date.
type Booking struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"userId"`
	VehicleID   int64  `json:"vehicleId"`
	VehicleType string `json:"vehicleType"` // bike | car | scooty
	StartDate   string `json:"startDate"`   // YYYY-MM-DD
	StartTime   string `json:"startTime"`   // HH:mm, 24h
	Duration    int    `json:"duration"`    // hours

	Status string `json:"status"` // pending | confirmed | rejected | cancelled

	TotalAmount     float64 `json:"totalAmount"`
	AdvancePayment  float64 `json:"advancePayment"`
	RemainingAmount float64 `json:"remainingAmount"`
	TransactionID   string  `json:"transactionId"`

	CreatedAt             string `json:"createdAt"`
	ConfirmationTimestamp string `json:"confirmationTimestamp,omitempty"`
	CancelledTimestamp    string `json:"cancelledTimestamp,omitempty"`
	RejectionTimestamp    string `json:"rejectionTimestamp,omitempty"`
	RejectionReason       string `json:"rejectionReason,omitempty"`

	RefundAmount      float64        `json:"refundAmount"`
	RefundStatus      string         `json:"refundStatus,omitempty"` // pending | processing | completed
	RefundDeduction   float64        `json:"refundDeduction"`
	RefundDetails     *RefundDetails `json:"refundDetails,omitempty"`
	RefundTimestamp   string         `json:"refundTimestamp,omitempty"`
	RefundCompletedBy string         `json:"refundCompletedBy,omitempty"`

	SOSToken          string `json:"sosToken,omitempty"`
	SOSTokenCreatedAt string `json:"sosTokenCreatedAt,omitempty"`
}

// NewBooking builds a pending booking for the given vehicle and window.
// totalAmount is price × duration; the advance is the fixed deposit.
func NewBooking(userID, vehicleID int64, vehicleType, startDate, startTime string, duration int, pricePerHour float64, transactionID string) *Booking {
	total := pricePerHour * float64(duration)
	return &Booking{
		UserID:          userID,
		VehicleID:       vehicleID,
		VehicleType:     vehicleType,
		StartDate:       startDate,
		StartTime:       startTime,
		Duration:        duration,
		Status:          shared_models.BookingStatusPending,
		TotalAmount:     total,
		AdvancePayment:  AdvancePayment,
		RemainingAmount: total - AdvancePayment,
		TransactionID:   transactionID,
		RefundStatus:    shared_models.RefundStatusPending,
		CreatedAt:       utils.ISTTimestamp(time.Now()),
	}
}

// IsActive reports whether the booking still occupies its time window.
// Cancelled and rejected bookings release the window.
func (b *Booking) IsActive() bool {
	return b.Status != shared_models.BookingStatusCancelled &&
		b.Status != shared_models.BookingStatusRejected
}
