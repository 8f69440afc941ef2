package booking_lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/renthub/renthub/logger"
	"github.com/renthub/renthub/models/booking_models"
	"github.com/renthub/renthub/models/shared_models"
	"github.com/renthub/renthub/models/vehicle_models"
	"github.com/renthub/renthub/repository"
	"github.com/renthub/renthub/utils"
	"github.com/renthub/renthub/utils/mail"
)

// Service is the booking lifecycle engine. Every state transition goes
// through it: the rules live here, the controllers only translate HTTP.
// Transitions persist through the store's compare-and-update, so two admins
// racing on the same booking cannot both win.
type Service struct {
	store    *repository.Store
	notifier Notifier
}

// NewService builds the lifecycle engine on a storage backend and a notifier.
func NewService(store *repository.Store, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// CreateRequest is a new booking submission.
type CreateRequest struct {
	UserID        int64
	VehicleID     int64
	VehicleType   string
	StartDate     string
	StartTime     string
	Duration      int
	TransactionID string
}

func (r *CreateRequest) validate() error {
	if !vehicle_models.ValidType(r.VehicleType) {
		return ErrInvalidVehicleType
	}
	if _, err := time.Parse("2006-01-02", r.StartDate); err != nil {
		return ErrInvalidStartDate
	}
	if !booking_models.ValidStartTime(r.StartTime) {
		return ErrInvalidStartTime
	}
	if r.Duration < 1 {
		return ErrInvalidDuration
	}
	if r.TransactionID == "" {
		return ErrTransactionRequired
	}
	return nil
}

// CreateBooking validates the request, runs the time-conflict check against
// active bookings of the same vehicle and date, and persists a pending
// booking. A conflict comes back as *ConflictError so the caller can answer
// with the blocking booking's details.
func (s *Service) CreateBooking(ctx context.Context, req CreateRequest) (*booking_models.Booking, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	vehicle, err := s.store.Vehicles.GetByID(ctx, req.VehicleType, req.VehicleID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.Bookings.List(ctx, repository.BookingFilter{
		VehicleID: req.VehicleID,
		StartDate: req.StartDate,
	})
	if err != nil {
		return nil, err
	}
	// Vehicle IDs are only unique within a type, so drop other types before
	// the overlap comparison.
	sameVehicle := existing[:0]
	for _, b := range existing {
		if b.VehicleType == req.VehicleType {
			sameVehicle = append(sameVehicle, b)
		}
	}

	result, err := booking_models.CheckTimeConflict(sameVehicle, req.VehicleID, req.StartDate, req.StartTime, req.Duration, 0)
	if err != nil {
		return nil, err
	}
	if result.Conflict {
		logger.WarnLogger.Warnf("Booking conflict for %s %d on %s at %s: existing booking %d",
			req.VehicleType, req.VehicleID, req.StartDate, req.StartTime, result.Existing.ID)
		return nil, &ConflictError{Result: result}
	}

	booking := booking_models.NewBooking(req.UserID, req.VehicleID, req.VehicleType, req.StartDate,
		req.StartTime, req.Duration, vehicle.Price, req.TransactionID)

	created, err := s.store.Bookings.Create(ctx, booking)
	if err != nil {
		return nil, err
	}

	s.setVehicleAvailability(ctx, created.VehicleType, created.VehicleID, false)

	logger.InfoLogger.Infof("Booking %d created: user %d, %s %d, %s %s for %d hours",
		created.ID, created.UserID, created.VehicleType, created.VehicleID,
		created.StartDate, created.StartTime, created.Duration)
	return created, nil
}

// Confirm moves a pending booking to confirmed, stamps the confirmation time
// and emits the confirmation email and voice-call intents.
func (s *Service) Confirm(ctx context.Context, bookingID int64) (*booking_models.Booking, []Intent, error) {
	b, err := s.store.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if b.Status != shared_models.BookingStatusPending {
		return nil, nil, ErrOnlyPendingConfirmed
	}

	b.Status = shared_models.BookingStatusConfirmed
	b.ConfirmationTimestamp = utils.NowIST()

	if err := s.store.Bookings.UpdateIfStatus(ctx, b, shared_models.BookingStatusPending); err != nil {
		return nil, nil, err
	}

	s.setVehicleAvailability(ctx, b.VehicleType, b.VehicleID, false)

	logger.InfoLogger.Infof("Booking %d confirmed at %s", b.ID, b.ConfirmationTimestamp)
	return b, s.confirmationIntents(ctx, b), nil
}

// Reject moves a pending booking to rejected. The reason is mandatory; the
// advance becomes refundable in full, so the refund moves to processing with
// zero deduction and the vehicle is released.
func (s *Service) Reject(ctx context.Context, bookingID int64, reason string) (*booking_models.Booking, error) {
	if reason == "" {
		return nil, ErrRejectionReasonNeeded
	}

	b, err := s.store.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != shared_models.BookingStatusPending {
		return nil, ErrOnlyPendingRejected
	}

	b.Status = shared_models.BookingStatusRejected
	b.RejectionReason = reason
	b.RejectionTimestamp = utils.NowIST()
	b.RefundStatus = shared_models.RefundStatusProcessing
	b.RefundDeduction = 0

	if err := s.store.Bookings.UpdateIfStatus(ctx, b, shared_models.BookingStatusPending); err != nil {
		return nil, err
	}

	s.setVehicleAvailability(ctx, b.VehicleType, b.VehicleID, true)

	logger.InfoLogger.Infof("Booking %d rejected: %s", b.ID, reason)
	return b, nil
}

// Cancel moves a confirmed booking to cancelled and computes the refund from
// the confirmation timestamp: the full advance within the free-cancellation
// window, 70% after it. Non-admin callers may only cancel their own bookings.
func (s *Service) Cancel(ctx context.Context, bookingID, userID int64, isAdmin bool, details *booking_models.RefundDetails) (*booking_models.Booking, error) {
	b, err := s.store.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && b.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	if b.Status != shared_models.BookingStatusConfirmed {
		return nil, ErrOnlyConfirmedCancel
	}

	refund, deduction, err := booking_models.CalculateRefund(b.ConfirmationTimestamp, time.Now(), b.AdvancePayment)
	if err != nil {
		if errors.Is(err, booking_models.ErrNoConfirmationTimestamp) {
			logger.ErrorLogger.Errorf("Booking %d is confirmed but has no confirmation timestamp", b.ID)
			return nil, ErrMissingConfirmation
		}
		return nil, err
	}

	b.Status = shared_models.BookingStatusCancelled
	b.CancelledTimestamp = utils.NowIST()
	b.RefundAmount = refund
	b.RefundDeduction = deduction
	b.RefundStatus = shared_models.RefundStatusProcessing
	if details != nil {
		if err := validateRefundDetails(details); err != nil {
			return nil, err
		}
		b.RefundDetails = details
	}

	if err := s.store.Bookings.UpdateIfStatus(ctx, b, shared_models.BookingStatusConfirmed); err != nil {
		return nil, err
	}

	s.setVehicleAvailability(ctx, b.VehicleType, b.VehicleID, true)

	logger.InfoLogger.Infof("Booking %d cancelled: refund %.2f, deduction %.2f", b.ID, refund, deduction)
	return b, nil
}

// SubmitRefundDetails records the payout destination for a rejected booking.
// Rejection refunds the whole advance, so the amount is fixed here.
func (s *Service) SubmitRefundDetails(ctx context.Context, bookingID, userID int64, details booking_models.RefundDetails) (*booking_models.Booking, error) {
	if err := validateRefundDetails(&details); err != nil {
		return nil, err
	}

	b, err := s.store.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	if b.Status != shared_models.BookingStatusRejected {
		return nil, ErrRefundDetailsRejected
	}

	b.RefundDetails = &details
	b.RefundAmount = b.AdvancePayment
	b.RefundDeduction = 0
	b.RefundStatus = shared_models.RefundStatusProcessing

	if err := s.store.Bookings.UpdateIfStatus(ctx, b, shared_models.BookingStatusRejected); err != nil {
		return nil, err
	}

	logger.InfoLogger.Infof("Refund details submitted for booking %d (%s)", b.ID, details.Method)
	return b, nil
}

// MarkRefundCompleted records that an admin paid a refund out. Only cancelled
// and rejected bookings carry refunds, and completing twice is refused so the
// completion timestamp and actor are written exactly once.
func (s *Service) MarkRefundCompleted(ctx context.Context, bookingID int64, adminID string) (*booking_models.Booking, []Intent, error) {
	b, err := s.store.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if b.Status != shared_models.BookingStatusCancelled && b.Status != shared_models.BookingStatusRejected {
		return nil, nil, ErrRefundNotEligible
	}
	if b.RefundStatus == shared_models.RefundStatusCompleted {
		return nil, nil, ErrRefundAlreadyComplete
	}

	// A rejected booking whose owner never submitted payout details still
	// refunds the full advance.
	if b.RefundAmount == 0 && b.Status == shared_models.BookingStatusRejected {
		b.RefundAmount = b.AdvancePayment
	}

	b.RefundStatus = shared_models.RefundStatusCompleted
	b.RefundTimestamp = utils.NowIST()
	b.RefundCompletedBy = adminID

	if err := s.store.Bookings.UpdateIfStatus(ctx, b, b.Status); err != nil {
		return nil, nil, err
	}

	logger.InfoLogger.Infof("Refund for booking %d marked completed by %s", b.ID, adminID)
	return b, s.refundIntents(ctx, b), nil
}

// EditRequest changes the window of an existing booking in place.
type EditRequest struct {
	StartDate string
	StartTime string
	Duration  int
}

// EditBooking moves a booking to a new window after re-running the conflict
// check with the booking itself excluded. The total is repriced from the
// vehicle's current rate. Terminal bookings cannot be edited.
func (s *Service) EditBooking(ctx context.Context, bookingID int64, req EditRequest) (*booking_models.Booking, error) {
	if _, err := time.Parse("2006-01-02", req.StartDate); err != nil {
		return nil, ErrInvalidStartDate
	}
	if !booking_models.ValidStartTime(req.StartTime) {
		return nil, ErrInvalidStartTime
	}
	if req.Duration < 1 {
		return nil, ErrInvalidDuration
	}

	b, err := s.store.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsActive() {
		return nil, ErrEditTerminalBooking
	}

	existing, err := s.store.Bookings.List(ctx, repository.BookingFilter{
		VehicleID: b.VehicleID,
		StartDate: req.StartDate,
	})
	if err != nil {
		return nil, err
	}
	sameVehicle := existing[:0]
	for _, other := range existing {
		if other.VehicleType == b.VehicleType {
			sameVehicle = append(sameVehicle, other)
		}
	}

	result, err := booking_models.CheckTimeConflict(sameVehicle, b.VehicleID, req.StartDate, req.StartTime, req.Duration, b.ID)
	if err != nil {
		return nil, err
	}
	if result.Conflict {
		return nil, &ConflictError{Result: result}
	}

	b.StartDate = req.StartDate
	b.StartTime = req.StartTime
	b.Duration = req.Duration
	if vehicle, err := s.store.Vehicles.GetByID(ctx, b.VehicleType, b.VehicleID); err == nil {
		b.TotalAmount = vehicle.Price * float64(req.Duration)
		b.RemainingAmount = b.TotalAmount - b.AdvancePayment
	}

	if err := s.store.Bookings.UpdateIfStatus(ctx, b, b.Status); err != nil {
		return nil, err
	}

	logger.InfoLogger.Infof("Booking %d moved to %s %s for %d hours", b.ID, req.StartDate, req.StartTime, req.Duration)
	return b, nil
}

// Delete removes a booking permanently. Admin only; the record is gone, not
// soft-deleted.
func (s *Service) Delete(ctx context.Context, bookingID int64) error {
	b, err := s.store.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if err := s.store.Bookings.Delete(ctx, bookingID); err != nil {
		return err
	}
	if b.IsActive() {
		s.setVehicleAvailability(ctx, b.VehicleType, b.VehicleID, true)
	}
	logger.InfoLogger.Infof("Booking %d deleted", bookingID)
	return nil
}

// GetBooking retrieves one booking.
func (s *Service) GetBooking(ctx context.Context, bookingID int64) (*booking_models.Booking, error) {
	return s.store.Bookings.GetByID(ctx, bookingID)
}

// ListBookings retrieves bookings matching the filter, newest first.
func (s *Service) ListBookings(ctx context.Context, filter repository.BookingFilter) ([]booking_models.Booking, error) {
	return s.store.Bookings.List(ctx, filter)
}

func validateRefundDetails(details *booking_models.RefundDetails) error {
	switch details.Method {
	case "upi":
		if details.UpiID == "" {
			return ErrInvalidRefundDetails
		}
	case "bank":
		if details.AccountNumber == "" || details.IFSCCode == "" {
			return ErrInvalidRefundDetails
		}
	default:
		return ErrInvalidRefundDetails
	}
	return nil
}

// setVehicleAvailability flips the availability flag best-effort. The flag is
// display metadata; the conflict check is the real gate, so a failed flip is
// logged and the transition stands.
func (s *Service) setVehicleAvailability(ctx context.Context, vehicleType string, vehicleID int64, available bool) {
	if err := s.store.Vehicles.SetAvailability(ctx, vehicleType, vehicleID, available); err != nil {
		logger.ErrorLogger.Errorf("Failed to set %s %d availability to %t: %v", vehicleType, vehicleID, available, err)
	}
}

// confirmationIntents builds the email and call intents for a confirmed
// booking. Missing user data shrinks the set instead of failing the
// confirmation.
func (s *Service) confirmationIntents(ctx context.Context, b *booking_models.Booking) []Intent {
	user, err := s.store.Users.GetByID(ctx, b.UserID)
	if err != nil {
		logger.ErrorLogger.Errorf("Cannot notify for booking %d: user %d lookup failed: %v", b.ID, b.UserID, err)
		return nil
	}

	vehicleName := b.VehicleType
	if vehicle, err := s.store.Vehicles.GetByID(ctx, b.VehicleType, b.VehicleID); err == nil {
		vehicleName = vehicle.Name
	}

	details := mail.BookingDetails{
		BookingID:        b.ID,
		VehicleName:      vehicleName,
		VehicleType:      b.VehicleType,
		StartDate:        b.StartDate,
		StartTime:        b.StartTime,
		Duration:         b.Duration,
		TotalAmount:      b.TotalAmount,
		AdvancePayment:   b.AdvancePayment,
		RemainingAmount:  b.RemainingAmount,
		ConfirmationTime: b.ConfirmationTimestamp,
	}

	var intents []Intent
	if user.Email != "" {
		intents = append(intents, Intent{
			Type:      IntentConfirmationEmail,
			BookingID: b.ID,
			Email:     user.Email,
			UserName:  user.FullName,
			Details:   details,
		})
	}
	if user.PhoneNumber != "" {
		intents = append(intents, Intent{
			Type:      IntentConfirmationCall,
			BookingID: b.ID,
			UserName:  user.FullName,
			Phone:     user.PhoneNumber,
			Details:   details,
		})
	}
	return intents
}

// refundIntents builds the refund-completion email intent.
func (s *Service) refundIntents(ctx context.Context, b *booking_models.Booking) []Intent {
	user, err := s.store.Users.GetByID(ctx, b.UserID)
	if err != nil {
		logger.ErrorLogger.Errorf("Cannot notify for booking %d: user %d lookup failed: %v", b.ID, b.UserID, err)
		return nil
	}
	if user.Email == "" {
		return nil
	}
	return []Intent{{
		Type:         IntentRefundEmail,
		BookingID:    b.ID,
		Email:        user.Email,
		UserName:     user.FullName,
		RefundAmount: b.RefundAmount,
		RefundTime:   b.RefundTimestamp,
	}}
}
