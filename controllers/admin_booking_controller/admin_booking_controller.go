package admin_booking_controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/renthub/renthub/logger"
	"github.com/renthub/renthub/middlewares/auth"
	"github.com/renthub/renthub/models/shared_models"
	"github.com/renthub/renthub/repository"
	"github.com/renthub/renthub/services/booking_lifecycle"
	"github.com/renthub/renthub/utils"
)

// AdminBookingController serves the admin side of the booking lifecycle:
// confirm, reject, cancel, edit, refund completion and deletion.
type AdminBookingController struct {
	lifecycle *booking_lifecycle.Service
}

// NewAdminBookingController creates and returns a new instance of AdminBookingController
func NewAdminBookingController(lifecycle *booking_lifecycle.Service) (*AdminBookingController, error) {
	if lifecycle == nil {
		return nil, errors.New("lifecycle service cannot be nil")
	}
	return &AdminBookingController{lifecycle: lifecycle}, nil
}

// ListBookings returns all bookings, optionally filtered by status, user,
// vehicle or date via query parameters.
func (ac *AdminBookingController) ListBookings(c *gin.Context) {
	filter := repository.BookingFilter{
		Status:    c.Query("status"),
		StartDate: c.Query("date"),
	}
	if v := c.Query("userId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.UserID = id
		}
	}
	if v := c.Query("vehicleId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.VehicleID = id
		}
	}

	bookings, err := ac.lifecycle.ListBookings(c.Request.Context(), filter)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to list bookings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": bookings})
}

// GetBooking returns one booking by id.
func (ac *AdminBookingController) GetBooking(c *gin.Context) {
	bookingID, err := bookingIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid booking id"})
		return
	}

	booking, err := ac.lifecycle.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}

// ConfirmBooking moves a pending booking to confirmed and fires the
// confirmation email and voice call in the background.
func (ac *AdminBookingController) ConfirmBooking(c *gin.Context) {
	logger.InfoLogger.Info("ConfirmBooking controller hit...")

	bookingID, err := bookingIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid booking id"})
		return
	}

	booking, intents, err := ac.lifecycle.Confirm(c.Request.Context(), bookingID)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	ac.lifecycle.Dispatch(intents)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Booking confirmed successfully", "booking": booking})
}

type rejectBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RejectBooking moves a pending booking to rejected with a mandatory reason.
func (ac *AdminBookingController) RejectBooking(c *gin.Context) {
	logger.InfoLogger.Info("RejectBooking controller hit...")

	bookingID, err := bookingIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid booking id"})
		return
	}

	var req rejectBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Rejection reason is required"})
		return
	}

	booking, err := ac.lifecycle.Reject(c.Request.Context(), bookingID, req.Reason)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Booking rejected", "booking": booking})
}

// CancelBooking cancels a confirmed booking on behalf of the user.
func (ac *AdminBookingController) CancelBooking(c *gin.Context) {
	logger.InfoLogger.Info("Admin CancelBooking controller hit...")

	bookingID, err := bookingIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid booking id"})
		return
	}

	booking, err := ac.lifecycle.Cancel(c.Request.Context(), bookingID, 0, true, nil)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"message":         "Booking cancelled successfully",
		"booking":         booking,
		"refundAmount":    booking.RefundAmount,
		"refundDeduction": booking.RefundDeduction,
	})
}

type editBookingRequest struct {
	StartDate string `json:"startDate" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	Duration  int    `json:"duration" binding:"required"`
}

// EditBooking moves a booking to a new window after re-running the conflict
// check.
func (ac *AdminBookingController) EditBooking(c *gin.Context) {
	logger.InfoLogger.Info("EditBooking controller hit...")

	bookingID, err := bookingIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid booking id"})
		return
	}

	var req editBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body: " + err.Error()})
		return
	}

	booking, err := ac.lifecycle.EditBooking(c.Request.Context(), bookingID, booking_lifecycle.EditRequest{
		StartDate: req.StartDate,
		StartTime: req.StartTime,
		Duration:  req.Duration,
	})
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Booking updated", "booking": booking})
}

// MarkRefundCompleted records the refund payout and notifies the user.
func (ac *AdminBookingController) MarkRefundCompleted(c *gin.Context) {
	logger.InfoLogger.Info("MarkRefundCompleted controller hit...")

	bookingID, err := bookingIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid booking id"})
		return
	}

	adminID := auth.AdminID(c)
	if adminID == "" {
		adminID = "admin"
	}

	booking, intents, err := ac.lifecycle.MarkRefundCompleted(c.Request.Context(), bookingID, adminID)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	ac.lifecycle.Dispatch(intents)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Refund marked as completed", "booking": booking})
}

// DeleteBooking removes a booking permanently.
func (ac *AdminBookingController) DeleteBooking(c *gin.Context) {
	logger.InfoLogger.Info("DeleteBooking controller hit...")

	bookingID, err := bookingIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid booking id"})
		return
	}

	if err := ac.lifecycle.Delete(c.Request.Context(), bookingID); err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Booking deleted"})
}

// DashboardStats aggregates booking counts and money figures for the admin
// dashboard.
func (ac *AdminBookingController) DashboardStats(c *gin.Context) {
	bookings, err := ac.lifecycle.ListBookings(c.Request.Context(), repository.BookingFilter{})
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to compute dashboard stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch stats"})
		return
	}

	today := utils.NowIST()[:len("2006-01-02")]

	stats := gin.H{}
	var pending, confirmed, rejected, cancelled, refundsPending, todayBookings int
	var advanceCollected, refundsPaid float64
	for _, b := range bookings {
		if b.StartDate == today {
			todayBookings++
		}
		switch b.Status {
		case shared_models.BookingStatusPending:
			pending++
		case shared_models.BookingStatusConfirmed:
			confirmed++
		case shared_models.BookingStatusRejected:
			rejected++
		case shared_models.BookingStatusCancelled:
			cancelled++
		}
		// Rejected bookings are refunded in full; every other booking's
		// advance was collected, even if later partly refunded.
		if b.Status != shared_models.BookingStatusRejected {
			advanceCollected += b.AdvancePayment
		}
		switch b.RefundStatus {
		case shared_models.RefundStatusProcessing:
			refundsPending++
		case shared_models.RefundStatusCompleted:
			refundsPaid += b.RefundAmount
		}
	}

	stats["totalBookings"] = len(bookings)
	stats["pending"] = pending
	stats["confirmed"] = confirmed
	stats["rejected"] = rejected
	stats["cancelled"] = cancelled
	stats["todayBookings"] = todayBookings
	stats["refundsPending"] = refundsPending
	stats["advanceCollected"] = advanceCollected
	stats["refundsPaid"] = refundsPaid

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

func bookingIDParam(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("booking_id"), 10, 64)
}

// respondLifecycleError translates lifecycle errors to HTTP statuses.
func respondLifecycleError(c *gin.Context, err error) {
	var conflictErr *booking_lifecycle.ConflictError
	switch {
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{
			"success":         false,
			"message":         conflictErr.Result.Message,
			"existingBooking": conflictErr.Result.Existing,
		})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Booking not found"})
	case errors.Is(err, repository.ErrStatusChanged):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Booking was modified concurrently. Please reload and try again."})
	case errors.Is(err, booking_lifecycle.ErrOnlyPendingConfirmed),
		errors.Is(err, booking_lifecycle.ErrOnlyPendingRejected),
		errors.Is(err, booking_lifecycle.ErrOnlyConfirmedCancel),
		errors.Is(err, booking_lifecycle.ErrRejectionReasonNeeded),
		errors.Is(err, booking_lifecycle.ErrRefundDetailsRejected),
		errors.Is(err, booking_lifecycle.ErrRefundNotEligible),
		errors.Is(err, booking_lifecycle.ErrRefundAlreadyComplete),
		errors.Is(err, booking_lifecycle.ErrMissingConfirmation),
		errors.Is(err, booking_lifecycle.ErrInvalidStartDate),
		errors.Is(err, booking_lifecycle.ErrInvalidStartTime),
		errors.Is(err, booking_lifecycle.ErrInvalidDuration),
		errors.Is(err, booking_lifecycle.ErrInvalidVehicleType),
		errors.Is(err, booking_lifecycle.ErrEditTerminalBooking):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	default:
		logger.ErrorLogger.Errorf("Admin booking operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
	}
}
