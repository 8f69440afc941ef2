package booking_controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/renthub/renthub/logger"
	"github.com/renthub/renthub/middlewares/auth"
	"github.com/renthub/renthub/models/booking_models"
	"github.com/renthub/renthub/repository"
	"github.com/renthub/renthub/services/booking_lifecycle"
	"github.com/renthub/renthub/services/receipt_service"
)

// BookingController serves the user-facing booking endpoints.
type BookingController struct {
	lifecycle *booking_lifecycle.Service
	receipts  *receipt_service.Service
}

// NewBookingController creates and returns a new instance of BookingController
func NewBookingController(lifecycle *booking_lifecycle.Service, receipts *receipt_service.Service) (*BookingController, error) {
	if lifecycle == nil || receipts == nil {
		return nil, errors.New("lifecycle and receipt services cannot be nil")
	}
	return &BookingController{lifecycle: lifecycle, receipts: receipts}, nil
}

type createBookingRequest struct {
	VehicleID     int64  `json:"vehicleId" binding:"required"`
	VehicleType   string `json:"vehicleType" binding:"required"`
	StartDate     string `json:"startDate" binding:"required"`
	StartTime     string `json:"startTime" binding:"required"`
	Duration      int    `json:"duration" binding:"required"`
	TransactionID string `json:"transactionId" binding:"required"`
}

// CreateBooking books a vehicle for the authenticated user. A time conflict
// answers 409 with the blocking booking's window.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	logger.InfoLogger.Info("CreateBooking controller hit...")

	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body: " + err.Error()})
		return
	}

	booking, err := bc.lifecycle.CreateBooking(c.Request.Context(), booking_lifecycle.CreateRequest{
		UserID:        userID,
		VehicleID:     req.VehicleID,
		VehicleType:   req.VehicleType,
		StartDate:     req.StartDate,
		StartTime:     req.StartTime,
		Duration:      req.Duration,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Booking created successfully", "booking": booking})
}

// ListMyBookings returns the authenticated user's bookings, newest first.
func (bc *BookingController) ListMyBookings(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	bookings, err := bc.lifecycle.ListBookings(c.Request.Context(), repository.BookingFilter{UserID: userID})
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to list bookings for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": bookings})
}

// GetBooking returns one booking owned by the authenticated user.
func (bc *BookingController) GetBooking(c *gin.Context) {
	booking, ok := bc.ownedBooking(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}

type cancelBookingRequest struct {
	RefundDetails *booking_models.RefundDetails `json:"refundDetails"`
}

// CancelBooking cancels the user's own confirmed booking and reports the
// refund split.
func (bc *BookingController) CancelBooking(c *gin.Context) {
	logger.InfoLogger.Info("CancelBooking controller hit...")

	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	bookingID, err := bookingIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid booking id"})
		return
	}

	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body: " + err.Error()})
		return
	}

	booking, err := bc.lifecycle.Cancel(c.Request.Context(), bookingID, userID, false, req.RefundDetails)
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

// SubmitRefundDetails records the payout destination for a rejected booking.
func (bc *BookingController) SubmitRefundDetails(c *gin.Context) {
	logger.InfoLogger.Info("SubmitRefundDetails controller hit...")

	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	bookingID, err := bookingIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid booking id"})
		return
	}

	var details booking_models.RefundDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body: " + err.Error()})
		return
	}

	booking, err := bc.lifecycle.SubmitRefundDetails(c.Request.Context(), bookingID, userID, details)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Refund details submitted", "booking": booking})
}

// DownloadReceipt streams the PDF receipt for the user's own booking.
func (bc *BookingController) DownloadReceipt(c *gin.Context) {
	logger.InfoLogger.Info("DownloadReceipt controller hit...")

	booking, ok := bc.ownedBooking(c)
	if !ok {
		return
	}

	pdfBytes, filename, err := bc.receipts.GenerateReceipt(c.Request.Context(), booking.ID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to generate receipt for booking %d: %v", booking.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate receipt"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// ownedBooking resolves the :booking_id param to a booking owned by the
// authenticated user, writing the error response itself on failure.
func (bc *BookingController) ownedBooking(c *gin.Context) (*booking_models.Booking, bool) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return nil, false
	}

	bookingID, err := bookingIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid booking id"})
		return nil, false
	}

	booking, err := bc.lifecycle.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Booking not found"})
			return nil, false
		}
		logger.ErrorLogger.Errorf("Failed to fetch booking %d: %v", bookingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch booking"})
		return nil, false
	}

	if booking.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Booking does not belong to this user"})
		return nil, false
	}

	return booking, true
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
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Not found"})
	case errors.Is(err, repository.ErrStatusChanged):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Booking was modified concurrently. Please reload and try again."})
	case errors.Is(err, booking_lifecycle.ErrNotBookingOwner):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": err.Error()})
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
		errors.Is(err, booking_lifecycle.ErrTransactionRequired),
		errors.Is(err, booking_lifecycle.ErrInvalidVehicleType),
		errors.Is(err, booking_lifecycle.ErrInvalidRefundDetails),
		errors.Is(err, booking_lifecycle.ErrEditTerminalBooking):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	default:
		logger.ErrorLogger.Errorf("Booking operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
	}
}
