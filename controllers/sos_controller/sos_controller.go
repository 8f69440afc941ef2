package sos_controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/renthub/renthub/clients"
	"github.com/renthub/renthub/config"
	"github.com/renthub/renthub/logger"
	"github.com/renthub/renthub/models/shared_models"
	"github.com/renthub/renthub/repository"
	"github.com/renthub/renthub/utils"
	"github.com/renthub/renthub/utils/mail"
)

// sosTokenTTL is how long an issued SOS link stays usable.
const sosTokenTTL = 24 * time.Hour

// SOSController handles the rider safety flow: an admin issues an SOS
// activation link for a confirmed booking, and using the link fires the
// admin alert.
type SOSController struct {
	store *repository.Store
	calls clients.RetellClientWrapper

	sendLink  func(toEmail, userName, sosLink string) error
	sendAlert func(adminEmail string, alert mail.SOSAlert) error
}

// NewSOSController creates and returns a new instance of SOSController
func NewSOSController(store *repository.Store, calls clients.RetellClientWrapper) (*SOSController, error) {
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}
	return &SOSController{
		store:     store,
		calls:     calls,
		sendLink:  mail.SendSOSLink,
		sendAlert: mail.SendSOSAlert,
	}, nil
}

// SendSOSLink issues an SOS activation link for a confirmed booking and
// emails it to the booking's owner. Admin-only.
func (sc *SOSController) SendSOSLink(c *gin.Context) {
	logger.InfoLogger.Info("SendSOSLink controller hit...")

	bookingID, err := strconv.ParseInt(c.Param("booking_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid booking id"})
		return
	}

	booking, err := sc.store.Bookings.GetByID(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Booking not found"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to fetch booking %d: %v", bookingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch booking"})
		return
	}

	if booking.Status != shared_models.BookingStatusConfirmed {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "SOS is only available for confirmed bookings"})
		return
	}

	user, err := sc.store.Users.GetByID(c.Request.Context(), booking.UserID)
	if err != nil || user.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No email address on the booking's account"})
		return
	}

	booking.SOSToken = uuid.New().String()
	booking.SOSTokenCreatedAt = utils.NowIST()
	if err := sc.store.Bookings.Update(c.Request.Context(), booking); err != nil {
		logger.ErrorLogger.Errorf("Failed to store SOS token for booking %d: %v", bookingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to issue SOS link"})
		return
	}

	frontendURL := config.GetEnv("FRONTEND_URL", "http://localhost:3000")
	sosLink := fmt.Sprintf("%s/sos/activate?bookingId=%d&token=%s", frontendURL, booking.ID, booking.SOSToken)

	if err := sc.sendLink(user.Email, user.FullName, sosLink); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to send SOS link email"})
		return
	}

	logger.InfoLogger.Infof("SOS link issued for booking %d", booking.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "SOS link sent to the rider's email"})
}

type activateSOSRequest struct {
	BookingID int64   `json:"bookingId" binding:"required"`
	Token     string  `json:"token" binding:"required"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ActivateSOS fires the admin alert for a valid SOS token: an email with the
// rider's location and, when configured, a phone call to the admin. The
// endpoint is unauthenticated on purpose; the token is the credential.
func (sc *SOSController) ActivateSOS(c *gin.Context) {
	logger.InfoLogger.Info("ActivateSOS controller hit...")

	var req activateSOSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body: " + err.Error()})
		return
	}

	booking, err := sc.store.Bookings.GetByID(c.Request.Context(), req.BookingID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid SOS token"})
		return
	}

	if booking.SOSToken == "" || booking.SOSToken != req.Token {
		logger.WarnLogger.Warnf("Invalid SOS token presented for booking %d", req.BookingID)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid SOS token"})
		return
	}

	issuedAt, err := utils.ParseISTTimestamp(booking.SOSTokenCreatedAt)
	if err != nil || time.Now().In(utils.ISTLocation()).Sub(issuedAt) > sosTokenTTL {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "SOS token has expired"})
		return
	}

	user, err := sc.store.Users.GetByID(c.Request.Context(), booking.UserID)
	if err != nil {
		logger.ErrorLogger.Errorf("SOS for booking %d: user %d lookup failed: %v", booking.ID, booking.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to trigger SOS"})
		return
	}

	mapsLink := fmt.Sprintf("https://www.google.com/maps?q=%f,%f", req.Latitude, req.Longitude)
	alert := mail.SOSAlert{
		UserName:        user.FullName,
		BookingID:       booking.ID,
		GoogleMapsLink:  mapsLink,
		PhoneNumber:     user.PhoneNumber,
		TriggeredAtTime: utils.NowIST(),
	}

	adminEmail := config.GetEnv("ADMIN_EMAIL", "")
	if adminEmail == "" {
		logger.ErrorLogger.Error("ADMIN_EMAIL not configured; SOS alert cannot be emailed")
	} else if err := sc.sendAlert(adminEmail, alert); err != nil {
		logger.ErrorLogger.Errorf("Failed to send SOS alert for booking %d: %v", booking.ID, err)
	}

	// Ring the admin too when a phone number is configured.
	if adminPhone := config.GetEnv("SOS_ADMIN_PHONE", ""); adminPhone != "" && sc.calls != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			result := sc.calls.MakeOutboundCall(ctx, adminPhone, map[string]interface{}{
				"alert_type":    "sos",
				"customer_name": user.FullName,
				"booking_id":    fmt.Sprintf("%d", booking.ID),
				"maps_link":     mapsLink,
			})
			if !result.Success {
				logger.ErrorLogger.Errorf("SOS call for booking %d not placed: %s", booking.ID, result.Error)
			}
		}()
	}

	logger.InfoLogger.Infof("SOS activated for booking %d at %s", booking.ID, mapsLink)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "SOS alert sent"})
}
