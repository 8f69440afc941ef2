package sos_controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renthub/renthub/middlewares/auth"
	"github.com/renthub/renthub/models/booking_models"
	"github.com/renthub/renthub/models/shared_models"
	"github.com/renthub/renthub/models/user_models"
	"github.com/renthub/renthub/models/vehicle_models"
	"github.com/renthub/renthub/repository"
	"github.com/renthub/renthub/repository/jsonfile"
	"github.com/renthub/renthub/utils"
	"github.com/renthub/renthub/utils/mail"
)

type sentLink struct {
	toEmail  string
	userName string
	link     string
}

func newSOSRouter(t *testing.T) (*gin.Engine, *repository.Store, *[]sentLink, *[]mail.SOSAlert) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := jsonfile.NewStore(t.TempDir())
	require.NoError(t, err)

	controller, err := NewSOSController(store, nil)
	require.NoError(t, err)

	var links []sentLink
	var alerts []mail.SOSAlert
	controller.sendLink = func(toEmail, userName, link string) error {
		links = append(links, sentLink{toEmail, userName, link})
		return nil
	}
	controller.sendAlert = func(adminEmail string, alert mail.SOSAlert) error {
		alerts = append(alerts, alert)
		return nil
	}

	r := gin.New()
	admin := r.Group("/api/admin")
	admin.Use(auth.AuthMiddleware(store), auth.AdminMiddleware())
	{
		admin.POST("/bookings/:booking_id/sos", controller.SendSOSLink)
	}
	r.POST("/api/sos/activate", controller.ActivateSOS)

	return r, store, &links, &alerts
}

func seedAdminToken(t *testing.T, store *repository.Store) string {
	t.Helper()
	admin, err := store.Users.Create(context.Background(), &user_models.User{
		FullName: "Admin",
		Email:    "admin@example.com",
		IsAdmin:  true,
		AdminID:  "ADM-1",
	})
	require.NoError(t, err)

	token, err := shared_models.GenerateToken(admin.ID, admin.Email, true, admin.AdminID)
	require.NoError(t, err)
	return token
}

func seedConfirmedBooking(t *testing.T, store *repository.Store) *booking_models.Booking {
	t.Helper()
	ctx := context.Background()

	user, err := store.Users.Create(ctx, &user_models.User{
		FullName:    "Asha Verma",
		Email:       "asha@example.com",
		PhoneNumber: "9876543210",
	})
	require.NoError(t, err)

	vehicle, err := store.Vehicles.Create(ctx, &vehicle_models.Vehicle{
		Name: "Pulsar 150", Type: vehicle_models.TypeBike, Price: 50, IsAvailable: true,
	})
	require.NoError(t, err)

	booking, err := store.Bookings.Create(ctx,
		booking_models.NewBooking(user.ID, vehicle.ID, vehicle.Type, "2025-03-01", "10:00", 2, vehicle.Price, "txn-1"))
	require.NoError(t, err)

	booking.Status = shared_models.BookingStatusConfirmed
	booking.ConfirmationTimestamp = utils.NowIST()
	require.NoError(t, store.Bookings.Update(ctx, booking))
	return booking
}

func sosDo(r *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSendSOSLinkIsAdminOnly(t *testing.T) {
	r, store, _, _ := newSOSRouter(t)
	booking := seedConfirmedBooking(t, store)

	path := fmt.Sprintf("/api/admin/bookings/%d/sos", booking.ID)

	w := sosDo(r, "POST", path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// the booking's own user cannot issue the link either
	userToken, err := shared_models.GenerateToken(booking.UserID, "asha@example.com", false, "")
	require.NoError(t, err)
	w = sosDo(r, "POST", path, userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSendSOSLink(t *testing.T) {
	t.Run("emails the booking owner and stores the token", func(t *testing.T) {
		r, store, links, _ := newSOSRouter(t)
		adminToken := seedAdminToken(t, store)
		booking := seedConfirmedBooking(t, store)

		w := sosDo(r, "POST", fmt.Sprintf("/api/admin/bookings/%d/sos", booking.ID), adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		stored, err := store.Bookings.GetByID(context.Background(), booking.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, stored.SOSToken)
		assert.NotEmpty(t, stored.SOSTokenCreatedAt)

		require.Len(t, *links, 1)
		sent := (*links)[0]
		assert.Equal(t, "asha@example.com", sent.toEmail)
		assert.Equal(t, "Asha Verma", sent.userName)
		assert.Contains(t, sent.link, fmt.Sprintf("bookingId=%d", booking.ID))
		assert.Contains(t, sent.link, stored.SOSToken)
	})

	t.Run("refuses bookings that are not confirmed", func(t *testing.T) {
		r, store, links, _ := newSOSRouter(t)
		adminToken := seedAdminToken(t, store)
		booking := seedConfirmedBooking(t, store)

		booking.Status = shared_models.BookingStatusPending
		require.NoError(t, store.Bookings.Update(context.Background(), booking))

		w := sosDo(r, "POST", fmt.Sprintf("/api/admin/bookings/%d/sos", booking.ID), adminToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, *links)
	})

	t.Run("unknown booking answers 404", func(t *testing.T) {
		r, store, _, _ := newSOSRouter(t)
		adminToken := seedAdminToken(t, store)

		w := sosDo(r, "POST", "/api/admin/bookings/999/sos", adminToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestActivateSOS(t *testing.T) {
	t.Run("valid token alerts the admin with the rider's location", func(t *testing.T) {
		r, store, _, alerts := newSOSRouter(t)
		adminToken := seedAdminToken(t, store)
		booking := seedConfirmedBooking(t, store)
		t.Setenv("ADMIN_EMAIL", "admin@example.com")

		w := sosDo(r, "POST", fmt.Sprintf("/api/admin/bookings/%d/sos", booking.ID), adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		stored, err := store.Bookings.GetByID(context.Background(), booking.ID)
		require.NoError(t, err)

		w = sosDo(r, "POST", "/api/sos/activate", "", map[string]interface{}{
			"bookingId": booking.ID,
			"token":     stored.SOSToken,
			"latitude":  12.9716,
			"longitude": 77.5946,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		require.Len(t, *alerts, 1)
		alert := (*alerts)[0]
		assert.Equal(t, booking.ID, alert.BookingID)
		assert.Equal(t, "Asha Verma", alert.UserName)
		assert.Contains(t, alert.GoogleMapsLink, "google.com/maps?q=")
		assert.Contains(t, alert.GoogleMapsLink, "12.97")
	})

	t.Run("wrong token is rejected", func(t *testing.T) {
		r, store, _, alerts := newSOSRouter(t)
		booking := seedConfirmedBooking(t, store)

		booking.SOSToken = "real-token"
		booking.SOSTokenCreatedAt = utils.NowIST()
		require.NoError(t, store.Bookings.Update(context.Background(), booking))

		w := sosDo(r, "POST", "/api/sos/activate", "", map[string]interface{}{
			"bookingId": booking.ID,
			"token":     "guessed-token",
			"latitude":  12.0,
			"longitude": 77.0,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, *alerts)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		r, store, _, alerts := newSOSRouter(t)
		booking := seedConfirmedBooking(t, store)

		booking.SOSToken = "stale-token"
		booking.SOSTokenCreatedAt = utils.ISTTimestamp(time.Now().Add(-25 * time.Hour))
		require.NoError(t, store.Bookings.Update(context.Background(), booking))

		w := sosDo(r, "POST", "/api/sos/activate", "", map[string]interface{}{
			"bookingId": booking.ID,
			"token":     "stale-token",
			"latitude":  12.0,
			"longitude": 77.0,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "expired")
		assert.Empty(t, *alerts)
	})
}
