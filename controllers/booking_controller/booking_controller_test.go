package booking_controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renthub/renthub/middlewares/auth"
	"github.com/renthub/renthub/models/shared_models"
	"github.com/renthub/renthub/models/user_models"
	"github.com/renthub/renthub/models/vehicle_models"
	"github.com/renthub/renthub/repository"
	"github.com/renthub/renthub/repository/jsonfile"
	"github.com/renthub/renthub/services/booking_lifecycle"
	"github.com/renthub/renthub/services/receipt_service"
)

type nullNotifier struct{}

func (nullNotifier) Deliver(ctx context.Context, intent booking_lifecycle.Intent) {}

func newTestRouter(t *testing.T) (*gin.Engine, *repository.Store, *booking_lifecycle.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := jsonfile.NewStore(t.TempDir())
	require.NoError(t, err)

	lifecycle := booking_lifecycle.NewService(store, nullNotifier{})
	controller, err := NewBookingController(lifecycle, receipt_service.NewService(store))
	require.NoError(t, err)

	r := gin.New()
	api := r.Group("/api/bookings")
	api.Use(auth.AuthMiddleware(store))
	{
		api.POST("/", controller.CreateBooking)
		api.GET("/", controller.ListMyBookings)
		api.GET("/:booking_id", controller.GetBooking)
		api.POST("/:booking_id/cancel", controller.CancelBooking)
		api.POST("/:booking_id/refund-details", controller.SubmitRefundDetails)
		api.GET("/:booking_id/receipt", controller.DownloadReceipt)
	}
	return r, store, lifecycle
}

func seedAccount(t *testing.T, store *repository.Store, email string) (*user_models.User, string) {
	t.Helper()
	user, err := store.Users.Create(context.Background(), &user_models.User{
		FullName:    "Asha Verma",
		Email:       email,
		PhoneNumber: "9876543210",
	})
	require.NoError(t, err)

	token, err := shared_models.GenerateToken(user.ID, user.Email, false, "")
	require.NoError(t, err)
	return user, token
}

func seedVehicle(t *testing.T, store *repository.Store) *vehicle_models.Vehicle {
	t.Helper()
	vehicle, err := store.Vehicles.Create(context.Background(), &vehicle_models.Vehicle{
		Name:        "Pulsar 150",
		Type:        vehicle_models.TypeBike,
		Price:       50,
		IsAvailable: true,
	})
	require.NoError(t, err)
	return vehicle
}

func doJSON(r *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
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

func bookingPayload(vehicleID int64) map[string]interface{} {
	return map[string]interface{}{
		"vehicleId":     vehicleID,
		"vehicleType":   "bike",
		"startDate":     "2025-03-01",
		"startTime":     "10:00",
		"duration":      2,
		"transactionId": "txn-1",
	}
}

func TestCreateBookingEndpoint(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		r, store, _ := newTestRouter(t)
		vehicle := seedVehicle(t, store)

		w := doJSON(r, "POST", "/api/bookings/", "", bookingPayload(vehicle.ID))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("creates a booking for the token holder", func(t *testing.T) {
		r, store, _ := newTestRouter(t)
		user, token := seedAccount(t, store, "asha@example.com")
		vehicle := seedVehicle(t, store)

		w := doJSON(r, "POST", "/api/bookings/", token, bookingPayload(vehicle.ID))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp struct {
			Success bool `json:"success"`
			Booking struct {
				ID     int64  `json:"id"`
				UserID int64  `json:"userId"`
				Status string `json:"status"`
			} `json:"booking"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, user.ID, resp.Booking.UserID)
		assert.Equal(t, "pending", resp.Booking.Status)
	})

	t.Run("conflicting window answers 409", func(t *testing.T) {
		r, store, _ := newTestRouter(t)
		_, token := seedAccount(t, store, "asha@example.com")
		vehicle := seedVehicle(t, store)

		w := doJSON(r, "POST", "/api/bookings/", token, bookingPayload(vehicle.ID))
		require.Equal(t, http.StatusCreated, w.Code)

		payload := bookingPayload(vehicle.ID)
		payload["startTime"] = "12:30"
		payload["duration"] = 1
		w = doJSON(r, "POST", "/api/bookings/", token, payload)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "existingBooking")
	})

	t.Run("blocked account is rejected", func(t *testing.T) {
		r, store, _ := newTestRouter(t)
		user, token := seedAccount(t, store, "asha@example.com")
		vehicle := seedVehicle(t, store)

		require.NoError(t, store.Users.SetBlocked(context.Background(), user.ID, true))

		w := doJSON(r, "POST", "/api/bookings/", token, bookingPayload(vehicle.ID))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestBookingOwnership(t *testing.T) {
	r, store, _ := newTestRouter(t)
	_, ownerToken := seedAccount(t, store, "owner@example.com")
	_, otherToken := seedAccount(t, store, "other@example.com")
	vehicle := seedVehicle(t, store)

	w := doJSON(r, "POST", "/api/bookings/", ownerToken, bookingPayload(vehicle.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Booking struct {
			ID int64 `json:"id"`
		} `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	path := fmt.Sprintf("/api/bookings/%d", resp.Booking.ID)

	w = doJSON(r, "GET", path, ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "GET", path, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, "GET", "/api/bookings/999", ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelBookingEndpoint(t *testing.T) {
	r, store, lifecycle := newTestRouter(t)
	_, token := seedAccount(t, store, "asha@example.com")
	vehicle := seedVehicle(t, store)

	w := doJSON(r, "POST", "/api/bookings/", token, bookingPayload(vehicle.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Booking struct {
			ID int64 `json:"id"`
		} `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	cancelPath := fmt.Sprintf("/api/bookings/%d/cancel", resp.Booking.ID)

	// pending bookings cannot be cancelled, only confirmed ones
	w = doJSON(r, "POST", cancelPath, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, _, err := lifecycle.Confirm(context.Background(), resp.Booking.ID)
	require.NoError(t, err)

	w = doJSON(r, "POST", cancelPath, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cancelResp struct {
		RefundAmount    float64 `json:"refundAmount"`
		RefundDeduction float64 `json:"refundDeduction"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cancelResp))
	assert.Equal(t, 100.0, cancelResp.RefundAmount)
	assert.Equal(t, 0.0, cancelResp.RefundDeduction)
}

func TestDownloadReceiptEndpoint(t *testing.T) {
	r, store, _ := newTestRouter(t)
	_, token := seedAccount(t, store, "asha@example.com")
	vehicle := seedVehicle(t, store)

	w := doJSON(r, "POST", "/api/bookings/", token, bookingPayload(vehicle.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Booking struct {
			ID int64 `json:"id"`
		} `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = doJSON(r, "GET", fmt.Sprintf("/api/bookings/%d/receipt", resp.Booking.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}
