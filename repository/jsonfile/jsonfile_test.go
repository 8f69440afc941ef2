package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renthub/renthub/models/booking_models"
	"github.com/renthub/renthub/models/shared_models"
	"github.com/renthub/renthub/models/user_models"
	"github.com/renthub/renthub/models/vehicle_models"
	"github.com/renthub/renthub/repository"
)

func newStore(t *testing.T) (*repository.Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestBookingRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create assigns sequential ids", func(t *testing.T) {
		store, _ := newStore(t)

		first, err := store.Bookings.Create(ctx, booking_models.NewBooking(1, 1, "bike", "2025-03-01", "10:00", 2, 50, "t1"))
		require.NoError(t, err)
		second, err := store.Bookings.Create(ctx, booking_models.NewBooking(1, 1, "bike", "2025-03-02", "10:00", 2, 50, "t2"))
		require.NoError(t, err)

		assert.Equal(t, int64(1), first.ID)
		assert.Equal(t, int64(2), second.ID)
	})

	t.Run("round trip preserves every field", func(t *testing.T) {
		store, _ := newStore(t)

		b := booking_models.NewBooking(4, 7, "car", "2025-03-01", "10:00", 3, 80, "txn-9")
		b.RefundDetails = &booking_models.RefundDetails{Method: "upi", UpiID: "a@upi"}
		created, err := store.Bookings.Create(ctx, b)
		require.NoError(t, err)

		got, err := store.Bookings.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("list filters and orders newest first", func(t *testing.T) {
		store, _ := newStore(t)

		for _, d := range []string{"2025-03-01", "2025-03-01", "2025-03-02"} {
			_, err := store.Bookings.Create(ctx, booking_models.NewBooking(1, 1, "bike", d, "10:00", 1, 50, "t"))
			require.NoError(t, err)
		}

		all, err := store.Bookings.List(ctx, repository.BookingFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, int64(3), all[0].ID)

		byDate, err := store.Bookings.List(ctx, repository.BookingFilter{StartDate: "2025-03-01"})
		require.NoError(t, err)
		assert.Len(t, byDate, 2)
	})

	t.Run("update if status guards the transition", func(t *testing.T) {
		store, _ := newStore(t)

		created, err := store.Bookings.Create(ctx, booking_models.NewBooking(1, 1, "bike", "2025-03-01", "10:00", 1, 50, "t"))
		require.NoError(t, err)

		created.Status = shared_models.BookingStatusConfirmed
		require.NoError(t, store.Bookings.UpdateIfStatus(ctx, created, shared_models.BookingStatusPending))

		// the stored status is now confirmed, so a stale expectation loses
		created.Status = shared_models.BookingStatusRejected
		err = store.Bookings.UpdateIfStatus(ctx, created, shared_models.BookingStatusPending)
		assert.ErrorIs(t, err, repository.ErrStatusChanged)

		stored, err := store.Bookings.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, shared_models.BookingStatusConfirmed, stored.Status)
	})

	t.Run("update of missing booking is not found", func(t *testing.T) {
		store, _ := newStore(t)
		b := booking_models.NewBooking(1, 1, "bike", "2025-03-01", "10:00", 1, 50, "t")
		b.ID = 99
		assert.ErrorIs(t, store.Bookings.Update(ctx, b), repository.ErrNotFound)
	})

	t.Run("count active ignores terminal bookings", func(t *testing.T) {
		store, _ := newStore(t)

		a, err := store.Bookings.Create(ctx, booking_models.NewBooking(5, 1, "bike", "2025-03-01", "10:00", 1, 50, "t"))
		require.NoError(t, err)
		_, err = store.Bookings.Create(ctx, booking_models.NewBooking(5, 1, "bike", "2025-03-02", "10:00", 1, 50, "t"))
		require.NoError(t, err)

		a.Status = shared_models.BookingStatusCancelled
		require.NoError(t, store.Bookings.Update(ctx, a))

		n, err := store.Bookings.CountActiveForUser(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		n, err = store.Bookings.CountActiveForVehicle(ctx, "bike", 1)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("writes land atomically on disk", func(t *testing.T) {
		store, dir := newStore(t)

		_, err := store.Bookings.Create(ctx, booking_models.NewBooking(1, 1, "bike", "2025-03-01", "10:00", 1, 50, "t"))
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(dir, "bookings.json"))
		assert.NoError(t, err)
		_, err = os.Stat(filepath.Join(dir, "bookings.json.tmp"))
		assert.True(t, os.IsNotExist(err))
	})
}

func TestVehicleRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("types live in separate files with independent ids", func(t *testing.T) {
		store, dir := newStore(t)

		bike, err := store.Vehicles.Create(ctx, &vehicle_models.Vehicle{Name: "Pulsar", Type: "bike", Price: 50})
		require.NoError(t, err)
		car, err := store.Vehicles.Create(ctx, &vehicle_models.Vehicle{Name: "Swift", Type: "car", Price: 120})
		require.NoError(t, err)

		assert.Equal(t, int64(1), bike.ID)
		assert.Equal(t, int64(1), car.ID)

		_, err = os.Stat(filepath.Join(dir, "bikes.json"))
		assert.NoError(t, err)
		_, err = os.Stat(filepath.Join(dir, "cars.json"))
		assert.NoError(t, err)

		all, err := store.Vehicles.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("set availability flips only the flag", func(t *testing.T) {
		store, _ := newStore(t)

		v, err := store.Vehicles.Create(ctx, &vehicle_models.Vehicle{Name: "Activa", Type: "scooty", Price: 30, IsAvailable: true})
		require.NoError(t, err)

		require.NoError(t, store.Vehicles.SetAvailability(ctx, "scooty", v.ID, false))

		got, err := store.Vehicles.GetByID(ctx, "scooty", v.ID)
		require.NoError(t, err)
		assert.False(t, got.IsAvailable)
		assert.Equal(t, "Activa", got.Name)
	})

	t.Run("unknown type is an error", func(t *testing.T) {
		store, _ := newStore(t)
		_, err := store.Vehicles.ListByType(ctx, "boat")
		assert.Error(t, err)
	})

	t.Run("delete removes the record", func(t *testing.T) {
		store, _ := newStore(t)
		v, err := store.Vehicles.Create(ctx, &vehicle_models.Vehicle{Name: "Pulsar", Type: "bike", Price: 50})
		require.NoError(t, err)

		require.NoError(t, store.Vehicles.Delete(ctx, "bike", v.ID))
		_, err = store.Vehicles.GetByID(ctx, "bike", v.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("password survives the json round trip", func(t *testing.T) {
		store, dir := newStore(t)

		created, err := store.Users.Create(ctx, &user_models.User{
			FullName: "Asha",
			Email:    "asha@example.com",
			Password: "hashed-secret",
		})
		require.NoError(t, err)

		got, err := store.Users.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "hashed-secret", got.Password)

		// User.Password has a json:"-" tag; the file store keeps its own field
		data, err := os.ReadFile(filepath.Join(dir, "users.json"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "hashed-secret")
	})

	t.Run("email is unique case-insensitively", func(t *testing.T) {
		store, _ := newStore(t)

		_, err := store.Users.Create(ctx, &user_models.User{Email: "asha@example.com"})
		require.NoError(t, err)

		_, err = store.Users.Create(ctx, &user_models.User{Email: "ASHA@example.com"})
		assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	})

	t.Run("get by email is case-insensitive", func(t *testing.T) {
		store, _ := newStore(t)

		created, err := store.Users.Create(ctx, &user_models.User{Email: "asha@example.com"})
		require.NoError(t, err)

		got, err := store.Users.GetByEmail(ctx, "Asha@Example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("block and delete", func(t *testing.T) {
		store, _ := newStore(t)

		created, err := store.Users.Create(ctx, &user_models.User{Email: "asha@example.com"})
		require.NoError(t, err)

		require.NoError(t, store.Users.SetBlocked(ctx, created.ID, true))
		got, err := store.Users.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, got.IsBlocked)

		require.NoError(t, store.Users.Delete(ctx, created.ID))
		_, err = store.Users.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}
