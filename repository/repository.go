package repository

import (
	"context"

	"github.com/renthub/renthub/models/booking_models"
	"github.com/renthub/renthub/models/user_models"
	"github.com/renthub/renthub/models/vehicle_models"
)

// BookingFilter narrows GetBookings. Zero values mean "no constraint".
// VehicleID + StartDate together serve the conflict check.
type BookingFilter struct {
	UserID    int64
	VehicleID int64
	StartDate string
	Status    string
}

// BookingStore is the persistence contract for bookings. Both backends (the
// JSON-file store and the relational store) implement it; lifecycle logic
// never sees backend-specific field casing.
type BookingStore interface {
	// Create persists a new booking and assigns its ID.
	Create(ctx context.Context, b *booking_models.Booking) (*booking_models.Booking, error)

	// GetByID retrieves one booking, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*booking_models.Booking, error)

	// List retrieves bookings matching the filter, newest first.
	List(ctx context.Context, filter BookingFilter) ([]booking_models.Booking, error)

	// UpdateIfStatus overwrites the stored booking only when its current
	// status still equals expectedStatus, and returns ErrStatusChanged
	// otherwise. This is the compare-and-update primitive that serializes
	// concurrent lifecycle transitions on the same booking.
	UpdateIfStatus(ctx context.Context, b *booking_models.Booking, expectedStatus string) error

	// Update overwrites the stored booking unconditionally.
	Update(ctx context.Context, b *booking_models.Booking) error

	// Delete removes a booking permanently.
	Delete(ctx context.Context, id int64) error

	// CountActiveForUser counts pending/confirmed bookings owned by a user.
	CountActiveForUser(ctx context.Context, userID int64) (int, error)

	// CountActiveForVehicle counts pending/confirmed bookings of a vehicle.
	CountActiveForVehicle(ctx context.Context, vehicleType string, vehicleID int64) (int, error)
}

// VehicleStore is the persistence contract for the three vehicle collections.
type VehicleStore interface {
	Create(ctx context.Context, v *vehicle_models.Vehicle) (*vehicle_models.Vehicle, error)
	GetByID(ctx context.Context, vehicleType string, id int64) (*vehicle_models.Vehicle, error)
	ListByType(ctx context.Context, vehicleType string) ([]vehicle_models.Vehicle, error)
	ListAll(ctx context.Context) ([]vehicle_models.Vehicle, error)
	Update(ctx context.Context, v *vehicle_models.Vehicle) error
	SetAvailability(ctx context.Context, vehicleType string, id int64, available bool) error
	Delete(ctx context.Context, vehicleType string, id int64) error
}

// UserStore is the persistence contract for accounts.
type UserStore interface {
	Create(ctx context.Context, u *user_models.User) (*user_models.User, error)
	GetByID(ctx context.Context, id int64) (*user_models.User, error)
	GetByEmail(ctx context.Context, email string) (*user_models.User, error)
	List(ctx context.Context) ([]user_models.User, error)
	Update(ctx context.Context, u *user_models.User) error
	SetBlocked(ctx context.Context, id int64, blocked bool) error
	Delete(ctx context.Context, id int64) error
}

// Store bundles the three stores of one backend.
type Store struct {
	Bookings BookingStore
	Vehicles VehicleStore
	Users    UserStore
}
