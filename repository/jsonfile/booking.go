package jsonfile

import (
	"context"

	"github.com/renthub/renthub/models/booking_models"
	"github.com/renthub/renthub/models/shared_models"
	"github.com/renthub/renthub/repository"
)

// BookingRepository is the file-backed implementation of
// repository.BookingStore. The whole bookings array is held in one JSON file
// with camelCase fields, matching the historical data files.
type BookingRepository struct {
	s *Store
}

func (r *BookingRepository) load() ([]booking_models.Booking, error) {
	var bookings []booking_models.Booking
	if err := r.s.readAll(bookingsFile, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// Create persists a new booking, assigning the next ID.
func (r *BookingRepository) Create(ctx context.Context, b *booking_models.Booking) (*booking_models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	bookings, err := r.load()
	if err != nil {
		return nil, err
	}

	var maxID int64
	for i := range bookings {
		if bookings[i].ID > maxID {
			maxID = bookings[i].ID
		}
	}
	b.ID = maxID + 1

	bookings = append(bookings, *b)
	if err := r.s.writeAll(bookingsFile, bookings); err != nil {
		return nil, err
	}
	return b, nil
}

// GetByID retrieves one booking.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*booking_models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	bookings, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		if bookings[i].ID == id {
			b := bookings[i]
			return &b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func matches(b *booking_models.Booking, f repository.BookingFilter) bool {
	if f.UserID != 0 && b.UserID != f.UserID {
		return false
	}
	if f.VehicleID != 0 && b.VehicleID != f.VehicleID {
		return false
	}
	if f.StartDate != "" && b.StartDate != f.StartDate {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	return true
}

// List retrieves bookings matching the filter, newest first.
func (r *BookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]booking_models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	bookings, err := r.load()
	if err != nil {
		return nil, err
	}

	var out []booking_models.Booking
	for i := len(bookings) - 1; i >= 0; i-- {
		if matches(&bookings[i], filter) {
			out = append(out, bookings[i])
		}
	}
	return out, nil
}

func (r *BookingRepository) replace(b *booking_models.Booking, expectedStatus string) error {
	bookings, err := r.load()
	if err != nil {
		return err
	}

	for i := range bookings {
		if bookings[i].ID == b.ID {
			if expectedStatus != "" && bookings[i].Status != expectedStatus {
				return repository.ErrStatusChanged
			}
			bookings[i] = *b
			return r.s.writeAll(bookingsFile, bookings)
		}
	}
	return repository.ErrNotFound
}

// UpdateIfStatus rewrites the booking only while its stored status still
// equals expectedStatus. The store lock makes the read-check-write atomic.
func (r *BookingRepository) UpdateIfStatus(ctx context.Context, b *booking_models.Booking, expectedStatus string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.replace(b, expectedStatus)
}

// Update rewrites the booking unconditionally.
func (r *BookingRepository) Update(ctx context.Context, b *booking_models.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.replace(b, "")
}

// Delete removes a booking permanently.
func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	bookings, err := r.load()
	if err != nil {
		return err
	}
	for i := range bookings {
		if bookings[i].ID == id {
			bookings = append(bookings[:i], bookings[i+1:]...)
			return r.s.writeAll(bookingsFile, bookings)
		}
	}
	return repository.ErrNotFound
}

func (r *BookingRepository) countActive(match func(*booking_models.Booking) bool) (int, error) {
	bookings, err := r.load()
	if err != nil {
		return 0, err
	}
	count := 0
	for i := range bookings {
		b := &bookings[i]
		if b.Status != shared_models.BookingStatusPending && b.Status != shared_models.BookingStatusConfirmed {
			continue
		}
		if match(b) {
			count++
		}
	}
	return count, nil
}

// CountActiveForUser counts pending/confirmed bookings owned by a user.
func (r *BookingRepository) CountActiveForUser(ctx context.Context, userID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.countActive(func(b *booking_models.Booking) bool {
		return b.UserID == userID
	})
}

// CountActiveForVehicle counts pending/confirmed bookings of a vehicle.
func (r *BookingRepository) CountActiveForVehicle(ctx context.Context, vehicleType string, vehicleID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.countActive(func(b *booking_models.Booking) bool {
		return b.VehicleType == vehicleType && b.VehicleID == vehicleID
	})
}
