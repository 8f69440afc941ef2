package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/renthub/renthub/logger"
	"github.com/renthub/renthub/models/booking_models"
	"github.com/renthub/renthub/models/shared_models"
	"github.com/renthub/renthub/repository"
)

const bookingColumns = `
	id, user_id, vehicle_id, vehicle_type, start_date, start_time, duration,
	status, total_amount, advance_payment, remaining_amount, transaction_id,
	created_at,
	COALESCE(confirmation_timestamp, ''), COALESCE(cancelled_timestamp, ''),
	COALESCE(rejection_timestamp, ''), COALESCE(rejection_reason, ''),
	refund_amount, COALESCE(refund_status, ''), refund_deduction,
	COALESCE(refund_details::text, ''),
	COALESCE(refund_timestamp, ''), COALESCE(refund_completed_by, ''),
	COALESCE(sos_token, ''), COALESCE(sos_token_created_at, '')`

// BookingRepository is the PostgreSQL implementation of
// repository.BookingStore. Booking timestamps are stored as IST wall-clock
// text, never converted; refund payout details live in a jsonb column.
type BookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

func scanBooking(row pgx.Row) (*booking_models.Booking, error) {
	b := &booking_models.Booking{}
	var refundDetails string
	err := row.Scan(
		&b.ID, &b.UserID, &b.VehicleID, &b.VehicleType, &b.StartDate, &b.StartTime, &b.Duration,
		&b.Status, &b.TotalAmount, &b.AdvancePayment, &b.RemainingAmount, &b.TransactionID,
		&b.CreatedAt,
		&b.ConfirmationTimestamp, &b.CancelledTimestamp,
		&b.RejectionTimestamp, &b.RejectionReason,
		&b.RefundAmount, &b.RefundStatus, &b.RefundDeduction,
		&refundDetails,
		&b.RefundTimestamp, &b.RefundCompletedBy,
		&b.SOSToken, &b.SOSTokenCreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if refundDetails != "" {
		details := &booking_models.RefundDetails{}
		if err := json.Unmarshal([]byte(refundDetails), details); err == nil {
			b.RefundDetails = details
		}
	}
	return b, nil
}

func refundDetailsJSON(b *booking_models.Booking) (interface{}, error) {
	if b.RefundDetails == nil {
		return nil, nil
	}
	raw, err := json.Marshal(b.RefundDetails)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal refund details: %w", err)
	}
	return raw, nil
}

// Create persists a new booking and assigns the generated ID.
func (r *BookingRepository) Create(ctx context.Context, b *booking_models.Booking) (*booking_models.Booking, error) {
	details, err := refundDetailsJSON(b)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO bookings (
			user_id, vehicle_id, vehicle_type, start_date, start_time, duration,
			status, total_amount, advance_payment, remaining_amount, transaction_id,
			created_at, refund_amount, refund_status, refund_deduction, refund_details
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		) RETURNING id`

	err = r.db.QueryRow(ctx, query,
		b.UserID, b.VehicleID, b.VehicleType, b.StartDate, b.StartTime, b.Duration,
		b.Status, b.TotalAmount, b.AdvancePayment, b.RemainingAmount, b.TransactionID,
		b.CreatedAt, b.RefundAmount, b.RefundStatus, b.RefundDeduction, details,
	).Scan(&b.ID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert booking: %v", err)
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	return b, nil
}

// GetByID retrieves one booking.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*booking_models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %d: %w", id, err)
	}
	return b, nil
}

// List retrieves bookings matching the filter, newest first.
func (r *BookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]booking_models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
	var args []interface{}

	if filter.UserID != 0 {
		args = append(args, filter.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if filter.VehicleID != 0 {
		args = append(args, filter.VehicleID)
		query += fmt.Sprintf(" AND vehicle_id = $%d", len(args))
	}
	if filter.StartDate != "" {
		args = append(args, filter.StartDate)
		query += fmt.Sprintf(" AND start_date = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY id DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []booking_models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking row: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *BookingRepository) update(ctx context.Context, b *booking_models.Booking, expectedStatus string) error {
	details, err := refundDetailsJSON(b)
	if err != nil {
		return err
	}

	query := `
		UPDATE bookings SET
			user_id = $2, vehicle_id = $3, vehicle_type = $4, start_date = $5,
			start_time = $6, duration = $7, status = $8, total_amount = $9,
			advance_payment = $10, remaining_amount = $11, transaction_id = $12,
			confirmation_timestamp = NULLIF($13, ''), cancelled_timestamp = NULLIF($14, ''),
			rejection_timestamp = NULLIF($15, ''), rejection_reason = NULLIF($16, ''),
			refund_amount = $17, refund_status = NULLIF($18, ''), refund_deduction = $19,
			refund_details = $20, refund_timestamp = NULLIF($21, ''),
			refund_completed_by = NULLIF($22, ''),
			sos_token = NULLIF($23, ''), sos_token_created_at = NULLIF($24, '')
		WHERE id = $1`
	args := []interface{}{
		b.ID,
		b.UserID, b.VehicleID, b.VehicleType, b.StartDate,
		b.StartTime, b.Duration, b.Status, b.TotalAmount,
		b.AdvancePayment, b.RemainingAmount, b.TransactionID,
		b.ConfirmationTimestamp, b.CancelledTimestamp,
		b.RejectionTimestamp, b.RejectionReason,
		b.RefundAmount, b.RefundStatus, b.RefundDeduction,
		details, b.RefundTimestamp,
		b.RefundCompletedBy,
		b.SOSToken, b.SOSTokenCreatedAt,
	}

	if expectedStatus != "" {
		query += ` AND status = $25`
		args = append(args, expectedStatus)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to update booking %d: %v", b.ID, err)
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if expectedStatus == "" {
			return repository.ErrNotFound
		}
		// Either the row is gone or its status moved under us. Distinguish
		// so callers can report the right error.
		var current string
		err := r.db.QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1`, b.ID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return repository.ErrStatusChanged
	}
	return nil
}

// UpdateIfStatus is the conditional-write primitive: the row is rewritten
// only while its status still equals expectedStatus.
func (r *BookingRepository) UpdateIfStatus(ctx context.Context, b *booking_models.Booking, expectedStatus string) error {
	return r.update(ctx, b, expectedStatus)
}

// Update overwrites the stored booking unconditionally.
func (r *BookingRepository) Update(ctx context.Context, b *booking_models.Booking) error {
	return r.update(ctx, b, "")
}

// Delete removes a booking permanently.
func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CountActiveForUser counts pending/confirmed bookings owned by a user.
func (r *BookingRepository) CountActiveForUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE user_id = $1 AND status IN ($2, $3)`,
		userID, shared_models.BookingStatusPending, shared_models.BookingStatusConfirmed,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings for user %d: %w", userID, err)
	}
	return count, nil
}

// CountActiveForVehicle counts pending/confirmed bookings of a vehicle.
func (r *BookingRepository) CountActiveForVehicle(ctx context.Context, vehicleType string, vehicleID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE vehicle_type = $1 AND vehicle_id = $2 AND status IN ($3, $4)`,
		vehicleType, vehicleID, shared_models.BookingStatusPending, shared_models.BookingStatusConfirmed,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings for vehicle %s/%d: %w", vehicleType, vehicleID, err)
	}
	return count, nil
}
