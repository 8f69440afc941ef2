package booking_models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// BufferMinutes is the mandatory gap enforced before and after every booking
// on the same vehicle and date.
const BufferMinutes = 60

var timePattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// ValidStartTime reports whether s is a valid HH:mm 24-hour time.
func ValidStartTime(s string) bool {
	return timePattern.MatchString(s)
}

// timeToMinutes converts an HH:mm string to minutes since midnight.
func timeToMinutes(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time format: %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour*60 + minute, nil
}

// ConflictResult reports the outcome of a time-conflict check. When Conflict
// is true, Existing names the first blocking booking found.
type ConflictResult struct {
	Conflict bool     `json:"conflict"`
	Existing *Booking `json:"existingBooking,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// CheckTimeConflict decides whether a candidate window (startTime for
// duration hours on startDate) may be accepted for the given vehicle, against
// the existing bookings. A symmetric one-hour buffer is applied around the
// candidate; the buffer is not applied to existing bookings. Cancelled and
// rejected bookings never block. Bookings crossing midnight are not
// supported: durations are plain hours within one calendar date.
//
// excludeBookingID skips a booking from the comparison set, for admin
// edit-in-place of an existing booking; pass 0 when creating.
func CheckTimeConflict(existing []Booking, vehicleID int64, startDate, startTime string, duration int, excludeBookingID int64) (ConflictResult, error) {
	candStart, err := timeToMinutes(startTime)
	if err != nil {
		return ConflictResult{}, err
	}
	candEnd := candStart + duration*60

	bufStart := candStart - BufferMinutes
	bufEnd := candEnd + BufferMinutes

	for i := range existing {
		b := &existing[i]

		if b.VehicleID != vehicleID || b.StartDate != startDate {
			continue
		}
		if excludeBookingID != 0 && b.ID == excludeBookingID {
			continue
		}
		if !b.IsActive() {
			continue
		}

		exStart, err := timeToMinutes(b.StartTime)
		if err != nil {
			// malformed stored record; it cannot be compared, so skip it
			continue
		}
		exEnd := exStart + b.Duration*60

		if exStart < bufEnd && exEnd > bufStart {
			return ConflictResult{
				Conflict: true,
				Existing: b,
				Message: fmt.Sprintf("Vehicle is already booked from %s for %d hours. Please choose a different time slot with at least 1 hour gap.",
					b.StartTime, b.Duration),
			}, nil
		}
	}

	return ConflictResult{Conflict: false}, nil
}
