package utils

import (
	"time"
)

// Timestamps stored on bookings are IST wall-clock strings in this layout.
// Refund-window arithmetic parses them back with the same location, so the
// format must not change.
const ISTLayout = "2006-01-02 15:04:05"

var istLocation = loadIST()

func loadIST() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// UTC+5:30, no DST
		return time.FixedZone("IST", 5*3600+30*60)
	}
	return loc
}

// ISTLocation returns the Asia/Kolkata location.
func ISTLocation() *time.Location {
	return istLocation
}

// ISTTimestamp formats t as an IST wall-clock string ("YYYY-MM-DD HH:mm:ss").
func ISTTimestamp(t time.Time) string {
	return t.In(istLocation).Format(ISTLayout)
}

// NowIST returns the current IST timestamp string.
func NowIST() string {
	return ISTTimestamp(time.Now())
}

// ParseISTTimestamp parses an IST wall-clock string back to a time.Time.
func ParseISTTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(ISTLayout, s, istLocation)
}
