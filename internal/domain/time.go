package domain

import (
	"fmt"
	"strings"
	"time"
)

// wireLayout is the zone-less timestamp format the library service speaks.
const wireLayout = "2006-01-02T15:04:05"

// Time is a timestamp as the service serializes it: local date-time with no
// zone offset. Decoding tolerates fractional seconds, RFC 3339, and bare
// dates, since the service is not consistent across endpoints.
type Time struct {
	time.Time
}

// NewTime wraps a time.Time for the wire.
func NewTime(t time.Time) Time { return Time{Time: t} }

// Date builds a Time at midnight of the given day.
func Date(year int, month time.Month, day int) Time {
	return Time{Time: time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

// MarshalJSON writes the zone-less wire format.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(wireLayout) + `"`), nil
}

// UnmarshalJSON accepts the wire format plus the variants the service has
// been observed to emit.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{
		wireLayout,
		"2006-01-02T15:04:05.999999999",
		time.RFC3339,
		"2006-01-02",
	} {
		if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("parse timestamp %q", s)
}
