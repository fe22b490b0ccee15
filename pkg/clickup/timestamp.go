package clickup

import (
	"strconv"
	"strings"
	"time"
)

// ISOLayout is the timestamp rendering shared by document metadata and
// query filters. Local time, second precision.
const ISOLayout = "2006-01-02T15:04:05"

// Timestamp is a normalized source timestamp. Invalid raw input yields
// Valid=false with both fields zeroed; normalization never fails.
type Timestamp struct {
	ISO    string
	Millis int64
	Valid  bool
}

// NormalizeTimestamp converts a ClickUp millisecond timestamp string
// into an ISO-8601 local-time rendering plus its numeric millisecond
// value. Empty, non-numeric, non-positive, or out-of-range input is a
// normal invalid result, not an error.
func NormalizeTimestamp(raw string) Timestamp {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Timestamp{}
	}

	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms <= 0 {
		return Timestamp{}
	}

	t := time.UnixMilli(ms)
	if t.Year() < 1 || t.Year() > 9999 {
		return Timestamp{}
	}

	return Timestamp{
		ISO:    t.Format(ISOLayout),
		Millis: ms,
		Valid:  true,
	}
}

// ParseISO converts an ISOLayout timestamp back to milliseconds since
// epoch in local time. Returns ok=false for input that does not match
// the layout.
func ParseISO(iso string) (int64, bool) {
	t, err := time.ParseInLocation(ISOLayout, iso, time.Local)
	if err != nil {
		return 0, false
	}
	return t.UnixMilli(), true
}
