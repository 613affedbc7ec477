package shared

import "time"

// DateLayout is the wire format for date-only fields (hire dates, leave
// ranges, resignation effective dates).
const DateLayout = "2006-01-02"

// ParseDate reads a date-only value, falling back to a full RFC3339
// timestamp for clients that send one. Empty input yields the zero time so
// optional filters can stay unset.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(DateLayout, value); err == nil {
		return parsed, nil
	}
	return time.Parse(time.RFC3339, value)
}

// FormatDate renders t in the date-only wire format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
