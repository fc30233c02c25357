package internal

import (
	"time"
)

// DateLayout is the day format used by the open-data API and cache tags.
const DateLayout = "2006-01-02"

// Iso8601FromTime formats t in UTC RFC3339.
func Iso8601FromTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// Day formats t as YYYY-MM-DD in its own location.
func Day(t time.Time) string {
	return t.Format(DateLayout)
}

// DateWindow returns the first and last day of a window of days starting at from.
func DateWindow(from time.Time, days int) (string, string) {
	if days < 0 {
		days = 0
	}
	return Day(from), Day(from.AddDate(0, 0, days))
}
