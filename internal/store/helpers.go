package store

import (
	"strings"
	"time"
)

// isUniqueConstraint reports whether err is a SQLite UNIQUE constraint
// violation, the modernc.org/sqlite driver's equivalent of the teacher's
// PostgreSQL-specific check in internal/store/helpers.go.
func isUniqueConstraint(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}

func defaultNow() time.Time { return time.Now().UTC() }

const timestampLayout = time.RFC3339

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(timestampLayout, s)
}

// noonUTC converts a calendar date to a UTC instant at 12:00:00,
// encoding the day without claiming a time-of-day.
func noonUTC(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}
