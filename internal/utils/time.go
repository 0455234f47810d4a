package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseTimestamp accepts RFC 3339, "YYYY-MM-DD HH:MM:SS" or "YYYY-MM-DD".
// Values without a zone are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range []string{layoutDateTime, layoutDate} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// FormatDate formats time to YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(layoutDate)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS" in UTC.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(layoutDateTime)
}
