package textutil

import (
	"fmt"
	"time"
)

// isoLayouts are the ISO-8601 civil-time layouts accepted for stored
// timestamps, tried in order.
var isoLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseISO8601 parses a stored timestamp string. It accepts the
// second-precision civil-time format the store writes, plus a few
// common ISO-8601 variants for import compatibility.
func ParseISO8601(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO-8601 timestamp %q: %w", s, lastErr)
}

// FormatISO8601 renders t at second precision in local civil time, the
// canonical on-disk representation for every timestamp field.
func FormatISO8601(t time.Time) string {
	return t.Local().Format("2006-01-02T15:04:05")
}
