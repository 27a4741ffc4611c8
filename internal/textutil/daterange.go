package textutil

import (
	"strconv"
	"strings"
	"time"
)

// ParseDateRange recognizes a fixed set of phrases and returns the
// [start, end] ISO-8601 pair they denote relative to now. Unrecognized
// phrases return ("", "", false).
func ParseDateRange(phrase string, now time.Time) (start, end string, ok bool) {
	startOfDay := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}

	switch {
	case phrase == "today":
		return FormatISO8601(startOfDay(now)), FormatISO8601(now), true

	case phrase == "yesterday":
		y := startOfDay(now).AddDate(0, 0, -1)
		end := y.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		return FormatISO8601(y), FormatISO8601(end), true

	case phrase == "this_week":
		// ISO weekday: Monday=1 ... Sunday=7. Go's time.Weekday has
		// Sunday=0, so normalize to days-since-Monday.
		wd := int(now.Weekday())
		daysSinceMonday := (wd + 6) % 7
		monday := startOfDay(now).AddDate(0, 0, -daysSinceMonday)
		return FormatISO8601(monday), FormatISO8601(now), true

	case phrase == "this_month":
		firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return FormatISO8601(firstOfMonth), FormatISO8601(now), true

	case strings.HasPrefix(phrase, "last_") && strings.HasSuffix(phrase, "_days"):
		numStr := strings.TrimSuffix(strings.TrimPrefix(phrase, "last_"), "_days")
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return "", "", false
		}
		from := now.AddDate(0, 0, -days)
		return FormatISO8601(from), FormatISO8601(now), true

	default:
		return "", "", false
	}
}
