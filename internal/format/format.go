package format

import (
	"fmt"
	"strconv"
	"time"
)

// Timestamp renders an epoch-millisecond value as an absolute local
// timestamp, e.g. "2025/03/01 10:30:00".
func Timestamp(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006/01/02 15:04:05")
}

// Expiry renders an optional expiry timestamp. A nil expiry means the
// asset never expires.
func Expiry(ms *int64) string {
	if ms == nil {
		return "never expires"
	}
	return Timestamp(*ms)
}

// TimeRange renders a start/end pair. Ranges within one calendar day
// collapse to "HH:MM–HH:MM"; ranges crossing midnight spell out the
// month and day on both ends.
func TimeRange(startMS, endMS int64) string {
	start := time.UnixMilli(startMS).Local()
	end := time.UnixMilli(endMS).Local()

	sameDay := start.Year() == end.Year() &&
		start.Month() == end.Month() &&
		start.Day() == end.Day()

	if sameDay {
		return start.Format("15:04") + "–" + end.Format("15:04")
	}
	return fmt.Sprintf("%d/%d %s – %d/%d %s",
		int(start.Month()), start.Day(), start.Format("15:04"),
		int(end.Month()), end.Day(), end.Format("15:04"))
}

// Money renders a currency amount without trailing zeros.
func Money(v float64) string {
	return "¥" + strconv.FormatFloat(v, 'f', -1, 64)
}

// WholeDays converts a millisecond duration to whole days, truncating.
func WholeDays(ms int64) int {
	return int(ms / int64(24*time.Hour/time.Millisecond))
}
