package waybar

import (
	"fmt"
	"time"
)

// DeltaShort formats a duration as its largest unit: "42s", "12m", "3h", "2d".
// Non-positive durations render as "0m".
func DeltaShort(d time.Duration) string {
	s := int64(d.Seconds())
	switch {
	case s <= 0:
		return "0m"
	case s < 60:
		return fmt.Sprintf("%ds", s)
	case s < 3600:
		return fmt.Sprintf("%dm", s/60)
	case s < 24*3600:
		return fmt.Sprintf("%dh", s/3600)
	default:
		return fmt.Sprintf("%dd", s/(24*3600))
	}
}

// RelativeShort formats t relative to now: "30m ago" for the past, "2h" for
// the future.
func RelativeShort(t, now time.Time) string {
	d := t.Sub(now)
	if d < 0 {
		return DeltaShort(-d) + " ago"
	}
	return DeltaShort(d)
}

// DeltaHM formats a duration as hours and minutes: "8h 32m", "45m", "3h".
func DeltaHM(d time.Duration) string {
	s := int64(d.Seconds())
	if s <= 0 {
		return "0m"
	}
	hours := s / 3600
	minutes := (s % 3600) / 60
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// RelativeLong formats t relative to now: "8h 32m ago" or "in 8h 32m".
func RelativeLong(t, now time.Time) string {
	d := t.Sub(now)
	if d < 0 {
		return DeltaHM(-d) + " ago"
	}
	return "in " + DeltaHM(d)
}
