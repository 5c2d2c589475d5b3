package ui

import (
	"fmt"
	"time"
)

// FormatDuration renders a duration as hours and minutes ("26:45" means
// 26 hours 45 minutes). Totals routinely exceed 24h so days are never
// rolled up.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Minute)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	return fmt.Sprintf("%d:%02d", h, m)
}

// FormatClock renders the time-of-day part of an instant ("09:30").
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

// FormatInstant renders a full timestamp ("2024-04-15 09:30").
func FormatInstant(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

// FormatDate renders the date part of an instant.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
