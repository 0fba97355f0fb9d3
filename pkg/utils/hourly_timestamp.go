package utils

import "fmt"

// FormatHourTimestamp renders an hour of day (0-23) as a 12-hour
// clock label for the daily summary's peak-hour note.
func FormatHourTimestamp(hour int) string {
	switch {
	case hour == 0:
		return "12:00 AM"
	case hour < 12:
		return fmt.Sprintf("%d:00 AM", hour)
	case hour == 12:
		return "12:00 PM"
	default:
		return fmt.Sprintf("%d:00 PM", hour-12)
	}
}
