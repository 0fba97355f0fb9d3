package utils

import (
	"log"
	"time"
)

var trackerLocation = time.Local

// SetTrackerLocation installs the timezone used for all calendar-day
// logic (daily stats, midnight splits). Called once from config load.
func SetTrackerLocation(name string) {
	if name == "" || name == "Local" {
		trackerLocation = time.Local
		return
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("failed to load timezone %q, falling back to system local: %v", name, err)
		trackerLocation = time.Local
		return
	}
	trackerLocation = loc
}

func TrackerLocation() *time.Location {
	return trackerLocation
}

// DateOf truncates t to the start of its local calendar day.
func DateOf(t time.Time) time.Time {
	local := t.In(trackerLocation)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, trackerLocation)
}

// NextMidnight returns the first midnight strictly after t.
func NextMidnight(t time.Time) time.Time {
	return DateOf(t).AddDate(0, 0, 1)
}

// SameDate reports whether a and b fall on the same local calendar day.
func SameDate(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

func FormatDate(t time.Time) string {
	return t.In(trackerLocation).Format("2006-01-02")
}

func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, trackerLocation)
}
