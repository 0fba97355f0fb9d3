package entity

import "time"

type EventCategory string

const (
	CategoryFocus         EventCategory = "focus"
	CategoryEntertainment EventCategory = "entertainment"
)

// NoPrimaryActivity is stored as the clean title of the placeholder
// row written when a date has no qualifying sessions at all.
const NoPrimaryActivity = "no primary activity"

// CoreEvent is one of a day's top-ranked (app, cleaned title)
// activities. The set for a (date, category) pair is replaced
// wholesale on every extraction run.
type CoreEvent struct {
	Date          time.Time     `json:"date" db:"date"`
	AppName       string        `json:"appName" db:"app_name"`
	CleanTitle    string        `json:"cleanTitle" db:"clean_title"`
	TotalDuration int64         `json:"totalDuration" db:"total_duration"`
	EventCount    int           `json:"eventCount" db:"event_count"`
	Rank          int           `json:"rank" db:"rank"`
	Category      EventCategory `json:"category" db:"category"`
}
