package entity

import "time"

// StatusSegment is a closed, contiguous span of one status value.
// Segments shorter than the debounce threshold are never committed.
type StatusSegment struct {
	Status     Status    `json:"status"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Duration   int64     `json:"durationSeconds"`
	Summary    string    `json:"summary,omitempty"`
	RawPayload string    `json:"rawPayload,omitempty"`
}
