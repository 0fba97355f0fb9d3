package entity

import (
	"encoding/json"
	"strings"
	"time"
)

// Observation is one classified sample from the desktop agent. The
// classifier runs every 1-3s; most samples reuse the previous label
// until the window is re-classified.
type Observation struct {
	Timestamp   time.Time `json:"ts" binding:"required"`
	WindowTitle string    `json:"windowTitle"`
	ProcessName string    `json:"processName"`
	Status      Status    `json:"status" binding:"required"`
	Summary     string    `json:"summary,omitempty"`
	RawPayload  string    `json:"rawPayload,omitempty"`
}

type BatchObservationRequest struct {
	Observations []Observation `json:"observations" binding:"required,dive"`
}

// SegmentPayload is the window identity carried through a committed
// segment into session merging. The agent's JSON schema has drifted
// across versions, so every field has aliases and missing fields
// default to empty instead of failing the decode.
type SegmentPayload struct {
	WindowTitle string
	ProcessName string
	Summary     string
}

func (p SegmentPayload) Empty() bool {
	return p.WindowTitle == "" && p.ProcessName == ""
}

func (p SegmentPayload) Encode() string {
	b, _ := json.Marshal(map[string]string{
		"window_title": p.WindowTitle,
		"process_name": p.ProcessName,
		"summary":      p.Summary,
	})
	return string(b)
}

// DecodeSegmentPayload tolerantly parses a raw observation payload.
// Returns ok=false only when the payload is not a JSON object at all.
func DecodeSegmentPayload(raw string) (SegmentPayload, bool) {
	var p SegmentPayload
	if strings.TrimSpace(raw) == "" {
		return p, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return p, false
	}

	p.WindowTitle = firstString(fields, "window_title", "windowTitle", "title")
	p.ProcessName = firstString(fields, "process_name", "processName", "process", "app")
	p.Summary = firstString(fields, "summary", "description")
	return p, true
}

func firstString(fields map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

// StatusEvent is the per-cycle snapshot pushed to the overlay UI.
type StatusEvent struct {
	Status                  Status    `json:"status"`
	ContinuousFocusDuration int64     `json:"continuousFocusDuration"`
	CurrentActivityDuration int64     `json:"currentActivityDuration"`
	WindowDuration          int64     `json:"windowDuration"`
	Summary                 string    `json:"summary,omitempty"`
	Timestamp               time.Time `json:"timestamp"`
}
