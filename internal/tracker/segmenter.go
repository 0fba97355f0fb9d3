package tracker

import (
	"time"

	"github.com/flowstate/flowstate-backend/internal/entity"
	"github.com/flowstate/flowstate-backend/pkg/utils"
)

// DebounceSeconds is the minimum committed segment length. Spans at or
// below it are classifier jitter and are absorbed into the next
// segment's start time instead of being counted.
const DebounceSeconds = 2

type openSegment struct {
	status  entity.Status
	start   time.Time
	summary string
	payload string
}

// Segmenter folds the observation stream into closed StatusSegments.
// It is single-writer: only the tracker loop calls Observe.
type Segmenter struct {
	current       *openSegment
	prevCommitted entity.Status
}

func NewSegmenter() *Segmenter {
	return &Segmenter{prevCommitted: entity.StatusUnknown}
}

// Observe feeds one observation into the state machine and returns the
// segment it closed, if any. A segment closes when the status label
// changes, or when a same-status observation carries a fresh summary
// (each analysis tick must persist its own summary rather than
// overwrite the previous one in memory). Closed spans at or below the
// debounce threshold are dropped; the new segment still starts at the
// observation's timestamp, never retroactively, so no time is counted
// twice.
func (s *Segmenter) Observe(obs entity.Observation) *entity.StatusSegment {
	status := obs.Status
	if !status.Valid() {
		status = entity.StatusUnknown
	}

	if s.current == nil {
		s.current = s.open(status, obs)
		return nil
	}

	statusChanged := status != s.current.status
	freshSummary := obs.Summary != "" && obs.Summary != s.current.summary
	if !statusChanged && !freshSummary {
		return nil
	}

	closed := s.close(obs.Timestamp)
	s.current = s.open(status, obs)
	return closed
}

// Flush closes the currently open segment at the given time, e.g. on
// shutdown. Debounce still applies.
func (s *Segmenter) Flush(now time.Time) *entity.StatusSegment {
	if s.current == nil {
		return nil
	}
	closed := s.close(now)
	s.current = nil
	return closed
}

// Current exposes the open segment for the UI status feed.
func (s *Segmenter) Current() (status entity.Status, start time.Time, summary string, ok bool) {
	if s.current == nil {
		return entity.StatusUnknown, time.Time{}, "", false
	}
	return s.current.status, s.current.start, s.current.summary, true
}

// PrevCommitted returns the status of the last committed segment.
func (s *Segmenter) PrevCommitted() entity.Status {
	return s.prevCommitted
}

func (s *Segmenter) open(status entity.Status, obs entity.Observation) *openSegment {
	payload := obs.RawPayload
	if payload == "" {
		payload = entity.SegmentPayload{
			WindowTitle: obs.WindowTitle,
			ProcessName: obs.ProcessName,
			Summary:     obs.Summary,
		}.Encode()
	}

	return &openSegment{
		status:  status,
		start:   obs.Timestamp,
		summary: obs.Summary,
		payload: payload,
	}
}

func (s *Segmenter) close(now time.Time) *entity.StatusSegment {
	duration := int64(now.Sub(s.current.start) / time.Second)
	if duration <= DebounceSeconds {
		return nil
	}

	seg := &entity.StatusSegment{
		Status:     s.current.status,
		StartTime:  s.current.start,
		EndTime:    now,
		Duration:   duration,
		Summary:    s.current.summary,
		RawPayload: s.current.payload,
	}
	s.prevCommitted = seg.Status
	return seg
}

// SplitAtMidnight cuts a committed segment at each local midnight it
// crosses, so every part is attributed to exactly one calendar date.
// The parts' durations always sum to the original duration.
func SplitAtMidnight(seg entity.StatusSegment) []entity.StatusSegment {
	var parts []entity.StatusSegment

	remaining := seg
	for {
		midnight := utils.NextMidnight(remaining.StartTime)
		if !midnight.Before(remaining.EndTime) {
			parts = append(parts, remaining)
			return parts
		}

		head := remaining
		head.EndTime = midnight
		head.Duration = int64(midnight.Sub(remaining.StartTime) / time.Second)

		parts = append(parts, head)

		remaining.StartTime = midnight
		remaining.Duration -= head.Duration
	}
}
