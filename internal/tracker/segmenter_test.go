package tracker

import (
	"testing"
	"time"

	"github.com/flowstate/flowstate-backend/internal/entity"
)

var segBase = time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

func obsAt(status entity.Status, offset time.Duration, summary string) entity.Observation {
	return entity.Observation{
		Timestamp:   segBase.Add(offset),
		WindowTitle: "main.go - editor",
		ProcessName: "code.exe",
		Status:      status,
		Summary:     summary,
	}
}

func TestSegmenterDropsJitterSpans(t *testing.T) {
	s := NewSegmenter()

	if seg := s.Observe(obsAt(entity.StatusFocus, 0, "")); seg != nil {
		t.Fatalf("first observation closed a segment: %+v", seg)
	}

	// 2s of entertainment is classifier jitter, at the threshold.
	if seg := s.Observe(obsAt(entity.StatusEntertainment, 0, "")); seg != nil {
		t.Fatalf("zero-length focus span should be dropped, got %+v", seg)
	}
	if seg := s.Observe(obsAt(entity.StatusFocus, 2*time.Second, "")); seg != nil {
		t.Fatalf("2s span is at the debounce threshold and should be dropped, got %+v", seg)
	}

	seg := s.Observe(obsAt(entity.StatusEntertainment, 12*time.Second, ""))
	if seg == nil {
		t.Fatal("10s focus span should have been committed")
	}
	if seg.Status != entity.StatusFocus {
		t.Errorf("status = %s, want focus", seg.Status)
	}
	if seg.Duration != 10 {
		t.Errorf("duration = %d, want 10", seg.Duration)
	}
	if !seg.StartTime.Equal(segBase.Add(2 * time.Second)) {
		t.Errorf("start = %v, want %v", seg.StartTime, segBase.Add(2*time.Second))
	}
}

func TestSegmenterSameStatusExtends(t *testing.T) {
	s := NewSegmenter()

	s.Observe(obsAt(entity.StatusFocus, 0, "writing code"))
	for i := 1; i <= 5; i++ {
		if seg := s.Observe(obsAt(entity.StatusFocus, time.Duration(i)*time.Minute, "writing code")); seg != nil {
			t.Fatalf("same status and summary must not close a segment, got %+v", seg)
		}
	}

	seg := s.Observe(obsAt(entity.StatusEntertainment, 10*time.Minute, ""))
	if seg == nil {
		t.Fatal("status change should close the segment")
	}
	if seg.Duration != 600 {
		t.Errorf("duration = %d, want 600", seg.Duration)
	}
}

func TestSegmenterFreshSummaryReopens(t *testing.T) {
	s := NewSegmenter()

	s.Observe(obsAt(entity.StatusFocus, 0, "reading docs"))

	seg := s.Observe(obsAt(entity.StatusFocus, time.Minute, "writing tests"))
	if seg == nil {
		t.Fatal("fresh summary on the same status should close the segment")
	}
	if seg.Duration != 60 || seg.Summary != "reading docs" {
		t.Errorf("got duration=%d summary=%q, want 60 %q", seg.Duration, seg.Summary, "reading docs")
	}

	tail := s.Flush(segBase.Add(100 * time.Second))
	if tail == nil {
		t.Fatal("flush should close the reopened segment")
	}
	if tail.Duration != 40 || tail.Summary != "writing tests" {
		t.Errorf("got duration=%d summary=%q, want 40 %q", tail.Duration, tail.Summary, "writing tests")
	}

	// No second is counted twice across the close/reopen boundary.
	if seg.Duration+tail.Duration != 100 {
		t.Errorf("total = %d, want 100", seg.Duration+tail.Duration)
	}
}

func TestSegmenterFlush(t *testing.T) {
	s := NewSegmenter()

	if seg := s.Flush(segBase); seg != nil {
		t.Fatalf("flush with nothing open returned %+v", seg)
	}

	s.Observe(obsAt(entity.StatusWork, 0, ""))
	if seg := s.Flush(segBase.Add(time.Second)); seg != nil {
		t.Fatalf("flush still applies debounce, got %+v", seg)
	}

	s.Observe(obsAt(entity.StatusWork, 0, ""))
	seg := s.Flush(segBase.Add(30 * time.Second))
	if seg == nil || seg.Duration != 30 {
		t.Fatalf("got %+v, want 30s work segment", seg)
	}

	if _, _, _, ok := s.Current(); ok {
		t.Error("flush should leave no open segment")
	}
}

func TestSegmenterInvalidStatusBecomesUnknown(t *testing.T) {
	s := NewSegmenter()

	s.Observe(entity.Observation{Timestamp: segBase, Status: "browsing"})
	seg := s.Observe(obsAt(entity.StatusFocus, 20*time.Second, ""))
	if seg == nil || seg.Status != entity.StatusUnknown {
		t.Fatalf("got %+v, want 20s unknown segment", seg)
	}
}

func TestSplitAtMidnight(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)

	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		wantParts int
	}{
		{"same day", day.Add(9 * time.Hour), day.Add(10 * time.Hour), 1},
		{"one crossing", day.Add(23*time.Hour + 59*time.Minute), day.Add(24*time.Hour + time.Minute), 2},
		{"ends at midnight", day.Add(23 * time.Hour), day.Add(24 * time.Hour), 1},
		{"two crossings", day.Add(23 * time.Hour), day.Add(49 * time.Hour), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg := entity.StatusSegment{
				Status:    entity.StatusFocus,
				StartTime: tt.start,
				EndTime:   tt.end,
				Duration:  int64(tt.end.Sub(tt.start) / time.Second),
			}

			parts := SplitAtMidnight(seg)
			if len(parts) != tt.wantParts {
				t.Fatalf("got %d parts, want %d", len(parts), tt.wantParts)
			}

			var total int64
			for i, part := range parts {
				total += part.Duration
				if part.Status != seg.Status {
					t.Errorf("part %d status = %s, want %s", i, part.Status, seg.Status)
				}
				if i > 0 && !parts[i-1].EndTime.Equal(part.StartTime) {
					t.Errorf("gap between part %d and %d", i-1, i)
				}
			}
			if total != seg.Duration {
				t.Errorf("durations sum to %d, want %d", total, seg.Duration)
			}
			if !parts[0].StartTime.Equal(seg.StartTime) || !parts[len(parts)-1].EndTime.Equal(seg.EndTime) {
				t.Error("parts do not cover the original span")
			}
		})
	}
}
