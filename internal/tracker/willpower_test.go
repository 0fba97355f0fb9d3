package tracker

import (
	"testing"
	"time"

	"github.com/flowstate/flowstate-backend/internal/entity"
)

type span struct {
	status   entity.Status
	duration int64
}

func feedAll(d *WillpowerDetector, spans []span) int {
	wins := 0
	for _, s := range spans {
		if d.Feed(s.status, s.duration) {
			wins++
		}
	}
	return wins
}

func TestWillpowerDetector(t *testing.T) {
	tests := []struct {
		name      string
		spans     []span
		wantWins  int
		wantState int
	}{
		{
			name: "quick recovery counts",
			spans: []span{
				{entity.StatusFocus, 320},
				{entity.StatusEntertainment, 100},
				{entity.StatusFocus, 10},
			},
			wantWins:  1,
			wantState: stateSeekingFocus,
		},
		{
			name: "sustained recovery counts and re-arms",
			spans: []span{
				{entity.StatusFocus, 320},
				{entity.StatusEntertainment, 100},
				{entity.StatusFocus, 400},
			},
			wantWins:  1,
			wantState: stateInFocus,
		},
		{
			name: "long lapse is not recoverable",
			spans: []span{
				{entity.StatusFocus, 320},
				{entity.StatusEntertainment, 400},
				{entity.StatusFocus, 10},
			},
			wantWins:  0,
			wantState: stateSeekingFocus,
		},
		{
			name: "second lapse invalidates the recovery",
			spans: []span{
				{entity.StatusFocus, 320},
				{entity.StatusEntertainment, 100},
				{entity.StatusUnknown, 50},
			},
			wantWins:  0,
			wantState: stateSeekingFocus,
		},
		{
			name: "short focus never arms",
			spans: []span{
				{entity.StatusFocus, 300},
				{entity.StatusEntertainment, 100},
				{entity.StatusFocus, 10},
			},
			wantWins:  0,
			wantState: stateSeekingFocus,
		},
		{
			name: "lapse at threshold is too long",
			spans: []span{
				{entity.StatusFocus, 320},
				{entity.StatusEntertainment, 300},
			},
			wantWins:  0,
			wantState: stateSeekingFocus,
		},
		{
			name: "idle is neutral in every state",
			spans: []span{
				{entity.StatusIdle, 900},
				{entity.StatusFocus, 320},
				{entity.StatusIdle, 900},
				{entity.StatusEntertainment, 100},
				{entity.StatusIdle, 900},
				{entity.StatusFocus, 400},
			},
			wantWins:  1,
			wantState: stateInFocus,
		},
		{
			name: "work counts as focus",
			spans: []span{
				{entity.StatusWork, 320},
				{entity.StatusEntertainment, 100},
				{entity.StatusWork, 10},
			},
			wantWins:  1,
			wantState: stateSeekingFocus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewWillpowerDetector()
			wins := feedAll(d, tt.spans)
			if wins != tt.wantWins {
				t.Errorf("wins = %d, want %d", wins, tt.wantWins)
			}
			if d.State() != tt.wantState {
				t.Errorf("state = %d, want %d", d.State(), tt.wantState)
			}
		})
	}
}

func TestWillpowerReset(t *testing.T) {
	d := NewWillpowerDetector()
	d.Feed(entity.StatusFocus, 400)
	if d.State() != stateInFocus {
		t.Fatalf("state = %d, want %d", d.State(), stateInFocus)
	}

	d.Reset()
	if d.State() != stateSeekingFocus {
		t.Errorf("state after reset = %d, want %d", d.State(), stateSeekingFocus)
	}
}

// Replay over stored session rows must count exactly what the live
// detector counted for the same ordered spans.
func TestReplayWillpowerMatchesLive(t *testing.T) {
	spans := []span{
		{entity.StatusFocus, 600},
		{entity.StatusEntertainment, 120},
		{entity.StatusFocus, 350},
		{entity.StatusIdle, 300},
		{entity.StatusEntertainment, 200},
		{entity.StatusFocus, 60},
		{entity.StatusFocus, 500},
		{entity.StatusUnknown, 90},
		{entity.StatusWork, 40},
	}

	live := NewWillpowerDetector()
	liveWins := feedAll(live, spans)

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	sessions := make([]entity.WindowSession, len(spans))
	for i, s := range spans {
		sessions[i] = entity.WindowSession{
			StartTime: start,
			EndTime:   start.Add(time.Duration(s.duration) * time.Second),
			Status:    s.status,
			Duration:  s.duration,
		}
		start = sessions[i].EndTime
	}

	if replayed := ReplayWillpower(sessions); replayed != liveWins {
		t.Errorf("replay = %d wins, live = %d", replayed, liveWins)
	}
}
