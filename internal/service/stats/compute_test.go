package stats

import (
	"testing"
	"time"

	"github.com/flowstate/flowstate-backend/internal/entity"
)

var statDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)

func sessionAt(status entity.Status, startOffset time.Duration, duration int64) entity.WindowSession {
	start := statDay.Add(startOffset)
	return entity.WindowSession{
		StartTime: start,
		EndTime:   start.Add(time.Duration(duration) * time.Second),
		Status:    status,
		Duration:  duration,
	}
}

func TestEfficiencyScore(t *testing.T) {
	tests := []struct {
		name         string
		focusSeconds int64
		wins         int
		want         int
	}{
		{"empty day floors at 60", 0, 0, 60},
		{"one focused hour", 3600, 0, 65},
		{"half hour rounds up", 1800, 0, 63},
		{"wins add two each", 3600, 3, 71},
		{"clamped at 100", 36000, 10, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EfficiencyScore(tt.focusSeconds, tt.wins); got != tt.want {
				t.Errorf("EfficiencyScore(%d, %d) = %d, want %d", tt.focusSeconds, tt.wins, got, tt.want)
			}
		})
	}
}

func TestFragmentationRatio(t *testing.T) {
	tests := []struct {
		name     string
		sessions []entity.WindowSession
		want     float64
	}{
		{"no sessions", nil, 0.0},
		{
			"zero-distraction day",
			[]entity.WindowSession{
				sessionAt(entity.StatusFocus, 9*time.Hour, 1200),
				sessionAt(entity.StatusWork, 10*time.Hour, 900),
			},
			10.0,
		},
		{
			"no focus at all",
			[]entity.WindowSession{
				sessionAt(entity.StatusEntertainment, 20*time.Hour, 600),
			},
			0.0,
		},
		{
			"avg focus over avg distraction",
			[]entity.WindowSession{
				sessionAt(entity.StatusFocus, 9*time.Hour, 200),
				sessionAt(entity.StatusFocus, 10*time.Hour, 400),
				sessionAt(entity.StatusEntertainment, 11*time.Hour, 100),
			},
			3.0,
		},
		{
			"idle does not count either way",
			[]entity.WindowSession{
				sessionAt(entity.StatusFocus, 9*time.Hour, 300),
				sessionAt(entity.StatusIdle, 10*time.Hour, 5000),
			},
			10.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FragmentationRatio(tt.sessions); got != tt.want {
				t.Errorf("FragmentationRatio = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMaxStreakRescan(t *testing.T) {
	tests := []struct {
		name     string
		sessions []entity.WindowSession
		want     int64
	}{
		{"empty", nil, 0},
		{
			"short gaps bridge into one streak",
			[]entity.WindowSession{
				sessionAt(entity.StatusFocus, 9*time.Hour, 600),
				// 60s gap, under the bridge threshold
				sessionAt(entity.StatusFocus, 9*time.Hour+11*time.Minute, 900),
			},
			1500,
		},
		{
			"long gap resets the run",
			[]entity.WindowSession{
				sessionAt(entity.StatusFocus, 9*time.Hour, 600),
				// 10min gap
				sessionAt(entity.StatusFocus, 9*time.Hour+20*time.Minute, 900),
			},
			900,
		},
		{
			"distraction breaks the run",
			[]entity.WindowSession{
				sessionAt(entity.StatusFocus, 9*time.Hour, 600),
				sessionAt(entity.StatusEntertainment, 9*time.Hour+10*time.Minute+30*time.Second, 60),
				sessionAt(entity.StatusFocus, 9*time.Hour+12*time.Minute, 300),
			},
			600,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxStreakRescan(tt.sessions); got != tt.want {
				t.Errorf("MaxStreakRescan = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestContextSwitchFrequency(t *testing.T) {
	tests := []struct {
		name     string
		sessions []entity.WindowSession
		want     float64
	}{
		{"single session", []entity.WindowSession{sessionAt(entity.StatusFocus, 9*time.Hour, 600)}, 0},
		{
			"span under half an hour",
			[]entity.WindowSession{
				sessionAt(entity.StatusFocus, 9*time.Hour, 300),
				sessionAt(entity.StatusEntertainment, 9*time.Hour+10*time.Minute, 300),
			},
			0,
		},
		{
			"sessions per active hour",
			[]entity.WindowSession{
				sessionAt(entity.StatusFocus, 9*time.Hour, 600),
				sessionAt(entity.StatusEntertainment, 10*time.Hour, 600),
				sessionAt(entity.StatusFocus, 10*time.Hour+30*time.Minute, 600),
				sessionAt(entity.StatusWork, 11*time.Hour, 600),
			},
			2.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContextSwitchFrequency(tt.sessions); got != tt.want {
				t.Errorf("ContextSwitchFrequency = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPeakHour(t *testing.T) {
	sessions := []entity.WindowSession{
		sessionAt(entity.StatusFocus, 14*time.Hour, 600),
		sessionAt(entity.StatusFocus, 9*time.Hour, 600),
		sessionAt(entity.StatusFocus, 9*time.Hour+20*time.Minute, 600),
		// entertainment in hour 9 must not pad its count
		sessionAt(entity.StatusEntertainment, 9*time.Hour+40*time.Minute, 600),
		sessionAt(entity.StatusFocus, 14*time.Hour+30*time.Minute, 600),
	}

	// 9 and 14 tie at two focus starts each; 14 was seen first.
	if got := PeakHour(sessions); got != 14 {
		t.Errorf("PeakHour = %d, want 14 (first-encountered tie break)", got)
	}

	if got := PeakHour(nil); got != 0 {
		t.Errorf("PeakHour(nil) = %d, want 0", got)
	}
}

func TestComputePeriodStatIsDeterministic(t *testing.T) {
	sessions := []entity.WindowSession{
		sessionAt(entity.StatusFocus, 9*time.Hour, 1200),
		sessionAt(entity.StatusEntertainment, 10*time.Hour, 200),
		sessionAt(entity.StatusFocus, 10*time.Hour+10*time.Minute, 900),
		sessionAt(entity.StatusFocus, 11*time.Hour, 400),
	}

	first := ComputePeriodStat(statDay, sessions, nil)
	second := ComputePeriodStat(statDay, sessions, nil)
	if first != second {
		t.Errorf("recomputation diverged:\n%+v\n%+v", first, second)
	}

	if first.TotalFocus != 2500 {
		t.Errorf("TotalFocus = %d, want 2500", first.TotalFocus)
	}
	if first.EfficiencyScore < 0 || first.EfficiencyScore > 100 {
		t.Errorf("EfficiencyScore = %d, out of [0,100]", first.EfficiencyScore)
	}
	if first.AIInsight == "" {
		t.Error("AIInsight must never be empty")
	}
}

func TestComputePeriodStatPrefersIncrementalStreak(t *testing.T) {
	sessions := []entity.WindowSession{
		sessionAt(entity.StatusFocus, 9*time.Hour, 600),
	}
	daily := &entity.DailyStat{MaxFocusStreak: 2400}

	stat := ComputePeriodStat(statDay, sessions, daily)
	if stat.MaxStreak != 2400 {
		t.Errorf("MaxStreak = %d, want the incremental 2400", stat.MaxStreak)
	}

	// A zeroed incremental value falls back to the rescan.
	stat = ComputePeriodStat(statDay, sessions, &entity.DailyStat{})
	if stat.MaxStreak != 600 {
		t.Errorf("MaxStreak = %d, want the rescanned 600", stat.MaxStreak)
	}
}

func TestComputePeriodStatEmptyDay(t *testing.T) {
	stat := ComputePeriodStat(statDay, nil, nil)

	if stat.TotalFocus != 0 || stat.WillpowerWins != 0 || stat.MaxStreak != 0 {
		t.Errorf("empty day produced activity: %+v", stat)
	}
	if stat.EfficiencyScore != 60 {
		t.Errorf("EfficiencyScore = %d, want the 60 baseline", stat.EfficiencyScore)
	}
	if stat.DailySummary != "no activity recorded" {
		t.Errorf("DailySummary = %q", stat.DailySummary)
	}
}

func TestDeriveDailyStat(t *testing.T) {
	sessions := []entity.WindowSession{
		sessionAt(entity.StatusFocus, 9*time.Hour, 400),
		sessionAt(entity.StatusEntertainment, 10*time.Hour, 100),
		sessionAt(entity.StatusFocus, 10*time.Hour+5*time.Minute, 10),
	}

	stat := DeriveDailyStat(statDay, sessions)
	if stat.TotalFocusTime != 410 {
		t.Errorf("TotalFocusTime = %d, want 410", stat.TotalFocusTime)
	}
	if stat.TotalEntertainmentTime != 100 {
		t.Errorf("TotalEntertainmentTime = %d, want 100", stat.TotalEntertainmentTime)
	}
	if stat.WillpowerWins != 1 {
		t.Errorf("WillpowerWins = %d, want 1", stat.WillpowerWins)
	}
	if stat.CurrentFocusStreak != 0 {
		t.Errorf("CurrentFocusStreak = %d, a rebuild cannot know the live streak", stat.CurrentFocusStreak)
	}
}
