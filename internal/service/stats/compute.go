package stats

import (
	"fmt"
	"math"
	"time"

	"github.com/flowstate/flowstate-backend/internal/entity"
	"github.com/flowstate/flowstate-backend/internal/tracker"
	"github.com/flowstate/flowstate-backend/pkg/utils"
)

const (
	// Two focus sessions closer than this still count as one streak
	// when rescanning cold data.
	streakGapSeconds = 120

	// Below this active span the switch frequency is statistically
	// meaningless and reported as 0.
	minActiveHours = 0.5

	// Fragmentation ratio reported when a day has focus sessions but
	// no distractions at all.
	noFragmentationRatio = 10.0
)

// ComputePeriodStat derives a date's full PeriodStat from its ordered
// session rows. Deterministic: the same sessions always produce the
// same row, which is what makes recomputation idempotent.
func ComputePeriodStat(date time.Time, sessions []entity.WindowSession, daily *entity.DailyStat) entity.PeriodStat {
	totalFocus := totalByCategory(sessions, true)
	wins := tracker.ReplayWillpower(sessions)

	var maxStreak int64
	if daily != nil && daily.MaxFocusStreak > 0 {
		// The incremental value captures true temporal adjacency
		// including gaps, so it wins over a rescan.
		maxStreak = daily.MaxFocusStreak
	} else {
		maxStreak = MaxStreakRescan(sessions)
	}

	fragmentation := FragmentationRatio(sessions)
	switchFreq := ContextSwitchFrequency(sessions)
	score := EfficiencyScore(totalFocus, wins)
	peak := PeakHour(sessions)

	return entity.PeriodStat{
		Date:               date,
		TotalFocus:         totalFocus,
		MaxStreak:          maxStreak,
		WillpowerWins:      wins,
		PeakHour:           peak,
		EfficiencyScore:    score,
		DailySummary:       dailySummary(sessions, totalFocus, maxStreak, peak),
		FragmentationRatio: fragmentation,
		ContextSwitchFreq:  switchFreq,
		AIInsight: InsightTags(InsightInput{
			Fragmentation: fragmentation,
			SwitchFreq:    switchFreq,
			MaxStreak:     maxStreak,
			Wins:          wins,
			Score:         score,
		}),
	}
}

// DeriveDailyStat rebuilds a DailyStat-shaped row purely from session
// rows, for dates the incremental path never touched.
func DeriveDailyStat(date time.Time, sessions []entity.WindowSession) entity.DailyStat {
	totalFocus := totalByCategory(sessions, true)
	wins := tracker.ReplayWillpower(sessions)

	return entity.DailyStat{
		Date:                   date,
		TotalFocusTime:         totalFocus,
		TotalEntertainmentTime: totalByCategory(sessions, false),
		MaxFocusStreak:         MaxStreakRescan(sessions),
		CurrentFocusStreak:     0,
		WillpowerWins:          wins,
		EfficiencyScore:        EfficiencyScore(totalFocus, wins),
	}
}

// EfficiencyScore is min(100, round(60 + hours_focused*5 + wins*2)).
// Always within [0, 100].
func EfficiencyScore(focusSeconds int64, wins int) int {
	hours := float64(focusSeconds) / 3600.0
	score := math.Round(60 + hours*5 + float64(wins)*2)
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return int(score)
}

// MaxStreakRescan recovers the longest focus streak from session rows
// alone, bridging gaps shorter than streakGapSeconds.
func MaxStreakRescan(sessions []entity.WindowSession) int64 {
	var best, run int64
	var lastEnd time.Time

	for _, session := range sessions {
		if !session.Status.IsFocusLike() {
			run = 0
			continue
		}

		if run > 0 && session.StartTime.Sub(lastEnd) < streakGapSeconds*time.Second {
			run += session.Duration
		} else {
			run = session.Duration
		}
		lastEnd = session.EndTime

		if run > best {
			best = run
		}
	}

	return best
}

// FragmentationRatio is avg focus session length over avg distraction
// session length. 10.0 when no distraction was observed, 0.0 when no
// focus either.
func FragmentationRatio(sessions []entity.WindowSession) float64 {
	var focusTotal, focusCount, distractionTotal, distractionCount int64

	for _, session := range sessions {
		switch {
		case session.Status.IsFocusLike():
			focusTotal += session.Duration
			focusCount++
		case session.Status.IsDistraction():
			distractionTotal += session.Duration
			distractionCount++
		}
	}

	if distractionCount == 0 {
		if focusCount == 0 {
			return 0.0
		}
		return noFragmentationRatio
	}
	if focusCount == 0 {
		return 0.0
	}

	avgFocus := float64(focusTotal) / float64(focusCount)
	avgDistraction := float64(distractionTotal) / float64(distractionCount)
	return utils.RoundToTwoDecimals(avgFocus / avgDistraction)
}

// ContextSwitchFrequency is sessions per active hour, where the active
// span runs from the first session start to the last session start.
func ContextSwitchFrequency(sessions []entity.WindowSession) float64 {
	if len(sessions) < 2 {
		return 0
	}

	first := sessions[0].StartTime
	last := sessions[len(sessions)-1].StartTime
	activeHours := last.Sub(first).Hours()
	if activeHours < minActiveHours {
		return 0
	}

	return utils.RoundToTwoDecimals(float64(len(sessions)) / activeHours)
}

// PeakHour is the mode of the hour-of-day across focus-like session
// starts. Ties break toward the first-encountered hour, so the result
// is stable for a fixed session order.
func PeakHour(sessions []entity.WindowSession) int {
	counts := make(map[int]int)
	var order []int

	for _, session := range sessions {
		if !session.Status.IsFocusLike() {
			continue
		}
		hour := session.StartTime.In(utils.TrackerLocation()).Hour()
		if counts[hour] == 0 {
			order = append(order, hour)
		}
		counts[hour]++
	}

	peak, best := 0, 0
	for _, hour := range order {
		if counts[hour] > best {
			peak, best = hour, counts[hour]
		}
	}
	return peak
}

func totalByCategory(sessions []entity.WindowSession, focus bool) int64 {
	var total int64
	for _, session := range sessions {
		if focus && session.Status.IsFocusLike() {
			total += session.Duration
		}
		if !focus && session.Status == entity.StatusEntertainment {
			total += session.Duration
		}
	}
	return total
}

func dailySummary(sessions []entity.WindowSession, totalFocus, maxStreak int64, peakHour int) string {
	if len(sessions) == 0 {
		return "no activity recorded"
	}

	return fmt.Sprintf("%d sessions, %s focused, longest streak %s, peak at %s",
		len(sessions), formatDuration(totalFocus), formatDuration(maxStreak),
		utils.FormatHourTimestamp(peakHour))
}

func formatDuration(seconds int64) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dm", seconds/60)
	}
	return fmt.Sprintf("%dh%02dm", seconds/3600, (seconds%3600)/60)
}
