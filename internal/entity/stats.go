package entity

import "time"

// DailyStat is the write-time incremental cache over a day's sessions.
// Keyed by the local calendar day a session ends in.
type DailyStat struct {
	Date                   time.Time `json:"date" db:"date"`
	TotalFocusTime         int64     `json:"totalFocusTime" db:"total_focus_time"`
	TotalEntertainmentTime int64     `json:"totalEntertainmentTime" db:"total_entertainment_time"`
	MaxFocusStreak         int64     `json:"maxFocusStreak" db:"max_focus_streak"`
	CurrentFocusStreak     int64     `json:"currentFocusStreak" db:"current_focus_streak"`
	WillpowerWins          int       `json:"willpowerWins" db:"willpower_wins"`
	EfficiencyScore        int       `json:"efficiencyScore" db:"efficiency_score"`
	UpdatedAt              time.Time `json:"updatedAt" db:"updated_at"`
}

// PeriodStat is the batch-recomputed read model for one date. Rows are
// always replaced wholesale, never patched, so they stay consistent
// with the session table they were derived from.
type PeriodStat struct {
	Date               time.Time `json:"date" db:"date"`
	TotalFocus         int64     `json:"totalFocus" db:"total_focus"`
	MaxStreak          int64     `json:"maxStreak" db:"max_streak"`
	WillpowerWins      int       `json:"willpowerWins" db:"willpower_wins"`
	PeakHour           int       `json:"peakHour" db:"peak_hour"`
	EfficiencyScore    int       `json:"efficiencyScore" db:"efficiency_score"`
	DailySummary       string    `json:"dailySummary" db:"daily_summary"`
	FragmentationRatio float64   `json:"focusFragmentationRatio" db:"focus_fragmentation_ratio"`
	ContextSwitchFreq  float64   `json:"contextSwitchFreq" db:"context_switch_freq"`
	AIInsight          string    `json:"aiInsight" db:"ai_insight"`
	ComputedAt         time.Time `json:"computedAt" db:"computed_at"`
}

type StatRangeFilter struct {
	From time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To   time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
}
