package stats

import "testing"

func TestInsightTags(t *testing.T) {
	tests := []struct {
		name string
		in   InsightInput
		want string
	}{
		{
			"nothing notable",
			InsightInput{Fragmentation: 1.5, SwitchFreq: 2, MaxStreak: 900, Wins: 1, Score: 70},
			"steady rhythm",
		},
		{
			"deep flow",
			InsightInput{Fragmentation: 4.2, SwitchFreq: 1, MaxStreak: 3600, Wins: 0, Score: 75},
			"deep flow",
		},
		{
			"fragmented anxiety",
			InsightInput{Fragmentation: 0.4, SwitchFreq: 7, MaxStreak: 700, Wins: 0, Score: 62},
			"fragmented anxiety",
		},
		{
			"scattered attention",
			InsightInput{Fragmentation: 1.2, SwitchFreq: 9, MaxStreak: 300, Wins: 0, Score: 61},
			"scattered attention",
		},
		{
			"multiple tags join in rule order",
			InsightInput{Fragmentation: 5, SwitchFreq: 4, MaxStreak: 2000, Wins: 6, Score: 95},
			"deep flow, high-pressure multitask, iron willpower, peak day",
		},
		{
			"zero fragmentation is not anxiety",
			InsightInput{Fragmentation: 0, SwitchFreq: 10, MaxStreak: 700, Wins: 0, Score: 60},
			"steady rhythm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InsightTags(tt.in); got != tt.want {
				t.Errorf("InsightTags = %q, want %q", got, tt.want)
			}
		})
	}
}

// Same numbers in, same tags out. The insight column must not drift
// between recomputations.
func TestInsightTagsDeterministic(t *testing.T) {
	in := InsightInput{Fragmentation: 3.3, SwitchFreq: 5, MaxStreak: 2200, Wins: 4, Score: 88}
	first := InsightTags(in)
	for i := 0; i < 10; i++ {
		if got := InsightTags(in); got != first {
			t.Fatalf("run %d produced %q, first run produced %q", i, got, first)
		}
	}
}
