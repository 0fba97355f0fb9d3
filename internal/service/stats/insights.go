package stats

import "strings"

// InsightInput is the numeric profile an insight tag is derived from.
type InsightInput struct {
	Fragmentation float64
	SwitchFreq    float64
	MaxStreak     int64
	Wins          int
	Score         int
}

type insightRule struct {
	tag   string
	match func(InsightInput) bool
}

// The rule table is ordered and purely numeric: the same inputs always
// yield the same tags. This is descriptive bucketing, not generation.
var insightRules = []insightRule{
	{"deep flow", func(in InsightInput) bool {
		return in.MaxStreak >= 1800 && in.Fragmentation >= 3
	}},
	{"fragmented anxiety", func(in InsightInput) bool {
		return in.Fragmentation > 0 && in.Fragmentation < 1 && in.SwitchFreq >= 6
	}},
	{"high-pressure multitask", func(in InsightInput) bool {
		return in.SwitchFreq >= 4 && in.Wins >= 3
	}},
	{"scattered attention", func(in InsightInput) bool {
		return in.MaxStreak < 600 && in.SwitchFreq >= 8
	}},
	{"iron willpower", func(in InsightInput) bool {
		return in.Wins >= 5
	}},
	{"peak day", func(in InsightInput) bool {
		return in.Score >= 90
	}},
}

// InsightTags evaluates the rule table and joins matched tags with a
// comma. With no matches it reports a steady rhythm.
func InsightTags(in InsightInput) string {
	var tags []string
	for _, rule := range insightRules {
		if rule.match(in) {
			tags = append(tags, rule.tag)
		}
	}

	if len(tags) == 0 {
		return "steady rhythm"
	}
	return strings.Join(tags, ", ")
}
