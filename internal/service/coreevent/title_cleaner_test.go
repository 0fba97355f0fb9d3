package coreevent

import "testing"

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name    string
		process string
		title   string
		want    string
	}{
		{
			"editor title reduces to filename",
			"code.exe",
			"report_widget.py - flow_state - Visual Studio Code",
			"report_widget.py",
		},
		{
			"unsaved buffer marker stripped",
			"code.exe",
			"● main.go - backend - Visual Studio Code",
			"main.go",
		},
		{
			"jetbrains style",
			"goland.exe",
			"tracker.go - flowstate-backend",
			"tracker.go",
		},
		{
			"known site collapses to canonical name",
			"chrome.exe",
			"Baby Shark Dance | Most Viewed Video - YouTube - Google Chrome",
			"YouTube",
		},
		{
			"unknown site loses the browser suffix",
			"chrome.exe",
			"Quarterly Planning - Google Chrome",
			"Quarterly Planning",
		},
		{
			"edge suffix stripped",
			"msedge.exe",
			"Sprint Board - Microsoft Edge",
			"Sprint Board",
		},
		{
			"notification counter stripped first",
			"chrome.exe",
			"(3) Inbox - Gmail",
			"Gmail",
		},
		{
			"terminal path collapses to basename",
			"wt.exe",
			`C:\Users\dev\projects\flowstate`,
			"flowstate",
		},
		{
			"finder path",
			"finder",
			"/Users/dev/Documents/notes",
			"notes",
		},
		{
			"unrecognized app passes through trimmed",
			"obsidian.exe",
			"  Weekly review  ",
			"Weekly review",
		},
		{
			"process match is case-insensitive",
			"Code.EXE",
			"segmenter.go - tracker - Visual Studio Code",
			"segmenter.go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanTitle(tt.process, tt.title); got != tt.want {
				t.Errorf("CleanTitle(%q, %q) = %q, want %q", tt.process, tt.title, got, tt.want)
			}
		})
	}
}
