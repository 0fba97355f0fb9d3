package coreevent

import (
	"regexp"
	"strings"
)

// Title cleaning is a chain of per-application heuristics. The first
// cleaner whose Match accepts the process name handles the title;
// unrecognized apps pass through trimmed only.
type Cleaner interface {
	Match(processName string) bool
	Clean(title string) string
}

// Leading notification counters like "(3) " are stripped before any
// app-specific cleaner runs.
var notificationPrefix = regexp.MustCompile(`^\(\d+\)\s*`)

func CleanTitle(processName, title string) string {
	title = notificationPrefix.ReplaceAllString(strings.TrimSpace(title), "")

	for _, cleaner := range defaultCleaners {
		if cleaner.Match(processName) {
			return strings.TrimSpace(cleaner.Clean(title))
		}
	}

	return title
}

var defaultCleaners = []Cleaner{
	browserCleaner{},
	ideCleaner{},
	pathCleaner{},
}

// browserCleaner short-circuits known sites to a canonical name and
// otherwise strips the trailing " - <Browser>" suffix off the tab
// title.
type browserCleaner struct{}

var browserProcesses = []string{"chrome", "firefox", "msedge", "edge", "safari", "brave", "opera", "arc"}

// Keyword table checked against the lowercased tab title.
var knownSites = []struct {
	keyword string
	name    string
}{
	{"youtube", "YouTube"},
	{"bilibili", "Bilibili"},
	{"github", "GitHub"},
	{"stack overflow", "Stack Overflow"},
	{"stackoverflow", "Stack Overflow"},
	{"reddit", "Reddit"},
	{"twitter", "Twitter"},
	{"gmail", "Gmail"},
	{"notion", "Notion"},
	{"figma", "Figma"},
	{"netflix", "Netflix"},
	{"twitch", "Twitch"},
	{"wikipedia", "Wikipedia"},
	{"chatgpt", "ChatGPT"},
}

var browserSuffixes = []string{
	" - Google Chrome",
	" — Mozilla Firefox",
	" - Mozilla Firefox",
	" - Microsoft Edge",
	" - Brave",
	" - Opera",
	" - Safari",
}

func (browserCleaner) Match(processName string) bool {
	return matchProcess(processName, browserProcesses)
}

func (browserCleaner) Clean(title string) string {
	lower := strings.ToLower(title)
	for _, site := range knownSites {
		if strings.Contains(lower, site.keyword) {
			return site.name
		}
	}

	for _, suffix := range browserSuffixes {
		title = strings.TrimSuffix(title, suffix)
	}
	return title
}

// ideCleaner reduces "filename - project - app" editor titles to the
// filename.
type ideCleaner struct{}

var ideProcesses = []string{"code", "cursor", "idea", "pycharm", "goland", "webstorm", "clion", "rider", "sublime_text", "zed", "devenv"}

func (ideCleaner) Match(processName string) bool {
	return matchProcess(processName, ideProcesses)
}

func (ideCleaner) Clean(title string) string {
	// Editors flag unsaved buffers with a leading dot or asterisk.
	title = strings.TrimLeft(title, "●*• ")

	if idx := strings.Index(title, " - "); idx > 0 {
		title = title[:idx]
	}
	return basename(title)
}

// pathCleaner collapses path-shaped titles (terminals, file managers)
// to the basename.
type pathCleaner struct{}

var pathProcesses = []string{"explorer", "finder", "nautilus", "dolphin", "wt", "windowsterminal", "terminal", "iterm2", "alacritty", "kitty"}

func (pathCleaner) Match(processName string) bool {
	return matchProcess(processName, pathProcesses)
}

func (pathCleaner) Clean(title string) string {
	return basename(title)
}

func matchProcess(processName string, candidates []string) bool {
	name := strings.TrimSuffix(strings.ToLower(processName), ".exe")
	for _, candidate := range candidates {
		if name == candidate {
			return true
		}
	}
	return false
}

func basename(s string) string {
	if idx := strings.LastIndexAny(s, `/\`); idx >= 0 && idx < len(s)-1 {
		return s[idx+1:]
	}
	return s
}
