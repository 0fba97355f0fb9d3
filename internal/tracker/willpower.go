package tracker

import "github.com/flowstate/flowstate-backend/internal/entity"

// Sustained-focus and recoverable-lapse thresholds, in seconds.
const (
	winFocusThreshold = 300
	winLapseThreshold = 300
)

// Willpower automaton states.
const (
	stateSeekingFocus     = 0
	stateInFocus          = 1
	stateWatchingRecovery = 2
)

// WillpowerDetector counts confirmed recoveries from a short
// distraction back into focus. The same automaton runs live on
// committed segments and in batch replay over a day's session rows;
// both paths must yield identical counts for the same ordered input.
type WillpowerDetector struct {
	state int
}

func NewWillpowerDetector() *WillpowerDetector {
	return &WillpowerDetector{state: stateSeekingFocus}
}

// Feed advances the automaton with one span and reports whether it
// confirmed a willpower win. Idle spans are neutral: the user walked
// away, which is neither focus nor a distraction worth scoring.
func (d *WillpowerDetector) Feed(status entity.Status, duration int64) bool {
	switch d.state {
	case stateSeekingFocus:
		if status.IsFocusLike() && duration > winFocusThreshold {
			d.state = stateInFocus
		}

	case stateInFocus:
		if status.IsDistraction() {
			if duration < winLapseThreshold {
				d.state = stateWatchingRecovery
			} else {
				// Lapse too long to count as recoverable.
				d.state = stateSeekingFocus
			}
		}

	case stateWatchingRecovery:
		if status.IsFocusLike() {
			if duration > winFocusThreshold {
				d.state = stateInFocus
			} else {
				d.state = stateSeekingFocus
			}
			return true
		}
		if status.IsDistraction() {
			// A second lapse invalidates the recovery.
			d.state = stateSeekingFocus
		}
	}

	return false
}

func (d *WillpowerDetector) Reset() {
	d.state = stateSeekingFocus
}

func (d *WillpowerDetector) State() int {
	return d.state
}

// ReplayWillpower re-derives a day's win count from its session rows
// in start-time order.
func ReplayWillpower(sessions []entity.WindowSession) int {
	detector := NewWillpowerDetector()

	wins := 0
	for _, session := range sessions {
		if detector.Feed(session.Status, session.Duration) {
			wins++
		}
	}
	return wins
}
