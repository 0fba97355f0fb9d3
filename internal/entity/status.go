package entity

// Status is the classified activity label produced by the upstream
// window classifier.
type Status string

const (
	StatusFocus         Status = "focus"
	StatusWork          Status = "work"
	StatusEntertainment Status = "entertainment"
	StatusIdle          Status = "idle"
	StatusUnknown       Status = "unknown"
)

var validStatuses = map[Status]bool{
	StatusFocus:         true,
	StatusWork:          true,
	StatusEntertainment: true,
	StatusIdle:          true,
	StatusUnknown:       true,
}

func (s Status) Valid() bool {
	return validStatuses[s]
}

// IsFocusLike reports whether the status counts toward focus time and
// focus streaks.
func (s Status) IsFocusLike() bool {
	return s == StatusFocus || s == StatusWork
}

// IsDistraction reports whether the status counts as a distraction for
// the willpower automaton and the fragmentation ratio.
func (s Status) IsDistraction() bool {
	return s == StatusEntertainment || s == StatusUnknown
}

// TrackerMode remaps how a committed session's status is recorded.
// Under recharge mode a nominally-focus session is stored as
// entertainment, so that deliberate downtime is not scored as work.
type TrackerMode string

const (
	ModeFocus    TrackerMode = "focus"
	ModeRecharge TrackerMode = "recharge"
)

func (m TrackerMode) Valid() bool {
	return m == ModeFocus || m == ModeRecharge
}

// Remap returns the status to record for a session committed under
// this mode. Classification itself is untouched; only storage is.
func (m TrackerMode) Remap(s Status) Status {
	if m == ModeRecharge && s.IsFocusLike() {
		return StatusEntertainment
	}
	return s
}
