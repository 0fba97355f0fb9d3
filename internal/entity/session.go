package entity

import (
	"time"

	"github.com/gofrs/uuid"
)

// WindowSession is the durable, mergeable unit: consecutive segments
// sharing the same window title extend one session. Sessions never
// span two calendar dates.
type WindowSession struct {
	ID          uuid.UUID `json:"id" db:"id"`
	StartTime   time.Time `json:"startTime" db:"start_time"`
	EndTime     time.Time `json:"endTime" db:"end_time"`
	WindowTitle string    `json:"windowTitle" db:"window_title"`
	ProcessName string    `json:"processName" db:"process_name"`
	Status      Status    `json:"status" db:"status"`
	Duration    int64     `json:"duration" db:"duration"`
	Summary     *string   `json:"summary,omitempty" db:"summary"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type SessionFilter struct {
	Date      *time.Time `form:"date" time_format:"2006-01-02"`
	StartTime *time.Time `form:"startTime"`
	EndTime   *time.Time `form:"endTime"`
	Status    *Status    `form:"status"`
	Limit     int        `form:"limit"`
	Offset    int        `form:"offset"`
	Page      int        `form:"page"`
	PerPage   int        `form:"per_page"`
}

// MergeCursor is the persisted "last session" pointer used by the
// session merger. It is written in the same transaction as the
// session row it points at, and cleared on every midnight split.
type MergeCursor struct {
	SessionID   uuid.UUID `db:"session_id"`
	WindowTitle string    `db:"window_title"`
	ProcessName string    `db:"process_name"`
}

func (c MergeCursor) Empty() bool {
	return c.SessionID == uuid.Nil
}
