package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/flowstate/flowstate-backend/internal/entity"
	"github.com/flowstate/flowstate-backend/internal/repository"
)

// Merger folds committed segments into WindowSession rows: a segment
// whose window title matches the merge cursor extends the cursor's
// session, anything else starts a new one. The cursor is persisted
// alongside every session write, so a restart resumes exactly where
// the previous process stopped.
type Merger struct {
	repo   repository.SessionRepository
	cursor entity.MergeCursor

	lastDuration int64
}

func NewMerger(ctx context.Context, repo repository.SessionRepository) (*Merger, error) {
	cursor, err := repo.LoadCursor(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate merge cursor: %w", err)
	}

	return &Merger{repo: repo, cursor: cursor}, nil
}

// Apply merges one committed segment under the given mode. The
// returned skipped flag is set when the segment's payload carries no
// usable window identity; status and duration stats are still credited
// by the caller in that case, only session merging is skipped.
func (m *Merger) Apply(ctx context.Context, seg entity.StatusSegment, mode entity.TrackerMode) (skipped bool, err error) {
	payload, ok := entity.DecodeSegmentPayload(seg.RawPayload)
	if !ok || payload.WindowTitle == "" {
		return true, nil
	}

	status := mode.Remap(seg.Status)

	if !m.cursor.Empty() && m.cursor.WindowTitle == payload.WindowTitle {
		var summary *string
		if s := strings.TrimSpace(payload.Summary); s != "" && s != payload.WindowTitle {
			summary = &s
		}

		if err := m.repo.Extend(ctx, m.cursor.SessionID, seg.Duration, seg.EndTime, summary); err != nil {
			return false, err
		}
		m.lastDuration += seg.Duration
		return false, nil
	}

	session := &entity.WindowSession{
		StartTime:   seg.EndTime.Add(-time.Duration(seg.Duration) * time.Second),
		EndTime:     seg.EndTime,
		WindowTitle: payload.WindowTitle,
		ProcessName: payload.ProcessName,
		Status:      status,
		Duration:    seg.Duration,
	}
	if s := strings.TrimSpace(payload.Summary); s != "" && s != payload.WindowTitle {
		session.Summary = &s
	}

	if err := m.repo.Create(ctx, session); err != nil {
		return false, err
	}

	m.cursor = entity.MergeCursor{
		SessionID:   session.ID,
		WindowTitle: session.WindowTitle,
		ProcessName: session.ProcessName,
	}
	m.lastDuration = seg.Duration
	return false, nil
}

// ResetCursor empties the cursor so the next segment starts a fresh
// session. Called on every midnight split: sessions never span two
// calendar dates.
func (m *Merger) ResetCursor(ctx context.Context) error {
	m.cursor = entity.MergeCursor{}
	m.lastDuration = 0
	return m.repo.ClearCursor(ctx)
}

// CurrentSessionSeconds reports the merged duration of the session the
// cursor points at, for the UI status feed.
func (m *Merger) CurrentSessionSeconds() int64 {
	if m.cursor.Empty() {
		return 0
	}
	return m.lastDuration
}
