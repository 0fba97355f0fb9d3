package tracker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/flowstate/flowstate-backend/internal/entity"
	"github.com/flowstate/flowstate-backend/internal/repository"
	"github.com/flowstate/flowstate-backend/pkg/utils"
)

// ModeSource supplies the tracker mode at commit time. It replaces the
// source project's global mutable mode flag with an explicit
// dependency, so tests and multiple tracker instances never share
// state by accident.
type ModeSource interface {
	Current(ctx context.Context) entity.TrackerMode
}

const (
	observationBuffer = 256
	eventBuffer       = 64
	maxPendingRetries = 16
)

var ErrQueueFull = errors.New("observation queue is full")

// Tracker is the live ingestion pipeline: observations in, committed
// segments through the merger and daily-stat updates, status events
// out. All state mutation happens on the single Run goroutine.
type Tracker struct {
	log      *slog.Logger
	segments *Segmenter
	merger   *Merger
	detector *WillpowerDetector
	daily    repository.DailyStatRepository
	mode     ModeSource

	observations chan entity.Observation
	events       chan entity.StatusEvent

	// Commits whose store write failed, retried on the next cycle.
	// Each entry remembers how far it got so a retry resumes at the
	// failed write instead of repeating ones that already landed.
	pending []*pendingCommit

	mu          sync.RWMutex
	lastEvent   entity.StatusEvent
	focusStreak int64
	streakDate  time.Time
}

func New(log *slog.Logger, merger *Merger, daily repository.DailyStatRepository, mode ModeSource) *Tracker {
	return &Tracker{
		log:          log,
		segments:     NewSegmenter(),
		merger:       merger,
		detector:     NewWillpowerDetector(),
		daily:        daily,
		mode:         mode,
		observations: make(chan entity.Observation, observationBuffer),
		events:       make(chan entity.StatusEvent, eventBuffer),
	}
}

// Submit queues one observation without blocking the caller. A full
// queue is reported, not waited on: a stalled cycle must never back
// up into the agent's polling loop.
func (t *Tracker) Submit(obs entity.Observation) error {
	select {
	case t.observations <- obs:
		return nil
	default:
		return ErrQueueFull
	}
}

// Events exposes the status feed consumed by the overlay UI.
func (t *Tracker) Events() <-chan entity.StatusEvent {
	return t.events
}

// Snapshot returns the most recently emitted status event.
func (t *Tracker) Snapshot() entity.StatusEvent {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastEvent
}

// Run consumes observations until the context is cancelled. One bad
// observation or one failed store write is logged and survived; the
// loop itself only exits on cancellation.
func (t *Tracker) Run(ctx context.Context) {
	t.log.Info("tracker started")

	for {
		select {
		case <-ctx.Done():
			t.retryPending(context.Background())
			if seg := t.segments.Flush(time.Now()); seg != nil {
				if err := t.commit(context.Background(), *seg); err != nil {
					t.log.Error("failed to commit final segment", slog.Any("error", err))
				}
			}
			t.log.Info("tracker stopped")
			return

		case obs := <-t.observations:
			t.retryPending(ctx)
			if err := t.process(ctx, obs); err != nil {
				t.log.Error("failed to process observation",
					slog.Time("ts", obs.Timestamp),
					slog.Any("error", err))
			}
		}
	}
}

func (t *Tracker) process(ctx context.Context, obs entity.Observation) error {
	committed := t.segments.Observe(obs)

	var commitErr error
	if committed != nil {
		pc := t.newCommit(ctx, *committed)
		commitErr = t.runCommit(ctx, pc)
		if commitErr != nil {
			t.queueRetry(pc)
		}
	}

	t.publish(obs)
	return commitErr
}

// Write stages of one midnight-split part, in commit order. A part
// advances its stage only after the write behind it succeeded, so a
// retried commit never merges or credits the same seconds twice.
const (
	stageMerge = iota
	stageTime
	stageStreak
)

// pendingCommit carries one closed segment through the store writes
// and remembers how far it got. The mode is captured when the segment
// closes; a retry must not reclassify it under a mode switched since.
type pendingCommit struct {
	seg      entity.StatusSegment
	mode     entity.TrackerMode
	recorded entity.Status
	parts    []entity.StatusSegment

	part   int   // next part to finish
	stage  int   // next write stage within that part
	streak int64 // streak value captured for the stageStreak write
	fed    bool  // automaton already consumed the segment
	win    bool  // win detected, AddWin write still owed
}

func (t *Tracker) newCommit(ctx context.Context, seg entity.StatusSegment) *pendingCommit {
	mode := t.mode.Current(ctx)
	return &pendingCommit{
		seg:      seg,
		mode:     mode,
		recorded: mode.Remap(seg.Status),
		parts:    SplitAtMidnight(seg),
	}
}

// commit pushes one closed segment through the midnight splitter, the
// session merger and the daily-stat counters. The willpower automaton
// sees the segment whole (a split does not halve its duration); a win
// is credited to the day the segment ends in, so a recovery across
// midnight lands on the morning that confirmed it.
func (t *Tracker) commit(ctx context.Context, seg entity.StatusSegment) error {
	return t.runCommit(ctx, t.newCommit(ctx, seg))
}

// runCommit advances a commit from wherever its last attempt stopped.
func (t *Tracker) runCommit(ctx context.Context, pc *pendingCommit) error {
	for ; pc.part < len(pc.parts); pc.part, pc.stage = pc.part+1, stageMerge {
		part := pc.parts[pc.part]
		date := utils.DateOf(part.EndTime.Add(-time.Second))

		if pc.stage == stageMerge {
			if pc.part > 0 {
				if err := t.merger.ResetCursor(ctx); err != nil {
					return err
				}
			}

			skipped, err := t.merger.Apply(ctx, part, pc.mode)
			if err != nil {
				return err
			}
			if skipped {
				t.log.Warn("segment payload unusable, session merge skipped",
					slog.Time("start", part.StartTime))
			}
			pc.stage = stageTime
		}

		if pc.stage == stageTime {
			if err := t.daily.AddTime(ctx, date, pc.recorded, part.Duration); err != nil {
				return err
			}
			pc.streak = t.advanceStreak(date, pc.recorded, part.Duration)
			pc.stage = stageStreak
		}

		if err := t.daily.SetStreak(ctx, date, pc.streak); err != nil {
			return err
		}
	}

	if !pc.fed {
		pc.win = t.detector.Feed(pc.recorded, pc.seg.Duration)
		pc.fed = true
	}
	if pc.win {
		winDate := utils.DateOf(pc.seg.EndTime)
		if err := t.daily.AddWin(ctx, winDate); err != nil {
			return err
		}
		pc.win = false
		t.log.Info("willpower win", slog.String("date", utils.FormatDate(winDate)))
	}

	return nil
}

// advanceStreak accumulates the in-memory streak exactly once per
// part, separate from the SetStreak write so a retried write does not
// re-count the seconds.
func (t *Tracker) advanceStreak(date time.Time, status entity.Status, seconds int64) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !date.Equal(t.streakDate) {
		t.focusStreak = 0
		t.streakDate = date
	}
	if status.IsFocusLike() {
		t.focusStreak += seconds
	} else {
		t.focusStreak = 0
	}
	return t.focusStreak
}

func (t *Tracker) publish(obs entity.Observation) {
	status, start, summary, ok := t.segments.Current()
	if !ok {
		return
	}

	activitySeconds := int64(obs.Timestamp.Sub(start) / time.Second)

	t.mu.Lock()
	continuous := t.focusStreak
	if status.IsFocusLike() {
		continuous += activitySeconds
	}

	event := entity.StatusEvent{
		Status:                  status,
		ContinuousFocusDuration: continuous,
		CurrentActivityDuration: activitySeconds,
		WindowDuration:          t.merger.CurrentSessionSeconds(),
		Summary:                 summary,
		Timestamp:               obs.Timestamp,
	}
	t.lastEvent = event
	t.mu.Unlock()

	select {
	case t.events <- event:
	default:
		// Slow consumer; the feed is advisory, never block ingestion.
	}
}

func (t *Tracker) queueRetry(pc *pendingCommit) {
	if len(t.pending) >= maxPendingRetries {
		t.log.Error("retry queue full, dropping segment",
			slog.Time("start", pc.seg.StartTime))
		return
	}
	t.pending = append(t.pending, pc)
}

func (t *Tracker) retryPending(ctx context.Context) {
	if len(t.pending) == 0 {
		return
	}

	retry := t.pending
	t.pending = nil
	for _, pc := range retry {
		if err := t.runCommit(ctx, pc); err != nil {
			t.log.Error("retry failed, dropping segment",
				slog.Time("start", pc.seg.StartTime),
				slog.Any("error", err))
		}
	}
}
