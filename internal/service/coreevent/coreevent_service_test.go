package coreevent

import (
	"context"
	"testing"
	"time"

	"github.com/flowstate/flowstate-backend/internal/entity"
	"github.com/flowstate/flowstate-backend/pkg/utils"
	"github.com/gofrs/uuid"
)

var eventDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)

type fakeSessionStore struct {
	byDate map[string][]entity.WindowSession
}

func (f *fakeSessionStore) GetByDate(_ context.Context, date time.Time) ([]entity.WindowSession, error) {
	return f.byDate[utils.FormatDate(date)], nil
}

func (f *fakeSessionStore) TopByDuration(_ context.Context, date time.Time, minDuration int64, limit int) ([]entity.WindowSession, error) {
	var top []entity.WindowSession
	for _, session := range f.byDate[utils.FormatDate(date)] {
		if session.Duration > minDuration {
			top = append(top, session)
		}
	}
	if len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}

func (f *fakeSessionStore) Create(context.Context, *entity.WindowSession) error { return nil }
func (f *fakeSessionStore) Extend(context.Context, uuid.UUID, int64, time.Time, *string) error {
	return nil
}
func (f *fakeSessionStore) Latest(context.Context) (*entity.WindowSession, error) { return nil, nil }
func (f *fakeSessionStore) GetByFilter(context.Context, entity.SessionFilter) ([]entity.WindowSession, error) {
	return nil, nil
}
func (f *fakeSessionStore) CountByFilter(context.Context, entity.SessionFilter) (int, error) {
	return 0, nil
}
func (f *fakeSessionStore) LoadCursor(context.Context) (entity.MergeCursor, error) {
	return entity.MergeCursor{}, nil
}
func (f *fakeSessionStore) ClearCursor(context.Context) error { return nil }

type fakeEventStore struct {
	stored map[string][]entity.CoreEvent
}

func (f *fakeEventStore) key(date time.Time, category entity.EventCategory) string {
	return utils.FormatDate(date) + "/" + string(category)
}

func (f *fakeEventStore) Replace(_ context.Context, date time.Time, category entity.EventCategory, events []entity.CoreEvent) error {
	if f.stored == nil {
		f.stored = make(map[string][]entity.CoreEvent)
	}
	f.stored[f.key(date, category)] = events
	return nil
}

func (f *fakeEventStore) GetByDate(_ context.Context, date time.Time) ([]entity.CoreEvent, error) {
	var all []entity.CoreEvent
	all = append(all, f.stored[f.key(date, entity.CategoryFocus)]...)
	all = append(all, f.stored[f.key(date, entity.CategoryEntertainment)]...)
	return all, nil
}

func (f *fakeEventStore) GetRange(context.Context, time.Time, time.Time) ([]entity.CoreEvent, error) {
	return nil, nil
}

func windowSession(status entity.Status, process, title string, startOffset time.Duration, duration int64) entity.WindowSession {
	start := eventDay.Add(startOffset)
	return entity.WindowSession{
		StartTime:   start,
		EndTime:     start.Add(time.Duration(duration) * time.Second),
		WindowTitle: title,
		ProcessName: process,
		Status:      status,
		Duration:    duration,
	}
}

func newTestService(sessions []entity.WindowSession) (*Service, *fakeEventStore) {
	store := &fakeSessionStore{byDate: map[string][]entity.WindowSession{
		utils.FormatDate(eventDay): sessions,
	}}
	events := &fakeEventStore{}
	return NewService(store, events), events
}

func TestExtractDayRanksByTotalDuration(t *testing.T) {
	svc, store := newTestService([]entity.WindowSession{
		windowSession(entity.StatusFocus, "code.exe", "merger.go - backend - Visual Studio Code", 9*time.Hour, 300),
		windowSession(entity.StatusFocus, "code.exe", "merger.go - backend - Visual Studio Code", 11*time.Hour, 500),
		windowSession(entity.StatusFocus, "goland.exe", "tracker.go - backend", 10*time.Hour, 600),
		windowSession(entity.StatusFocus, "chrome.exe", "sqlx docs - Google Chrome", 12*time.Hour, 100),
		windowSession(entity.StatusFocus, "chrome.exe", "pq driver - Google Chrome", 13*time.Hour, 90),
		windowSession(entity.StatusEntertainment, "chrome.exe", "Lofi Mix - YouTube", 20*time.Hour, 1200),
		// under the 30s floor, must not appear anywhere
		windowSession(entity.StatusFocus, "code.exe", "scratch.go - Visual Studio Code", 14*time.Hour, 20),
	})

	all, err := svc.ExtractDay(context.Background(), eventDay)
	if err != nil {
		t.Fatal(err)
	}

	focus := store.stored[store.key(eventDay, entity.CategoryFocus)]
	if len(focus) != 3 {
		t.Fatalf("got %d focus events, want top 3", len(focus))
	}

	// Sessions of the same app and cleaned title merge before ranking.
	if focus[0].CleanTitle != "merger.go" || focus[0].TotalDuration != 800 || focus[0].EventCount != 2 {
		t.Errorf("rank 1 = %+v, want merger.go with 800s over 2 sessions", focus[0])
	}
	if focus[1].CleanTitle != "tracker.go" || focus[1].Rank != 2 {
		t.Errorf("rank 2 = %+v, want tracker.go", focus[1])
	}
	if focus[2].TotalDuration != 100 {
		t.Errorf("rank 3 duration = %d, want the 100s browser session", focus[2].TotalDuration)
	}

	entertainment := store.stored[store.key(eventDay, entity.CategoryEntertainment)]
	if len(entertainment) != 1 || entertainment[0].CleanTitle != "YouTube" {
		t.Errorf("entertainment = %+v, want a single YouTube entry", entertainment)
	}

	if len(all) != 4 {
		t.Errorf("ExtractDay returned %d events, want 4", len(all))
	}
}

func TestExtractDayFallsBackToLongestSessions(t *testing.T) {
	svc, store := newTestService([]entity.WindowSession{
		windowSession(entity.StatusIdle, "explorer.exe", "Downloads", 9*time.Hour, 900),
		windowSession(entity.StatusIdle, "explorer.exe", "Desktop", 10*time.Hour, 400),
	})

	if _, err := svc.ExtractDay(context.Background(), eventDay); err != nil {
		t.Fatal(err)
	}

	focus := store.stored[store.key(eventDay, entity.CategoryFocus)]
	if len(focus) != 2 {
		t.Fatalf("got %d fallback events, want 2", len(focus))
	}
	if focus[0].CleanTitle != "Downloads" || focus[0].Rank != 1 {
		t.Errorf("fallback rank 1 = %+v, want the longest session", focus[0])
	}
}

func TestExtractDayEmptyDayGetsPlaceholder(t *testing.T) {
	svc, store := newTestService(nil)

	if _, err := svc.ExtractDay(context.Background(), eventDay); err != nil {
		t.Fatal(err)
	}

	focus := store.stored[store.key(eventDay, entity.CategoryFocus)]
	if len(focus) != 1 || focus[0].CleanTitle != entity.NoPrimaryActivity {
		t.Errorf("got %+v, want a single placeholder row", focus)
	}
	if focus[0].Rank != 1 || focus[0].Category != entity.CategoryFocus {
		t.Errorf("placeholder = %+v, want rank 1 under focus", focus[0])
	}
}

func TestEventsForDateExtractsOnMiss(t *testing.T) {
	svc, store := newTestService([]entity.WindowSession{
		windowSession(entity.StatusFocus, "code.exe", "main.go - Visual Studio Code", 9*time.Hour, 400),
	})

	events, err := svc.EventsForDate(context.Background(), eventDay)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) == 0 {
		t.Fatal("miss should trigger extraction")
	}

	// The rebuilt rows are stored, so the next read is a plain lookup.
	if len(store.stored) == 0 {
		t.Error("extraction result was not persisted")
	}
}

func TestExtractDayIsIdempotent(t *testing.T) {
	svc, store := newTestService([]entity.WindowSession{
		windowSession(entity.StatusFocus, "code.exe", "main.go - Visual Studio Code", 9*time.Hour, 400),
		windowSession(entity.StatusEntertainment, "chrome.exe", "Reddit - front page", 20*time.Hour, 300),
	})

	first, err := svc.ExtractDay(context.Background(), eventDay)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.ExtractDay(context.Background(), eventDay)
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != len(second) {
		t.Fatalf("runs differ in size: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("event %d diverged:\n%+v\n%+v", i, first[i], second[i])
		}
	}

	focus := store.stored[store.key(eventDay, entity.CategoryFocus)]
	if len(focus) != 1 {
		t.Errorf("stored focus events = %d, want 1 after both runs", len(focus))
	}
}
