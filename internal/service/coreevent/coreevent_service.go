package coreevent

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/flowstate/flowstate-backend/internal/entity"
	"github.com/flowstate/flowstate-backend/internal/repository"
	"github.com/flowstate/flowstate-backend/pkg/utils"
)

const (
	// Relaxed from an initial 120s cutoff that starved most days of
	// ranked events.
	minSessionSeconds = 30

	// Fallback query bounds when the focus category comes up empty.
	fallbackMinSeconds = 60
	fallbackLimit      = 5

	topFocus         = 3
	topEntertainment = 2
)

// Service extracts a day's ranked core events from its session rows.
// Re-entrant and idempotent per date; different dates may run
// concurrently.
type Service struct {
	sessions repository.SessionRepository
	events   repository.CoreEventRepository

	mu        sync.Mutex
	dateLocks map[string]*sync.Mutex
}

func NewService(sessions repository.SessionRepository, events repository.CoreEventRepository) *Service {
	return &Service{
		sessions:  sessions,
		events:    events,
		dateLocks: make(map[string]*sync.Mutex),
	}
}

// ExtractDay rebuilds both category rankings for a date and returns
// the stored rows.
func (s *Service) ExtractDay(ctx context.Context, date time.Time) ([]entity.CoreEvent, error) {
	date = utils.DateOf(date)

	unlock := s.lockDate(date)
	defer unlock()

	sessions, err := s.sessions.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	focus := Aggregate(date, sessions, entity.CategoryFocus, topFocus)
	if len(focus) == 0 {
		focus, err = s.fallbackFocus(ctx, date)
		if err != nil {
			return nil, err
		}
	}

	entertainment := Aggregate(date, sessions, entity.CategoryEntertainment, topEntertainment)

	if err := s.events.Replace(ctx, date, entity.CategoryFocus, focus); err != nil {
		return nil, fmt.Errorf("failed to store focus events: %w", err)
	}
	if err := s.events.Replace(ctx, date, entity.CategoryEntertainment, entertainment); err != nil {
		return nil, fmt.Errorf("failed to store entertainment events: %w", err)
	}

	return append(focus, entertainment...), nil
}

// EventsForDate reads stored core events, extracting them first when
// the date has never been processed.
func (s *Service) EventsForDate(ctx context.Context, date time.Time) ([]entity.CoreEvent, error) {
	date = utils.DateOf(date)

	events, err := s.events.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(events) > 0 {
		return events, nil
	}

	return s.ExtractDay(ctx, date)
}

func (s *Service) EventsForRange(ctx context.Context, from, to time.Time) ([]entity.CoreEvent, error) {
	return s.events.GetRange(ctx, utils.DateOf(from), utils.DateOf(to))
}

// Aggregate groups a category's sessions by (app, cleaned title) and
// returns the top-ranked entries by total duration. Iteration order is
// first-encountered and the sort is stable, so equal durations rank
// deterministically.
func Aggregate(date time.Time, sessions []entity.WindowSession, category entity.EventCategory, limit int) []entity.CoreEvent {
	type key struct {
		app   string
		title string
	}

	totals := make(map[key]*entity.CoreEvent)
	var order []key

	for _, session := range sessions {
		if session.Duration <= minSessionSeconds {
			continue
		}
		if !inCategory(session.Status, category) {
			continue
		}

		k := key{
			app:   session.ProcessName,
			title: CleanTitle(session.ProcessName, session.WindowTitle),
		}

		event, ok := totals[k]
		if !ok {
			event = &entity.CoreEvent{
				Date:       date,
				AppName:    k.app,
				CleanTitle: k.title,
				Category:   category,
			}
			totals[k] = event
			order = append(order, k)
		}
		event.TotalDuration += session.Duration
		event.EventCount++
	}

	ranked := make([]entity.CoreEvent, 0, len(order))
	for _, k := range order {
		ranked = append(ranked, *totals[k])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalDuration > ranked[j].TotalDuration
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// fallbackFocus substitutes the longest sessions of any status when no
// focus activity qualified, so a report never shows an empty "top
// activity". Still stored under the focus category.
func (s *Service) fallbackFocus(ctx context.Context, date time.Time) ([]entity.CoreEvent, error) {
	sessions, err := s.sessions.TopByDuration(ctx, date, fallbackMinSeconds, fallbackLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to run fallback query: %w", err)
	}

	if len(sessions) == 0 {
		return []entity.CoreEvent{{
			Date:       date,
			CleanTitle: entity.NoPrimaryActivity,
			Rank:       1,
			Category:   entity.CategoryFocus,
		}}, nil
	}

	events := make([]entity.CoreEvent, 0, len(sessions))
	for i, session := range sessions {
		events = append(events, entity.CoreEvent{
			Date:          date,
			AppName:       session.ProcessName,
			CleanTitle:    CleanTitle(session.ProcessName, session.WindowTitle),
			TotalDuration: session.Duration,
			EventCount:    1,
			Rank:          i + 1,
			Category:      entity.CategoryFocus,
		})
	}
	return events, nil
}

func (s *Service) lockDate(date time.Time) func() {
	key := utils.FormatDate(date)

	s.mu.Lock()
	lock, ok := s.dateLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.dateLocks[key] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func inCategory(status entity.Status, category entity.EventCategory) bool {
	switch category {
	case entity.CategoryFocus:
		return status.IsFocusLike()
	case entity.CategoryEntertainment:
		return status == entity.StatusEntertainment
	}
	return false
}
