package stats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/flowstate/flowstate-backend/internal/entity"
	"github.com/flowstate/flowstate-backend/internal/repository"
	redisservice "github.com/flowstate/flowstate-backend/internal/service/redis"
	"github.com/flowstate/flowstate-backend/pkg/utils"
)

const (
	maxQueryDays   = 90
	periodCacheTTL = 10 * time.Minute
)

// Service recomputes the per-date read models from session rows. Jobs
// for different dates may run concurrently; one date is serialized so
// a delete+insert sequence never interleaves with itself.
type Service struct {
	sessions repository.SessionRepository
	daily    repository.DailyStatRepository
	period   repository.PeriodStatRepository
	cache    *redisservice.Service

	mu        sync.Mutex
	dateLocks map[string]*sync.Mutex
}

func NewService(sessions repository.SessionRepository, daily repository.DailyStatRepository, period repository.PeriodStatRepository, cache *redisservice.Service) *Service {
	return &Service{
		sessions:  sessions,
		daily:     daily,
		period:    period,
		cache:     cache,
		dateLocks: make(map[string]*sync.Mutex),
	}
}

// RecomputeDay rebuilds a date's PeriodStat from its session rows and
// replaces the stored row. Idempotent: unchanged sessions produce an
// identical row.
func (s *Service) RecomputeDay(ctx context.Context, date time.Time) (*entity.PeriodStat, error) {
	date = utils.DateOf(date)

	unlock := s.lockDate(date)
	defer unlock()

	sessions, err := s.sessions.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	dailyStat, err := s.daily.Get(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily stat: %w", err)
	}

	stat := ComputePeriodStat(date, sessions, dailyStat)

	if err := s.period.Replace(ctx, &stat); err != nil {
		return nil, fmt.Errorf("failed to replace period stat: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, periodCacheKey(date), stat, periodCacheTTL)
	}

	return &stat, nil
}

// DailyStat returns the incrementally-maintained row, or derives an
// equivalent one from raw sessions when the row is missing (cold data
// written before the incremental path existed).
func (s *Service) DailyStat(ctx context.Context, date time.Time) (*entity.DailyStat, error) {
	date = utils.DateOf(date)

	stat, err := s.daily.Get(ctx, date)
	if err != nil {
		return nil, err
	}
	if stat != nil {
		return stat, nil
	}

	sessions, err := s.sessions.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	derived := DeriveDailyStat(date, sessions)
	return &derived, nil
}

// PeriodRange returns PeriodStats for each date in [from, to],
// recomputing any date that has no stored row yet.
func (s *Service) PeriodRange(ctx context.Context, from, to time.Time) ([]entity.PeriodStat, error) {
	from, to = utils.DateOf(from), utils.DateOf(to)
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	stored, err := s.period.GetRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]entity.PeriodStat, len(stored))
	for _, stat := range stored {
		byDate[utils.FormatDate(stat.Date)] = stat
	}

	var result []entity.PeriodStat
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		if stat, ok := byDate[utils.FormatDate(date)]; ok {
			result = append(result, stat)
			continue
		}

		stat, err := s.RecomputeDay(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("failed to recompute %s: %w", utils.FormatDate(date), err)
		}
		result = append(result, *stat)
	}

	return result, nil
}

// RecomputeRange rebuilds every date in [from, to]. A failing date
// aborts only itself; the remaining dates are still attempted.
func (s *Service) RecomputeRange(ctx context.Context, from, to time.Time) (recomputed int, failed []string, err error) {
	from, to = utils.DateOf(from), utils.DateOf(to)
	if err := validateRange(from, to); err != nil {
		return 0, nil, err
	}

	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		if _, err := s.RecomputeDay(ctx, date); err != nil {
			failed = append(failed, utils.FormatDate(date))
			continue
		}
		recomputed++
	}

	return recomputed, failed, nil
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

func validateRange(from, to time.Time) error {
	if to.Before(from) {
		return fmt.Errorf("to must not be before from")
	}
	if to.Sub(from) > maxQueryDays*24*time.Hour {
		return fmt.Errorf("period cannot exceed %d days", maxQueryDays)
	}
	return nil
}

func periodCacheKey(date time.Time) string {
	return "period_stat:" + utils.FormatDate(date)
}
