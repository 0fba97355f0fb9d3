package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/flowstate/flowstate-backend/internal/entity"
	"github.com/flowstate/flowstate-backend/pkg/utils"
	"github.com/jmoiron/sqlx"
)

type DailyStatRepository interface {
	Get(ctx context.Context, date time.Time) (*entity.DailyStat, error)
	GetRange(ctx context.Context, from, to time.Time) ([]entity.DailyStat, error)
	AddTime(ctx context.Context, date time.Time, status entity.Status, seconds int64) error
	SetStreak(ctx context.Context, date time.Time, current int64) error
	AddWin(ctx context.Context, date time.Time) error
}

type dailyStatRepository struct {
	db *sqlx.DB
}

func NewDailyStatRepository(db *sqlx.DB) DailyStatRepository {
	return &dailyStatRepository{db: db}
}

func (r *dailyStatRepository) Get(ctx context.Context, date time.Time) (*entity.DailyStat, error) {
	var stat entity.DailyStat
	query := `SELECT * FROM daily_stats WHERE date = $1`

	err := r.db.GetContext(ctx, &stat, query, utils.FormatDate(date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get daily stat: %w", err)
	}

	return &stat, nil
}

func (r *dailyStatRepository) GetRange(ctx context.Context, from, to time.Time) ([]entity.DailyStat, error) {
	var stats []entity.DailyStat
	query := `SELECT * FROM daily_stats WHERE date >= $1 AND date <= $2 ORDER BY date ASC`

	err := r.db.SelectContext(ctx, &stats, query, utils.FormatDate(from), utils.FormatDate(to))
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats range: %w", err)
	}

	return stats, nil
}

// AddTime credits committed seconds to a day's focus or entertainment
// total. The upsert is a single atomic statement so concurrent writers
// (live loop, maintenance scripts) never lose an update. The cached
// efficiency score is refreshed by the same statement.
func (r *dailyStatRepository) AddTime(ctx context.Context, date time.Time, status entity.Status, seconds int64) error {
	var focusSeconds, entertainmentSeconds int64
	switch {
	case status.IsFocusLike():
		focusSeconds = seconds
	case status == entity.StatusEntertainment:
		entertainmentSeconds = seconds
	default:
		return nil
	}

	query := `
		INSERT INTO daily_stats (date, total_focus_time, total_entertainment_time, efficiency_score, updated_at)
		VALUES ($1, $2, $3, LEAST(100, ROUND(60 + $2 / 3600.0 * 5))::int, CURRENT_TIMESTAMP)
		ON CONFLICT (date) DO UPDATE SET
			total_focus_time = daily_stats.total_focus_time + EXCLUDED.total_focus_time,
			total_entertainment_time = daily_stats.total_entertainment_time + EXCLUDED.total_entertainment_time,
			efficiency_score = LEAST(100, ROUND(60 + (daily_stats.total_focus_time + EXCLUDED.total_focus_time) / 3600.0 * 5 + daily_stats.willpower_wins * 2))::int,
			updated_at = CURRENT_TIMESTAMP`

	_, err := r.db.ExecContext(ctx, query, utils.FormatDate(date), focusSeconds, entertainmentSeconds)
	if err != nil {
		return fmt.Errorf("failed to add time to daily stat: %w", err)
	}

	return nil
}

func (r *dailyStatRepository) SetStreak(ctx context.Context, date time.Time, current int64) error {
	query := `
		INSERT INTO daily_stats (date, current_focus_streak, max_focus_streak, updated_at)
		VALUES ($1, $2, GREATEST($2, 0), CURRENT_TIMESTAMP)
		ON CONFLICT (date) DO UPDATE SET
			current_focus_streak = EXCLUDED.current_focus_streak,
			max_focus_streak = GREATEST(daily_stats.max_focus_streak, EXCLUDED.current_focus_streak),
			updated_at = CURRENT_TIMESTAMP`

	_, err := r.db.ExecContext(ctx, query, utils.FormatDate(date), current)
	if err != nil {
		return fmt.Errorf("failed to set focus streak: %w", err)
	}

	return nil
}

func (r *dailyStatRepository) AddWin(ctx context.Context, date time.Time) error {
	query := `
		INSERT INTO daily_stats (date, willpower_wins, efficiency_score, updated_at)
		VALUES ($1, 1, 62, CURRENT_TIMESTAMP)
		ON CONFLICT (date) DO UPDATE SET
			willpower_wins = daily_stats.willpower_wins + 1,
			efficiency_score = LEAST(100, ROUND(60 + daily_stats.total_focus_time / 3600.0 * 5 + (daily_stats.willpower_wins + 1) * 2))::int,
			updated_at = CURRENT_TIMESTAMP`

	_, err := r.db.ExecContext(ctx, query, utils.FormatDate(date))
	if err != nil {
		return fmt.Errorf("failed to add willpower win: %w", err)
	}

	return nil
}
