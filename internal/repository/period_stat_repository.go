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

type PeriodStatRepository interface {
	Replace(ctx context.Context, stat *entity.PeriodStat) error
	Get(ctx context.Context, date time.Time) (*entity.PeriodStat, error)
	GetRange(ctx context.Context, from, to time.Time) ([]entity.PeriodStat, error)
}

type periodStatRepository struct {
	db *sqlx.DB
}

func NewPeriodStatRepository(db *sqlx.DB) PeriodStatRepository {
	return &periodStatRepository{db: db}
}

// Replace swaps out a date's row wholesale inside one transaction.
// Recomputed read models are never patched in place, so a row is
// always consistent with the session table it was derived from.
func (r *periodStatRepository) Replace(ctx context.Context, stat *entity.PeriodStat) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	date := utils.FormatDate(stat.Date)

	if _, err = tx.ExecContext(ctx, `DELETE FROM period_stats WHERE date = $1`, date); err != nil {
		return fmt.Errorf("failed to delete period stat: %w", err)
	}

	query := `
		INSERT INTO period_stats (date, total_focus, max_streak, willpower_wins, peak_hour, efficiency_score, daily_summary, focus_fragmentation_ratio, context_switch_freq, ai_insight, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, CURRENT_TIMESTAMP)`

	_, err = tx.ExecContext(ctx, query,
		date,
		stat.TotalFocus,
		stat.MaxStreak,
		stat.WillpowerWins,
		stat.PeakHour,
		stat.EfficiencyScore,
		stat.DailySummary,
		stat.FragmentationRatio,
		stat.ContextSwitchFreq,
		stat.AIInsight,
	)
	if err != nil {
		return fmt.Errorf("failed to insert period stat: %w", err)
	}

	return tx.Commit()
}

func (r *periodStatRepository) Get(ctx context.Context, date time.Time) (*entity.PeriodStat, error) {
	var stat entity.PeriodStat
	query := `SELECT * FROM period_stats WHERE date = $1`

	err := r.db.GetContext(ctx, &stat, query, utils.FormatDate(date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get period stat: %w", err)
	}

	return &stat, nil
}

func (r *periodStatRepository) GetRange(ctx context.Context, from, to time.Time) ([]entity.PeriodStat, error) {
	var stats []entity.PeriodStat
	query := `SELECT * FROM period_stats WHERE date >= $1 AND date <= $2 ORDER BY date ASC`

	err := r.db.SelectContext(ctx, &stats, query, utils.FormatDate(from), utils.FormatDate(to))
	if err != nil {
		return nil, fmt.Errorf("failed to get period stats range: %w", err)
	}

	return stats, nil
}
