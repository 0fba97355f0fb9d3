package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/flowstate/flowstate-backend/internal/entity"
	"github.com/flowstate/flowstate-backend/pkg/utils"
	"github.com/jmoiron/sqlx"
)

type CoreEventRepository interface {
	Replace(ctx context.Context, date time.Time, category entity.EventCategory, events []entity.CoreEvent) error
	GetByDate(ctx context.Context, date time.Time) ([]entity.CoreEvent, error)
	GetRange(ctx context.Context, from, to time.Time) ([]entity.CoreEvent, error)
}

type coreEventRepository struct {
	db *sqlx.DB
}

func NewCoreEventRepository(db *sqlx.DB) CoreEventRepository {
	return &coreEventRepository{db: db}
}

// Replace rebuilds one (date, category) ranking inside a transaction.
func (r *coreEventRepository) Replace(ctx context.Context, date time.Time, category entity.EventCategory, events []entity.CoreEvent) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	formatted := utils.FormatDate(date)

	_, err = tx.ExecContext(ctx, `DELETE FROM core_events WHERE date = $1 AND category = $2`, formatted, category)
	if err != nil {
		return fmt.Errorf("failed to delete core events: %w", err)
	}

	query := `
		INSERT INTO core_events (date, app_name, clean_title, total_duration, event_count, rank, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, event := range events {
		_, err = tx.ExecContext(ctx, query,
			formatted,
			event.AppName,
			event.CleanTitle,
			event.TotalDuration,
			event.EventCount,
			event.Rank,
			category,
		)
		if err != nil {
			return fmt.Errorf("failed to insert core event: %w", err)
		}
	}

	return tx.Commit()
}

func (r *coreEventRepository) GetByDate(ctx context.Context, date time.Time) ([]entity.CoreEvent, error) {
	var events []entity.CoreEvent
	query := `SELECT * FROM core_events WHERE date = $1 ORDER BY category ASC, rank ASC`

	err := r.db.SelectContext(ctx, &events, query, utils.FormatDate(date))
	if err != nil {
		return nil, fmt.Errorf("failed to get core events: %w", err)
	}

	return events, nil
}

func (r *coreEventRepository) GetRange(ctx context.Context, from, to time.Time) ([]entity.CoreEvent, error) {
	var events []entity.CoreEvent
	query := `SELECT * FROM core_events WHERE date >= $1 AND date <= $2 ORDER BY date ASC, category ASC, rank ASC`

	err := r.db.SelectContext(ctx, &events, query, utils.FormatDate(from), utils.FormatDate(to))
	if err != nil {
		return nil, fmt.Errorf("failed to get core events range: %w", err)
	}

	return events, nil
}
