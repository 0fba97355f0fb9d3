package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flowstate/flowstate-backend/internal/entity"
	"github.com/gofrs/uuid"
	uuid2 "github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.WindowSession) error
	Extend(ctx context.Context, id uuid.UUID, addSeconds int64, endTime time.Time, summary *string) error
	Latest(ctx context.Context) (*entity.WindowSession, error)
	GetByDate(ctx context.Context, date time.Time) ([]entity.WindowSession, error)
	GetByFilter(ctx context.Context, filter entity.SessionFilter) ([]entity.WindowSession, error)
	CountByFilter(ctx context.Context, filter entity.SessionFilter) (int, error)
	TopByDuration(ctx context.Context, date time.Time, minDuration int64, limit int) ([]entity.WindowSession, error)
	LoadCursor(ctx context.Context) (entity.MergeCursor, error)
	ClearCursor(ctx context.Context) error
}

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create inserts a new session row and moves the merge cursor to it in
// the same transaction, so a crash never leaves the cursor pointing at
// a session that was not written.
func (r *sessionRepository) Create(ctx context.Context, session *entity.WindowSession) error {
	session.ID = uuid.UUID(uuid2.New())
	session.CreatedAt = time.Now()
	session.UpdatedAt = time.Now()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO window_sessions (id, start_time, end_time, window_title, process_name, status, duration, summary, created_at, updated_at)
		VALUES (:id, :start_time, :end_time, :window_title, :process_name, :status, :duration, :summary, :created_at, :updated_at)`

	if _, err = tx.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	cursorQuery := `
		INSERT INTO merge_cursor (id, session_id, window_title, process_name, updated_at)
		VALUES (1, $1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			session_id = EXCLUDED.session_id,
			window_title = EXCLUDED.window_title,
			process_name = EXCLUDED.process_name,
			updated_at = CURRENT_TIMESTAMP`

	if _, err = tx.ExecContext(ctx, cursorQuery, session.ID, session.WindowTitle, session.ProcessName); err != nil {
		return fmt.Errorf("failed to update merge cursor: %w", err)
	}

	return tx.Commit()
}

func (r *sessionRepository) Extend(ctx context.Context, id uuid.UUID, addSeconds int64, endTime time.Time, summary *string) error {
	query := `
		UPDATE window_sessions
		SET duration = duration + $2,
			end_time = $3,
			summary = COALESCE($4, summary),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, addSeconds, endTime, summary)
	if err != nil {
		return fmt.Errorf("failed to extend session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *sessionRepository) Latest(ctx context.Context) (*entity.WindowSession, error) {
	var session entity.WindowSession
	query := `SELECT * FROM window_sessions ORDER BY end_time DESC LIMIT 1`

	err := r.db.GetContext(ctx, &session, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest session: %w", err)
	}

	return &session, nil
}

func (r *sessionRepository) GetByDate(ctx context.Context, date time.Time) ([]entity.WindowSession, error) {
	var sessions []entity.WindowSession
	query := `
		SELECT * FROM window_sessions
		WHERE start_time >= $1 AND start_time < $2
		ORDER BY start_time ASC`

	err := r.db.SelectContext(ctx, &sessions, query, date, date.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions for date: %w", err)
	}

	return sessions, nil
}

func (r *sessionRepository) GetByFilter(ctx context.Context, filter entity.SessionFilter) ([]entity.WindowSession, error) {
	var sessions []entity.WindowSession

	whereClause, args := r.buildWhereClause(filter)
	argIndex := len(args) + 1

	query := "SELECT * FROM window_sessions" + whereClause + " ORDER BY start_time ASC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
		argIndex++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filter.Offset)
		argIndex++
	}

	err := r.db.SelectContext(ctx, &sessions, query, args...)
	return sessions, err
}

func (r *sessionRepository) CountByFilter(ctx context.Context, filter entity.SessionFilter) (int, error) {
	whereClause, args := r.buildWhereClause(filter)

	var total int
	query := "SELECT COUNT(*) FROM window_sessions" + whereClause

	err := r.db.GetContext(ctx, &total, query, args...)
	return total, err
}

func (r *sessionRepository) TopByDuration(ctx context.Context, date time.Time, minDuration int64, limit int) ([]entity.WindowSession, error) {
	var sessions []entity.WindowSession
	query := `
		SELECT * FROM window_sessions
		WHERE start_time >= $1 AND start_time < $2 AND duration > $3
		ORDER BY duration DESC
		LIMIT $4`

	err := r.db.SelectContext(ctx, &sessions, query, date, date.AddDate(0, 0, 1), minDuration, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top sessions: %w", err)
	}

	return sessions, nil
}

// LoadCursor reads the persisted merge cursor, falling back to the
// most recent session row when the cursor table is empty (cold start
// on a database written by an older version).
func (r *sessionRepository) LoadCursor(ctx context.Context) (entity.MergeCursor, error) {
	var cursor entity.MergeCursor
	query := `SELECT session_id, window_title, process_name FROM merge_cursor WHERE id = 1`

	err := r.db.GetContext(ctx, &cursor, query)
	if err == nil {
		return cursor, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return entity.MergeCursor{}, fmt.Errorf("failed to load merge cursor: %w", err)
	}

	latest, err := r.Latest(ctx)
	if err != nil {
		return entity.MergeCursor{}, err
	}
	if latest == nil {
		return entity.MergeCursor{}, nil
	}

	return entity.MergeCursor{
		SessionID:   latest.ID,
		WindowTitle: latest.WindowTitle,
		ProcessName: latest.ProcessName,
	}, nil
}

func (r *sessionRepository) ClearCursor(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM merge_cursor WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("failed to clear merge cursor: %w", err)
	}
	return nil
}

func (r *sessionRepository) buildWhereClause(filter entity.SessionFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.Date != nil {
		conditions = append(conditions, fmt.Sprintf("start_time >= $%d AND start_time < $%d", argIndex, argIndex+1))
		args = append(args, *filter.Date, filter.Date.AddDate(0, 0, 1))
		argIndex += 2
	}

	if filter.StartTime != nil {
		conditions = append(conditions, fmt.Sprintf("start_time >= $%d", argIndex))
		args = append(args, *filter.StartTime)
		argIndex++
	}

	if filter.EndTime != nil {
		conditions = append(conditions, fmt.Sprintf("start_time < $%d", argIndex))
		args = append(args, *filter.EndTime)
		argIndex++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	if len(conditions) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}
