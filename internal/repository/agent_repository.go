package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flowstate/flowstate-backend/internal/entity"
	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
)

type AgentRepository interface {
	Create(ctx context.Context, agent *entity.Agent) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Agent, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*entity.Agent, error)
	GetByName(ctx context.Context, name string) (*entity.Agent, error)
	GetAll(ctx context.Context, filter entity.AgentFilter) ([]entity.Agent, error)
	RegenerateAPIKey(ctx context.Context, id uuid.UUID) (string, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	UpdateLastSeen(ctx context.Context, apiKey string) error
}

type agentRepository struct {
	db *sqlx.DB
}

func NewAgentRepository(db *sqlx.DB) AgentRepository {
	return &agentRepository{db: db}
}

func (r *agentRepository) Create(ctx context.Context, agent *entity.Agent) error {
	agent.ID = uuid.Must(uuid.NewV4())
	agent.CreatedAt = time.Now()
	agent.UpdatedAt = time.Now()
	agent.IsActive = true

	apiKey, err := r.generateAPIKey()
	if err != nil {
		return fmt.Errorf("failed to generate API key: %w", err)
	}
	agent.APIKey = apiKey

	query := `
		INSERT INTO agents (id, name, api_key, is_active, created_at, updated_at)
		VALUES (:id, :name, :api_key, :is_active, :created_at, :updated_at)`

	_, err = r.db.NamedExecContext(ctx, query, agent)
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}

	return nil
}

func (r *agentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Agent, error) {
	var agent entity.Agent
	query := `SELECT * FROM agents WHERE id = $1`

	err := r.db.GetContext(ctx, &agent, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get agent by ID: %w", err)
	}

	return &agent, nil
}

func (r *agentRepository) GetByAPIKey(ctx context.Context, apiKey string) (*entity.Agent, error) {
	var agent entity.Agent
	query := `SELECT * FROM agents WHERE api_key = $1 AND is_active = true`

	err := r.db.GetContext(ctx, &agent, query, apiKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get agent by API key: %w", err)
	}

	return &agent, nil
}

func (r *agentRepository) GetByName(ctx context.Context, name string) (*entity.Agent, error) {
	var agent entity.Agent
	query := `SELECT * FROM agents WHERE name = $1`

	err := r.db.GetContext(ctx, &agent, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get agent by name: %w", err)
	}

	return &agent, nil
}

func (r *agentRepository) GetAll(ctx context.Context, filter entity.AgentFilter) ([]entity.Agent, error) {
	var agents []entity.Agent

	query := "SELECT * FROM agents WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.Name != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argIndex)
		args = append(args, "%"+strings.TrimSpace(filter.Name)+"%")
		argIndex++
	}

	if filter.IsActive != nil {
		query += fmt.Sprintf(" AND is_active = $%d", argIndex)
		args = append(args, *filter.IsActive)
		argIndex++
	}

	query += " ORDER BY created_at DESC"

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

	err := r.db.SelectContext(ctx, &agents, query, args...)
	return agents, err
}

func (r *agentRepository) RegenerateAPIKey(ctx context.Context, id uuid.UUID) (string, error) {
	apiKey, err := r.generateAPIKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate API key: %w", err)
	}

	query := `
		UPDATE agents
		SET api_key = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, apiKey, id)
	if err != nil {
		return "", fmt.Errorf("failed to regenerate API key: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return "", err
	}
	if rowsAffected == 0 {
		return "", sql.ErrNoRows
	}

	return apiKey, nil
}

func (r *agentRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE agents SET is_active = false, updated_at = CURRENT_TIMESTAMP WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate agent: %w", err)
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

func (r *agentRepository) UpdateLastSeen(ctx context.Context, apiKey string) error {
	query := `UPDATE agents SET last_seen_at = CURRENT_TIMESTAMP WHERE api_key = $1`

	_, err := r.db.ExecContext(ctx, query, apiKey)
	return err
}

func (r *agentRepository) generateAPIKey() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return "fs_" + hex.EncodeToString(bytes), nil
}
