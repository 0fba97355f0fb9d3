package agent

import (
	"context"
	"fmt"

	"github.com/flowstate/flowstate-backend/internal/entity"
	"github.com/flowstate/flowstate-backend/internal/repository"
	"github.com/gofrs/uuid"
)

type AgentService interface {
	CreateAgent(ctx context.Context, req entity.CreateAgentRequest) (*entity.Agent, error)
	GetAgents(ctx context.Context, filter entity.AgentFilter) ([]entity.AgentPublic, error)
	RegenerateAPIKey(ctx context.Context, id uuid.UUID) (*entity.RegenerateAgentKeyResponse, error)
	DeactivateAgent(ctx context.Context, id uuid.UUID) error
	ValidateAPIKey(ctx context.Context, apiKey string) (*entity.Agent, error)
}

type agentService struct {
	repo repository.AgentRepository
}

func NewAgentService(repo repository.AgentRepository) AgentService {
	return &agentService{repo: repo}
}

func (s *agentService) CreateAgent(ctx context.Context, req entity.CreateAgentRequest) (*entity.Agent, error) {
	existing, err := s.repo.GetByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check agent name uniqueness: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("agent name already exists")
	}

	agent := &entity.Agent{Name: req.Name}
	if err := s.repo.Create(ctx, agent); err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	return agent, nil
}

func (s *agentService) GetAgents(ctx context.Context, filter entity.AgentFilter) ([]entity.AgentPublic, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}

	agents, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get agents: %w", err)
	}

	public := make([]entity.AgentPublic, len(agents))
	for i, agent := range agents {
		public[i] = entity.AgentPublic{
			ID:         agent.ID,
			Name:       agent.Name,
			IsActive:   agent.IsActive,
			CreatedAt:  agent.CreatedAt,
			LastSeenAt: agent.LastSeenAt,
		}
	}

	return public, nil
}

func (s *agentService) RegenerateAPIKey(ctx context.Context, id uuid.UUID) (*entity.RegenerateAgentKeyResponse, error) {
	apiKey, err := s.repo.RegenerateAPIKey(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to regenerate API key: %w", err)
	}

	return &entity.RegenerateAgentKeyResponse{ID: id, APIKey: apiKey}, nil
}

func (s *agentService) DeactivateAgent(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("failed to deactivate agent: %w", err)
	}
	return nil
}

func (s *agentService) ValidateAPIKey(ctx context.Context, apiKey string) (*entity.Agent, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	agent, err := s.repo.GetByAPIKey(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get agent by API key: %w", err)
	}
	if agent == nil {
		return nil, fmt.Errorf("invalid API key")
	}

	go func() {
		s.repo.UpdateLastSeen(context.Background(), apiKey)
	}()

	return agent, nil
}
