package entity

import (
	"time"

	"github.com/gofrs/uuid"
)

// Agent is a desktop tracker instance authorized to push observations,
// identified by an API key.
type Agent struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	APIKey     string     `json:"apiKey" db:"api_key"`
	IsActive   bool       `json:"isActive" db:"is_active"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`
	LastSeenAt *time.Time `json:"lastSeenAt" db:"last_seen_at"`
}

type AgentPublic struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	IsActive   bool       `json:"isActive"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastSeenAt *time.Time `json:"lastSeenAt"`
}

type CreateAgentRequest struct {
	Name string `json:"name" binding:"required,min=3,max=100"`
}

type RegenerateAgentKeyResponse struct {
	ID     uuid.UUID `json:"id"`
	APIKey string    `json:"apiKey"`
}

type AgentFilter struct {
	Name     string `form:"name"`
	IsActive *bool  `form:"isActive"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}
