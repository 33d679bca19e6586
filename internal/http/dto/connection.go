package dto

import (
	"time"

	"launchthat.app/portal/internal/model"
)

type CreateConnectionRequest struct {
	AppKey      string            `json:"app_key" binding:"required,max=100"`
	Name        string            `json:"name" binding:"max=255"`
	Credentials model.Credentials `json:"credentials"`
	Config      map[string]any    `json:"config,omitempty"`
}

type SetConnectionStatusRequest struct {
	Status model.ConnectionStatus `json:"status" binding:"required"`
}

type UpdateCredentialsRequest struct {
	Credentials model.Credentials `json:"credentials" binding:"required"`
}

// ConnectionResponse never carries credentials.
type ConnectionResponse struct {
	ID         int64                  `json:"id,string"`
	AppKey     string                 `json:"app_key"`
	Name       string                 `json:"name"`
	Status     model.ConnectionStatus `json:"status"`
	Config     map[string]any         `json:"config"`
	LastUsedAt *time.Time             `json:"last_used_at,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

func ToConnectionResponse(c *model.Connection) ConnectionResponse {
	cfg := c.Config
	if cfg == nil {
		cfg = map[string]any{}
	}
	return ConnectionResponse{
		ID:         c.ID,
		AppKey:     c.AppKey,
		Name:       c.Name,
		Status:     c.Status,
		Config:     cfg,
		LastUsedAt: c.LastUsedAt,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
