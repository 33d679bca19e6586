package dto

import (
	"encoding/json"
	"time"

	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/service"
)

type CreateScenarioRequest struct {
	Name          string             `json:"name" binding:"required,min=1,max=255"`
	Description   *string            `json:"description,omitempty"`
	ScenarioType  model.ScenarioType `json:"scenario_type,omitempty"`
	Slug          *string            `json:"slug,omitempty"`
	TriggerKey    string             `json:"trigger_key,omitempty"`
	TriggerConfig json.RawMessage    `json:"trigger_config,omitempty"`
	Schedule      *string            `json:"schedule,omitempty"`
	DraftConfig   json.RawMessage    `json:"draft_config,omitempty"`
}

func (r CreateScenarioRequest) ToInput() service.CreateScenarioInput {
	return service.CreateScenarioInput{
		Name:          r.Name,
		Description:   r.Description,
		ScenarioType:  r.ScenarioType,
		Slug:          r.Slug,
		TriggerKey:    r.TriggerKey,
		TriggerConfig: r.TriggerConfig,
		Schedule:      r.Schedule,
		DraftConfig:   r.DraftConfig,
	}
}

type UpdateScenarioRequest struct {
	Name          *string               `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Description   *string               `json:"description,omitempty"`
	Status        *model.ScenarioStatus `json:"status,omitempty"`
	TriggerKey    *string               `json:"trigger_key,omitempty"`
	TriggerConfig json.RawMessage       `json:"trigger_config,omitempty"`
	Schedule      *string               `json:"schedule,omitempty"`
	DraftConfig   json.RawMessage       `json:"draft_config,omitempty"`
}

func (r UpdateScenarioRequest) ToInput() service.UpdateScenarioInput {
	return service.UpdateScenarioInput{
		Name:          r.Name,
		Description:   r.Description,
		Status:        r.Status,
		TriggerKey:    r.TriggerKey,
		TriggerConfig: r.TriggerConfig,
		Schedule:      r.Schedule,
		DraftConfig:   r.DraftConfig,
	}
}

type SetEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

type ScenarioResponse struct {
	ID              int64                `json:"id,string"`
	OrganizationID  int64                `json:"organization_id,string"`
	OwnerID         int64                `json:"owner_id,string"`
	Name            string               `json:"name"`
	Description     *string              `json:"description,omitempty"`
	Status          model.ScenarioStatus `json:"status"`
	ScenarioType    model.ScenarioType   `json:"scenario_type"`
	Slug            *string              `json:"slug,omitempty"`
	TriggerKey      string               `json:"trigger_key"`
	TriggerConfig   json.RawMessage      `json:"trigger_config,omitempty"`
	Enabled         bool                 `json:"enabled"`
	Schedule        *string              `json:"schedule,omitempty"`
	Version         int32                `json:"version"`
	DraftConfig     json.RawMessage      `json:"draft_config,omitempty"`
	PublishedConfig json.RawMessage      `json:"published_config,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func ToScenarioResponse(s *model.Scenario) ScenarioResponse {
	return ScenarioResponse{
		ID:              s.ID,
		OrganizationID:  s.OrganizationID,
		OwnerID:         s.OwnerID,
		Name:            s.Name,
		Description:     s.Description,
		Status:          s.Status,
		ScenarioType:    s.ScenarioType,
		Slug:            s.Slug,
		TriggerKey:      s.TriggerKey,
		TriggerConfig:   s.TriggerConfig,
		Enabled:         s.Enabled,
		Schedule:        s.Schedule,
		Version:         s.Version,
		DraftConfig:     s.DraftConfig,
		PublishedConfig: s.PublishedConfig,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

type ScenarioDetailResponse struct {
	ScenarioResponse
	Nodes []NodeResponse `json:"nodes"`
	Edges []EdgeResponse `json:"edges"`
}

type AddNodeRequest struct {
	Type     model.NodeType  `json:"type" binding:"required"`
	Label    string          `json:"label" binding:"max=255"`
	Config   json.RawMessage `json:"config,omitempty"`
	Position model.Position  `json:"position"`
}

type UpdateNodeRequest struct {
	Label    *string         `json:"label,omitempty" binding:"omitempty,max=255"`
	Config   json.RawMessage `json:"config,omitempty"`
	Position *model.Position `json:"position,omitempty"`
}

type NodeResponse struct {
	ID        int64           `json:"id,string"`
	Type      model.NodeType  `json:"type"`
	Label     string          `json:"label"`
	Config    json.RawMessage `json:"config,omitempty"`
	Position  model.Position  `json:"position"`
	Order     int32           `json:"order"`
	IsSystem  bool            `json:"is_system"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func ToNodeResponse(n *model.Node) NodeResponse {
	return NodeResponse{
		ID:        n.ID,
		Type:      n.Type,
		Label:     n.Label,
		Config:    n.Config,
		Position:  n.Position,
		Order:     n.Order,
		IsSystem:  n.IsSystem,
		UpdatedAt: n.UpdatedAt,
	}
}

type ConnectRequest struct {
	SourceNodeID int64           `json:"source_node_id,string" binding:"required"`
	TargetNodeID int64           `json:"target_node_id,string" binding:"required"`
	Mapping      json.RawMessage `json:"mapping,omitempty"`
	Label        *string         `json:"label,omitempty"`
}

type EdgeResponse struct {
	ID           int64           `json:"id,string"`
	SourceNodeID int64           `json:"source_node_id,string"`
	TargetNodeID int64           `json:"target_node_id,string"`
	Mapping      json.RawMessage `json:"mapping,omitempty"`
	Label        *string         `json:"label,omitempty"`
	Order        int32           `json:"order"`
}

func ToEdgeResponse(e *model.Edge) EdgeResponse {
	return EdgeResponse{
		ID:           e.ID,
		SourceNodeID: e.SourceNodeID,
		TargetNodeID: e.TargetNodeID,
		Mapping:      e.Mapping,
		Label:        e.Label,
		Order:        e.Order,
	}
}

type RunRequest struct {
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RunResponse struct {
	ID             int64           `json:"id,string"`
	ScenarioID     int64           `json:"scenario_id,string"`
	TriggerKey     string          `json:"trigger_key"`
	ConnectionID   *string         `json:"connection_id,omitempty"`
	IdempotencyKey string          `json:"idempotency_key"`
	CorrelationID  string          `json:"correlation_id"`
	Status         model.RunStatus `json:"status"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	ErrorCode      *string         `json:"error_code,omitempty"`
	ErrorMessage   *string         `json:"error_message,omitempty"`
	IsFatal        bool            `json:"is_fatal"`
	NodesExecuted  int32           `json:"nodes_executed"`
	StartedAt      *time.Time      `json:"started_at,omitempty"`
	FinishedAt     *time.Time      `json:"finished_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func ToRunResponse(r *model.ScenarioRun) RunResponse {
	return RunResponse{
		ID:             r.ID,
		ScenarioID:     r.ScenarioID,
		TriggerKey:     r.TriggerKey,
		ConnectionID:   FormatID(r.ConnectionID),
		IdempotencyKey: r.IdempotencyKey,
		CorrelationID:  r.CorrelationID,
		Status:         r.Status,
		Payload:        r.Payload,
		ErrorCode:      r.ErrorCode,
		ErrorMessage:   r.ErrorMessage,
		IsFatal:        r.IsFatal,
		NodesExecuted:  r.NodesExecuted,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
		CreatedAt:      r.CreatedAt,
	}
}

type RunStepResponse struct {
	NodeID       int64            `json:"node_id,string"`
	Step         int32            `json:"step"`
	Attempt      int32            `json:"attempt"`
	Status       model.StepStatus `json:"status"`
	Output       json.RawMessage  `json:"output,omitempty"`
	ErrorCode    *string          `json:"error_code,omitempty"`
	ErrorMessage *string          `json:"error_message,omitempty"`
	DurationMS   int64            `json:"duration_ms"`
}

func ToRunStepResponse(s *model.RunStep) RunStepResponse {
	return RunStepResponse{
		NodeID:       s.NodeID,
		Step:         s.Step,
		Attempt:      s.Attempt,
		Status:       s.Status,
		Output:       s.Output,
		ErrorCode:    s.ErrorCode,
		ErrorMessage: s.ErrorMessage,
		DurationMS:   s.DurationMS,
	}
}

type RunDetailResponse struct {
	RunResponse
	Steps []RunStepResponse `json:"steps"`
}
