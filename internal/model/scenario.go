package model

import (
	"encoding/json"
	"time"
)

type ScenarioStatus string

const (
	ScenarioStatusDraft    ScenarioStatus = "draft"
	ScenarioStatusActive   ScenarioStatus = "active"
	ScenarioStatusPaused   ScenarioStatus = "paused"
	ScenarioStatusArchived ScenarioStatus = "archived"
)

func (s ScenarioStatus) Valid() bool {
	switch s {
	case ScenarioStatusDraft, ScenarioStatusActive, ScenarioStatusPaused, ScenarioStatusArchived:
		return true
	}
	return false
}

type ScenarioType string

const (
	ScenarioTypeGeneral  ScenarioType = "general"
	ScenarioTypeCheckout ScenarioType = "checkout"
)

const (
	TriggerManual   = "manual"
	TriggerSchedule = "schedule"
)

type Scenario struct {
	ID              int64           `json:"id"`
	OrganizationID  int64           `json:"organization_id"`
	OwnerID         int64           `json:"owner_id"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	Status          ScenarioStatus  `json:"status"`
	ScenarioType    ScenarioType    `json:"scenario_type"`
	Slug            *string         `json:"slug,omitempty"`
	TriggerKey      string          `json:"trigger_key"`
	TriggerConfig   json.RawMessage `json:"trigger_config"`
	Enabled         bool            `json:"enabled"`
	Schedule        *string         `json:"schedule,omitempty"`
	Version         int32           `json:"version"`
	DraftConfig     json.RawMessage `json:"draft_config"`
	PublishedConfig json.RawMessage `json:"published_config,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type NodeType string

const (
	NodeTypeLogger            NodeType = "logger"
	NodeTypeHTTPRequest       NodeType = "http_request"
	NodeTypeDataTransform     NodeType = "data_transform"
	NodeTypeWebhookSend       NodeType = "webhook_send"
	NodeTypeCheckout          NodeType = "checkout"
	NodeTypeOrderConfirmation NodeType = "order_confirmation"
)

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Node struct {
	ID         int64           `json:"id"`
	ScenarioID int64           `json:"scenario_id"`
	Type       NodeType        `json:"type"`
	Label      string          `json:"label"`
	Config     json.RawMessage `json:"config"`
	Position   Position        `json:"position"`
	Order      int32           `json:"order"`
	IsSystem   bool            `json:"is_system"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// DisplayName is the label, or the type when unlabelled.
func (n Node) DisplayName() string {
	if n.Label != "" {
		return n.Label
	}
	return string(n.Type)
}

type Edge struct {
	ID           int64           `json:"id"`
	ScenarioID   int64           `json:"scenario_id"`
	SourceNodeID int64           `json:"source_node_id"`
	TargetNodeID int64           `json:"target_node_id"`
	Mapping      json.RawMessage `json:"mapping,omitempty"`
	Label        *string         `json:"label,omitempty"`
	Order        int32           `json:"order"`
	CreatedAt    time.Time       `json:"created_at"`
}
