package model

import (
	"encoding/json"
	"time"
)

type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

type ScenarioRun struct {
	ID             int64           `json:"id"`
	OrganizationID int64           `json:"organization_id"`
	ScenarioID     int64           `json:"scenario_id"`
	TriggerKey     string          `json:"trigger_key"`
	ConnectionID   *int64          `json:"connection_id,omitempty"`
	IdempotencyKey string          `json:"idempotency_key"`
	CorrelationID  string          `json:"correlation_id"`
	Status         RunStatus       `json:"status"`
	Payload        json.RawMessage `json:"payload"`
	ErrorCode      *string         `json:"error_code,omitempty"`
	ErrorMessage   *string         `json:"error_message,omitempty"`
	IsFatal        bool            `json:"is_fatal"`
	NodesExecuted  int32           `json:"nodes_executed"`
	StartedAt      *time.Time      `json:"started_at,omitempty"`
	FinishedAt     *time.Time      `json:"finished_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

type StepStatus string

const (
	StepStatusSucceeded StepStatus = "succeeded"
	StepStatusFailed    StepStatus = "failed"
)

type RunStep struct {
	ID           int64           `json:"id"`
	RunID        int64           `json:"run_id"`
	NodeID       int64           `json:"node_id"`
	Step         int32           `json:"step"`
	Attempt      int32           `json:"attempt"`
	Status       StepStatus      `json:"status"`
	Output       json.RawMessage `json:"output,omitempty"`
	ErrorCode    *string         `json:"error_code,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	DurationMS   int64           `json:"duration_ms"`
	CreatedAt    time.Time       `json:"created_at"`
}
