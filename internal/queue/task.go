package queue

import "encoding/json"

type TaskType string

const (
	TaskTypeScenarioRun     TaskType = "scenario_run"
	TaskTypeWebhookDispatch TaskType = "webhook_dispatch"
)

// Task is a unit of deferred work written to the stream.
type Task struct {
	TaskType       TaskType
	OrganizationID int64
	TraceID        *string
	Attempt        int

	// scenario_run
	RunID      *int64
	ScenarioID *int64

	// webhook_dispatch
	EventType string
	Payload   json.RawMessage
}

func ScenarioRunTask(orgID, scenarioID, runID int64) Task {
	return Task{
		TaskType:       TaskTypeScenarioRun,
		OrganizationID: orgID,
		RunID:          &runID,
		ScenarioID:     &scenarioID,
	}
}

func WebhookDispatchTask(orgID int64, eventType string, payload json.RawMessage) Task {
	return Task{
		TaskType:       TaskTypeWebhookDispatch,
		OrganizationID: orgID,
		EventType:      eventType,
		Payload:        payload,
	}
}
