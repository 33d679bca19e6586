package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Fields flow through context enrichment so business identifiers (organization_id,
// run_id, etc.) show up on every log line without being passed around by hand.
type LogFields struct {
	OrganizationID *int64  // Tenant
	UserID         *int64  // Acting user
	ScenarioID     *int64  // Scenario being edited or executed
	RunID          *int64  // Scenario run
	CorrelationID  *string // Correlation id shared by all runs of one inbound event
	MessageID      *string // Redis stream message ID
	TaskType       *string // Queue task type
	Component      string  // Component name, e.g. "portal.worker.scheduler"
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.OrganizationID != nil {
		result.OrganizationID = next.OrganizationID
	}
	if next.UserID != nil {
		result.UserID = next.UserID
	}
	if next.ScenarioID != nil {
		result.ScenarioID = next.ScenarioID
	}
	if next.RunID != nil {
		result.RunID = next.RunID
	}
	if next.CorrelationID != nil {
		result.CorrelationID = next.CorrelationID
	}
	if next.MessageID != nil {
		result.MessageID = next.MessageID
	}
	if next.TaskType != nil {
		result.TaskType = next.TaskType
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{RunID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen characters, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
