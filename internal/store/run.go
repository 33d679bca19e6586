package store

import (
	"context"

	"launchthat.app/portal/core/db/sqlc"
	"launchthat.app/portal/internal/model"
)

type runStore struct {
	queries *sqlc.Queries
}

func newRunStore(queries *sqlc.Queries) RunStore {
	return &runStore{queries: queries}
}

func (s *runStore) Create(ctx context.Context, run *model.ScenarioRun) error {
	row, err := s.queries.CreateScenarioRun(ctx, sqlc.CreateScenarioRunParams{
		ID:             run.ID,
		OrganizationID: run.OrganizationID,
		ScenarioID:     run.ScenarioID,
		TriggerKey:     run.TriggerKey,
		ConnectionID:   run.ConnectionID,
		IdempotencyKey: run.IdempotencyKey,
		CorrelationID:  run.CorrelationID,
		Status:         string(run.Status),
		Payload:        jsonOrEmpty(run.Payload),
	})
	if err != nil {
		return mapErr(err)
	}
	*run = *toRunModel(row)
	return nil
}

func (s *runStore) GetByID(ctx context.Context, id int64) (*model.ScenarioRun, error) {
	row, err := s.queries.GetScenarioRun(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return toRunModel(row), nil
}

func (s *runStore) ListByIdempotencyKey(ctx context.Context, orgID int64, key string) ([]model.ScenarioRun, error) {
	rows, err := s.queries.ListScenarioRunsByIdempotencyKey(ctx, sqlc.ListScenarioRunsByIdempotencyKeyParams{
		OrganizationID: orgID,
		IdempotencyKey: key,
	})
	if err != nil {
		return nil, err
	}
	return toRunModels(rows), nil
}

func (s *runStore) ListByScenario(ctx context.Context, scenarioID int64, limit int32) ([]model.ScenarioRun, error) {
	rows, err := s.queries.ListScenarioRuns(ctx, sqlc.ListScenarioRunsParams{
		ScenarioID: scenarioID,
		LimitCount: limit,
	})
	if err != nil {
		return nil, err
	}
	return toRunModels(rows), nil
}

func (s *runStore) MarkRunning(ctx context.Context, id int64) error {
	return s.queries.MarkScenarioRunRunning(ctx, id)
}

func (s *runStore) MarkSucceeded(ctx context.Context, id int64, nodesExecuted int32) error {
	return s.queries.MarkScenarioRunSucceeded(ctx, sqlc.MarkScenarioRunSucceededParams{
		ID:            id,
		NodesExecuted: nodesExecuted,
	})
}

func (s *runStore) MarkFailed(ctx context.Context, id int64, code, message string, fatal bool, nodesExecuted int32) error {
	return s.queries.MarkScenarioRunFailed(ctx, sqlc.MarkScenarioRunFailedParams{
		ID:            id,
		ErrorCode:     &code,
		ErrorMessage:  &message,
		IsFatal:       fatal,
		NodesExecuted: nodesExecuted,
	})
}

func (s *runStore) CreateStep(ctx context.Context, step *model.RunStep) error {
	return s.queries.CreateScenarioRunStep(ctx, sqlc.CreateScenarioRunStepParams{
		ID:           step.ID,
		RunID:        step.RunID,
		NodeID:       step.NodeID,
		Step:         step.Step,
		Attempt:      step.Attempt,
		Status:       string(step.Status),
		Output:       step.Output,
		ErrorCode:    step.ErrorCode,
		ErrorMessage: step.ErrorMessage,
		DurationMs:   step.DurationMS,
	})
}

func (s *runStore) ListSteps(ctx context.Context, runID int64) ([]model.RunStep, error) {
	rows, err := s.queries.ListScenarioRunSteps(ctx, runID)
	if err != nil {
		return nil, err
	}
	result := make([]model.RunStep, len(rows))
	for i, row := range rows {
		result[i] = model.RunStep{
			ID:           row.ID,
			RunID:        row.RunID,
			NodeID:       row.NodeID,
			Step:         row.Step,
			Attempt:      row.Attempt,
			Status:       model.StepStatus(row.Status),
			Output:       row.Output,
			ErrorCode:    row.ErrorCode,
			ErrorMessage: row.ErrorMessage,
			DurationMS:   row.DurationMs,
			CreatedAt:    row.CreatedAt.Time,
		}
	}
	return result, nil
}

func toRunModel(row sqlc.ScenarioRun) *model.ScenarioRun {
	return &model.ScenarioRun{
		ID:             row.ID,
		OrganizationID: row.OrganizationID,
		ScenarioID:     row.ScenarioID,
		TriggerKey:     row.TriggerKey,
		ConnectionID:   row.ConnectionID,
		IdempotencyKey: row.IdempotencyKey,
		CorrelationID:  row.CorrelationID,
		Status:         model.RunStatus(row.Status),
		Payload:        row.Payload,
		ErrorCode:      row.ErrorCode,
		ErrorMessage:   row.ErrorMessage,
		IsFatal:        row.IsFatal,
		NodesExecuted:  row.NodesExecuted,
		StartedAt:      timePtr(row.StartedAt),
		FinishedAt:     timePtr(row.FinishedAt),
		CreatedAt:      row.CreatedAt.Time,
	}
}

func toRunModels(rows []sqlc.ScenarioRun) []model.ScenarioRun {
	result := make([]model.ScenarioRun, len(rows))
	for i, row := range rows {
		result[i] = *toRunModel(row)
	}
	return result
}
