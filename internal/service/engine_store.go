package service

import (
	"context"
	"errors"
	"fmt"

	"launchthat.app/portal/common/id"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/scenario"
	"launchthat.app/portal/internal/store"
)

// engineStore backs the scenario engine with the service stores.
type engineStore struct {
	stores StoreProvider
}

func NewEngineStore(stores StoreProvider) scenario.Store {
	return &engineStore{stores: stores}
}

func (s *engineStore) GetScenario(ctx context.Context, scenarioID int64) (*model.Scenario, error) {
	sc, err := s.stores.Scenarios().GetByID(ctx, scenarioID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, scenario.ErrScenarioNotFound
	}
	return sc, err
}

func (s *engineStore) ListNodes(ctx context.Context, scenarioID int64) ([]model.Node, error) {
	return s.stores.Nodes().List(ctx, scenarioID)
}

func (s *engineStore) ListEdges(ctx context.Context, scenarioID int64) ([]model.Edge, error) {
	return s.stores.Edges().List(ctx, scenarioID)
}

func (s *engineStore) MarkRunning(ctx context.Context, runID int64) error {
	return s.stores.Runs().MarkRunning(ctx, runID)
}

func (s *engineStore) MarkSucceeded(ctx context.Context, runID int64, nodesExecuted int32) error {
	return s.stores.Runs().MarkSucceeded(ctx, runID, nodesExecuted)
}

func (s *engineStore) MarkFailed(ctx context.Context, runID int64, code, message string, fatal bool, nodesExecuted int32) error {
	return s.stores.Runs().MarkFailed(ctx, runID, code, message, fatal, nodesExecuted)
}

func (s *engineStore) RecordStep(ctx context.Context, step *model.RunStep) error {
	step.ID = id.New()
	if err := s.stores.Runs().CreateStep(ctx, step); err != nil {
		return fmt.Errorf("recording step: %w", err)
	}
	return nil
}
