package store

import (
	"context"

	"launchthat.app/portal/core/db/sqlc"
	"launchthat.app/portal/internal/model"
)

type scenarioStore struct {
	queries *sqlc.Queries
}

func newScenarioStore(queries *sqlc.Queries) ScenarioStore {
	return &scenarioStore{queries: queries}
}

func (s *scenarioStore) Create(ctx context.Context, sc *model.Scenario) error {
	row, err := s.queries.CreateScenario(ctx, sqlc.CreateScenarioParams{
		ID:             sc.ID,
		OrganizationID: sc.OrganizationID,
		OwnerID:        sc.OwnerID,
		Name:           sc.Name,
		Description:    sc.Description,
		Status:         string(sc.Status),
		ScenarioType:   string(sc.ScenarioType),
		Slug:           sc.Slug,
		TriggerKey:     sc.TriggerKey,
		TriggerConfig:  jsonOrEmpty(sc.TriggerConfig),
		Enabled:        sc.Enabled,
		Schedule:       sc.Schedule,
		Version:        sc.Version,
		DraftConfig:    jsonOrEmpty(sc.DraftConfig),
	})
	if err != nil {
		return mapErr(err)
	}
	*sc = *toScenarioModel(row)
	return nil
}

func (s *scenarioStore) GetByID(ctx context.Context, id int64) (*model.Scenario, error) {
	row, err := s.queries.GetScenario(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return toScenarioModel(row), nil
}

func (s *scenarioStore) SlugExists(ctx context.Context, orgID int64, slug string) (bool, error) {
	return s.queries.ScenarioSlugExists(ctx, sqlc.ScenarioSlugExistsParams{
		OrganizationID: orgID,
		Slug:           slug,
	})
}

func (s *scenarioStore) List(ctx context.Context, orgID int64) ([]model.Scenario, error) {
	rows, err := s.queries.ListScenarios(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return toScenarioModels(rows), nil
}

func (s *scenarioStore) ListEnabledByTrigger(ctx context.Context, orgID int64, triggerKey string) ([]model.Scenario, error) {
	rows, err := s.queries.ListEnabledScenariosByTrigger(ctx, sqlc.ListEnabledScenariosByTriggerParams{
		OrganizationID: orgID,
		TriggerKey:     triggerKey,
	})
	if err != nil {
		return nil, err
	}
	return toScenarioModels(rows), nil
}

func (s *scenarioStore) ListScheduled(ctx context.Context) ([]model.Scenario, error) {
	rows, err := s.queries.ListScheduledScenarios(ctx)
	if err != nil {
		return nil, err
	}
	return toScenarioModels(rows), nil
}

func (s *scenarioStore) Update(ctx context.Context, sc *model.Scenario) error {
	row, err := s.queries.UpdateScenario(ctx, sqlc.UpdateScenarioParams{
		ID:              sc.ID,
		Name:            sc.Name,
		Description:     sc.Description,
		Status:          string(sc.Status),
		TriggerKey:      sc.TriggerKey,
		TriggerConfig:   jsonOrEmpty(sc.TriggerConfig),
		Enabled:         sc.Enabled,
		Schedule:        sc.Schedule,
		Version:         sc.Version,
		DraftConfig:     jsonOrEmpty(sc.DraftConfig),
		PublishedConfig: sc.PublishedConfig,
	})
	if err != nil {
		return mapErr(err)
	}
	*sc = *toScenarioModel(row)
	return nil
}

func (s *scenarioStore) Delete(ctx context.Context, id int64) error {
	return s.queries.DeleteScenario(ctx, id)
}

func toScenarioModel(row sqlc.Scenario) *model.Scenario {
	return &model.Scenario{
		ID:              row.ID,
		OrganizationID:  row.OrganizationID,
		OwnerID:         row.OwnerID,
		Name:            row.Name,
		Description:     row.Description,
		Status:          model.ScenarioStatus(row.Status),
		ScenarioType:    model.ScenarioType(row.ScenarioType),
		Slug:            row.Slug,
		TriggerKey:      row.TriggerKey,
		TriggerConfig:   row.TriggerConfig,
		Enabled:         row.Enabled,
		Schedule:        row.Schedule,
		Version:         row.Version,
		DraftConfig:     row.DraftConfig,
		PublishedConfig: row.PublishedConfig,
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}
}

func toScenarioModels(rows []sqlc.Scenario) []model.Scenario {
	result := make([]model.Scenario, len(rows))
	for i, row := range rows {
		result[i] = *toScenarioModel(row)
	}
	return result
}

type nodeStore struct {
	queries *sqlc.Queries
}

func newNodeStore(queries *sqlc.Queries) NodeStore {
	return &nodeStore{queries: queries}
}

func (s *nodeStore) Create(ctx context.Context, node *model.Node) error {
	row, err := s.queries.CreateScenarioNode(ctx, sqlc.CreateScenarioNodeParams{
		ID:         node.ID,
		ScenarioID: node.ScenarioID,
		Type:       string(node.Type),
		Label:      node.Label,
		Config:     jsonOrEmpty(node.Config),
		PositionX:  node.Position.X,
		PositionY:  node.Position.Y,
		SortOrder:  node.Order,
		IsSystem:   node.IsSystem,
	})
	if err != nil {
		return mapErr(err)
	}
	*node = toNodeModel(row)
	return nil
}

func (s *nodeStore) GetByID(ctx context.Context, id int64) (*model.Node, error) {
	row, err := s.queries.GetScenarioNode(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	node := toNodeModel(row)
	return &node, nil
}

func (s *nodeStore) List(ctx context.Context, scenarioID int64) ([]model.Node, error) {
	rows, err := s.queries.ListScenarioNodes(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	result := make([]model.Node, len(rows))
	for i, row := range rows {
		result[i] = toNodeModel(row)
	}
	return result, nil
}

func (s *nodeStore) Update(ctx context.Context, node *model.Node) error {
	row, err := s.queries.UpdateScenarioNode(ctx, sqlc.UpdateScenarioNodeParams{
		ID:        node.ID,
		Label:     node.Label,
		Config:    jsonOrEmpty(node.Config),
		PositionX: node.Position.X,
		PositionY: node.Position.Y,
	})
	if err != nil {
		return mapErr(err)
	}
	*node = toNodeModel(row)
	return nil
}

func (s *nodeStore) Delete(ctx context.Context, id int64) error {
	return s.queries.DeleteScenarioNode(ctx, id)
}

func (s *nodeStore) DeleteByScenario(ctx context.Context, scenarioID int64) error {
	return s.queries.DeleteScenarioNodes(ctx, scenarioID)
}

func (s *nodeStore) NextOrder(ctx context.Context, scenarioID int64) (int32, error) {
	return s.queries.NextNodeSortOrder(ctx, scenarioID)
}

func toNodeModel(row sqlc.ScenarioNode) model.Node {
	return model.Node{
		ID:         row.ID,
		ScenarioID: row.ScenarioID,
		Type:       model.NodeType(row.Type),
		Label:      row.Label,
		Config:     row.Config,
		Position:   model.Position{X: row.PositionX, Y: row.PositionY},
		Order:      row.SortOrder,
		IsSystem:   row.IsSystem,
		CreatedAt:  row.CreatedAt.Time,
		UpdatedAt:  row.UpdatedAt.Time,
	}
}

type edgeStore struct {
	queries *sqlc.Queries
}

func newEdgeStore(queries *sqlc.Queries) EdgeStore {
	return &edgeStore{queries: queries}
}

func (s *edgeStore) Create(ctx context.Context, edge *model.Edge) error {
	row, err := s.queries.CreateScenarioEdge(ctx, sqlc.CreateScenarioEdgeParams{
		ID:           edge.ID,
		ScenarioID:   edge.ScenarioID,
		SourceNodeID: edge.SourceNodeID,
		TargetNodeID: edge.TargetNodeID,
		Mapping:      edge.Mapping,
		Label:        edge.Label,
		SortOrder:    edge.Order,
	})
	if err != nil {
		return mapErr(err)
	}
	*edge = toEdgeModel(row)
	return nil
}

func (s *edgeStore) GetByID(ctx context.Context, id int64) (*model.Edge, error) {
	row, err := s.queries.GetScenarioEdge(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	edge := toEdgeModel(row)
	return &edge, nil
}

func (s *edgeStore) List(ctx context.Context, scenarioID int64) ([]model.Edge, error) {
	rows, err := s.queries.ListScenarioEdges(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	result := make([]model.Edge, len(rows))
	for i, row := range rows {
		result[i] = toEdgeModel(row)
	}
	return result, nil
}

func (s *edgeStore) Delete(ctx context.Context, id int64) error {
	return s.queries.DeleteScenarioEdge(ctx, id)
}

func (s *edgeStore) DeleteForNode(ctx context.Context, nodeID int64) error {
	return s.queries.DeleteScenarioEdgesForNode(ctx, nodeID)
}

func (s *edgeStore) DeleteByScenario(ctx context.Context, scenarioID int64) error {
	return s.queries.DeleteScenarioEdges(ctx, scenarioID)
}

func toEdgeModel(row sqlc.ScenarioEdge) model.Edge {
	return model.Edge{
		ID:           row.ID,
		ScenarioID:   row.ScenarioID,
		SourceNodeID: row.SourceNodeID,
		TargetNodeID: row.TargetNodeID,
		Mapping:      row.Mapping,
		Label:        row.Label,
		Order:        row.SortOrder,
		CreatedAt:    row.CreatedAt.Time,
	}
}
