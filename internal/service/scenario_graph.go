package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"launchthat.app/portal/common/id"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/scenario"
	"launchthat.app/portal/internal/store"
)

var (
	ErrNodeNotFound  = errors.New("node not found")
	ErrEdgeNotFound  = errors.New("edge not found")
	ErrSystemNode    = errors.New("system nodes cannot be added or removed")
	ErrSelfLoop      = errors.New("an edge cannot connect a node to itself")
	ErrDuplicateEdge = errors.New("these nodes are already connected")
)

type AddNodeInput struct {
	Type     model.NodeType
	Label    string
	Config   json.RawMessage
	Position model.Position
}

// UpdateNodeInput applies only the non-nil fields.
type UpdateNodeInput struct {
	Label    *string
	Config   json.RawMessage
	Position *model.Position
}

type ConnectInput struct {
	SourceNodeID int64
	TargetNodeID int64
	Mapping      json.RawMessage
	Label        *string
}

type NodeService interface {
	Add(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64, input AddNodeInput) (*model.Node, error)
	Update(ctx context.Context, orgID int64, actor model.Actor, scenarioID, nodeID int64, input UpdateNodeInput) (*model.Node, error)
	Remove(ctx context.Context, orgID int64, actor model.Actor, scenarioID, nodeID int64) error
	List(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64) ([]model.Node, error)
	NodeTypes() []scenario.NodeTypeInfo
}

type EdgeService interface {
	Connect(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64, input ConnectInput) (*model.Edge, error)
	Disconnect(ctx context.Context, orgID int64, actor model.Actor, scenarioID, edgeID int64) error
	List(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64) ([]model.Edge, error)
}

type nodeService struct {
	stores   StoreProvider
	txRunner TxRunner
	registry *scenario.Registry
}

func NewNodeService(stores StoreProvider, txRunner TxRunner, registry *scenario.Registry) NodeService {
	return &nodeService{stores: stores, txRunner: txRunner, registry: registry}
}

func (s *nodeService) NodeTypes() []scenario.NodeTypeInfo {
	return s.registry.NodeTypes()
}

func (s *nodeService) Add(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64, input AddNodeInput) (*model.Node, error) {
	if err := authorize(actor, model.PermIntegrationsManage); err != nil {
		return nil, err
	}
	if _, err := loadScenario(ctx, s.stores, orgID, scenarioID); err != nil {
		return nil, err
	}
	if s.registry.IsSystem(input.Type) {
		return nil, ErrSystemNode
	}

	config := orEmptyObject(input.Config)
	if err := s.registry.ValidateConfig(input.Type, config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	order, err := s.stores.Nodes().NextOrder(ctx, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("getting next node order: %w", err)
	}

	node := &model.Node{
		ID:         id.New(),
		ScenarioID: scenarioID,
		Type:       input.Type,
		Label:      strings.TrimSpace(input.Label),
		Config:     config,
		Position:   input.Position,
		Order:      order,
	}
	if err := s.stores.Nodes().Create(ctx, node); err != nil {
		return nil, fmt.Errorf("creating node: %w", err)
	}
	return node, nil
}

func (s *nodeService) Update(ctx context.Context, orgID int64, actor model.Actor, scenarioID, nodeID int64, input UpdateNodeInput) (*model.Node, error) {
	if err := authorize(actor, model.PermIntegrationsManage); err != nil {
		return nil, err
	}
	node, err := s.load(ctx, orgID, scenarioID, nodeID)
	if err != nil {
		return nil, err
	}

	if input.Label != nil {
		node.Label = strings.TrimSpace(*input.Label)
	}
	if input.Config != nil {
		if err := s.registry.ValidateConfig(node.Type, input.Config); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		node.Config = input.Config
	}
	if input.Position != nil {
		node.Position = *input.Position
	}

	if err := s.stores.Nodes().Update(ctx, node); err != nil {
		return nil, fmt.Errorf("updating node: %w", err)
	}
	return node, nil
}

// Remove deletes the node together with every edge touching it.
func (s *nodeService) Remove(ctx context.Context, orgID int64, actor model.Actor, scenarioID, nodeID int64) error {
	if err := authorize(actor, model.PermIntegrationsManage); err != nil {
		return err
	}
	node, err := s.load(ctx, orgID, scenarioID, nodeID)
	if err != nil {
		return err
	}
	if node.IsSystem {
		return ErrSystemNode
	}

	return s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		if err := sp.Edges().DeleteForNode(ctx, nodeID); err != nil {
			return fmt.Errorf("deleting node edges: %w", err)
		}
		if err := sp.Nodes().Delete(ctx, nodeID); err != nil {
			return fmt.Errorf("deleting node: %w", err)
		}
		return nil
	})
}

func (s *nodeService) List(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64) ([]model.Node, error) {
	if err := authorize(actor, model.PermIntegrationsView); err != nil {
		return nil, err
	}
	if _, err := loadScenario(ctx, s.stores, orgID, scenarioID); err != nil {
		return nil, err
	}
	return s.stores.Nodes().List(ctx, scenarioID)
}

func (s *nodeService) load(ctx context.Context, orgID, scenarioID, nodeID int64) (*model.Node, error) {
	if _, err := loadScenario(ctx, s.stores, orgID, scenarioID); err != nil {
		return nil, err
	}
	node, err := s.stores.Nodes().GetByID(ctx, nodeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNodeNotFound
		}
		return nil, fmt.Errorf("getting node: %w", err)
	}
	if node.ScenarioID != scenarioID {
		return nil, ErrNodeNotFound
	}
	return node, nil
}

type edgeService struct {
	stores StoreProvider
}

func NewEdgeService(stores StoreProvider) EdgeService {
	return &edgeService{stores: stores}
}

func (s *edgeService) Connect(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64, input ConnectInput) (*model.Edge, error) {
	if err := authorize(actor, model.PermIntegrationsManage); err != nil {
		return nil, err
	}
	if input.SourceNodeID == input.TargetNodeID {
		return nil, ErrSelfLoop
	}
	if _, err := loadScenario(ctx, s.stores, orgID, scenarioID); err != nil {
		return nil, err
	}

	nodes, err := s.stores.Nodes().List(ctx, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}
	known := make(map[int64]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}
	if !known[input.SourceNodeID] || !known[input.TargetNodeID] {
		return nil, ErrNodeNotFound
	}

	edges, err := s.stores.Edges().List(ctx, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("listing edges: %w", err)
	}
	for _, e := range edges {
		if e.SourceNodeID == input.SourceNodeID && e.TargetNodeID == input.TargetNodeID {
			return nil, ErrDuplicateEdge
		}
	}

	edge := &model.Edge{
		ID:           id.New(),
		ScenarioID:   scenarioID,
		SourceNodeID: input.SourceNodeID,
		TargetNodeID: input.TargetNodeID,
		Mapping:      input.Mapping,
		Label:        input.Label,
		Order:        int32(len(edges)),
	}
	if err := s.stores.Edges().Create(ctx, edge); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrDuplicateEdge
		}
		return nil, fmt.Errorf("creating edge: %w", err)
	}
	return edge, nil
}

func (s *edgeService) Disconnect(ctx context.Context, orgID int64, actor model.Actor, scenarioID, edgeID int64) error {
	if err := authorize(actor, model.PermIntegrationsManage); err != nil {
		return err
	}
	if _, err := loadScenario(ctx, s.stores, orgID, scenarioID); err != nil {
		return err
	}

	edge, err := s.stores.Edges().GetByID(ctx, edgeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrEdgeNotFound
		}
		return fmt.Errorf("getting edge: %w", err)
	}
	if edge.ScenarioID != scenarioID {
		return ErrEdgeNotFound
	}
	if err := s.stores.Edges().Delete(ctx, edgeID); err != nil {
		return fmt.Errorf("deleting edge: %w", err)
	}
	return nil
}

func (s *edgeService) List(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64) ([]model.Edge, error) {
	if err := authorize(actor, model.PermIntegrationsView); err != nil {
		return nil, err
	}
	if _, err := loadScenario(ctx, s.stores, orgID, scenarioID); err != nil {
		return nil, err
	}
	return s.stores.Edges().List(ctx, scenarioID)
}
