package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/robfig/cron/v3"

	"launchthat.app/portal/common"
	"launchthat.app/portal/common/id"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/store"
)

const checkoutEdgeLabel = "to_confirmation"

var (
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrSlugRequired     = errors.New("checkout scenarios require a slug")
	ErrSlugTaken        = errors.New("slug is already used by another scenario")
	ErrInvalidSchedule  = errors.New("invalid cron schedule")
	ErrScenarioDisabled = errors.New("scenario is disabled")
)

type CreateScenarioInput struct {
	Name          string
	Description   *string
	ScenarioType  model.ScenarioType
	Slug          *string
	TriggerKey    string
	TriggerConfig json.RawMessage
	Schedule      *string
	DraftConfig   json.RawMessage
}

// UpdateScenarioInput applies only the non-nil fields.
type UpdateScenarioInput struct {
	Name          *string
	Description   *string
	Status        *model.ScenarioStatus
	TriggerKey    *string
	TriggerConfig json.RawMessage
	Schedule      *string
	DraftConfig   json.RawMessage
}

type ScenarioService interface {
	Create(ctx context.Context, orgID int64, actor model.Actor, input CreateScenarioInput) (*model.Scenario, error)
	Get(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64) (*model.Scenario, error)
	List(ctx context.Context, orgID int64, actor model.Actor) ([]model.Scenario, error)
	Update(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64, input UpdateScenarioInput) (*model.Scenario, error)
	Delete(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64) error
	Publish(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64) (*model.Scenario, error)
	SetEnabled(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64, enabled bool) (*model.Scenario, error)
}

type scenarioService struct {
	stores   StoreProvider
	txRunner TxRunner
}

func NewScenarioService(stores StoreProvider, txRunner TxRunner) ScenarioService {
	return &scenarioService{stores: stores, txRunner: txRunner}
}

// Create stores a disabled draft. Checkout scenarios are seeded with their
// checkout and order confirmation nodes.
func (s *scenarioService) Create(ctx context.Context, orgID int64, actor model.Actor, input CreateScenarioInput) (*model.Scenario, error) {
	if err := authorize(actor, model.PermIntegrationsManage); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	scenarioType := input.ScenarioType
	if scenarioType == "" {
		scenarioType = model.ScenarioTypeGeneral
	}
	if scenarioType != model.ScenarioTypeGeneral && scenarioType != model.ScenarioTypeCheckout {
		return nil, fmt.Errorf("%w: unknown scenario type %q", ErrInvalidInput, scenarioType)
	}

	triggerKey := strings.TrimSpace(input.TriggerKey)
	if triggerKey == "" {
		triggerKey = model.TriggerManual
	}

	schedule, err := normalizeSchedule(input.Schedule)
	if err != nil {
		return nil, err
	}

	var slug *string
	if input.Slug != nil && strings.TrimSpace(*input.Slug) != "" {
		normalized, err := common.Slugify(*input.Slug, "")
		if err != nil {
			return nil, fmt.Errorf("%w: invalid slug", ErrInvalidInput)
		}
		slug = &normalized
	}
	if scenarioType == model.ScenarioTypeCheckout && slug == nil {
		return nil, ErrSlugRequired
	}

	sc := &model.Scenario{
		ID:             id.New(),
		OrganizationID: orgID,
		OwnerID:        actor.UserID(),
		Name:           name,
		Description:    input.Description,
		Status:         model.ScenarioStatusDraft,
		ScenarioType:   scenarioType,
		Slug:           slug,
		TriggerKey:     triggerKey,
		TriggerConfig:  orEmptyObject(input.TriggerConfig),
		Enabled:        false,
		Schedule:       schedule,
		Version:        1,
		DraftConfig:    orEmptyObject(input.DraftConfig),
	}

	err = s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		if sc.Slug != nil {
			taken, err := sp.Scenarios().SlugExists(ctx, orgID, *sc.Slug)
			if err != nil {
				return fmt.Errorf("checking slug: %w", err)
			}
			if taken {
				return ErrSlugTaken
			}
		}

		if err := sp.Scenarios().Create(ctx, sc); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrSlugTaken
			}
			return fmt.Errorf("creating scenario: %w", err)
		}

		if sc.ScenarioType == model.ScenarioTypeCheckout {
			return seedCheckoutNodes(ctx, sp, sc.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "scenario created",
		"organization_id", orgID,
		"scenario_id", sc.ID,
		"scenario_type", sc.ScenarioType,
		"trigger_key", sc.TriggerKey)
	return sc, nil
}

func seedCheckoutNodes(ctx context.Context, sp StoreProvider, scenarioID int64) error {
	checkout := &model.Node{
		ID:         id.New(),
		ScenarioID: scenarioID,
		Type:       model.NodeTypeCheckout,
		Label:      "Checkout",
		Config:     json.RawMessage(`{}`),
		Position:   model.Position{X: 100, Y: 100},
		Order:      1,
		IsSystem:   true,
	}
	confirmation := &model.Node{
		ID:         id.New(),
		ScenarioID: scenarioID,
		Type:       model.NodeTypeOrderConfirmation,
		Label:      "Order Confirmation",
		Config:     json.RawMessage(`{}`),
		Position:   model.Position{X: 400, Y: 100},
		Order:      2,
		IsSystem:   true,
	}
	for _, n := range []*model.Node{checkout, confirmation} {
		if err := sp.Nodes().Create(ctx, n); err != nil {
			return fmt.Errorf("creating %s node: %w", n.Type, err)
		}
	}

	label := checkoutEdgeLabel
	if err := sp.Edges().Create(ctx, &model.Edge{
		ID:           id.New(),
		ScenarioID:   scenarioID,
		SourceNodeID: checkout.ID,
		TargetNodeID: confirmation.ID,
		Label:        &label,
	}); err != nil {
		return fmt.Errorf("creating checkout edge: %w", err)
	}
	return nil
}

func (s *scenarioService) Get(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64) (*model.Scenario, error) {
	if err := authorize(actor, model.PermIntegrationsView); err != nil {
		return nil, err
	}
	return loadScenario(ctx, s.stores, orgID, scenarioID)
}

func (s *scenarioService) List(ctx context.Context, orgID int64, actor model.Actor) ([]model.Scenario, error) {
	if err := authorize(actor, model.PermIntegrationsView); err != nil {
		return nil, err
	}
	return s.stores.Scenarios().List(ctx, orgID)
}

func (s *scenarioService) Update(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64, input UpdateScenarioInput) (*model.Scenario, error) {
	if err := authorize(actor, model.PermIntegrationsManage); err != nil {
		return nil, err
	}

	sc, err := loadScenario(ctx, s.stores, orgID, scenarioID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		sc.Name = name
	}
	if input.Description != nil {
		sc.Description = input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *input.Status)
		}
		sc.Status = *input.Status
	}
	if input.TriggerKey != nil && strings.TrimSpace(*input.TriggerKey) != "" {
		sc.TriggerKey = strings.TrimSpace(*input.TriggerKey)
	}
	if input.TriggerConfig != nil {
		sc.TriggerConfig = input.TriggerConfig
	}
	if input.Schedule != nil {
		schedule, err := normalizeSchedule(input.Schedule)
		if err != nil {
			return nil, err
		}
		sc.Schedule = schedule
	}
	if input.DraftConfig != nil {
		sc.DraftConfig = input.DraftConfig
	}

	if err := s.stores.Scenarios().Update(ctx, sc); err != nil {
		return nil, fmt.Errorf("updating scenario: %w", err)
	}
	return sc, nil
}

// Delete removes the scenario with its edges and nodes.
func (s *scenarioService) Delete(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64) error {
	if err := authorize(actor, model.PermIntegrationsManage); err != nil {
		return err
	}
	if _, err := loadScenario(ctx, s.stores, orgID, scenarioID); err != nil {
		return err
	}

	err := s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		if err := sp.Edges().DeleteByScenario(ctx, scenarioID); err != nil {
			return fmt.Errorf("deleting edges: %w", err)
		}
		if err := sp.Nodes().DeleteByScenario(ctx, scenarioID); err != nil {
			return fmt.Errorf("deleting nodes: %w", err)
		}
		if err := sp.Scenarios().Delete(ctx, scenarioID); err != nil {
			return fmt.Errorf("deleting scenario: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "scenario deleted",
		"organization_id", orgID,
		"scenario_id", scenarioID)
	return nil
}

// Publish promotes the draft config and bumps the version.
func (s *scenarioService) Publish(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64) (*model.Scenario, error) {
	if err := authorize(actor, model.PermIntegrationsManage); err != nil {
		return nil, err
	}

	sc, err := loadScenario(ctx, s.stores, orgID, scenarioID)
	if err != nil {
		return nil, err
	}

	sc.PublishedConfig = sc.DraftConfig
	sc.Version++
	sc.Status = model.ScenarioStatusActive
	if err := s.stores.Scenarios().Update(ctx, sc); err != nil {
		return nil, fmt.Errorf("publishing scenario: %w", err)
	}

	slog.InfoContext(ctx, "scenario published",
		"scenario_id", sc.ID,
		"version", sc.Version)
	return sc, nil
}

func (s *scenarioService) SetEnabled(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64, enabled bool) (*model.Scenario, error) {
	if err := authorize(actor, model.PermIntegrationsManage); err != nil {
		return nil, err
	}

	sc, err := loadScenario(ctx, s.stores, orgID, scenarioID)
	if err != nil {
		return nil, err
	}
	if sc.Enabled == enabled {
		return sc, nil
	}

	sc.Enabled = enabled
	if err := s.stores.Scenarios().Update(ctx, sc); err != nil {
		return nil, fmt.Errorf("updating scenario: %w", err)
	}
	return sc, nil
}

func loadScenario(ctx context.Context, stores StoreProvider, orgID, scenarioID int64) (*model.Scenario, error) {
	sc, err := stores.Scenarios().GetByID(ctx, scenarioID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrScenarioNotFound
		}
		return nil, fmt.Errorf("getting scenario: %w", err)
	}
	if sc.OrganizationID != orgID {
		return nil, ErrScenarioNotFound
	}
	return sc, nil
}

// normalizeSchedule returns nil for a blank schedule and rejects expressions
// that do not parse as standard five-field cron.
func normalizeSchedule(schedule *string) (*string, error) {
	if schedule == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*schedule)
	if trimmed == "" {
		return nil, nil
	}
	if _, err := cron.ParseStandard(trimmed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}
	return &trimmed, nil
}

func orEmptyObject(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage(`{}`)
	}
	return raw
}
