package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"launchthat.app/portal/common/id"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/queue"
	"launchthat.app/portal/internal/scenario"
	"launchthat.app/portal/internal/store"
)

const (
	correlationSalt   = "correlation-salt"
	defaultRunListMax = 50
)

var ErrRunNotFound = errors.New("run not found")

type RunService interface {
	Trigger(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64, payload json.RawMessage) (*model.ScenarioRun, error)
	DryRun(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64, payload json.RawMessage) (scenario.Outcome, error)
	// TriggerScheduled creates the run for one cron tick. created is false when
	// the tick already has a run.
	TriggerScheduled(ctx context.Context, sc model.Scenario, tick time.Time) (run *model.ScenarioRun, created bool, err error)
	// Execute runs a pending run through the engine. Runs that already
	// finished are skipped.
	Execute(ctx context.Context, runID int64) (scenario.Outcome, error)

	Get(ctx context.Context, orgID int64, actor model.Actor, runID int64) (*model.ScenarioRun, error)
	ListByScenario(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64, limit int32) ([]model.ScenarioRun, error)
	Steps(ctx context.Context, orgID int64, actor model.Actor, runID int64) ([]model.RunStep, error)
}

type runService struct {
	stores   StoreProvider
	txRunner TxRunner
	queue    queue.Producer
	engine   *scenario.Engine
}

func NewRunService(stores StoreProvider, txRunner TxRunner, producer queue.Producer, engine *scenario.Engine) RunService {
	return &runService{
		stores:   stores,
		txRunner: txRunner,
		queue:    producer,
		engine:   engine,
	}
}

func (s *runService) Trigger(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64, payload json.RawMessage) (*model.ScenarioRun, error) {
	if err := authorize(actor, model.PermIntegrationsManage); err != nil {
		return nil, err
	}

	sc, err := loadScenario(ctx, s.stores, orgID, scenarioID)
	if err != nil {
		return nil, err
	}
	if !sc.Enabled {
		return nil, ErrScenarioDisabled
	}

	key := model.TriggerManual + ":" + id.NewOpaque()
	run := newPendingRun(sc, model.TriggerManual, key, CorrelationID(key, time.Now()), orEmptyObject(payload), nil)
	if err := s.stores.Runs().Create(ctx, run); err != nil {
		return nil, fmt.Errorf("creating run: %w", err)
	}

	if err := s.enqueue(ctx, run); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "scenario run triggered",
		"organization_id", orgID,
		"scenario_id", scenarioID,
		"run_id", run.ID,
		"triggered_by", actor.UserID())
	return run, nil
}

func (s *runService) DryRun(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64, payload json.RawMessage) (scenario.Outcome, error) {
	if err := authorize(actor, model.PermIntegrationsManage); err != nil {
		return scenario.Outcome{}, err
	}
	sc, err := loadScenario(ctx, s.stores, orgID, scenarioID)
	if err != nil {
		return scenario.Outcome{}, err
	}

	key := "dry_run:" + id.NewOpaque()
	return s.engine.Execute(ctx, scenario.ExecuteInput{
		ScenarioID:    sc.ID,
		TriggerKey:    sc.TriggerKey,
		CorrelationID: CorrelationID(key, time.Now()),
		Payload:       orEmptyObject(payload),
		DryRun:        true,
	})
}

func (s *runService) TriggerScheduled(ctx context.Context, sc model.Scenario, tick time.Time) (*model.ScenarioRun, bool, error) {
	key := fmt.Sprintf("%s:%d:%d", model.TriggerSchedule, sc.ID, tick.Unix())

	existing, err := s.stores.Runs().ListByIdempotencyKey(ctx, sc.OrganizationID, key)
	if err != nil {
		return nil, false, fmt.Errorf("checking scheduled run: %w", err)
	}
	if len(existing) > 0 {
		return &existing[0], false, nil
	}

	payload, err := json.Marshal(map[string]any{
		"scheduled_at": tick.UTC().Format(time.RFC3339),
		"schedule":     sc.Schedule,
	})
	if err != nil {
		return nil, false, fmt.Errorf("encoding schedule payload: %w", err)
	}

	run := newPendingRun(&sc, model.TriggerSchedule, key, CorrelationID(key, tick), payload, nil)
	if err := s.stores.Runs().Create(ctx, run); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("creating scheduled run: %w", err)
	}

	if err := s.enqueue(ctx, run); err != nil {
		return nil, false, err
	}
	return run, true, nil
}

func (s *runService) Execute(ctx context.Context, runID int64) (scenario.Outcome, error) {
	run, err := s.stores.Runs().GetByID(ctx, runID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return scenario.Outcome{}, ErrRunNotFound
		}
		return scenario.Outcome{}, fmt.Errorf("getting run: %w", err)
	}

	if run.Status == model.RunStatusSucceeded || run.Status == model.RunStatusFailed {
		slog.InfoContext(ctx, "skipping finished run",
			"run_id", run.ID,
			"status", run.Status)
		return scenario.Outcome{
			Success:       run.Status == model.RunStatusSucceeded,
			RunID:         run.ID,
			NodesExecuted: int(run.NodesExecuted),
		}, nil
	}

	return s.engine.Execute(ctx, scenario.ExecuteInput{
		RunID:         run.ID,
		ScenarioID:    run.ScenarioID,
		TriggerKey:    run.TriggerKey,
		CorrelationID: run.CorrelationID,
		Payload:       run.Payload,
	})
}

func (s *runService) Get(ctx context.Context, orgID int64, actor model.Actor, runID int64) (*model.ScenarioRun, error) {
	if err := authorize(actor, model.PermIntegrationsView); err != nil {
		return nil, err
	}
	return s.load(ctx, orgID, runID)
}

func (s *runService) ListByScenario(ctx context.Context, orgID int64, actor model.Actor, scenarioID int64, limit int32) ([]model.ScenarioRun, error) {
	if err := authorize(actor, model.PermIntegrationsView); err != nil {
		return nil, err
	}
	if _, err := loadScenario(ctx, s.stores, orgID, scenarioID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > defaultRunListMax {
		limit = defaultRunListMax
	}
	return s.stores.Runs().ListByScenario(ctx, scenarioID, limit)
}

func (s *runService) Steps(ctx context.Context, orgID int64, actor model.Actor, runID int64) ([]model.RunStep, error) {
	if err := authorize(actor, model.PermIntegrationsView); err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, orgID, runID); err != nil {
		return nil, err
	}
	return s.stores.Runs().ListSteps(ctx, runID)
}

func (s *runService) load(ctx context.Context, orgID, runID int64) (*model.ScenarioRun, error) {
	run, err := s.stores.Runs().GetByID(ctx, runID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("getting run: %w", err)
	}
	if run.OrganizationID != orgID {
		return nil, ErrRunNotFound
	}
	return run, nil
}

// enqueue hands the run to the worker. A run that cannot be queued is marked
// failed so it does not sit pending forever.
func (s *runService) enqueue(ctx context.Context, run *model.ScenarioRun) error {
	if err := s.queue.Enqueue(ctx, queue.ScenarioRunTask(run.OrganizationID, run.ScenarioID, run.ID)); err != nil {
		if markErr := s.stores.Runs().MarkFailed(ctx, run.ID, scenario.ErrCodeScenario, "failed to enqueue run", false, 0); markErr != nil {
			slog.ErrorContext(ctx, "failed to mark unqueued run",
				"run_id", run.ID,
				"error", markErr)
		}
		return fmt.Errorf("enqueueing run: %w", err)
	}
	return nil
}

func newPendingRun(sc *model.Scenario, triggerKey, idempotencyKey, correlationID string, payload json.RawMessage, connectionID *int64) *model.ScenarioRun {
	return &model.ScenarioRun{
		ID:             id.New(),
		OrganizationID: sc.OrganizationID,
		ScenarioID:     sc.ID,
		TriggerKey:     triggerKey,
		ConnectionID:   connectionID,
		IdempotencyKey: idempotencyKey,
		CorrelationID:  correlationID,
		Status:         model.RunStatusPending,
		Payload:        payload,
	}
}

// CorrelationID is corr_<unix ms>_<first 8 hex chars of an HMAC of key>.
func CorrelationID(key string, now time.Time) string {
	mac := hmac.New(sha256.New, []byte(correlationSalt))
	mac.Write([]byte(key))
	return fmt.Sprintf("corr_%d_%s", now.UnixMilli(), hex.EncodeToString(mac.Sum(nil))[:8])
}
