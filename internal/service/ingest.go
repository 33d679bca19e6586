package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/queue"
	"launchthat.app/portal/internal/scenario"
	"launchthat.app/portal/internal/store"
	"launchthat.app/portal/internal/webhook"
)

const (
	HeaderIdempotencyKey    = "X-Idempotency-Key"
	HeaderIdempotencyKeyAlt = "Idempotency-Key"
)

var (
	ErrMissingIdempotencyKey = errors.New("missing idempotency key")
	ErrInvalidPayload        = errors.New("invalid JSON payload")
	ErrNoMatchingScenarios   = errors.New("no enabled scenarios for this trigger")
	ErrWebhookUnauthorized   = errors.New("webhook signature verification failed")
)

type InboundParams struct {
	OrgSlug      string
	TriggerKey   string
	Body         []byte
	Headers      map[string]string
	ConnectionID *int64
}

type InboundResult struct {
	Idempotent        bool            `json:"idempotent"`
	RunID             int64           `json:"run_id,string"`
	Status            model.RunStatus `json:"status,omitempty"`
	ScenariosExecuted int             `json:"scenarios_executed,omitempty"`
}

type IngestService interface {
	ProcessInbound(ctx context.Context, params InboundParams) (*InboundResult, error)
}

type ingestService struct {
	stores      StoreProvider
	txRunner    TxRunner
	queue       queue.Producer
	connections ConnectionService
	now         func() time.Time
}

func NewIngestService(stores StoreProvider, txRunner TxRunner, producer queue.Producer, connections ConnectionService) IngestService {
	return &ingestService{
		stores:      stores,
		txRunner:    txRunner,
		queue:       producer,
		connections: connections,
		now:         time.Now,
	}
}

// ProcessInbound starts one run per enabled scenario listening on the trigger.
// Repeated deliveries with the same idempotency key return the first run.
func (s *ingestService) ProcessInbound(ctx context.Context, params InboundParams) (*InboundResult, error) {
	org, err := s.stores.Organizations().GetBySlug(ctx, params.OrgSlug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrgNotFound
		}
		return nil, fmt.Errorf("getting organization: %w", err)
	}

	key := idempotencyKey(params.TriggerKey, params.Headers, params.Body)
	if key == "" {
		return nil, ErrMissingIdempotencyKey
	}

	existing, err := s.stores.Runs().ListByIdempotencyKey(ctx, org.ID, key)
	if err != nil {
		return nil, fmt.Errorf("checking idempotency: %w", err)
	}
	if len(existing) > 0 {
		slog.InfoContext(ctx, "duplicate inbound webhook",
			"organization_id", org.ID,
			"idempotency_key", key,
			"run_id", existing[0].ID)
		return &InboundResult{Idempotent: true, RunID: existing[0].ID, Status: existing[0].Status}, nil
	}

	if params.ConnectionID != nil {
		if err := s.verify(ctx, org.ID, *params.ConnectionID, params); err != nil {
			return nil, err
		}
	}

	payload, err := NormalizePayload(params.Body)
	if err != nil {
		return nil, err
	}

	scenarios, err := s.stores.Scenarios().ListEnabledByTrigger(ctx, org.ID, params.TriggerKey)
	if err != nil {
		return nil, fmt.Errorf("listing scenarios: %w", err)
	}
	if len(scenarios) == 0 {
		return nil, ErrNoMatchingScenarios
	}

	// Every run started by one delivery shares its correlation id.
	correlationID := CorrelationID(key, time.Now())

	runs := make([]*model.ScenarioRun, 0, len(scenarios))
	err = s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		for i := range scenarios {
			run := newPendingRun(&scenarios[i], params.TriggerKey, key, correlationID, payload, params.ConnectionID)
			if err := sp.Runs().Create(ctx, run); err != nil {
				return fmt.Errorf("creating run: %w", err)
			}
			runs = append(runs, run)
		}
		return nil
	})
	if errors.Is(err, store.ErrConflict) {
		// A concurrent delivery with the same key won the race.
		existing, lookupErr := s.stores.Runs().ListByIdempotencyKey(ctx, org.ID, key)
		if lookupErr == nil && len(existing) > 0 {
			return &InboundResult{Idempotent: true, RunID: existing[0].ID, Status: existing[0].Status}, nil
		}
	}
	if err != nil {
		return nil, err
	}

	// A replay of this delivery is answered from the stored runs, so every run
	// must end up either queued or failed.
	var enqueueErrs []error
	for _, run := range runs {
		if err := s.queue.Enqueue(ctx, queue.ScenarioRunTask(run.OrganizationID, run.ScenarioID, run.ID)); err != nil {
			enqueueErrs = append(enqueueErrs, fmt.Errorf("run %d: %w", run.ID, err))
			if markErr := s.stores.Runs().MarkFailed(ctx, run.ID, scenario.ErrCodeScenario, "failed to enqueue run", false, 0); markErr != nil {
				slog.ErrorContext(ctx, "failed to mark unqueued run", "run_id", run.ID, "error", markErr)
			}
		}
	}
	if len(enqueueErrs) > 0 {
		return nil, fmt.Errorf("enqueueing runs: %w", errors.Join(enqueueErrs...))
	}

	slog.InfoContext(ctx, "inbound webhook accepted",
		"organization_id", org.ID,
		"trigger_key", params.TriggerKey,
		"idempotency_key", key,
		"scenarios", len(runs))

	return &InboundResult{
		RunID:             runs[0].ID,
		Status:            model.RunStatusPending,
		ScenariosExecuted: len(runs),
	}, nil
}

func (s *ingestService) verify(ctx context.Context, orgID, connID int64, params InboundParams) error {
	conn, creds, err := s.connections.Secrets(ctx, connID)
	if err != nil {
		if errors.Is(err, ErrConnectionNotFound) || errors.Is(err, ErrSecretsUnavailable) {
			return fmt.Errorf("%w: %w", ErrWebhookUnauthorized, err)
		}
		return err
	}
	if conn.OrganizationID != orgID {
		return fmt.Errorf("%w: %w", ErrWebhookUnauthorized, ErrConnectionNotFound)
	}
	if err := webhook.Verify(creds.WebhookSecret, params.Body, params.Headers, s.now()); err != nil {
		slog.WarnContext(ctx, "inbound webhook rejected",
			"connection_id", connID,
			"error", err)
		return fmt.Errorf("%w: %w", ErrWebhookUnauthorized, err)
	}
	return nil
}

func idempotencyKey(triggerKey string, headers map[string]string, body []byte) string {
	for _, name := range []string{HeaderIdempotencyKey, HeaderIdempotencyKeyAlt} {
		for k, v := range headers {
			if strings.EqualFold(k, name) && v != "" {
				return v
			}
		}
	}
	if payloadID := gjson.GetBytes(body, "id"); payloadID.Exists() && payloadID.String() != "" {
		return triggerKey + ":" + payloadID.String()
	}
	return ""
}

// NormalizePayload decodes an inbound body into a JSON object or array. A body
// that is itself a JSON string is decoded a second time, and primitives are
// wrapped as {"value": v}.
func NormalizePayload(body []byte) (json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return json.RawMessage(`{}`), nil
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if nested, ok := decoded.(string); ok {
		if err := json.Unmarshal([]byte(nested), &decoded); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
	}

	switch decoded.(type) {
	case map[string]any, []any:
	default:
		decoded = map[string]any{"value": decoded}
	}

	out, err := json.Marshal(decoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return out, nil
}
