package worker_test

import (
	"context"
	"sync"
	"time"

	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/queue"
	"launchthat.app/portal/internal/scenario"
	"launchthat.app/portal/internal/store"
)

type mockConsumer struct {
	mu       sync.Mutex
	batches  [][]queue.Message
	readErr  error
	acked    []string
	requeued []string
	dlq      []string
}

func (m *mockConsumer) Read(ctx context.Context) ([]queue.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	if len(m.batches) == 0 {
		return nil, nil
	}
	batch := m.batches[0]
	m.batches = m.batches[1:]
	return batch, nil
}

func (m *mockConsumer) Ack(ctx context.Context, msg queue.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acked = append(m.acked, msg.ID)
	return nil
}

func (m *mockConsumer) Requeue(ctx context.Context, msg queue.Message, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requeued = append(m.requeued, msg.ID)
	return nil
}

func (m *mockConsumer) SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dlq = append(m.dlq, msg.ID)
	return nil
}

type mockRuns struct {
	executeFn   func(ctx context.Context, runID int64) (scenario.Outcome, error)
	scheduledFn func(ctx context.Context, sc model.Scenario, tick time.Time) (*model.ScenarioRun, bool, error)
}

func (m *mockRuns) Execute(ctx context.Context, runID int64) (scenario.Outcome, error) {
	if m.executeFn != nil {
		return m.executeFn(ctx, runID)
	}
	return scenario.Outcome{Success: true, RunID: runID}, nil
}

func (m *mockRuns) TriggerScheduled(ctx context.Context, sc model.Scenario, tick time.Time) (*model.ScenarioRun, bool, error) {
	if m.scheduledFn != nil {
		return m.scheduledFn(ctx, sc, tick)
	}
	return &model.ScenarioRun{ID: 1, ScenarioID: sc.ID}, true, nil
}

// Partial fakes: calling a method that is not overridden panics on the nil
// embedded interface.
type fakeScenarios struct {
	store.ScenarioStore
	scheduled []model.Scenario
}

func (f *fakeScenarios) ListScheduled(ctx context.Context) ([]model.Scenario, error) {
	return f.scheduled, nil
}

type fakeSubscriptions struct {
	store.WebhookSubscriptionStore
	subs []model.WebhookSubscription
}

func (f *fakeSubscriptions) ListActiveForEvent(ctx context.Context, orgID int64, eventType string) ([]model.WebhookSubscription, error) {
	var out []model.WebhookSubscription
	for _, s := range f.subs {
		if s.OrganizationID == orgID && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeDeliveries struct {
	store.WebhookDeliveryStore
	mu      sync.Mutex
	created []*model.WebhookDelivery
}

func (f *fakeDeliveries) Create(ctx context.Context, d *model.WebhookDelivery) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, d)
	return nil
}

type fakeStores struct {
	scenarios     *fakeScenarios
	subscriptions *fakeSubscriptions
	deliveries    *fakeDeliveries
}

func newFakeStores() *fakeStores {
	return &fakeStores{
		scenarios:     &fakeScenarios{},
		subscriptions: &fakeSubscriptions{},
		deliveries:    &fakeDeliveries{},
	}
}

func (f *fakeStores) Scenarios() store.ScenarioStore {
	return f.scenarios
}

func (f *fakeStores) WebhookSubscriptions() store.WebhookSubscriptionStore {
	return f.subscriptions
}

func (f *fakeStores) WebhookDeliveries() store.WebhookDeliveryStore {
	return f.deliveries
}
