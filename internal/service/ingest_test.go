package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/queue"
	"launchthat.app/portal/internal/service"
	"launchthat.app/portal/internal/store"
	"launchthat.app/portal/internal/webhook"
)

var _ = Describe("IngestService", func() {
	const (
		trigger = "order.paid"
		connID  = int64(9)
		secret  = "whsec_inbound"
	)

	var (
		ctx       context.Context
		stores    *mockStoreProvider
		tx        *mockTxRunner
		producer  *mockProducer
		svc       service.IngestService
		scenarios []model.Scenario
		created   []*model.ScenarioRun
	)

	BeforeEach(func() {
		ctx = context.Background()
		stores = newMockStores()
		tx = &mockTxRunner{stores: stores}
		producer = &mockProducer{}
		box := newTestBox()
		svc = service.NewIngestService(stores, tx, producer, service.NewConnectionService(stores, box))
		scenarios = []model.Scenario{
			{ID: 1, OrganizationID: orgID, Enabled: true, TriggerKey: trigger},
			{ID: 2, OrganizationID: orgID, Enabled: true, TriggerKey: trigger},
		}
		created = nil

		stores.orgs.getBySlugFn = func(_ context.Context, slug string) (*model.Organization, error) {
			if slug != "acme" {
				return nil, store.ErrNotFound
			}
			return &model.Organization{ID: orgID, Slug: slug}, nil
		}
		stores.scenarios.listEnabledByTriggerFn = func(context.Context, int64, string) ([]model.Scenario, error) {
			return scenarios, nil
		}
		stores.runs.createFn = func(_ context.Context, run *model.ScenarioRun) error {
			created = append(created, run)
			return nil
		}

		creds, err := json.Marshal(model.Credentials{WebhookSecret: secret})
		Expect(err).NotTo(HaveOccurred())
		sealed, err := box.Seal(orgID, "connection-credentials", creds)
		Expect(err).NotTo(HaveOccurred())
		stores.connections.getByIDFn = func(_ context.Context, id int64) (*model.Connection, error) {
			if id != connID {
				return nil, store.ErrNotFound
			}
			return &model.Connection{ID: connID, OrganizationID: orgID, EncryptedCredentials: sealed}, nil
		}
	})

	params := func(body string, headers map[string]string) service.InboundParams {
		return service.InboundParams{OrgSlug: "acme", TriggerKey: trigger, Body: []byte(body), Headers: headers}
	}

	It("starts one run per matching scenario", func() {
		result, err := svc.ProcessInbound(ctx, params(`{"id":"evt_1","amount":5}`, nil))
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Idempotent).To(BeFalse())
		Expect(result.ScenariosExecuted).To(Equal(2))
		Expect(result.Status).To(Equal(model.RunStatusPending))
		Expect(tx.calls).To(Equal(1))

		Expect(created).To(HaveLen(2))
		Expect(result.RunID).To(Equal(created[0].ID))
		for _, run := range created {
			Expect(run.IdempotencyKey).To(Equal("order.paid:evt_1"))
			Expect(run.CorrelationID).To(HavePrefix("corr_"))
		}
		Expect(producer.tasks).To(HaveLen(2))
	})

	It("gives every run of one delivery the same correlation id", func() {
		scenarios = append(scenarios, model.Scenario{ID: 3, OrganizationID: orgID, Enabled: true, TriggerKey: trigger})

		_, err := svc.ProcessInbound(ctx, params(`{"id":"evt_1"}`, nil))
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(HaveLen(3))

		ids := map[string]bool{}
		for _, run := range created {
			ids[run.CorrelationID] = true
		}
		Expect(ids).To(HaveLen(1))
	})

	It("fails every run it could not enqueue and keeps queueing the rest", func() {
		scenarios = append(scenarios, model.Scenario{ID: 3, OrganizationID: orgID, Enabled: true, TriggerKey: trigger})
		calls := 0
		producer.enqueueFn = func(context.Context, queue.Task) error {
			calls++
			if calls == 2 {
				return errors.New("redis down")
			}
			return nil
		}
		var failed []int64
		stores.runs.markFailedFn = func(_ context.Context, id int64, _, _ string, fatal bool, _ int32) error {
			Expect(fatal).To(BeFalse())
			failed = append(failed, id)
			return nil
		}

		_, err := svc.ProcessInbound(ctx, params(`{"id":"evt_1"}`, nil))
		Expect(err).To(MatchError(ContainSubstring("redis down")))

		Expect(created).To(HaveLen(3))
		Expect(failed).To(Equal([]int64{created[1].ID}))
		Expect(producer.tasks).To(HaveLen(2))
		Expect(*producer.tasks[0].RunID).To(Equal(created[0].ID))
		Expect(*producer.tasks[1].RunID).To(Equal(created[2].ID))
	})

	It("prefers the idempotency header over the payload id", func() {
		_, err := svc.ProcessInbound(ctx, params(`{"id":"evt_1"}`, map[string]string{"x-idempotency-key": "hdr-1"}))
		Expect(err).NotTo(HaveOccurred())
		Expect(created[0].IdempotencyKey).To(Equal("hdr-1"))
	})

	It("requires an idempotency key", func() {
		_, err := svc.ProcessInbound(ctx, params(`{"amount":5}`, nil))
		Expect(err).To(MatchError(service.ErrMissingIdempotencyKey))
	})

	It("returns the existing run for a repeated delivery", func() {
		stores.runs.listByIdempotencyKeyFn = func(context.Context, int64, string) ([]model.ScenarioRun, error) {
			return []model.ScenarioRun{{ID: 77, Status: model.RunStatusSucceeded}}, nil
		}
		result, err := svc.ProcessInbound(ctx, params(`{"id":"evt_1"}`, nil))
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Idempotent).To(BeTrue())
		Expect(result.RunID).To(Equal(int64(77)))
		Expect(created).To(BeEmpty())
	})

	It("resolves a lost insert race as idempotent", func() {
		lookups := 0
		stores.runs.listByIdempotencyKeyFn = func(context.Context, int64, string) ([]model.ScenarioRun, error) {
			lookups++
			if lookups == 1 {
				return nil, nil
			}
			return []model.ScenarioRun{{ID: 78, Status: model.RunStatusPending}}, nil
		}
		stores.runs.createFn = func(context.Context, *model.ScenarioRun) error { return store.ErrConflict }

		result, err := svc.ProcessInbound(ctx, params(`{"id":"evt_1"}`, nil))
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Idempotent).To(BeTrue())
		Expect(result.RunID).To(Equal(int64(78)))
	})

	It("rejects unknown orgs and empty triggers", func() {
		p := params(`{"id":"evt_1"}`, nil)
		p.OrgSlug = "nobody"
		_, err := svc.ProcessInbound(ctx, p)
		Expect(err).To(MatchError(service.ErrOrgNotFound))

		scenarios = nil
		_, err = svc.ProcessInbound(ctx, params(`{"id":"evt_1"}`, nil))
		Expect(err).To(MatchError(service.ErrNoMatchingScenarios))
	})

	It("rejects malformed JSON", func() {
		_, err := svc.ProcessInbound(ctx, params(`{"id":"evt_1"`, map[string]string{service.HeaderIdempotencyKey: "k"}))
		Expect(err).To(MatchError(service.ErrInvalidPayload))
	})

	It("surfaces enqueue failures after marking the runs failed", func() {
		producer.enqueueFn = func(context.Context, queue.Task) error { return errors.New("redis down") }
		var failed []int64
		stores.runs.markFailedFn = func(_ context.Context, id int64, _, _ string, _ bool, _ int32) error {
			failed = append(failed, id)
			return nil
		}
		_, err := svc.ProcessInbound(ctx, params(`{"id":"evt_1"}`, nil))
		Expect(err).To(HaveOccurred())
		Expect(failed).To(ConsistOf(created[0].ID, created[1].ID))
	})

	Describe("signed connections", func() {
		body := `{"id":"evt_2"}`

		signed := func(ts time.Time) map[string]string {
			stamp := strconv.FormatInt(ts.UnixMilli(), 10)
			return map[string]string{
				webhook.HeaderInboundSignature: webhook.SignInbound(secret, []byte(body), stamp),
				webhook.HeaderInboundTimestamp: stamp,
			}
		}

		It("accepts a valid signature", func() {
			p := params(body, signed(time.Now()))
			p.ConnectionID = ptr(connID)
			result, err := svc.ProcessInbound(ctx, p)
			Expect(err).NotTo(HaveOccurred())
			Expect(*created[0].ConnectionID).To(Equal(connID))
			Expect(result.ScenariosExecuted).To(Equal(2))
		})

		It("rejects a bad signature", func() {
			headers := signed(time.Now())
			headers[webhook.HeaderInboundSignature] = "sha256=00"
			p := params(body, headers)
			p.ConnectionID = ptr(connID)
			_, err := svc.ProcessInbound(ctx, p)
			Expect(err).To(MatchError(service.ErrWebhookUnauthorized))
			Expect(err).To(MatchError(webhook.ErrInvalidSignature))
			Expect(created).To(BeEmpty())
		})

		It("rejects replayed timestamps", func() {
			p := params(body, signed(time.Now().Add(-time.Hour)))
			p.ConnectionID = ptr(connID)
			_, err := svc.ProcessInbound(ctx, p)
			Expect(err).To(MatchError(webhook.ErrReplay))
		})

		It("rejects connections of another org", func() {
			stores.connections.getByIDFn = func(context.Context, int64) (*model.Connection, error) {
				return &model.Connection{ID: connID, OrganizationID: orgID + 1, EncryptedCredentials: []byte("x")}, nil
			}
			p := params(body, signed(time.Now()))
			p.ConnectionID = ptr(connID)
			_, err := svc.ProcessInbound(ctx, p)
			Expect(err).To(MatchError(service.ErrWebhookUnauthorized))
		})
	})
})

var _ = DescribeTable("NormalizePayload",
	func(body, expected string) {
		out, err := service.NormalizePayload([]byte(body))
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(MatchJSON(expected))
	},
	Entry("empty body", "", `{}`),
	Entry("object", `{"a":1}`, `{"a":1}`),
	Entry("array", `[1,2]`, `[1,2]`),
	Entry("double encoded object", `"{\"a\":1}"`, `{"a":1}`),
	Entry("number", `42`, `{"value":42}`),
	Entry("boolean", `true`, `{"value":true}`),
)

func ptr[T any](v T) *T {
	return &v
}
