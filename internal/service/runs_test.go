package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/queue"
	"launchthat.app/portal/internal/scenario"
	"launchthat.app/portal/internal/service"
	"launchthat.app/portal/internal/store"
)

var _ = Describe("RunService", func() {
	var (
		ctx      context.Context
		stores   *mockStoreProvider
		producer *mockProducer
		svc      service.RunService
		admin    model.Actor
		sc       model.Scenario
		created  []*model.ScenarioRun
	)

	BeforeEach(func() {
		ctx = context.Background()
		stores = newMockStores()
		producer = &mockProducer{}
		engine := scenario.NewEngine(service.NewEngineStore(stores), newTestRegistry(), scenario.RetryPolicy{MaxAttempts: 1})
		svc = service.NewRunService(stores, &mockTxRunner{stores: stores}, producer, engine)
		admin = actorWithRole(model.RoleAdmin)
		sc = model.Scenario{ID: 7, OrganizationID: orgID, Enabled: true, TriggerKey: model.TriggerManual}
		created = nil

		stores.scenarios.getByIDFn = func(context.Context, int64) (*model.Scenario, error) {
			cp := sc
			return &cp, nil
		}
		stores.runs.createFn = func(_ context.Context, run *model.ScenarioRun) error {
			created = append(created, run)
			return nil
		}
	})

	Describe("Trigger", func() {
		It("creates a pending run and enqueues it", func() {
			run, err := svc.Trigger(ctx, orgID, admin, sc.ID, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(run.Status).To(Equal(model.RunStatusPending))
			Expect(run.IdempotencyKey).To(HavePrefix("manual:"))
			Expect(string(run.Payload)).To(Equal("{}"))

			Expect(producer.tasks).To(HaveLen(1))
			task := producer.tasks[0]
			Expect(task.TaskType).To(Equal(queue.TaskTypeScenarioRun))
			Expect(*task.RunID).To(Equal(run.ID))
			Expect(*task.ScenarioID).To(Equal(sc.ID))
		})

		It("refuses disabled scenarios", func() {
			sc.Enabled = false
			_, err := svc.Trigger(ctx, orgID, admin, sc.ID, nil)
			Expect(err).To(MatchError(service.ErrScenarioDisabled))
			Expect(created).To(BeEmpty())
		})

		It("marks the run failed when it cannot be enqueued", func() {
			producer.enqueueFn = func(context.Context, queue.Task) error { return errors.New("redis down") }
			var failedID int64
			var failedCode string
			stores.runs.markFailedFn = func(_ context.Context, id int64, code, _ string, _ bool, _ int32) error {
				failedID, failedCode = id, code
				return nil
			}

			_, err := svc.Trigger(ctx, orgID, admin, sc.ID, nil)
			Expect(err).To(HaveOccurred())
			Expect(created).To(HaveLen(1))
			Expect(failedID).To(Equal(created[0].ID))
			Expect(failedCode).To(Equal(scenario.ErrCodeScenario))
		})

		It("requires integrations.manage", func() {
			_, err := svc.Trigger(ctx, orgID, actorWithRole(model.RoleViewer), sc.ID, nil)
			Expect(err).To(MatchError(service.ErrPermissionDenied))
		})
	})

	Describe("TriggerScheduled", func() {
		tick := time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC)

		It("keys the run on the scenario and tick", func() {
			run, ok, err := svc.TriggerScheduled(ctx, sc, tick)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(run.IdempotencyKey).To(Equal("schedule:7:1772334000"))
			Expect(run.TriggerKey).To(Equal(model.TriggerSchedule))
			Expect(run.CorrelationID).To(Equal(service.CorrelationID(run.IdempotencyKey, tick)))

			var payload map[string]any
			Expect(json.Unmarshal(run.Payload, &payload)).To(Succeed())
			Expect(payload["scheduled_at"]).To(Equal("2026-03-01T03:00:00Z"))
		})

		It("does not create a second run for the same tick", func() {
			stores.runs.listByIdempotencyKeyFn = func(_ context.Context, _ int64, key string) ([]model.ScenarioRun, error) {
				return []model.ScenarioRun{{ID: 1, IdempotencyKey: key}}, nil
			}
			run, ok, err := svc.TriggerScheduled(ctx, sc, tick)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
			Expect(run.ID).To(Equal(int64(1)))
			Expect(created).To(BeEmpty())
			Expect(producer.tasks).To(BeEmpty())
		})

		It("treats a concurrent insert as already scheduled", func() {
			stores.runs.createFn = func(context.Context, *model.ScenarioRun) error { return store.ErrConflict }
			_, ok, err := svc.TriggerScheduled(ctx, sc, tick)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Execute", func() {
		It("skips runs that already finished", func() {
			stores.runs.getByIDFn = func(context.Context, int64) (*model.ScenarioRun, error) {
				return &model.ScenarioRun{ID: 3, Status: model.RunStatusSucceeded, NodesExecuted: 2}, nil
			}
			stores.runs.markRunningFn = func(context.Context, int64) error {
				Fail("finished run was executed again")
				return nil
			}
			outcome, err := svc.Execute(ctx, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.Success).To(BeTrue())
			Expect(outcome.NodesExecuted).To(Equal(2))
		})

		It("runs pending runs through the engine", func() {
			stores.runs.getByIDFn = func(context.Context, int64) (*model.ScenarioRun, error) {
				return &model.ScenarioRun{ID: 3, ScenarioID: sc.ID, Status: model.RunStatusPending, Payload: json.RawMessage(`{"a":1}`)}, nil
			}
			stores.nodes.listFn = func(context.Context, int64) ([]model.Node, error) {
				return []model.Node{{ID: 1, Type: model.NodeTypeLogger, Config: json.RawMessage(`{}`), Order: 1}}, nil
			}
			var succeeded int32
			stores.runs.markSucceededFn = func(_ context.Context, _ int64, n int32) error {
				succeeded = n
				return nil
			}
			var steps int
			stores.runs.createStepFn = func(context.Context, *model.RunStep) error {
				steps++
				return nil
			}

			outcome, err := svc.Execute(ctx, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.Success).To(BeTrue())
			Expect(succeeded).To(Equal(int32(1)))
			Expect(steps).To(Equal(1))
		})

		It("reports unknown runs", func() {
			_, err := svc.Execute(ctx, 99)
			Expect(err).To(MatchError(service.ErrRunNotFound))
		})
	})

	Describe("DryRun", func() {
		It("executes disabled scenarios without persisting", func() {
			sc.Enabled = false
			stores.nodes.listFn = func(context.Context, int64) ([]model.Node, error) {
				return []model.Node{{ID: 1, Type: model.NodeTypeHTTPRequest, Config: json.RawMessage(`{"url":"https://example.com"}`), Order: 1}}, nil
			}
			stores.runs.markRunningFn = func(context.Context, int64) error {
				Fail("dry run touched run state")
				return nil
			}

			outcome, err := svc.DryRun(ctx, orgID, admin, sc.ID, json.RawMessage(`{"x":true}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.Success).To(BeTrue())
			Expect(outcome.NodesExecuted).To(Equal(1))
			Expect(outcome.Outputs).To(HaveKey(scenario.TriggerOutput))
		})
	})

	Describe("Get", func() {
		It("hides runs from other orgs", func() {
			stores.runs.getByIDFn = func(context.Context, int64) (*model.ScenarioRun, error) {
				return &model.ScenarioRun{ID: 3, OrganizationID: orgID + 1}, nil
			}
			_, err := svc.Get(ctx, orgID, admin, 3)
			Expect(err).To(MatchError(service.ErrRunNotFound))
		})
	})

	Describe("CorrelationID", func() {
		It("is stable for a key and time", func() {
			now := time.UnixMilli(1700000000000)
			a := service.CorrelationID("k", now)
			Expect(a).To(MatchRegexp(`^corr_1700000000000_[0-9a-f]{8}$`))
			Expect(service.CorrelationID("k", now)).To(Equal(a))
			Expect(regexp.MustCompile(`_[0-9a-f]{8}$`).FindString(service.CorrelationID("other", now))).
				NotTo(Equal(regexp.MustCompile(`_[0-9a-f]{8}$`).FindString(a)))
		})
	})
})
