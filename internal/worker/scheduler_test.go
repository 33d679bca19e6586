package worker_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/worker"
)

var _ = Describe("Scheduler", func() {
	var (
		ctx    context.Context
		stores *fakeStores
		runs   *mockRuns
	)

	schedule := func(s string) *string { return &s }

	BeforeEach(func() {
		ctx = context.Background()
		stores = newFakeStores()
		runs = &mockRuns{}
	})

	It("registers enabled scenarios with a valid schedule", func() {
		stores.scenarios.scheduled = []model.Scenario{
			{ID: 1, Enabled: true, Schedule: schedule("0 3 * * *")},
			{ID: 2, Enabled: false, Schedule: schedule("0 3 * * *")},
			{ID: 3, Enabled: true, Schedule: schedule("not a cron")},
			{ID: 4, Enabled: true},
		}
		s := worker.NewScheduler(stores, runs, nil, worker.SchedulerConfig{})
		Expect(s.Reload(ctx)).To(Succeed())
		Expect(s.Scheduled()).To(ConsistOf(int64(1)))
	})

	It("drops scenarios that lose their schedule", func() {
		stores.scenarios.scheduled = []model.Scenario{
			{ID: 1, Enabled: true, Schedule: schedule("*/5 * * * *")},
			{ID: 2, Enabled: true, Schedule: schedule("0 * * * *")},
		}
		s := worker.NewScheduler(stores, runs, nil, worker.SchedulerConfig{})
		Expect(s.Reload(ctx)).To(Succeed())
		Expect(s.Scheduled()).To(ConsistOf(int64(1), int64(2)))

		stores.scenarios.scheduled = []model.Scenario{{ID: 2, Enabled: true, Schedule: schedule("30 * * * *")}}
		Expect(s.Reload(ctx)).To(Succeed())
		Expect(s.Scheduled()).To(ConsistOf(int64(2)))
	})

	It("fires a scheduled run for the tick", func() {
		var gotTick time.Time
		var gotScenario int64
		runs.scheduledFn = func(_ context.Context, sc model.Scenario, tick time.Time) (*model.ScenarioRun, bool, error) {
			gotTick, gotScenario = tick, sc.ID
			return &model.ScenarioRun{ID: 9}, true, nil
		}
		s := worker.NewScheduler(stores, runs, nil, worker.SchedulerConfig{})
		tick := time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)
		s.Fire(ctx, model.Scenario{ID: 7, OrganizationID: 1}, tick)
		Expect(gotScenario).To(Equal(int64(7)))
		Expect(gotTick).To(Equal(tick))
	})

	It("keeps sweeping after one sweep fails", func() {
		var ran []string
		sweeps := []worker.Sweep{
			{Name: "invitations", Run: func(context.Context) (int64, error) {
				ran = append(ran, "invitations")
				return 0, errors.New("db down")
			}},
			{Name: "sessions", Run: func(context.Context) (int64, error) {
				ran = append(ran, "sessions")
				return 3, nil
			}},
		}
		s := worker.NewScheduler(stores, runs, sweeps, worker.SchedulerConfig{})
		s.RunSweeps(ctx)
		Expect(ran).To(Equal([]string{"invitations", "sessions"}))
	})

	It("rejects an invalid sweep schedule on start", func() {
		s := worker.NewScheduler(stores, runs, nil, worker.SchedulerConfig{SweepSchedule: "whenever"})
		Expect(s.Run(ctx)).To(MatchError(ContainSubstring("registering sweep")))
	})
})
