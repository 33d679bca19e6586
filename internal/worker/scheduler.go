package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"launchthat.app/portal/common/logger"
	"launchthat.app/portal/internal/model"
)

type SchedulerConfig struct {
	// SweepSchedule is a cron spec or descriptor such as "@every 15m".
	SweepSchedule string
	ReloadEvery   time.Duration
}

// Sweep is a periodic cleanup job. It returns the number of rows affected.
type Sweep struct {
	Name string
	Run  func(ctx context.Context) (int64, error)
}

type scheduledEntry struct {
	id       cron.EntryID
	schedule string
}

// Scheduler triggers scenarios on their cron schedules and runs the sweeps.
// Scenario schedules are reloaded every ReloadEvery.
type Scheduler struct {
	stores StoreProvider
	runs   RunExecutor
	sweeps []Sweep
	cfg    SchedulerConfig
	cron   *cron.Cron

	mu      sync.Mutex
	entries map[int64]scheduledEntry

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewScheduler(stores StoreProvider, runs RunExecutor, sweeps []Sweep, cfg SchedulerConfig) *Scheduler {
	if cfg.SweepSchedule == "" {
		cfg.SweepSchedule = "@every 15m"
	}
	if cfg.ReloadEvery <= 0 {
		cfg.ReloadEvery = time.Minute
	}
	return &Scheduler{
		stores:    stores,
		runs:      runs,
		sweeps:    sweeps,
		cfg:       cfg,
		cron:      cron.New(cron.WithLocation(time.UTC)),
		entries:   make(map[int64]scheduledEntry),
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (s *Scheduler) Run(ctx context.Context) error {
	defer close(s.stoppedCh)

	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "portal.worker.scheduler"})

	if _, err := s.cron.AddFunc(s.cfg.SweepSchedule, func() { s.RunSweeps(ctx) }); err != nil {
		return fmt.Errorf("registering sweep %q: %w", s.cfg.SweepSchedule, err)
	}
	if err := s.Reload(ctx); err != nil {
		slog.ErrorContext(ctx, "initial schedule load failed", "error", err)
	}

	s.cron.Start()
	defer func() { <-s.cron.Stop().Done() }()

	slog.InfoContext(ctx, "scheduler started",
		"sweep_schedule", s.cfg.SweepSchedule,
		"reload_every", s.cfg.ReloadEvery)

	ticker := time.NewTicker(s.cfg.ReloadEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			slog.InfoContext(ctx, "scheduler stopping")
			return nil
		case <-ticker.C:
			if err := s.Reload(ctx); err != nil {
				slog.ErrorContext(ctx, "schedule reload failed", "error", err)
			}
		}
	}
}

func (s *Scheduler) Stop() {
	close(s.stopCh)
	<-s.stoppedCh
}

// Reload syncs the cron entries with the enabled scenarios that have a
// schedule. Entries of removed or rescheduled scenarios are replaced.
func (s *Scheduler) Reload(ctx context.Context) error {
	scenarios, err := s.stores.Scenarios().ListScheduled(ctx)
	if err != nil {
		return fmt.Errorf("listing scheduled scenarios: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[int64]model.Scenario, len(scenarios))
	for _, sc := range scenarios {
		if sc.Enabled && sc.Schedule != nil && *sc.Schedule != "" {
			wanted[sc.ID] = sc
		}
	}

	for scenarioID, entry := range s.entries {
		sc, ok := wanted[scenarioID]
		if !ok || *sc.Schedule != entry.schedule {
			s.cron.Remove(entry.id)
			delete(s.entries, scenarioID)
		}
	}

	added := 0
	for scenarioID, sc := range wanted {
		if _, ok := s.entries[scenarioID]; ok {
			continue
		}
		entryID, err := s.cron.AddFunc(*sc.Schedule, func() { s.fire(ctx, sc) })
		if err != nil {
			slog.WarnContext(ctx, "skipping scenario with invalid schedule",
				"scenario_id", scenarioID,
				"schedule", *sc.Schedule,
				"error", err)
			continue
		}
		s.entries[scenarioID] = scheduledEntry{id: entryID, schedule: *sc.Schedule}
		added++
	}

	slog.DebugContext(ctx, "schedules reloaded",
		"scheduled", len(s.entries),
		"added", added)
	return nil
}

// Scheduled returns the ids of scenarios that currently have a cron entry.
func (s *Scheduler) Scheduled() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.entries))
	for scenarioID := range s.entries {
		ids = append(ids, scenarioID)
	}
	return ids
}

// fire truncates the tick to the minute so every worker replica derives the
// same idempotency key for it.
func (s *Scheduler) fire(ctx context.Context, sc model.Scenario) {
	s.Fire(ctx, sc, time.Now().UTC().Truncate(time.Minute))
}

func (s *Scheduler) Fire(ctx context.Context, sc model.Scenario, tick time.Time) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		OrganizationID: &sc.OrganizationID,
		ScenarioID:     &sc.ID,
	})

	run, created, err := s.runs.TriggerScheduled(ctx, sc, tick)
	if err != nil {
		slog.ErrorContext(ctx, "scheduled trigger failed", "error", err)
		return
	}
	if !created {
		slog.DebugContext(ctx, "tick already triggered", "tick", tick)
		return
	}
	slog.InfoContext(ctx, "scheduled run created",
		"run_id", run.ID,
		"tick", tick)
}

// RunSweeps runs every sweep once, logging failures.
func (s *Scheduler) RunSweeps(ctx context.Context) {
	for _, job := range s.sweeps {
		n, err := job.Run(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "sweep failed", "sweep", job.Name, "error", err)
			continue
		}
		if n > 0 {
			slog.InfoContext(ctx, "sweep completed", "sweep", job.Name, "affected", n)
		}
	}
}
