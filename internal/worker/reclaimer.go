package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"launchthat.app/portal/common/logger"
	"launchthat.app/portal/common/metrics"
	"launchthat.app/portal/internal/queue"
)

type PendingReclaimerConfig struct {
	Stream   string
	Group    string
	Consumer string

	// A task is stale once it has been pending this long without an ack.
	MinIdle   time.Duration
	Interval  time.Duration
	BatchSize int64
}

// PendingReclaimer takes over scenario runs and webhook dispatches that a
// crashed worker read but never acked, and feeds them back through the
// worker's own processing path.
type PendingReclaimer struct {
	client  *redis.Client
	cfg     PendingReclaimerConfig
	acker   Consumer
	process queue.MessageProcessor

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewPendingReclaimer(client *redis.Client, cfg PendingReclaimerConfig, acker Consumer, process queue.MessageProcessor) *PendingReclaimer {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.MinIdle <= 0 {
		cfg.MinIdle = 5 * time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	return &PendingReclaimer{
		client:    client,
		cfg:       cfg,
		acker:     acker,
		process:   process,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run blocks until Stop is called or ctx is done.
func (r *PendingReclaimer) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "portal.worker.reclaimer"})
	defer close(r.stoppedCh)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "reclaimer started", "stream", r.cfg.Stream, "min_idle", r.cfg.MinIdle)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-ticker.C:
			if _, err := r.ReclaimOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "reclaim pass failed", "error", err)
			}
		}
	}
}

func (r *PendingReclaimer) Stop() {
	close(r.stopCh)
	<-r.stoppedCh
}

// ReclaimOnce claims one batch of stale tasks and processes them. It
// returns how many claimed tasks were handed to the processor.
func (r *PendingReclaimer) ReclaimOnce(ctx context.Context) (int, error) {
	pending, err := r.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: r.cfg.Stream,
		Group:  r.cfg.Group,
		Idle:   r.cfg.MinIdle,
		Start:  "-",
		End:    "+",
		Count:  r.cfg.BatchSize,
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("listing pending tasks: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	ids := make([]string, len(pending))
	deliveries := make(map[string]int64, len(pending))
	for i, p := range pending {
		ids[i] = p.ID
		deliveries[p.ID] = p.RetryCount
	}

	// Another reclaimer may win some of these; XCLAIM only returns ours.
	claimed, err := r.client.XClaim(ctx, &redis.XClaimArgs{
		Stream:   r.cfg.Stream,
		Group:    r.cfg.Group,
		Consumer: r.cfg.Consumer,
		MinIdle:  r.cfg.MinIdle,
		Messages: ids,
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("claiming %d stale tasks: %w", len(ids), err)
	}

	processed := 0
	for _, raw := range claimed {
		if r.reclaim(ctx, raw, deliveries[raw.ID]) {
			processed++
		}
	}
	return processed, nil
}

func (r *PendingReclaimer) reclaim(ctx context.Context, raw redis.XMessage, delivered int64) bool {
	msgID := raw.ID
	ctx = logger.WithLogFields(ctx, logger.LogFields{MessageID: &msgID})

	msg, err := queue.ParseMessage(raw)
	if err != nil {
		// Unparseable tasks would come back every pass.
		slog.ErrorContext(ctx, "dropping unparseable stale task", "error", err)
		metrics.RecordQueueTask("unknown", "unparseable")
		if ackErr := r.acker.Ack(ctx, queue.Message{ID: raw.ID, Raw: raw}); ackErr != nil {
			slog.ErrorContext(ctx, "failed to ack unparseable task", "error", ackErr)
		}
		return false
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		OrganizationID: &msg.OrganizationID,
		RunID:          msg.RunID,
	})

	// Each delivery to a dead consumer counts as an attempt so a task that
	// keeps killing workers still reaches the DLQ.
	if int(delivered) > msg.Attempt {
		msg.Attempt = int(delivered)
	}

	slog.InfoContext(ctx, "reclaiming stale task",
		"task_type", msg.TaskType,
		"attempt", msg.Attempt)
	metrics.RecordQueueTask(string(msg.TaskType), "reclaimed")

	if err := r.process(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "reclaimed task failed", "task_type", msg.TaskType, "error", err)
	}
	return true
}
