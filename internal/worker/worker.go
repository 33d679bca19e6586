package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"launchthat.app/portal/common/logger"
	"launchthat.app/portal/common/metrics"
	"launchthat.app/portal/internal/queue"
	"launchthat.app/portal/internal/store"
)

// Mirrors the subset of service.StoreProvider the worker reads; defined here
// to avoid import cycles.
type StoreProvider interface {
	Scenarios() store.ScenarioStore
	WebhookSubscriptions() store.WebhookSubscriptionStore
	WebhookDeliveries() store.WebhookDeliveryStore
}

type Config struct {
	MaxAttempts int
	// ErrorBackoff is the pause after a failed read.
	ErrorBackoff time.Duration
}

type Worker struct {
	consumer Consumer
	handlers map[queue.TaskType]Handler
	cfg      Config

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer Consumer, handlers map[queue.TaskType]Handler, cfg Config) *Worker {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = time.Second
	}
	return &Worker{
		consumer:  consumer,
		handlers:  handlers,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "portal.worker"})
	slog.InfoContext(ctx, "worker started", "task_types", len(w.handlers))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				select {
				case <-ctx.Done():
				case <-time.After(w.cfg.ErrorBackoff):
				}
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		if err := w.ProcessMessage(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "message processing failed",
				"error", err,
				"message_id", msg.ID)
		}
	}
	return nil
}

// ProcessMessage runs the handler for the message's task type and acks it. A
// failed message is requeued, or sent to the DLQ once MaxAttempts is reached.
// Exported so the reclaimer can reuse it.
func (w *Worker) ProcessMessage(ctx context.Context, msg queue.Message) error {
	taskType := string(msg.TaskType)
	msgID := msg.ID
	fields := logger.LogFields{
		OrganizationID: &msg.OrganizationID,
		MessageID:      &msgID,
		TaskType:       &taskType,
		RunID:          msg.RunID,
		ScenarioID:     msg.ScenarioID,
	}
	ctx = logger.WithLogFields(ctx, fields)

	slog.InfoContext(ctx, "processing message", "attempt", msg.Attempt)

	start := time.Now()
	err := w.handleSafe(ctx, msg)
	if err != nil {
		metrics.RecordQueueTask(taskType, "failed")
		w.handleFailedMessage(ctx, msg, err)
		return err
	}
	metrics.RecordQueueTask(taskType, "succeeded")

	if ackErr := w.consumer.Ack(ctx, msg); ackErr != nil {
		// Unacked messages are picked up by the reclaimer.
		slog.WarnContext(ctx, "failed to ACK message", "error", ackErr)
	}

	slog.InfoContext(ctx, "message processed",
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (w *Worker) handleSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in message processing", "panic", r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	handler, ok := w.handlers[msg.TaskType]
	if !ok {
		return fmt.Errorf("no handler for task type %q", msg.TaskType)
	}
	return handler.Handle(ctx, msg)
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) {
	if msg.Attempt >= w.cfg.MaxAttempts {
		slog.ErrorContext(ctx, "max attempts reached, sending to DLQ",
			"attempts", msg.Attempt)
		metrics.RecordQueueTask(string(msg.TaskType), "dead_lettered")
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(ctx, "failed to send to DLQ", "error", dlqErr)
		}
		return
	}

	slog.WarnContext(ctx, "requeuing failed message", "attempt", msg.Attempt)
	if requeueErr := w.consumer.Requeue(ctx, msg, err.Error()); requeueErr != nil {
		slog.ErrorContext(ctx, "failed to requeue message", "error", requeueErr)
	}
}
