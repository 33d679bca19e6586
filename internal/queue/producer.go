package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

type Producer interface {
	Enqueue(ctx context.Context, task Task) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Enqueue(ctx context.Context, task Task) error {
	attempt := task.Attempt
	if attempt <= 0 {
		attempt = 1
	}

	msg := Message{
		TaskType:       task.TaskType,
		OrganizationID: task.OrganizationID,
		RunID:          task.RunID,
		ScenarioID:     task.ScenarioID,
		EventType:      task.EventType,
		Payload:        task.Payload,
	}
	if task.TraceID != nil {
		msg.TraceID = *task.TraceID
	}
	if err := msg.validate(); err != nil {
		return fmt.Errorf("enqueue %s: %w", task.TaskType, err)
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: messageValues(msg, attempt),
	}).Err(); err != nil {
		return fmt.Errorf("enqueue %s: %w", task.TaskType, err)
	}

	attrs := []any{
		"task_type", task.TaskType,
		"organization_id", task.OrganizationID,
		"attempt", attempt,
	}
	if task.RunID != nil {
		attrs = append(attrs, "run_id", *task.RunID)
	}
	if task.EventType != "" {
		attrs = append(attrs, "event_type", task.EventType)
	}
	p.logger.InfoContext(ctx, "enqueued task", attrs...)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}
