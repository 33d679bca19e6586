package worker

import (
	"context"
	"time"

	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/queue"
	"launchthat.app/portal/internal/scenario"
	"launchthat.app/portal/internal/webhook"
)

// Consumer abstracts the message queue for testability.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// Handler processes one task type. A returned error requeues the message.
type Handler interface {
	Handle(ctx context.Context, msg queue.Message) error
}

type HandlerFunc func(ctx context.Context, msg queue.Message) error

func (f HandlerFunc) Handle(ctx context.Context, msg queue.Message) error {
	return f(ctx, msg)
}

// RunExecutor mirrors the part of service.RunService the worker needs.
type RunExecutor interface {
	Execute(ctx context.Context, runID int64) (scenario.Outcome, error)
	TriggerScheduled(ctx context.Context, sc model.Scenario, tick time.Time) (*model.ScenarioRun, bool, error)
}

// Sender delivers one outbound webhook.
type Sender interface {
	Send(ctx context.Context, req webhook.Request) webhook.Result
}
