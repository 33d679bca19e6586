package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"launchthat.app/portal/common/id"
	"launchthat.app/portal/common/metrics"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/queue"
	"launchthat.app/portal/internal/webhook"
)

// ScenarioRunHandler executes a queued run. Node failures are recorded on the
// run itself; only infrastructure errors requeue the message.
func ScenarioRunHandler(runs RunExecutor) Handler {
	return HandlerFunc(func(ctx context.Context, msg queue.Message) error {
		outcome, err := runs.Execute(ctx, *msg.RunID)
		if err != nil {
			return fmt.Errorf("executing run %d: %w", *msg.RunID, err)
		}
		slog.InfoContext(ctx, "scenario run finished",
			"success", outcome.Success,
			"nodes_executed", outcome.NodesExecuted,
			"error_code", outcome.ErrorCode)
		return nil
	})
}

// SecretOpener returns the plaintext signing secret of a subscription.
type SecretOpener func(sub model.WebhookSubscription) (string, error)

// Dispatcher fans an e-commerce event out to the org's webhook subscriptions.
type Dispatcher struct {
	stores StoreProvider
	sender Sender
	secret SecretOpener
}

func NewDispatcher(stores StoreProvider, sender Sender, secret SecretOpener) *Dispatcher {
	return &Dispatcher{stores: stores, sender: sender, secret: secret}
}

func (d *Dispatcher) Handle(ctx context.Context, msg queue.Message) error {
	return d.Dispatch(ctx, msg.OrganizationID, msg.EventType, msg.Payload)
}

// Dispatch sends the event to every active subscription that wants it and
// records one delivery per subscription. A failed send is recorded, not retried
// through the queue.
func (d *Dispatcher) Dispatch(ctx context.Context, orgID int64, eventType string, payload json.RawMessage) error {
	subs, err := d.stores.WebhookSubscriptions().ListActiveForEvent(ctx, orgID, eventType)
	if err != nil {
		return fmt.Errorf("listing subscriptions: %w", err)
	}
	if len(subs) == 0 {
		slog.DebugContext(ctx, "no subscriptions for event", "event_type", eventType)
		return nil
	}
	if len(payload) == 0 {
		payload = json.RawMessage(`{}`)
	}

	for _, sub := range subs {
		if !sub.Wants(eventType) {
			continue
		}
		delivery := d.deliver(ctx, sub, eventType, payload)
		if err := d.stores.WebhookDeliveries().Create(ctx, delivery); err != nil {
			slog.ErrorContext(ctx, "failed to record webhook delivery",
				"subscription_id", sub.ID,
				"error", err)
		}
	}
	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, sub model.WebhookSubscription, eventType string, payload json.RawMessage) *model.WebhookDelivery {
	delivery := &model.WebhookDelivery{
		ID:             id.New(),
		SubscriptionID: sub.ID,
		OrganizationID: sub.OrganizationID,
		EventType:      eventType,
		Payload:        payload,
	}

	secret, err := d.secret(sub)
	if err != nil {
		msg := "subscription secret could not be decrypted"
		delivery.Error = &msg
		slog.WarnContext(ctx, "skipping subscription with unreadable secret",
			"subscription_id", sub.ID,
			"error", err)
		return delivery
	}

	result := d.sender.Send(ctx, webhook.Request{
		URL:       sub.URL,
		Payload:   payload,
		Secret:    secret,
		EventType: eventType,
	})
	metrics.RecordWebhookDelivery(eventType, result.Success, result.Attempts)

	delivery.Success = result.Success
	delivery.Attempts = int32(result.Attempts)
	if result.StatusCode != 0 {
		code := int32(result.StatusCode)
		delivery.StatusCode = &code
	}
	if result.Error != "" {
		delivery.Error = &result.Error
	}

	slog.InfoContext(ctx, "webhook delivered",
		"subscription_id", sub.ID,
		"event_type", eventType,
		"success", result.Success,
		"attempts", result.Attempts)
	return delivery
}
