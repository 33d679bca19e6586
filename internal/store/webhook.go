package store

import (
	"context"

	"launchthat.app/portal/core/db/sqlc"
	"launchthat.app/portal/internal/model"
)

type webhookSubscriptionStore struct {
	queries *sqlc.Queries
}

func newWebhookSubscriptionStore(queries *sqlc.Queries) WebhookSubscriptionStore {
	return &webhookSubscriptionStore{queries: queries}
}

func (s *webhookSubscriptionStore) Create(ctx context.Context, sub *model.WebhookSubscription) error {
	row, err := s.queries.CreateWebhookSubscription(ctx, sqlc.CreateWebhookSubscriptionParams{
		ID:              sub.ID,
		OrganizationID:  sub.OrganizationID,
		Url:             sub.URL,
		EventTypes:      sub.EventTypes,
		EncryptedSecret: sub.EncryptedSecret,
		IsActive:        sub.IsActive,
	})
	if err != nil {
		return mapErr(err)
	}
	*sub = toSubscriptionModel(row)
	return nil
}

func (s *webhookSubscriptionStore) List(ctx context.Context, orgID int64) ([]model.WebhookSubscription, error) {
	rows, err := s.queries.ListWebhookSubscriptions(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return toSubscriptionModels(rows), nil
}

func (s *webhookSubscriptionStore) ListActiveForEvent(ctx context.Context, orgID int64, eventType string) ([]model.WebhookSubscription, error) {
	rows, err := s.queries.ListActiveWebhookSubscriptionsForEvent(ctx, sqlc.ListActiveWebhookSubscriptionsForEventParams{
		OrganizationID: orgID,
		EventType:      eventType,
	})
	if err != nil {
		return nil, err
	}
	return toSubscriptionModels(rows), nil
}

func (s *webhookSubscriptionStore) Delete(ctx context.Context, orgID, id int64) error {
	return requireRows(s.queries.DeleteWebhookSubscription(ctx, sqlc.DeleteWebhookSubscriptionParams{
		ID:             id,
		OrganizationID: orgID,
	}))
}

func toSubscriptionModel(row sqlc.WebhookSubscription) model.WebhookSubscription {
	return model.WebhookSubscription{
		ID:              row.ID,
		OrganizationID:  row.OrganizationID,
		URL:             row.Url,
		EventTypes:      row.EventTypes,
		EncryptedSecret: row.EncryptedSecret,
		IsActive:        row.IsActive,
		CreatedAt:       row.CreatedAt.Time,
	}
}

func toSubscriptionModels(rows []sqlc.WebhookSubscription) []model.WebhookSubscription {
	result := make([]model.WebhookSubscription, len(rows))
	for i, row := range rows {
		result[i] = toSubscriptionModel(row)
	}
	return result
}

type webhookDeliveryStore struct {
	queries *sqlc.Queries
}

func newWebhookDeliveryStore(queries *sqlc.Queries) WebhookDeliveryStore {
	return &webhookDeliveryStore{queries: queries}
}

func (s *webhookDeliveryStore) Create(ctx context.Context, d *model.WebhookDelivery) error {
	return s.queries.CreateWebhookDelivery(ctx, sqlc.CreateWebhookDeliveryParams{
		ID:             d.ID,
		SubscriptionID: d.SubscriptionID,
		OrganizationID: d.OrganizationID,
		EventType:      d.EventType,
		Payload:        jsonOrEmpty(d.Payload),
		Success:        d.Success,
		StatusCode:     d.StatusCode,
		Attempts:       d.Attempts,
		Error:          d.Error,
	})
}

func (s *webhookDeliveryStore) List(ctx context.Context, subscriptionID int64, limit int32) ([]model.WebhookDelivery, error) {
	rows, err := s.queries.ListWebhookDeliveries(ctx, sqlc.ListWebhookDeliveriesParams{
		SubscriptionID: subscriptionID,
		LimitCount:     limit,
	})
	if err != nil {
		return nil, err
	}
	result := make([]model.WebhookDelivery, len(rows))
	for i, row := range rows {
		result[i] = model.WebhookDelivery{
			ID:             row.ID,
			SubscriptionID: row.SubscriptionID,
			OrganizationID: row.OrganizationID,
			EventType:      row.EventType,
			Payload:        row.Payload,
			Success:        row.Success,
			StatusCode:     row.StatusCode,
			Attempts:       row.Attempts,
			Error:          row.Error,
			CreatedAt:      row.CreatedAt.Time,
		}
	}
	return result, nil
}
