package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"launchthat.app/portal/common/id"
	"launchthat.app/portal/common/secretbox"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/store"
)

const (
	purposeSubscriptionSecret = "webhook-subscription-secret"
	defaultDeliveryListLimit  = 50
)

var (
	ErrSubscriptionNotFound = errors.New("webhook subscription not found")
	ErrInvalidWebhookURL    = errors.New("webhook url must be an absolute http or https url")
)

type CreateSubscriptionParams struct {
	URL        string
	EventTypes []string
	Secret     string
}

type SubscriptionService interface {
	Create(ctx context.Context, orgID int64, actor model.Actor, params CreateSubscriptionParams) (*model.WebhookSubscription, error)
	List(ctx context.Context, orgID int64, actor model.Actor) ([]model.WebhookSubscription, error)
	Delete(ctx context.Context, orgID int64, actor model.Actor, subID int64) error
	Deliveries(ctx context.Context, orgID int64, actor model.Actor, subID int64, limit int32) ([]model.WebhookDelivery, error)
}

type subscriptionService struct {
	stores StoreProvider
	box    *secretbox.Box
}

func NewSubscriptionService(stores StoreProvider, box *secretbox.Box) SubscriptionService {
	return &subscriptionService{stores: stores, box: box}
}

func (s *subscriptionService) Create(ctx context.Context, orgID int64, actor model.Actor, params CreateSubscriptionParams) (*model.WebhookSubscription, error) {
	if err := authorize(actor, model.PermWebhooksManage); err != nil {
		return nil, err
	}
	if err := validateWebhookURL(params.URL); err != nil {
		return nil, err
	}

	events := make([]string, 0, len(params.EventTypes))
	for _, e := range params.EventTypes {
		if e = strings.TrimSpace(e); e != "" {
			events = append(events, e)
		}
	}
	if len(events) == 0 {
		events = []string{model.EventWildcard}
	}

	sub := &model.WebhookSubscription{
		ID:             id.New(),
		OrganizationID: orgID,
		URL:            params.URL,
		EventTypes:     events,
		IsActive:       true,
	}
	if params.Secret != "" {
		sealed, err := s.box.Seal(orgID, purposeSubscriptionSecret, []byte(params.Secret))
		if err != nil {
			return nil, fmt.Errorf("sealing subscription secret: %w", err)
		}
		sub.EncryptedSecret = sealed
	}

	if err := s.stores.WebhookSubscriptions().Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("creating subscription: %w", err)
	}
	return sub, nil
}

func (s *subscriptionService) List(ctx context.Context, orgID int64, actor model.Actor) ([]model.WebhookSubscription, error) {
	if err := authorize(actor, model.PermWebhooksManage); err != nil {
		return nil, err
	}
	return s.stores.WebhookSubscriptions().List(ctx, orgID)
}

func (s *subscriptionService) Delete(ctx context.Context, orgID int64, actor model.Actor, subID int64) error {
	if err := authorize(actor, model.PermWebhooksManage); err != nil {
		return err
	}
	if err := s.stores.WebhookSubscriptions().Delete(ctx, orgID, subID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSubscriptionNotFound
		}
		return fmt.Errorf("deleting subscription: %w", err)
	}
	return nil
}

func (s *subscriptionService) Deliveries(ctx context.Context, orgID int64, actor model.Actor, subID int64, limit int32) ([]model.WebhookDelivery, error) {
	if err := authorize(actor, model.PermWebhooksManage); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultDeliveryListLimit
	}
	deliveries, err := s.stores.WebhookDeliveries().List(ctx, subID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing deliveries: %w", err)
	}
	out := deliveries[:0]
	for _, d := range deliveries {
		if d.OrganizationID == orgID {
			out = append(out, d)
		}
	}
	return out, nil
}

func validateWebhookURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidWebhookURL
	}
	return nil
}

// SubscriptionSecret opens a subscription's sealed signing secret. An empty
// secret means deliveries go unsigned.
func SubscriptionSecret(box *secretbox.Box, sub model.WebhookSubscription) (string, error) {
	if len(sub.EncryptedSecret) == 0 {
		return "", nil
	}
	plain, err := box.Open(sub.OrganizationID, purposeSubscriptionSecret, sub.EncryptedSecret)
	if err != nil {
		return "", fmt.Errorf("opening subscription secret: %w", err)
	}
	return string(plain), nil
}
