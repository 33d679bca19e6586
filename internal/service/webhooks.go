package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/ratelimit"
	"launchthat.app/portal/internal/webhook"
)

type RateLimit struct {
	Limit  int
	Window time.Duration
}

type SendWithConnectionParams struct {
	ConnectionID int64
	URL          string
	EventType    string
	Payload      any
	RateLimit    *RateLimit
}

type WebhookService interface {
	Test(ctx context.Context, orgID int64, actor model.Actor, req webhook.TestRequest) (webhook.TestResult, error)
	// Send is SendWithConnection for a member; the connection must belong to orgID.
	Send(ctx context.Context, orgID int64, actor model.Actor, params SendWithConnectionParams) (webhook.Result, error)
	SendWithConnection(ctx context.Context, params SendWithConnectionParams) webhook.Result
}

type webhookService struct {
	stores      StoreProvider
	connections ConnectionService
	limiter     ratelimit.Limiter
	sender      *webhook.Sender
}

func NewWebhookService(stores StoreProvider, connections ConnectionService, limiter ratelimit.Limiter, sender *webhook.Sender) WebhookService {
	return &webhookService{
		stores:      stores,
		connections: connections,
		limiter:     limiter,
		sender:      sender,
	}
}

func (s *webhookService) Test(ctx context.Context, orgID int64, actor model.Actor, req webhook.TestRequest) (webhook.TestResult, error) {
	if err := authorize(actor, model.PermWebhooksManage); err != nil {
		return webhook.TestResult{}, err
	}
	if req.URL == "" {
		return webhook.TestResult{}, fmt.Errorf("%w: url is required", ErrInvalidInput)
	}

	result := s.sender.Test(ctx, req)
	slog.InfoContext(ctx, "webhook test sent",
		"organization_id", orgID,
		"url", req.URL,
		"success", result.Success,
		"status_code", result.StatusCode,
		"duration_ms", result.DurationMS)
	return result, nil
}

func (s *webhookService) Send(ctx context.Context, orgID int64, actor model.Actor, params SendWithConnectionParams) (webhook.Result, error) {
	if err := authorize(actor, model.PermWebhooksManage); err != nil {
		return webhook.Result{}, err
	}
	if params.URL == "" {
		return webhook.Result{}, fmt.Errorf("%w: url is required", ErrInvalidInput)
	}
	if _, err := s.connections.Get(ctx, orgID, actor, params.ConnectionID); err != nil {
		return webhook.Result{}, err
	}
	return s.SendWithConnection(ctx, params), nil
}

// SendWithConnection signs the request with the connection's secret. Failures
// are reported in the Result rather than as an error.
func (s *webhookService) SendWithConnection(ctx context.Context, params SendWithConnectionParams) webhook.Result {
	if params.RateLimit != nil && s.limiter != nil {
		key := fmt.Sprintf("webhook:%d", params.ConnectionID)
		allowed, remaining, err := s.limiter.Allow(ctx, key, params.RateLimit.Limit, params.RateLimit.Window)
		if err != nil {
			slog.WarnContext(ctx, "rate limit check failed",
				"connection_id", params.ConnectionID,
				"error", err)
		} else if !allowed {
			return webhook.Result{Error: fmt.Sprintf("Rate limit exceeded. Remaining: %d", remaining)}
		}
	}

	_, creds, err := s.connections.Secrets(ctx, params.ConnectionID)
	if err != nil {
		if !errors.Is(err, ErrSecretsUnavailable) && !errors.Is(err, ErrConnectionNotFound) {
			slog.ErrorContext(ctx, "failed to load connection secrets",
				"connection_id", params.ConnectionID,
				"error", err)
		}
		return webhook.Result{Error: "Connection secrets not found or could not be decrypted"}
	}

	result := s.sender.Send(ctx, webhook.Request{
		URL:       params.URL,
		Payload:   params.Payload,
		Secret:    creds.SigningSecret(),
		EventType: params.EventType,
	})

	if err := s.stores.Connections().Touch(ctx, params.ConnectionID); err != nil {
		slog.WarnContext(ctx, "failed to touch connection",
			"connection_id", params.ConnectionID,
			"error", err)
	}
	return result
}
