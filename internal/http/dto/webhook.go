package dto

import (
	"encoding/json"
	"time"

	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/webhook"
)

type CreateSubscriptionRequest struct {
	URL        string   `json:"url" binding:"required,url,max=2048"`
	EventTypes []string `json:"event_types" binding:"required,min=1"`
	Secret     string   `json:"secret,omitempty"`
}

type SubscriptionResponse struct {
	ID         int64     `json:"id,string"`
	URL        string    `json:"url"`
	EventTypes []string  `json:"event_types"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToSubscriptionResponse(s *model.WebhookSubscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:         s.ID,
		URL:        s.URL,
		EventTypes: s.EventTypes,
		IsActive:   s.IsActive,
		CreatedAt:  s.CreatedAt,
	}
}

type DeliveryResponse struct {
	ID         int64           `json:"id,string"`
	EventType  string          `json:"event_type"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Success    bool            `json:"success"`
	StatusCode *int32          `json:"status_code,omitempty"`
	Attempts   int32           `json:"attempts"`
	Error      *string         `json:"error,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

func ToDeliveryResponse(d *model.WebhookDelivery) DeliveryResponse {
	return DeliveryResponse{
		ID:         d.ID,
		EventType:  d.EventType,
		Payload:    d.Payload,
		Success:    d.Success,
		StatusCode: d.StatusCode,
		Attempts:   d.Attempts,
		Error:      d.Error,
		CreatedAt:  d.CreatedAt,
	}
}

type SendWebhookRequest struct {
	ConnectionID int64           `json:"connection_id,string" binding:"required"`
	URL          string          `json:"url" binding:"required,url,max=2048"`
	EventType    string          `json:"event_type,omitempty"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	RateLimit    *RateLimitInput `json:"rate_limit,omitempty"`
}

type RateLimitInput struct {
	Limit    int `json:"limit" binding:"required,min=1"`
	WindowMS int `json:"window_ms" binding:"required,min=1"`
}

type SendWebhookResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code,omitempty"`
	Attempts   int    `json:"attempts"`
	Error      string `json:"error,omitempty"`
}

func ToSendWebhookResponse(r webhook.Result) SendWebhookResponse {
	return SendWebhookResponse{
		Success:    r.Success,
		StatusCode: r.StatusCode,
		Attempts:   r.Attempts,
		Error:      r.Error,
	}
}

type TestHeader struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type TestWebhookRequest struct {
	URL       string       `json:"url" binding:"required"`
	Method    string       `json:"method,omitempty"`
	Headers   []TestHeader `json:"headers,omitempty"`
	Body      string       `json:"body,omitempty"`
	TimeoutMS int          `json:"timeout_ms,omitempty" binding:"omitempty,min=1,max=60000"`
}

func (r TestWebhookRequest) ToTestRequest() webhook.TestRequest {
	headers := make([]webhook.Header, 0, len(r.Headers))
	for _, h := range r.Headers {
		headers = append(headers, webhook.Header{Key: h.Key, Value: h.Value})
	}
	return webhook.TestRequest{
		URL:     r.URL,
		Method:  r.Method,
		Headers: headers,
		Body:    r.Body,
		Timeout: time.Duration(r.TimeoutMS) * time.Millisecond,
	}
}
