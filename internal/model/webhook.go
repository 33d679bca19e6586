package model

import (
	"encoding/json"
	"slices"
	"time"
)

// EventWildcard subscribes to every event type.
const EventWildcard = "*"

type WebhookSubscription struct {
	ID              int64     `json:"id"`
	OrganizationID  int64     `json:"organization_id"`
	URL             string    `json:"url"`
	EventTypes      []string  `json:"event_types"`
	EncryptedSecret []byte    `json:"-"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

func (s WebhookSubscription) Wants(eventType string) bool {
	return slices.Contains(s.EventTypes, eventType) || slices.Contains(s.EventTypes, EventWildcard)
}

type WebhookDelivery struct {
	ID             int64           `json:"id"`
	SubscriptionID int64           `json:"subscription_id"`
	OrganizationID int64           `json:"organization_id"`
	EventType      string          `json:"event_type"`
	Payload        json.RawMessage `json:"payload"`
	Success        bool            `json:"success"`
	StatusCode     *int32          `json:"status_code,omitempty"`
	Attempts       int32           `json:"attempts"`
	Error          *string         `json:"error,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
