package model

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

type Organization struct {
	ID                 int64              `json:"id"`
	OwnerUserID        int64              `json:"owner_user_id"`
	Name               string             `json:"name"`
	Slug               string             `json:"slug"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	IsDeleted          bool               `json:"-"` // internal, not exposed in API
}
