package model

import "time"

type Tag struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Color          *string   `json:"color,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type TagSource string

const (
	TagSourceManual   TagSource = "manual"
	TagSourcePurchase TagSource = "purchase"
	TagSourceScenario TagSource = "scenario"
)

type UserTag struct {
	UserID         int64      `json:"user_id"`
	TagID          int64      `json:"tag_id"`
	OrganizationID int64      `json:"organization_id"`
	Source         TagSource  `json:"source"`
	AssignedAt     time.Time  `json:"assigned_at"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

// Active reports whether the assignment is unexpired at now.
func (t UserTag) Active(now time.Time) bool {
	return t.ExpiresAt == nil || t.ExpiresAt.After(now)
}
