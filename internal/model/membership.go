package model

import "time"

type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

type Membership struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	UserID         int64     `json:"user_id"`
	Role           Role      `json:"role"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Actor is the authenticated caller of an org-scoped operation.
// Membership is nil when the user has no active membership in the org.
type Actor struct {
	User       *User
	Membership *Membership
}

func (a Actor) UserID() int64 {
	if a.User == nil {
		return 0
	}
	return a.User.ID
}

func (a Actor) IsPlatformAdmin() bool {
	return a.User != nil && a.User.IsPlatformAdmin
}

// Role returns the actor's role, or "" without an active membership.
func (a Actor) Role() Role {
	if a.Membership == nil || !a.Membership.IsActive {
		return ""
	}
	return a.Membership.Role
}
