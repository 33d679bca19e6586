package dto

import (
	"time"

	"launchthat.app/portal/internal/model"
)

type UserResponse struct {
	ID              int64     `json:"id,string"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	AvatarURL       *string   `json:"avatar_url,omitempty"`
	IsPlatformAdmin bool      `json:"is_platform_admin"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func ToUserResponse(u *model.User) *UserResponse {
	return &UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		AvatarURL:       u.AvatarURL,
		IsPlatformAdmin: u.IsPlatformAdmin,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

type MeResponse struct {
	User            *UserResponse       `json:"user"`
	Organizations   []OrganizationBrief `json:"organizations"`
	HasOrganization bool                `json:"has_organization"`
}

type AddMemberRequest struct {
	Email string     `json:"email" binding:"required,email,max=255"`
	Role  model.Role `json:"role" binding:"required"`
}

type UpdateMemberRequest struct {
	Role model.Role `json:"role" binding:"required"`
}

type MembershipResponse struct {
	ID             int64      `json:"id,string"`
	OrganizationID int64      `json:"organization_id,string"`
	UserID         int64      `json:"user_id,string"`
	Role           model.Role `json:"role"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func ToMembershipResponse(m *model.Membership) MembershipResponse {
	return MembershipResponse{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		UserID:         m.UserID,
		Role:           m.Role,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

type CreateInvitationRequest struct {
	Email string     `json:"email" binding:"required,email,max=255"`
	Role  model.Role `json:"role" binding:"required"`
}

type AcceptInvitationRequest struct {
	Token string `json:"token" binding:"required"`
}

type InvitationResponse struct {
	ID             int64                  `json:"id,string"`
	OrganizationID int64                  `json:"organization_id,string"`
	Email          string                 `json:"email"`
	Role           model.Role             `json:"role"`
	Status         model.InvitationStatus `json:"status"`
	InviteURL      string                 `json:"invite_url,omitempty"`
	ExpiresAt      time.Time              `json:"expires_at"`
	CreatedAt      time.Time              `json:"created_at"`
	AcceptedAt     *time.Time             `json:"accepted_at,omitempty"`
}

func ToInvitationResponse(inv *model.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:             inv.ID,
		OrganizationID: inv.OrganizationID,
		Email:          inv.Email,
		Role:           inv.Role,
		Status:         inv.Status,
		ExpiresAt:      inv.ExpiresAt,
		CreatedAt:      inv.CreatedAt,
		AcceptedAt:     inv.AcceptedAt,
	}
}

type ValidateInvitationResponse struct {
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	ExpiresAt time.Time  `json:"expires_at"`
	Valid     bool       `json:"valid"`
}
