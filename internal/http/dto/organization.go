package dto

import (
	"time"

	"launchthat.app/portal/internal/model"
)

type CreateOrganizationRequest struct {
	Name string  `json:"name" binding:"required,min=1,max=255"`
	Slug *string `json:"slug,omitempty" binding:"omitempty,min=1,max=255"`
}

type UpdateOrganizationRequest struct {
	Name *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
}

type OrganizationResponse struct {
	ID                 int64                    `json:"id,string"`
	OwnerUserID        int64                    `json:"owner_user_id,string"`
	Name               string                   `json:"name"`
	Slug               string                   `json:"slug"`
	SubscriptionStatus model.SubscriptionStatus `json:"subscription_status"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

func ToOrganizationResponse(org *model.Organization) *OrganizationResponse {
	return &OrganizationResponse{
		ID:                 org.ID,
		OwnerUserID:        org.OwnerUserID,
		Name:               org.Name,
		Slug:               org.Slug,
		SubscriptionStatus: org.SubscriptionStatus,
		CreatedAt:          org.CreatedAt,
		UpdatedAt:          org.UpdatedAt,
	}
}

type OrganizationBrief struct {
	ID   int64  `json:"id,string"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func ToOrganizationBrief(org model.Organization) OrganizationBrief {
	return OrganizationBrief{
		ID:   org.ID,
		Name: org.Name,
		Slug: org.Slug,
	}
}

func ToOrganizationBriefs(orgs []model.Organization) []OrganizationBrief {
	out := make([]OrganizationBrief, 0, len(orgs))
	for _, org := range orgs {
		out = append(out, ToOrganizationBrief(org))
	}
	return out
}
