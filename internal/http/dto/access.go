package dto

import (
	"time"

	"launchthat.app/portal/internal/model"
)

type CreateTagRequest struct {
	Name  string  `json:"name" binding:"required,min=1,max=100"`
	Color *string `json:"color,omitempty" binding:"omitempty,max=32"`
}

type TagResponse struct {
	ID             int64     `json:"id,string"`
	OrganizationID int64     `json:"organization_id,string"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Color          *string   `json:"color,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func ToTagResponse(t *model.Tag) TagResponse {
	return TagResponse{
		ID:             t.ID,
		OrganizationID: t.OrganizationID,
		Name:           t.Name,
		Slug:           t.Slug,
		Color:          t.Color,
		CreatedAt:      t.CreatedAt,
	}
}

type AssignTagRequest struct {
	UserID    int64      `json:"user_id,string" binding:"required"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type UnassignTagRequest struct {
	UserID int64 `json:"user_id,string" binding:"required"`
}

type UserTagResponse struct {
	UserID     int64           `json:"user_id,string"`
	TagID      int64           `json:"tag_id,string"`
	Source     model.TagSource `json:"source"`
	AssignedAt time.Time       `json:"assigned_at"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
}

func ToUserTagResponse(t *model.UserTag) UserTagResponse {
	return UserTagResponse{
		UserID:     t.UserID,
		TagID:      t.TagID,
		Source:     t.Source,
		AssignedAt: t.AssignedAt,
		ExpiresAt:  t.ExpiresAt,
	}
}

type TagMatchBody struct {
	Mode   model.TagMode `json:"mode"`
	TagIDs []string      `json:"tag_ids"`
}

func (b TagMatchBody) ToModel() (model.TagMatch, error) {
	ids, err := ParseIDs(b.TagIDs)
	if err != nil {
		return model.TagMatch{}, err
	}
	mode := b.Mode
	if mode == "" {
		mode = model.TagModeSome
	}
	return model.TagMatch{Mode: mode, TagIDs: ids}, nil
}

func ToTagMatchBody(m model.TagMatch) TagMatchBody {
	return TagMatchBody{Mode: m.Mode, TagIDs: FormatIDs(m.TagIDs)}
}

type SaveAccessRuleRequest struct {
	IsPublic            bool               `json:"is_public"`
	RequiredRoles       []model.Role       `json:"required_roles"`
	RequiredPermissions []model.Permission `json:"required_permissions"`
	RequiredTags        TagMatchBody       `json:"required_tags"`
	ExcludedTags        TagMatchBody       `json:"excluded_tags"`
	Priority            int32              `json:"priority"`
}

type AccessRuleResponse struct {
	ID                  int64              `json:"id,string"`
	ContentType         model.ContentType  `json:"content_type"`
	ContentID           string             `json:"content_id"`
	IsPublic            bool               `json:"is_public"`
	RequiredRoles       []model.Role       `json:"required_roles"`
	RequiredPermissions []model.Permission `json:"required_permissions"`
	RequiredTags        TagMatchBody       `json:"required_tags"`
	ExcludedTags        TagMatchBody       `json:"excluded_tags"`
	Priority            int32              `json:"priority"`
	IsActive            bool               `json:"is_active"`
	UpdatedBy           *string            `json:"updated_by,omitempty"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

func ToAccessRuleResponse(r *model.ContentAccessRule) AccessRuleResponse {
	return AccessRuleResponse{
		ID:                  r.ID,
		ContentType:         r.ContentType,
		ContentID:           r.ContentID,
		IsPublic:            r.IsPublic,
		RequiredRoles:       r.RequiredRoles,
		RequiredPermissions: r.RequiredPermissions,
		RequiredTags:        ToTagMatchBody(r.RequiredTags),
		ExcludedTags:        ToTagMatchBody(r.ExcludedTags),
		Priority:            r.Priority,
		IsActive:            r.IsActive,
		UpdatedBy:           FormatID(r.UpdatedBy),
		UpdatedAt:           r.UpdatedAt,
	}
}

type AccessCheckRequest struct {
	// UserID defaults to the caller.
	UserID      *string           `json:"user_id,omitempty"`
	ContentType model.ContentType `json:"content_type" binding:"required"`
	ContentID   string            `json:"content_id" binding:"required"`
	ParentID    *string           `json:"parent_id,omitempty"`
}
