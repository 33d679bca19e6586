package model

import "time"

type Permission string

const (
	PermOrgManage          Permission = "org.manage"
	PermMembersManage      Permission = "members.manage"
	PermContentViewPublic  Permission = "content.view_public"
	PermContentViewPrivate Permission = "content.view_private"
	PermContentEdit        Permission = "content.edit"
	PermContentManageRules Permission = "content.manage_rules"
	PermTagsManage         Permission = "tags.manage"
	PermIntegrationsManage Permission = "integrations.manage"
	PermIntegrationsView   Permission = "integrations.view"
	PermOrdersView         Permission = "orders.view"
	PermOrdersManage       Permission = "orders.manage"
	PermWebhooksManage     Permission = "webhooks.manage"
)

type ContentType string

const (
	ContentTypeCourse   ContentType = "course"
	ContentTypeLesson   ContentType = "lesson"
	ContentTypeTopic    ContentType = "topic"
	ContentTypeDownload ContentType = "download"
	ContentTypeProduct  ContentType = "product"
	ContentTypeQuiz     ContentType = "quiz"
	ContentTypePage     ContentType = "page"
)

func (c ContentType) Valid() bool {
	switch c {
	case ContentTypeCourse, ContentTypeLesson, ContentTypeTopic, ContentTypeDownload,
		ContentTypeProduct, ContentTypeQuiz, ContentTypePage:
		return true
	}
	return false
}

type TagMode string

const (
	TagModeSome TagMode = "some"
	TagModeAll  TagMode = "all"
)

type TagMatch struct {
	Mode   TagMode `json:"mode"`
	TagIDs []int64 `json:"tag_ids"`
}

type ContentAccessRule struct {
	ID                  int64        `json:"id"`
	OrganizationID      int64        `json:"organization_id"`
	ContentType         ContentType  `json:"content_type"`
	ContentID           string       `json:"content_id"`
	IsPublic            bool         `json:"is_public"`
	RequiredRoles       []Role       `json:"required_roles"`
	RequiredPermissions []Permission `json:"required_permissions"`
	RequiredTags        TagMatch     `json:"required_tags"`
	ExcludedTags        TagMatch     `json:"excluded_tags"`
	Priority            int32        `json:"priority"`
	IsActive            bool         `json:"is_active"`
	UpdatedBy           *int64       `json:"updated_by,omitempty"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

type AccessLog struct {
	ID             int64       `json:"id"`
	OrganizationID int64       `json:"organization_id"`
	UserID         *int64      `json:"user_id,omitempty"`
	ContentType    ContentType `json:"content_type"`
	ContentID      string      `json:"content_id"`
	Granted        bool        `json:"granted"`
	Reason         string      `json:"reason"`
	CreatedAt      time.Time   `json:"created_at"`
}
