package store

import (
	"context"

	"launchthat.app/portal/core/db/sqlc"
	"launchthat.app/portal/internal/model"
)

type contentAccessRuleStore struct {
	queries *sqlc.Queries
}

func newContentAccessRuleStore(queries *sqlc.Queries) ContentAccessRuleStore {
	return &contentAccessRuleStore{queries: queries}
}

func (s *contentAccessRuleStore) Get(ctx context.Context, orgID int64, contentType model.ContentType, contentID string) (*model.ContentAccessRule, error) {
	row, err := s.queries.GetContentAccessRule(ctx, sqlc.GetContentAccessRuleParams{
		OrganizationID: orgID,
		ContentType:    string(contentType),
		ContentID:      contentID,
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return toContentAccessRuleModel(row), nil
}

func (s *contentAccessRuleStore) Upsert(ctx context.Context, rule *model.ContentAccessRule) error {
	row, err := s.queries.UpsertContentAccessRule(ctx, sqlc.UpsertContentAccessRuleParams{
		ID:                  rule.ID,
		OrganizationID:      rule.OrganizationID,
		ContentType:         string(rule.ContentType),
		ContentID:           rule.ContentID,
		IsPublic:            rule.IsPublic,
		RequiredRoles:       toStrings(rule.RequiredRoles),
		RequiredPermissions: toStrings(rule.RequiredPermissions),
		RequiredTagMode:     string(rule.RequiredTags.Mode),
		RequiredTagIds:      nonNilIDs(rule.RequiredTags.TagIDs),
		ExcludedTagMode:     string(rule.ExcludedTags.Mode),
		ExcludedTagIds:      nonNilIDs(rule.ExcludedTags.TagIDs),
		Priority:            rule.Priority,
		IsActive:            rule.IsActive,
		UpdatedBy:           rule.UpdatedBy,
	})
	if err != nil {
		return mapErr(err)
	}
	*rule = *toContentAccessRuleModel(row)
	return nil
}

func (s *contentAccessRuleStore) Delete(ctx context.Context, orgID int64, contentType model.ContentType, contentID string) error {
	return requireRows(s.queries.DeleteContentAccessRule(ctx, sqlc.DeleteContentAccessRuleParams{
		OrganizationID: orgID,
		ContentType:    string(contentType),
		ContentID:      contentID,
	}))
}

func nonNilIDs(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

func toContentAccessRuleModel(row sqlc.ContentAccessRule) *model.ContentAccessRule {
	return &model.ContentAccessRule{
		ID:                  row.ID,
		OrganizationID:      row.OrganizationID,
		ContentType:         model.ContentType(row.ContentType),
		ContentID:           row.ContentID,
		IsPublic:            row.IsPublic,
		RequiredRoles:       fromStrings[model.Role](row.RequiredRoles),
		RequiredPermissions: fromStrings[model.Permission](row.RequiredPermissions),
		RequiredTags:        model.TagMatch{Mode: model.TagMode(row.RequiredTagMode), TagIDs: row.RequiredTagIds},
		ExcludedTags:        model.TagMatch{Mode: model.TagMode(row.ExcludedTagMode), TagIDs: row.ExcludedTagIds},
		Priority:            row.Priority,
		IsActive:            row.IsActive,
		UpdatedBy:           row.UpdatedBy,
		CreatedAt:           row.CreatedAt.Time,
		UpdatedAt:           row.UpdatedAt.Time,
	}
}

type accessLogStore struct {
	queries *sqlc.Queries
}

func newAccessLogStore(queries *sqlc.Queries) AccessLogStore {
	return &accessLogStore{queries: queries}
}

func (s *accessLogStore) Create(ctx context.Context, entry *model.AccessLog) error {
	return s.queries.CreateContentAccessLog(ctx, sqlc.CreateContentAccessLogParams{
		ID:             entry.ID,
		OrganizationID: entry.OrganizationID,
		UserID:         entry.UserID,
		ContentType:    string(entry.ContentType),
		ContentID:      entry.ContentID,
		Granted:        entry.Granted,
		Reason:         entry.Reason,
	})
}
