package store

import (
	"context"

	"launchthat.app/portal/core/db/sqlc"
	"launchthat.app/portal/internal/model"
)

type tagStore struct {
	queries *sqlc.Queries
}

func newTagStore(queries *sqlc.Queries) TagStore {
	return &tagStore{queries: queries}
}

func (s *tagStore) Create(ctx context.Context, tag *model.Tag) error {
	row, err := s.queries.CreateTag(ctx, sqlc.CreateTagParams{
		ID:             tag.ID,
		OrganizationID: tag.OrganizationID,
		Name:           tag.Name,
		Slug:           tag.Slug,
		Color:          tag.Color,
	})
	if err != nil {
		return mapErr(err)
	}
	*tag = toTagModel(row)
	return nil
}

func (s *tagStore) Get(ctx context.Context, orgID, id int64) (*model.Tag, error) {
	row, err := s.queries.GetTag(ctx, sqlc.GetTagParams{ID: id, OrganizationID: orgID})
	if err != nil {
		return nil, mapErr(err)
	}
	tag := toTagModel(row)
	return &tag, nil
}

func (s *tagStore) List(ctx context.Context, orgID int64) ([]model.Tag, error) {
	rows, err := s.queries.ListTags(ctx, orgID)
	if err != nil {
		return nil, err
	}
	result := make([]model.Tag, len(rows))
	for i, row := range rows {
		result[i] = toTagModel(row)
	}
	return result, nil
}

func (s *tagStore) Delete(ctx context.Context, orgID, id int64) error {
	return requireRows(s.queries.DeleteTag(ctx, sqlc.DeleteTagParams{ID: id, OrganizationID: orgID}))
}

func (s *tagStore) Assign(ctx context.Context, ut *model.UserTag) error {
	row, err := s.queries.AssignUserTag(ctx, sqlc.AssignUserTagParams{
		UserID:         ut.UserID,
		TagID:          ut.TagID,
		OrganizationID: ut.OrganizationID,
		Source:         string(ut.Source),
		ExpiresAt:      optionalTimestamptz(ut.ExpiresAt),
	})
	if err != nil {
		return mapErr(err)
	}
	*ut = toUserTagModel(row)
	return nil
}

func (s *tagStore) Unassign(ctx context.Context, userID, tagID int64) error {
	return requireRows(s.queries.UnassignUserTag(ctx, sqlc.UnassignUserTagParams{UserID: userID, TagID: tagID}))
}

func (s *tagStore) ListForUser(ctx context.Context, orgID, userID int64) ([]model.UserTag, error) {
	rows, err := s.queries.ListUserTags(ctx, sqlc.ListUserTagsParams{OrganizationID: orgID, UserID: userID})
	if err != nil {
		return nil, err
	}
	result := make([]model.UserTag, len(rows))
	for i, row := range rows {
		result[i] = toUserTagModel(row)
	}
	return result, nil
}

func (s *tagStore) ListActiveIDsForUser(ctx context.Context, orgID, userID int64) ([]int64, error) {
	return s.queries.ListActiveUserTagIDs(ctx, sqlc.ListActiveUserTagIDsParams{OrganizationID: orgID, UserID: userID})
}

func toTagModel(row sqlc.Tag) model.Tag {
	return model.Tag{
		ID:             row.ID,
		OrganizationID: row.OrganizationID,
		Name:           row.Name,
		Slug:           row.Slug,
		Color:          row.Color,
		CreatedAt:      row.CreatedAt.Time,
	}
}

func toUserTagModel(row sqlc.UserTag) model.UserTag {
	return model.UserTag{
		UserID:         row.UserID,
		TagID:          row.TagID,
		OrganizationID: row.OrganizationID,
		Source:         model.TagSource(row.Source),
		AssignedAt:     row.AssignedAt.Time,
		ExpiresAt:      timePtr(row.ExpiresAt),
	}
}
