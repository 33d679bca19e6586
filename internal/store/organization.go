package store

import (
	"context"

	"launchthat.app/portal/core/db/sqlc"
	"launchthat.app/portal/internal/model"
)

type organizationStore struct {
	queries *sqlc.Queries
}

func newOrganizationStore(queries *sqlc.Queries) OrganizationStore {
	return &organizationStore{queries: queries}
}

func (s *organizationStore) GetByID(ctx context.Context, id int64) (*model.Organization, error) {
	row, err := s.queries.GetOrganization(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return toOrganizationModel(row), nil
}

func (s *organizationStore) GetBySlug(ctx context.Context, slug string) (*model.Organization, error) {
	row, err := s.queries.GetOrganizationBySlug(ctx, slug)
	if err != nil {
		return nil, mapErr(err)
	}
	return toOrganizationModel(row), nil
}

func (s *organizationStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	return s.queries.OrganizationSlugExists(ctx, slug)
}

func (s *organizationStore) Create(ctx context.Context, org *model.Organization) error {
	row, err := s.queries.CreateOrganization(ctx, sqlc.CreateOrganizationParams{
		ID:                 org.ID,
		OwnerUserID:        org.OwnerUserID,
		Name:               org.Name,
		Slug:               org.Slug,
		SubscriptionStatus: string(org.SubscriptionStatus),
	})
	if err != nil {
		return mapErr(err)
	}
	*org = *toOrganizationModel(row)
	return nil
}

func (s *organizationStore) Update(ctx context.Context, org *model.Organization) error {
	row, err := s.queries.UpdateOrganization(ctx, sqlc.UpdateOrganizationParams{
		ID:                 org.ID,
		Name:               org.Name,
		SubscriptionStatus: string(org.SubscriptionStatus),
	})
	if err != nil {
		return mapErr(err)
	}
	*org = *toOrganizationModel(row)
	return nil
}

func (s *organizationStore) Delete(ctx context.Context, id int64) error {
	return requireRows(s.queries.SoftDeleteOrganization(ctx, id))
}

func (s *organizationStore) ListForMember(ctx context.Context, userID int64) ([]model.Organization, error) {
	rows, err := s.queries.ListOrganizationsForMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := make([]model.Organization, len(rows))
	for i, row := range rows {
		result[i] = *toOrganizationModel(row)
	}
	return result, nil
}

func toOrganizationModel(row sqlc.Organization) *model.Organization {
	return &model.Organization{
		ID:                 row.ID,
		OwnerUserID:        row.OwnerUserID,
		Name:               row.Name,
		Slug:               row.Slug,
		SubscriptionStatus: model.SubscriptionStatus(row.SubscriptionStatus),
		CreatedAt:          row.CreatedAt.Time,
		UpdatedAt:          row.UpdatedAt.Time,
		IsDeleted:          row.IsDeleted,
	}
}
