package store

import (
	"context"

	"launchthat.app/portal/core/db/sqlc"
	"launchthat.app/portal/internal/model"
)

type membershipStore struct {
	queries *sqlc.Queries
}

func newMembershipStore(queries *sqlc.Queries) MembershipStore {
	return &membershipStore{queries: queries}
}

func (s *membershipStore) Create(ctx context.Context, m *model.Membership) error {
	row, err := s.queries.CreateMembership(ctx, sqlc.CreateMembershipParams{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		UserID:         m.UserID,
		Role:           string(m.Role),
		IsActive:       m.IsActive,
	})
	if err != nil {
		return mapErr(err)
	}
	*m = *toMembershipModel(row)
	return nil
}

func (s *membershipStore) Get(ctx context.Context, orgID, userID int64) (*model.Membership, error) {
	row, err := s.queries.GetMembership(ctx, sqlc.GetMembershipParams{
		OrganizationID: orgID,
		UserID:         userID,
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return toMembershipModel(row), nil
}

func (s *membershipStore) Update(ctx context.Context, m *model.Membership) error {
	row, err := s.queries.UpdateMembership(ctx, sqlc.UpdateMembershipParams{
		ID:       m.ID,
		Role:     string(m.Role),
		IsActive: m.IsActive,
	})
	if err != nil {
		return mapErr(err)
	}
	*m = *toMembershipModel(row)
	return nil
}

func (s *membershipStore) ListActive(ctx context.Context, orgID int64) ([]model.Membership, error) {
	rows, err := s.queries.ListActiveMemberships(ctx, orgID)
	if err != nil {
		return nil, err
	}
	result := make([]model.Membership, len(rows))
	for i, row := range rows {
		result[i] = *toMembershipModel(row)
	}
	return result, nil
}

func (s *membershipStore) ActiveExistsByEmail(ctx context.Context, orgID int64, email string) (bool, error) {
	return s.queries.ActiveMemberExistsByEmail(ctx, sqlc.ActiveMemberExistsByEmailParams{
		OrganizationID: orgID,
		Email:          email,
	})
}

func toMembershipModel(row sqlc.OrganizationMember) *model.Membership {
	return &model.Membership{
		ID:             row.ID,
		OrganizationID: row.OrganizationID,
		UserID:         row.UserID,
		Role:           model.Role(row.Role),
		IsActive:       row.IsActive,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
