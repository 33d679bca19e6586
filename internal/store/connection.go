package store

import (
	"context"

	"launchthat.app/portal/core/db/sqlc"
	"launchthat.app/portal/internal/model"
)

type connectionStore struct {
	queries *sqlc.Queries
}

func newConnectionStore(queries *sqlc.Queries) ConnectionStore {
	return &connectionStore{queries: queries}
}

func (s *connectionStore) Create(ctx context.Context, conn *model.Connection) error {
	cfg, err := marshalMap(conn.Config)
	if err != nil {
		return err
	}
	row, err := s.queries.CreateConnection(ctx, sqlc.CreateConnectionParams{
		ID:                   conn.ID,
		OrganizationID:       conn.OrganizationID,
		AppKey:               conn.AppKey,
		Name:                 conn.Name,
		Status:               string(conn.Status),
		Config:               cfg,
		EncryptedCredentials: conn.EncryptedCredentials,
	})
	if err != nil {
		return mapErr(err)
	}
	*conn = *toConnectionModel(row)
	return nil
}

func (s *connectionStore) GetByID(ctx context.Context, id int64) (*model.Connection, error) {
	row, err := s.queries.GetConnection(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return toConnectionModel(row), nil
}

func (s *connectionStore) List(ctx context.Context, orgID int64) ([]model.Connection, error) {
	rows, err := s.queries.ListConnections(ctx, orgID)
	if err != nil {
		return nil, err
	}
	result := make([]model.Connection, len(rows))
	for i, row := range rows {
		result[i] = *toConnectionModel(row)
	}
	return result, nil
}

func (s *connectionStore) UpdateCredentials(ctx context.Context, id int64, sealed []byte) error {
	return requireRows(s.queries.UpdateConnectionCredentials(ctx, sqlc.UpdateConnectionCredentialsParams{
		ID:                   id,
		EncryptedCredentials: sealed,
	}))
}

func (s *connectionStore) SetStatus(ctx context.Context, id int64, status model.ConnectionStatus) error {
	return requireRows(s.queries.SetConnectionStatus(ctx, sqlc.SetConnectionStatusParams{
		ID:     id,
		Status: string(status),
	}))
}

func (s *connectionStore) Touch(ctx context.Context, id int64) error {
	return s.queries.TouchConnection(ctx, id)
}

func (s *connectionStore) Delete(ctx context.Context, orgID, id int64) error {
	return requireRows(s.queries.DeleteConnection(ctx, sqlc.DeleteConnectionParams{
		ID:             id,
		OrganizationID: orgID,
	}))
}

func toConnectionModel(row sqlc.Connection) *model.Connection {
	return &model.Connection{
		ID:                   row.ID,
		OrganizationID:       row.OrganizationID,
		AppKey:               row.AppKey,
		Name:                 row.Name,
		Status:               model.ConnectionStatus(row.Status),
		Config:               unmarshalMap(row.Config),
		EncryptedCredentials: row.EncryptedCredentials,
		LastUsedAt:           timePtr(row.LastUsedAt),
		CreatedAt:            row.CreatedAt.Time,
		UpdatedAt:            row.UpdatedAt.Time,
	}
}
