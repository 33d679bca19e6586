package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"launchthat.app/portal/common/id"
	"launchthat.app/portal/common/secretbox"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/store"
)

const purposeConnectionCredentials = "connection-credentials"

var (
	ErrConnectionNotFound   = errors.New("connection not found")
	ErrSecretsUnavailable   = errors.New("connection secrets not found or could not be decrypted")
	ErrInvalidConnectionKey = errors.New("app key is required")
)

type CreateConnectionParams struct {
	AppKey      string
	Name        string
	Credentials model.Credentials
	Config      map[string]any
}

type ConnectionService interface {
	Create(ctx context.Context, orgID int64, actor model.Actor, params CreateConnectionParams) (*model.Connection, error)
	Get(ctx context.Context, orgID int64, actor model.Actor, connID int64) (*model.Connection, error)
	List(ctx context.Context, orgID int64, actor model.Actor) ([]model.Connection, error)
	UpdateCredentials(ctx context.Context, orgID int64, actor model.Actor, connID int64, creds model.Credentials) error
	SetStatus(ctx context.Context, orgID int64, actor model.Actor, connID int64, status model.ConnectionStatus) (*model.Connection, error)
	Delete(ctx context.Context, orgID int64, actor model.Actor, connID int64) error

	// Secrets decrypts a connection's credentials for internal use.
	Secrets(ctx context.Context, connID int64) (*model.Connection, model.Credentials, error)
}

type connectionService struct {
	stores StoreProvider
	box    *secretbox.Box
}

func NewConnectionService(stores StoreProvider, box *secretbox.Box) ConnectionService {
	return &connectionService{stores: stores, box: box}
}

func (s *connectionService) Create(ctx context.Context, orgID int64, actor model.Actor, params CreateConnectionParams) (*model.Connection, error) {
	if err := authorize(actor, model.PermIntegrationsManage); err != nil {
		return nil, err
	}

	appKey := strings.TrimSpace(params.AppKey)
	if appKey == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, ErrInvalidConnectionKey)
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		name = appKey
	}

	sealed, err := s.seal(orgID, params.Credentials)
	if err != nil {
		return nil, err
	}

	conn := &model.Connection{
		ID:                   id.New(),
		OrganizationID:       orgID,
		AppKey:               appKey,
		Name:                 name,
		Status:               model.ConnectionStatusActive,
		Config:               params.Config,
		EncryptedCredentials: sealed,
	}
	if conn.Config == nil {
		conn.Config = map[string]any{}
	}
	if err := s.stores.Connections().Create(ctx, conn); err != nil {
		return nil, fmt.Errorf("creating connection: %w", err)
	}

	slog.InfoContext(ctx, "connection created",
		"organization_id", orgID,
		"connection_id", conn.ID,
		"app_key", appKey)
	return conn, nil
}

func (s *connectionService) Get(ctx context.Context, orgID int64, actor model.Actor, connID int64) (*model.Connection, error) {
	if err := authorize(actor, model.PermIntegrationsView); err != nil {
		return nil, err
	}
	return s.load(ctx, orgID, connID)
}

func (s *connectionService) List(ctx context.Context, orgID int64, actor model.Actor) ([]model.Connection, error) {
	if err := authorize(actor, model.PermIntegrationsView); err != nil {
		return nil, err
	}
	return s.stores.Connections().List(ctx, orgID)
}

func (s *connectionService) UpdateCredentials(ctx context.Context, orgID int64, actor model.Actor, connID int64, creds model.Credentials) error {
	if err := authorize(actor, model.PermIntegrationsManage); err != nil {
		return err
	}
	if _, err := s.load(ctx, orgID, connID); err != nil {
		return err
	}

	sealed, err := s.seal(orgID, creds)
	if err != nil {
		return err
	}
	if err := s.stores.Connections().UpdateCredentials(ctx, connID, sealed); err != nil {
		return fmt.Errorf("updating credentials: %w", err)
	}
	return nil
}

func (s *connectionService) SetStatus(ctx context.Context, orgID int64, actor model.Actor, connID int64, status model.ConnectionStatus) (*model.Connection, error) {
	if err := authorize(actor, model.PermIntegrationsManage); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	conn, err := s.load(ctx, orgID, connID)
	if err != nil {
		return nil, err
	}
	if err := s.stores.Connections().SetStatus(ctx, connID, status); err != nil {
		return nil, fmt.Errorf("setting connection status: %w", err)
	}
	conn.Status = status
	return conn, nil
}

func (s *connectionService) Delete(ctx context.Context, orgID int64, actor model.Actor, connID int64) error {
	if err := authorize(actor, model.PermIntegrationsManage); err != nil {
		return err
	}
	if err := s.stores.Connections().Delete(ctx, orgID, connID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrConnectionNotFound
		}
		return fmt.Errorf("deleting connection: %w", err)
	}
	return nil
}

func (s *connectionService) Secrets(ctx context.Context, connID int64) (*model.Connection, model.Credentials, error) {
	var creds model.Credentials

	conn, err := s.stores.Connections().GetByID(ctx, connID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, creds, ErrConnectionNotFound
		}
		return nil, creds, fmt.Errorf("getting connection: %w", err)
	}
	if len(conn.EncryptedCredentials) == 0 {
		return conn, creds, ErrSecretsUnavailable
	}

	plain, err := s.box.Open(conn.OrganizationID, purposeConnectionCredentials, conn.EncryptedCredentials)
	if err != nil {
		slog.WarnContext(ctx, "failed to decrypt connection credentials",
			"connection_id", connID,
			"error", err)
		return conn, creds, ErrSecretsUnavailable
	}
	if err := json.Unmarshal(plain, &creds); err != nil {
		return conn, creds, ErrSecretsUnavailable
	}
	return conn, creds, nil
}

func (s *connectionService) load(ctx context.Context, orgID, connID int64) (*model.Connection, error) {
	conn, err := s.stores.Connections().GetByID(ctx, connID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrConnectionNotFound
		}
		return nil, fmt.Errorf("getting connection: %w", err)
	}
	if conn.OrganizationID != orgID {
		return nil, ErrConnectionNotFound
	}
	return conn, nil
}

func (s *connectionService) seal(orgID int64, creds model.Credentials) ([]byte, error) {
	plain, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("encoding credentials: %w", err)
	}
	sealed, err := s.box.Seal(orgID, purposeConnectionCredentials, plain)
	if err != nil {
		return nil, fmt.Errorf("sealing credentials: %w", err)
	}
	return sealed, nil
}
