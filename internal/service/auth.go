package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/workos/workos-go/v6/pkg/usermanagement"

	"launchthat.app/portal/common/id"
	"launchthat.app/portal/core/config"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/store"
)

// SessionTTL is how long a portal login stays valid.
const SessionTTL = 7 * 24 * time.Hour

var (
	ErrInvalidCode    = errors.New("invalid authorization code")
	ErrUserNotFound   = errors.New("user not found")
	ErrSessionExpired = errors.New("session expired")
)

// AuthService signs members into the portal through WorkOS AuthKit and
// keeps the portal's own session rows.
type AuthService interface {
	GetAuthorizationURL(state string) (string, error)
	HandleCallback(ctx context.Context, code string) (*model.User, *model.Session, error)
	ValidateSession(ctx context.Context, sessionID int64) (*model.User, error)
	Logout(ctx context.Context, sessionID int64) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// CodeAuthenticator exchanges a WorkOS authorization code for a user.
type CodeAuthenticator func(ctx context.Context, opts usermanagement.AuthenticateWithCodeOpts) (usermanagement.AuthenticateResponse, error)

type authService struct {
	users        store.UserStore
	sessions     store.SessionStore
	workOS       config.WorkOSConfig
	authenticate CodeAuthenticator
	now          func() time.Time
}

// NewAuthService talks to WorkOS directly unless authenticate is given.
func NewAuthService(users store.UserStore, sessions store.SessionStore, workOS config.WorkOSConfig, authenticate CodeAuthenticator) AuthService {
	if authenticate == nil {
		usermanagement.SetAPIKey(workOS.APIKey)
		authenticate = usermanagement.AuthenticateWithCode
	}
	return &authService{
		users:        users,
		sessions:     sessions,
		workOS:       workOS,
		authenticate: authenticate,
		now:          time.Now,
	}
}

func (s *authService) GetAuthorizationURL(state string) (string, error) {
	u, err := usermanagement.GetAuthorizationURL(usermanagement.GetAuthorizationURLOpts{
		ClientID:    s.workOS.ClientID,
		RedirectURI: s.workOS.RedirectURI,
		State:       state,
		Provider:    "authkit",
	})
	if err != nil {
		return "", fmt.Errorf("building WorkOS authorization url: %w", err)
	}
	return u.String(), nil
}

// HandleCallback links the WorkOS identity to a portal user (matched on
// WorkOS id) and opens a new session for it.
func (s *authService) HandleCallback(ctx context.Context, code string) (*model.User, *model.Session, error) {
	if strings.TrimSpace(code) == "" {
		return nil, nil, ErrInvalidCode
	}

	resp, err := s.authenticate(ctx, usermanagement.AuthenticateWithCodeOpts{
		ClientID: s.workOS.ClientID,
		Code:     code,
	})
	if err != nil {
		slog.WarnContext(ctx, "workos code exchange rejected", "error", err)
		return nil, nil, ErrInvalidCode
	}

	identity := resp.User
	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if identity.ID == "" || email == "" {
		slog.WarnContext(ctx, "workos returned an incomplete identity", "workos_id", identity.ID)
		return nil, nil, ErrInvalidCode
	}

	user := &model.User{
		ID:       id.New(),
		Name:     displayName(identity.FirstName, identity.LastName, email),
		Email:    email,
		WorkOSID: &identity.ID,
	}
	if identity.ProfilePictureURL != "" {
		user.AvatarURL = &identity.ProfilePictureURL
	}

	// On conflict the store keeps the existing id and writes it back to user.
	if err := s.users.UpsertByWorkOSID(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("linking workos user %s: %w", identity.ID, err)
	}

	session := &model.Session{
		ID:        id.New(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(SessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("opening session for user %d: %w", user.ID, err)
	}

	slog.InfoContext(ctx, "member signed in", "user_id", user.ID, "session_id", session.ID)
	return user, session, nil
}

func (s *authService) ValidateSession(ctx context.Context, sessionID int64) (*model.User, error) {
	session, err := s.sessions.GetValid(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %d: %w", sessionID, err)
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if errors.Is(err, store.ErrNotFound) {
		// The user is gone; the session cannot be used again.
		if delErr := s.sessions.Delete(ctx, sessionID); delErr != nil {
			slog.WarnContext(ctx, "failed to drop orphaned session", "session_id", sessionID, "error", delErr)
		}
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading user %d: %w", session.UserID, err)
	}
	return user, nil
}

func (s *authService) Logout(ctx context.Context, sessionID int64) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("closing session %d: %w", sessionID, err)
	}
	return nil
}

func (s *authService) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("sweeping expired sessions: %w", err)
	}
	return n, nil
}

// displayName falls back to the email when WorkOS has no name on file.
func displayName(first, last, email string) string {
	if name := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last)); name != "" {
		return name
	}
	return email
}
