package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"launchthat.app/portal/common/id"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/store"
)

const (
	InviteTokenLength = 32
	InviteExpiryDays  = 7
)

var (
	ErrInviteNotFound      = errors.New("invitation not found")
	ErrInviteExpired       = errors.New("invitation has expired")
	ErrInviteAlreadyUsed   = errors.New("invitation has already been used")
	ErrInviteRevoked       = errors.New("invitation has been revoked")
	ErrEmailMismatch       = errors.New("authenticated email does not match invitation")
	ErrInvitePendingExists = errors.New("a pending invitation already exists for this email")
)

type InvitationService interface {
	Create(ctx context.Context, orgID int64, actor model.Actor, email string, role model.Role) (*model.Invitation, string, error)
	ValidateToken(ctx context.Context, token string) (*model.Invitation, error)
	Accept(ctx context.Context, token string, user *model.User) (*model.Invitation, error)
	Revoke(ctx context.Context, orgID int64, actor model.Actor, id int64) (*model.Invitation, error)
	ListPending(ctx context.Context, orgID int64, actor model.Actor) ([]model.Invitation, error)
	ExpireOld(ctx context.Context) (int64, error)
}

type invitationService struct {
	stores       StoreProvider
	txRunner     TxRunner
	dashboardURL string
}

func NewInvitationService(stores StoreProvider, txRunner TxRunner, dashboardURL string) InvitationService {
	return &invitationService{
		stores:       stores,
		txRunner:     txRunner,
		dashboardURL: dashboardURL,
	}
}

func (s *invitationService) Create(ctx context.Context, orgID int64, actor model.Actor, email string, role model.Role) (*model.Invitation, string, error) {
	if err := authorize(actor, model.PermMembersManage); err != nil {
		return nil, "", err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, "", fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if role == "" {
		role = model.RoleViewer
	}
	if !role.Valid() || role == model.RoleOwner {
		return nil, "", ErrInvalidRole
	}

	member, err := s.stores.Memberships().ActiveExistsByEmail(ctx, orgID, email)
	if err != nil {
		return nil, "", fmt.Errorf("checking membership: %w", err)
	}
	if member {
		return nil, "", ErrAlreadyMember
	}

	existing, err := s.stores.Invitations().GetPending(ctx, orgID, email)
	if err == nil && existing.IsValid() {
		return nil, "", ErrInvitePendingExists
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, "", fmt.Errorf("checking pending invitations: %w", err)
	}

	token, err := generateSecureToken(InviteTokenLength)
	if err != nil {
		return nil, "", fmt.Errorf("generating token: %w", err)
	}

	invitedBy := actor.UserID()
	inv := &model.Invitation{
		ID:             id.New(),
		OrganizationID: orgID,
		Email:          email,
		Role:           role,
		Token:          token,
		Status:         model.InvitationStatusPending,
		InvitedBy:      &invitedBy,
		ExpiresAt:      time.Now().Add(InviteExpiryDays * 24 * time.Hour),
	}

	if err := s.stores.Invitations().Create(ctx, inv); err != nil {
		return nil, "", fmt.Errorf("creating invitation: %w", err)
	}

	inviteURL := fmt.Sprintf("%s/invite?token=%s", s.dashboardURL, token)

	slog.InfoContext(ctx, "invitation created",
		"invitation_id", inv.ID,
		"organization_id", orgID,
		"email", email,
		"expires_at", inv.ExpiresAt,
	)

	return inv, inviteURL, nil
}

func (s *invitationService) ValidateToken(ctx context.Context, token string) (*model.Invitation, error) {
	return validateInvitation(ctx, s.stores.Invitations(), token)
}

// validateInvitation returns a usable invitation or the reason it cannot be used.
func validateInvitation(ctx context.Context, invitations store.InvitationStore, token string) (*model.Invitation, error) {
	inv, err := invitations.GetValidByToken(ctx, token)
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("getting invitation: %w", err)
	}

	inv, err = invitations.GetByToken(ctx, token)
	if err != nil {
		return nil, ErrInviteNotFound
	}
	switch inv.Status {
	case model.InvitationStatusAccepted:
		return nil, ErrInviteAlreadyUsed
	case model.InvitationStatusRevoked:
		return nil, ErrInviteRevoked
	case model.InvitationStatusExpired:
		return nil, ErrInviteExpired
	default:
		if time.Now().After(inv.ExpiresAt) {
			return nil, ErrInviteExpired
		}
		return nil, ErrInviteNotFound
	}
}

// Accept joins the user to the invitation's organization and marks the
// invitation accepted in the same transaction.
func (s *invitationService) Accept(ctx context.Context, token string, user *model.User) (*model.Invitation, error) {
	var accepted *model.Invitation

	err := s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		inv, err := validateInvitation(ctx, sp.Invitations(), token)
		if err != nil {
			return err
		}

		if !strings.EqualFold(inv.Email, user.Email) {
			slog.WarnContext(ctx, "email mismatch on invitation acceptance",
				"invitation_email", inv.Email,
				"user_email", user.Email,
				"invitation_id", inv.ID,
			)
			return ErrEmailMismatch
		}

		existing, err := sp.Memberships().Get(ctx, inv.OrganizationID, user.ID)
		switch {
		case err == nil && existing.IsActive:
			return ErrAlreadyMember
		case err == nil:
			existing.IsActive = true
			existing.Role = inv.Role
			if err := sp.Memberships().Update(ctx, existing); err != nil {
				return fmt.Errorf("reactivating membership: %w", err)
			}
		case errors.Is(err, store.ErrNotFound):
			if err := sp.Memberships().Create(ctx, &model.Membership{
				ID:             id.New(),
				OrganizationID: inv.OrganizationID,
				UserID:         user.ID,
				Role:           inv.Role,
				IsActive:       true,
			}); err != nil {
				return fmt.Errorf("creating membership: %w", err)
			}
		default:
			return fmt.Errorf("getting membership: %w", err)
		}

		accepted, err = sp.Invitations().Accept(ctx, inv.ID, user.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInviteAlreadyUsed
			}
			return fmt.Errorf("accepting invitation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "invitation accepted",
		"invitation_id", accepted.ID,
		"organization_id", accepted.OrganizationID,
		"user_id", user.ID,
		"email", user.Email,
	)

	return accepted, nil
}

func (s *invitationService) Revoke(ctx context.Context, orgID int64, actor model.Actor, id int64) (*model.Invitation, error) {
	if err := authorize(actor, model.PermMembersManage); err != nil {
		return nil, err
	}

	inv, err := s.stores.Invitations().Revoke(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("revoking invitation: %w", err)
	}

	slog.InfoContext(ctx, "invitation revoked",
		"invitation_id", id,
		"email", inv.Email,
	)

	return inv, nil
}

func (s *invitationService) ListPending(ctx context.Context, orgID int64, actor model.Actor) ([]model.Invitation, error) {
	if err := authorize(actor, model.PermMembersManage); err != nil {
		return nil, err
	}
	return s.stores.Invitations().ListPending(ctx, orgID)
}

func (s *invitationService) ExpireOld(ctx context.Context) (int64, error) {
	n, err := s.stores.Invitations().ExpireOld(ctx)
	if err != nil {
		return 0, fmt.Errorf("expiring invitations: %w", err)
	}
	return n, nil
}

func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}
