package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"launchthat.app/portal/common/id"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/store"
)

var (
	ErrNotMember         = errors.New("user is not a member of this organization")
	ErrAlreadyMember     = errors.New("user is already a member of this organization")
	ErrCannotRemoveOwner = errors.New("the organization owner cannot be removed")
	ErrCannotChangeOwner = errors.New("the owner role cannot be changed or assigned")
	ErrInvalidRole       = errors.New("invalid role")
)

type MembershipService interface {
	// Resolve loads the organization and the user's membership in it. Users
	// without an active membership get ErrNotMember unless they are platform admins.
	Resolve(ctx context.Context, orgID int64, user *model.User) (*model.Organization, model.Actor, error)
	List(ctx context.Context, orgID int64, actor model.Actor) ([]model.Membership, error)
	AddByEmail(ctx context.Context, orgID int64, actor model.Actor, email string, role model.Role) (*model.Membership, error)
	Remove(ctx context.Context, orgID int64, actor model.Actor, userID int64) error
	UpdateRole(ctx context.Context, orgID int64, actor model.Actor, userID int64, role model.Role) (*model.Membership, error)
}

type membershipService struct {
	stores StoreProvider
}

func NewMembershipService(stores StoreProvider) MembershipService {
	return &membershipService{stores: stores}
}

func (s *membershipService) Resolve(ctx context.Context, orgID int64, user *model.User) (*model.Organization, model.Actor, error) {
	actor := model.Actor{User: user}

	org, err := s.stores.Organizations().GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, actor, ErrOrgNotFound
		}
		return nil, actor, fmt.Errorf("getting organization: %w", err)
	}

	membership, err := s.stores.Memberships().Get(ctx, orgID, user.ID)
	switch {
	case err == nil:
		actor.Membership = membership
	case errors.Is(err, store.ErrNotFound):
	default:
		return nil, actor, fmt.Errorf("getting membership: %w", err)
	}

	if actor.Role() == "" && !actor.IsPlatformAdmin() {
		return nil, actor, ErrNotMember
	}
	return org, actor, nil
}

func (s *membershipService) List(ctx context.Context, orgID int64, actor model.Actor) ([]model.Membership, error) {
	if err := requireMember(actor); err != nil {
		return nil, err
	}
	members, err := s.stores.Memberships().ListActive(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	return members, nil
}

// AddByEmail adds an existing user, reactivating a previous membership if there is one.
func (s *membershipService) AddByEmail(ctx context.Context, orgID int64, actor model.Actor, email string, role model.Role) (*model.Membership, error) {
	if err := authorize(actor, model.PermMembersManage); err != nil {
		return nil, err
	}
	if !role.Valid() || role == model.RoleOwner {
		return nil, ErrInvalidRole
	}

	user, err := s.stores.Users().GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}

	existing, err := s.stores.Memberships().Get(ctx, orgID, user.ID)
	switch {
	case err == nil && existing.IsActive:
		return nil, ErrAlreadyMember
	case err == nil:
		existing.IsActive = true
		existing.Role = role
		if err := s.stores.Memberships().Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("reactivating membership: %w", err)
		}
		slog.InfoContext(ctx, "membership reactivated",
			"organization_id", orgID,
			"user_id", user.ID,
			"role", role)
		return existing, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("getting membership: %w", err)
	}

	membership := &model.Membership{
		ID:             id.New(),
		OrganizationID: orgID,
		UserID:         user.ID,
		Role:           role,
		IsActive:       true,
	}
	if err := s.stores.Memberships().Create(ctx, membership); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("creating membership: %w", err)
	}

	slog.InfoContext(ctx, "member added",
		"organization_id", orgID,
		"user_id", user.ID,
		"role", role)
	return membership, nil
}

func (s *membershipService) Remove(ctx context.Context, orgID int64, actor model.Actor, userID int64) error {
	if err := authorize(actor, model.PermMembersManage); err != nil {
		return err
	}

	membership, err := s.activeMembership(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if membership.Role == model.RoleOwner {
		return ErrCannotRemoveOwner
	}

	membership.IsActive = false
	if err := s.stores.Memberships().Update(ctx, membership); err != nil {
		return fmt.Errorf("deactivating membership: %w", err)
	}

	slog.InfoContext(ctx, "member removed",
		"organization_id", orgID,
		"user_id", userID,
		"removed_by", actor.UserID())
	return nil
}

func (s *membershipService) UpdateRole(ctx context.Context, orgID int64, actor model.Actor, userID int64, role model.Role) (*model.Membership, error) {
	if err := authorize(actor, model.PermMembersManage); err != nil {
		return nil, err
	}
	if role == model.RoleOwner {
		return nil, ErrCannotChangeOwner
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	membership, err := s.activeMembership(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	if membership.Role == model.RoleOwner {
		return nil, ErrCannotChangeOwner
	}

	membership.Role = role
	if err := s.stores.Memberships().Update(ctx, membership); err != nil {
		return nil, fmt.Errorf("updating membership: %w", err)
	}
	return membership, nil
}

func (s *membershipService) activeMembership(ctx context.Context, orgID, userID int64) (*model.Membership, error) {
	membership, err := s.stores.Memberships().Get(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotMember
		}
		return nil, fmt.Errorf("getting membership: %w", err)
	}
	if !membership.IsActive {
		return nil, ErrNotMember
	}
	return membership, nil
}
