package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"launchthat.app/portal/common"
	"launchthat.app/portal/common/id"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/store"
)

var (
	ErrOrgNotFound     = errors.New("organization not found")
	ErrSlugUnavailable = errors.New("unable to find an available slug")
)

type OrganizationService interface {
	Create(ctx context.Context, name string, slug *string, owner *model.User) (*model.Organization, error)
	Get(ctx context.Context, orgID int64) (*model.Organization, error)
	Update(ctx context.Context, orgID int64, actor model.Actor, name *string) (*model.Organization, error)
	Delete(ctx context.Context, orgID int64, actor model.Actor) error
	ListForUser(ctx context.Context, userID int64) ([]model.Organization, error)
}

type organizationService struct {
	stores   StoreProvider
	txRunner TxRunner
}

func NewOrganizationService(stores StoreProvider, txRunner TxRunner) OrganizationService {
	return &organizationService{stores: stores, txRunner: txRunner}
}

// Create inserts the organization and the owner's membership in one transaction.
func (s *organizationService) Create(ctx context.Context, name string, slug *string, owner *model.User) (*model.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	input := name
	if slug != nil && strings.TrimSpace(*slug) != "" {
		input = *slug
	}
	base, err := common.Slugify(input, "org")
	if err != nil {
		return nil, fmt.Errorf("generating slug: %w", err)
	}

	status := model.SubscriptionStatusTrialing
	if owner.IsPlatformAdmin {
		status = model.SubscriptionStatusActive
	}

	var org *model.Organization
	err = s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		finalSlug, err := common.NextSlug(base, func(candidate string) (bool, error) {
			return sp.Organizations().SlugExists(ctx, candidate)
		})
		if errors.Is(err, common.ErrSlugUnavailable) {
			return ErrSlugUnavailable
		}
		if err != nil {
			return fmt.Errorf("checking slug availability: %w", err)
		}

		org = &model.Organization{
			ID:                 id.New(),
			OwnerUserID:        owner.ID,
			Name:               name,
			Slug:               finalSlug,
			SubscriptionStatus: status,
		}
		if err := sp.Organizations().Create(ctx, org); err != nil {
			return fmt.Errorf("creating organization: %w", err)
		}

		membership := &model.Membership{
			ID:             id.New(),
			OrganizationID: org.ID,
			UserID:         owner.ID,
			Role:           model.RoleOwner,
			IsActive:       true,
		}
		if err := sp.Memberships().Create(ctx, membership); err != nil {
			return fmt.Errorf("creating owner membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "organization created",
		"organization_id", org.ID,
		"slug", org.Slug,
		"owner_user_id", owner.ID)

	return org, nil
}

func (s *organizationService) Get(ctx context.Context, orgID int64) (*model.Organization, error) {
	org, err := s.stores.Organizations().GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrgNotFound
		}
		return nil, fmt.Errorf("getting organization: %w", err)
	}
	return org, nil
}

func (s *organizationService) Update(ctx context.Context, orgID int64, actor model.Actor, name *string) (*model.Organization, error) {
	if err := authorize(actor, model.PermOrgManage); err != nil {
		return nil, err
	}

	org, err := s.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		org.Name = trimmed
	}

	if err := s.stores.Organizations().Update(ctx, org); err != nil {
		return nil, fmt.Errorf("updating organization: %w", err)
	}
	return org, nil
}

// Delete soft-deletes the organization. Only the owner or a platform admin may do this.
func (s *organizationService) Delete(ctx context.Context, orgID int64, actor model.Actor) error {
	org, err := s.Get(ctx, orgID)
	if err != nil {
		return err
	}
	if !actor.IsPlatformAdmin() && org.OwnerUserID != actor.UserID() {
		return ErrPermissionDenied
	}

	if err := s.stores.Organizations().Delete(ctx, orgID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOrgNotFound
		}
		return fmt.Errorf("deleting organization: %w", err)
	}

	slog.InfoContext(ctx, "organization deleted",
		"organization_id", orgID,
		"deleted_by", actor.UserID())
	return nil
}

func (s *organizationService) ListForUser(ctx context.Context, userID int64) ([]model.Organization, error) {
	orgs, err := s.stores.Organizations().ListForMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}
	return orgs, nil
}
