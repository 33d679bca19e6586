package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"launchthat.app/portal/common"
	"launchthat.app/portal/common/id"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/store"
)

var (
	ErrTagNotFound = errors.New("tag not found")
	ErrTagExists   = errors.New("a tag with this name already exists")
)

type AssignTagParams struct {
	UserID    int64
	TagID     int64
	Source    model.TagSource
	ExpiresAt *time.Time
}

type TagService interface {
	Create(ctx context.Context, orgID int64, actor model.Actor, name string, color *string) (*model.Tag, error)
	List(ctx context.Context, orgID int64, actor model.Actor) ([]model.Tag, error)
	Delete(ctx context.Context, orgID int64, actor model.Actor, tagID int64) error
	Assign(ctx context.Context, orgID int64, actor model.Actor, params AssignTagParams) (*model.UserTag, error)
	Unassign(ctx context.Context, orgID int64, actor model.Actor, userID, tagID int64) error
	ListForUser(ctx context.Context, orgID int64, actor model.Actor, userID int64) ([]model.UserTag, error)
}

type tagService struct {
	stores StoreProvider
}

func NewTagService(stores StoreProvider) TagService {
	return &tagService{stores: stores}
}

func (s *tagService) Create(ctx context.Context, orgID int64, actor model.Actor, name string, color *string) (*model.Tag, error) {
	if err := authorize(actor, model.PermTagsManage); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	slug, err := common.Slugify(name, "")
	if err != nil {
		return nil, fmt.Errorf("%w: tag name is required", ErrInvalidInput)
	}

	tag := &model.Tag{
		ID:             id.New(),
		OrganizationID: orgID,
		Name:           name,
		Slug:           slug,
		Color:          color,
	}
	if err := s.stores.Tags().Create(ctx, tag); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrTagExists
		}
		return nil, fmt.Errorf("creating tag: %w", err)
	}
	return tag, nil
}

func (s *tagService) List(ctx context.Context, orgID int64, actor model.Actor) ([]model.Tag, error) {
	if err := requireMember(actor); err != nil {
		return nil, err
	}
	return s.stores.Tags().List(ctx, orgID)
}

func (s *tagService) Delete(ctx context.Context, orgID int64, actor model.Actor, tagID int64) error {
	if err := authorize(actor, model.PermTagsManage); err != nil {
		return err
	}
	if err := s.stores.Tags().Delete(ctx, orgID, tagID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTagNotFound
		}
		return fmt.Errorf("deleting tag: %w", err)
	}
	return nil
}

// Assign gives a member a tag. Re-assigning refreshes the source and expiry.
func (s *tagService) Assign(ctx context.Context, orgID int64, actor model.Actor, params AssignTagParams) (*model.UserTag, error) {
	if err := authorize(actor, model.PermTagsManage); err != nil {
		return nil, err
	}

	if _, err := s.stores.Tags().Get(ctx, orgID, params.TagID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("getting tag: %w", err)
	}

	membership, err := s.stores.Memberships().Get(ctx, orgID, params.UserID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !membership.IsActive) {
		return nil, ErrNotMember
	}
	if err != nil {
		return nil, fmt.Errorf("getting membership: %w", err)
	}

	if params.ExpiresAt != nil && !params.ExpiresAt.After(time.Now()) {
		return nil, fmt.Errorf("%w: expiry must be in the future", ErrInvalidInput)
	}
	source := params.Source
	if source == "" {
		source = model.TagSourceManual
	}

	ut := &model.UserTag{
		UserID:         params.UserID,
		TagID:          params.TagID,
		OrganizationID: orgID,
		Source:         source,
		ExpiresAt:      params.ExpiresAt,
	}
	if err := s.stores.Tags().Assign(ctx, ut); err != nil {
		return nil, fmt.Errorf("assigning tag: %w", err)
	}

	slog.InfoContext(ctx, "tag assigned",
		"organization_id", orgID,
		"user_id", params.UserID,
		"tag_id", params.TagID,
		"source", source)
	return ut, nil
}

func (s *tagService) Unassign(ctx context.Context, orgID int64, actor model.Actor, userID, tagID int64) error {
	if err := authorize(actor, model.PermTagsManage); err != nil {
		return err
	}
	if _, err := s.stores.Tags().Get(ctx, orgID, tagID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTagNotFound
		}
		return fmt.Errorf("getting tag: %w", err)
	}
	if err := s.stores.Tags().Unassign(ctx, userID, tagID); err != nil {
		return fmt.Errorf("unassigning tag: %w", err)
	}
	return nil
}

// ListForUser is open to tag managers and to the user themself.
func (s *tagService) ListForUser(ctx context.Context, orgID int64, actor model.Actor, userID int64) ([]model.UserTag, error) {
	if actor.UserID() != userID {
		if err := authorize(actor, model.PermTagsManage); err != nil {
			return nil, err
		}
	}
	return s.stores.Tags().ListForUser(ctx, orgID, userID)
}
