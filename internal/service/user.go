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

type UserService interface {
	Get(ctx context.Context, id int64) (*model.User, error)
	Sync(ctx context.Context, name, email string, avatarURL *string) (*model.User, []model.Organization, error)
}

type userService struct {
	userStore store.UserStore
	orgStore  store.OrganizationStore
}

func NewUserService(userStore store.UserStore, orgStore store.OrganizationStore) UserService {
	return &userService{
		userStore: userStore,
		orgStore:  orgStore,
	}
}

func (s *userService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

func (s *userService) Sync(ctx context.Context, name, email string, avatarURL *string) (*model.User, []model.Organization, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	user := &model.User{
		ID:        id.New(),
		Name:      name,
		Email:     email,
		AvatarURL: avatarURL,
	}

	if err := s.userStore.Upsert(ctx, user); err != nil {
		slog.ErrorContext(ctx, "failed to upsert user",
			"error", err,
			"email", email,
		)
		return nil, nil, fmt.Errorf("upserting user: %w", err)
	}

	orgs, err := s.orgStore.ListForMember(ctx, user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list organizations for user",
			"error", err,
			"user_id", user.ID,
		)
		return nil, nil, fmt.Errorf("listing organizations: %w", err)
	}

	return user, orgs, nil
}
