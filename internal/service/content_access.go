package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"launchthat.app/portal/common/id"
	"launchthat.app/portal/common/metrics"
	"launchthat.app/portal/internal/access"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/store"
)

var ErrInvalidContentType = errors.New("invalid content type")

type AccessRuleInput struct {
	ContentType         model.ContentType
	ContentID           string
	IsPublic            bool
	RequiredRoles       []model.Role
	RequiredPermissions []model.Permission
	RequiredTags        model.TagMatch
	ExcludedTags        model.TagMatch
	Priority            int32
}

type CheckInput struct {
	OrgID       int64
	UserID      *int64
	ContentType model.ContentType
	ContentID   string
	// ParentID is consulted when the content itself has no active rule.
	ParentID *string
}

type ContentAccessService interface {
	GetRules(ctx context.Context, orgID int64, actor model.Actor, contentType model.ContentType, contentID string) (*model.ContentAccessRule, error)
	SaveRules(ctx context.Context, orgID int64, actor model.Actor, input AccessRuleInput) (*model.ContentAccessRule, error)
	ClearRules(ctx context.Context, orgID int64, actor model.Actor, contentType model.ContentType, contentID string) error
	Check(ctx context.Context, input CheckInput) (access.Decision, error)
}

type contentAccessService struct {
	stores StoreProvider
}

func NewContentAccessService(stores StoreProvider) ContentAccessService {
	return &contentAccessService{stores: stores}
}

// GetRules returns the rule for the content, or nil when none is stored.
func (s *contentAccessService) GetRules(ctx context.Context, orgID int64, actor model.Actor, contentType model.ContentType, contentID string) (*model.ContentAccessRule, error) {
	if err := authorize(actor, model.PermContentEdit); err != nil {
		return nil, err
	}
	if !contentType.Valid() {
		return nil, ErrInvalidContentType
	}
	return s.loadRule(ctx, orgID, contentType, contentID)
}

func (s *contentAccessService) SaveRules(ctx context.Context, orgID int64, actor model.Actor, input AccessRuleInput) (*model.ContentAccessRule, error) {
	if err := authorize(actor, model.PermContentManageRules); err != nil {
		return nil, err
	}
	if !input.ContentType.Valid() {
		return nil, ErrInvalidContentType
	}
	if input.ContentID == "" {
		return nil, fmt.Errorf("%w: content id is required", ErrInvalidInput)
	}
	for _, role := range input.RequiredRoles {
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
	}

	updatedBy := actor.UserID()
	rule := &model.ContentAccessRule{
		ID:                  id.New(),
		OrganizationID:      orgID,
		ContentType:         input.ContentType,
		ContentID:           input.ContentID,
		IsPublic:            input.IsPublic,
		RequiredRoles:       input.RequiredRoles,
		RequiredPermissions: input.RequiredPermissions,
		RequiredTags:        normalizeTagMatch(input.RequiredTags),
		ExcludedTags:        normalizeTagMatch(input.ExcludedTags),
		Priority:            input.Priority,
		IsActive:            true,
		UpdatedBy:           &updatedBy,
	}
	if rule.IsPublic {
		rule.RequiredRoles = nil
		rule.RequiredPermissions = nil
		rule.RequiredTags = model.TagMatch{Mode: model.TagModeSome}
		rule.ExcludedTags = model.TagMatch{Mode: model.TagModeSome}
	}

	if err := s.stores.ContentAccessRules().Upsert(ctx, rule); err != nil {
		return nil, fmt.Errorf("saving access rule: %w", err)
	}

	slog.InfoContext(ctx, "access rule saved",
		"organization_id", orgID,
		"content_type", rule.ContentType,
		"content_id", rule.ContentID,
		"is_public", rule.IsPublic)
	return rule, nil
}

func (s *contentAccessService) ClearRules(ctx context.Context, orgID int64, actor model.Actor, contentType model.ContentType, contentID string) error {
	if err := authorize(actor, model.PermContentManageRules); err != nil {
		return err
	}
	if !contentType.Valid() {
		return ErrInvalidContentType
	}
	if err := s.stores.ContentAccessRules().Delete(ctx, orgID, contentType, contentID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("clearing access rule: %w", err)
	}
	return nil
}

// Check evaluates the content's own rule, falling back to the parent's rule
// when the content has none. Every decision is written to the access log.
func (s *contentAccessService) Check(ctx context.Context, input CheckInput) (access.Decision, error) {
	if !input.ContentType.Valid() {
		return access.Decision{}, ErrInvalidContentType
	}

	rule, err := s.loadRule(ctx, input.OrgID, input.ContentType, input.ContentID)
	if err != nil {
		return access.Decision{}, err
	}

	fromParent := false
	if (rule == nil || !rule.IsActive) && input.ParentID != nil {
		if parentType, ok := access.ParentType(input.ContentType); ok {
			parent, err := s.loadRule(ctx, input.OrgID, parentType, *input.ParentID)
			if err != nil {
				return access.Decision{}, err
			}
			if parent != nil && parent.IsActive {
				rule = parent
				fromParent = true
			}
		}
	}

	subject, err := s.subject(ctx, input.OrgID, input.UserID)
	if err != nil {
		return access.Decision{}, err
	}

	decision := access.Evaluate(rule, subject)
	if fromParent {
		decision = access.Inherited(decision)
	}

	entry := &model.AccessLog{
		ID:             id.New(),
		OrganizationID: input.OrgID,
		UserID:         input.UserID,
		ContentType:    input.ContentType,
		ContentID:      input.ContentID,
		Granted:        decision.Granted,
		Reason:         string(decision.Reason),
	}
	if err := s.stores.AccessLogs().Create(ctx, entry); err != nil {
		slog.WarnContext(ctx, "failed to write access log",
			"organization_id", input.OrgID,
			"content_id", input.ContentID,
			"error", err)
	}
	metrics.RecordAccessDecision(decision.Granted, string(decision.Reason))

	return decision, nil
}

func (s *contentAccessService) loadRule(ctx context.Context, orgID int64, contentType model.ContentType, contentID string) (*model.ContentAccessRule, error) {
	rule, err := s.stores.ContentAccessRules().Get(ctx, orgID, contentType, contentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting access rule: %w", err)
	}
	return rule, nil
}

// subject returns nil for anonymous callers and for unknown users.
func (s *contentAccessService) subject(ctx context.Context, orgID int64, userID *int64) (*access.Subject, error) {
	if userID == nil {
		return nil, nil
	}

	user, err := s.stores.Users().GetByID(ctx, *userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}

	subject := &access.Subject{
		UserID:          user.ID,
		IsPlatformAdmin: user.IsPlatformAdmin,
	}

	membership, err := s.stores.Memberships().Get(ctx, orgID, user.ID)
	switch {
	case err == nil:
		subject.Role = membership.Role
		subject.Active = membership.IsActive
	case errors.Is(err, store.ErrNotFound):
		return subject, nil
	default:
		return nil, fmt.Errorf("getting membership: %w", err)
	}

	tagIDs, err := s.stores.Tags().ListActiveIDsForUser(ctx, orgID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("listing user tags: %w", err)
	}
	subject.TagIDs = access.NewTagSet(tagIDs)

	return subject, nil
}

func normalizeTagMatch(m model.TagMatch) model.TagMatch {
	if m.Mode != model.TagModeAll {
		m.Mode = model.TagModeSome
	}
	return m
}
