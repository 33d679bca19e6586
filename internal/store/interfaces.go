package store

import (
	"context"
	"errors"

	"launchthat.app/portal/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a unique constraint
var ErrConflict = errors.New("conflict")

// UserStore defines the contract for user data access
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Upsert(ctx context.Context, user *model.User) error // keyed by email
	UpsertByWorkOSID(ctx context.Context, user *model.User) error
}

// SessionStore defines the contract for session data access
type SessionStore interface {
	Create(ctx context.Context, session *model.Session) error
	GetValid(ctx context.Context, id int64) (*model.Session, error) // checks expiry
	Delete(ctx context.Context, id int64) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// OrganizationStore defines the contract for organization data access
type OrganizationStore interface {
	GetByID(ctx context.Context, id int64) (*model.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*model.Organization, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, org *model.Organization) error
	Update(ctx context.Context, org *model.Organization) error
	Delete(ctx context.Context, id int64) error // soft delete
	ListForMember(ctx context.Context, userID int64) ([]model.Organization, error)
}

// MembershipStore defines the contract for organization membership data access
type MembershipStore interface {
	Create(ctx context.Context, m *model.Membership) error
	Get(ctx context.Context, orgID, userID int64) (*model.Membership, error)
	Update(ctx context.Context, m *model.Membership) error
	ListActive(ctx context.Context, orgID int64) ([]model.Membership, error)
	ActiveExistsByEmail(ctx context.Context, orgID int64, email string) (bool, error)
}

type InvitationStore interface {
	Create(ctx context.Context, inv *model.Invitation) error
	GetByID(ctx context.Context, id int64) (*model.Invitation, error)
	GetByToken(ctx context.Context, token string) (*model.Invitation, error)
	GetValidByToken(ctx context.Context, token string) (*model.Invitation, error)
	GetPending(ctx context.Context, orgID int64, email string) (*model.Invitation, error)
	Accept(ctx context.Context, id int64, userID int64) (*model.Invitation, error)
	Revoke(ctx context.Context, orgID, id int64) (*model.Invitation, error)
	ListPending(ctx context.Context, orgID int64) ([]model.Invitation, error)
	ExpireOld(ctx context.Context) (int64, error)
}

// TagStore covers tags and their assignment to users.
type TagStore interface {
	Create(ctx context.Context, tag *model.Tag) error
	Get(ctx context.Context, orgID, id int64) (*model.Tag, error)
	List(ctx context.Context, orgID int64) ([]model.Tag, error)
	Delete(ctx context.Context, orgID, id int64) error
	Assign(ctx context.Context, ut *model.UserTag) error
	Unassign(ctx context.Context, userID, tagID int64) error
	ListForUser(ctx context.Context, orgID, userID int64) ([]model.UserTag, error)
	ListActiveIDsForUser(ctx context.Context, orgID, userID int64) ([]int64, error)
}

type ContentAccessRuleStore interface {
	Get(ctx context.Context, orgID int64, contentType model.ContentType, contentID string) (*model.ContentAccessRule, error)
	Upsert(ctx context.Context, rule *model.ContentAccessRule) error
	Delete(ctx context.Context, orgID int64, contentType model.ContentType, contentID string) error
}

type AccessLogStore interface {
	Create(ctx context.Context, entry *model.AccessLog) error
}

// ConnectionStore defines the contract for third-party connection data access
type ConnectionStore interface {
	Create(ctx context.Context, conn *model.Connection) error
	GetByID(ctx context.Context, id int64) (*model.Connection, error)
	List(ctx context.Context, orgID int64) ([]model.Connection, error)
	UpdateCredentials(ctx context.Context, id int64, sealed []byte) error
	SetStatus(ctx context.Context, id int64, status model.ConnectionStatus) error
	Touch(ctx context.Context, id int64) error
	Delete(ctx context.Context, orgID, id int64) error
}

type ScenarioStore interface {
	Create(ctx context.Context, sc *model.Scenario) error
	GetByID(ctx context.Context, id int64) (*model.Scenario, error)
	SlugExists(ctx context.Context, orgID int64, slug string) (bool, error)
	List(ctx context.Context, orgID int64) ([]model.Scenario, error)
	ListEnabledByTrigger(ctx context.Context, orgID int64, triggerKey string) ([]model.Scenario, error)
	ListScheduled(ctx context.Context) ([]model.Scenario, error)
	Update(ctx context.Context, sc *model.Scenario) error
	Delete(ctx context.Context, id int64) error
}

type NodeStore interface {
	Create(ctx context.Context, node *model.Node) error
	GetByID(ctx context.Context, id int64) (*model.Node, error)
	List(ctx context.Context, scenarioID int64) ([]model.Node, error)
	Update(ctx context.Context, node *model.Node) error
	Delete(ctx context.Context, id int64) error
	DeleteByScenario(ctx context.Context, scenarioID int64) error
	NextOrder(ctx context.Context, scenarioID int64) (int32, error)
}

type EdgeStore interface {
	Create(ctx context.Context, edge *model.Edge) error
	GetByID(ctx context.Context, id int64) (*model.Edge, error)
	List(ctx context.Context, scenarioID int64) ([]model.Edge, error)
	Delete(ctx context.Context, id int64) error
	DeleteForNode(ctx context.Context, nodeID int64) error
	DeleteByScenario(ctx context.Context, scenarioID int64) error
}

// RunStore defines the contract for scenario runs and their steps
type RunStore interface {
	Create(ctx context.Context, run *model.ScenarioRun) error
	GetByID(ctx context.Context, id int64) (*model.ScenarioRun, error)
	ListByIdempotencyKey(ctx context.Context, orgID int64, key string) ([]model.ScenarioRun, error)
	ListByScenario(ctx context.Context, scenarioID int64, limit int32) ([]model.ScenarioRun, error)
	MarkRunning(ctx context.Context, id int64) error
	MarkSucceeded(ctx context.Context, id int64, nodesExecuted int32) error
	MarkFailed(ctx context.Context, id int64, code, message string, fatal bool, nodesExecuted int32) error
	CreateStep(ctx context.Context, step *model.RunStep) error
	ListSteps(ctx context.Context, runID int64) ([]model.RunStep, error)
}

type OrderStore interface {
	Create(ctx context.Context, order *model.Order) error
	Get(ctx context.Context, orgID, id int64) (*model.Order, error)
	List(ctx context.Context, orgID int64, limit, offset int32) ([]model.Order, error)
	// UpdateStatus is a compare-and-set on the current status.
	UpdateStatus(ctx context.Context, id int64, from, to model.OrderStatus) (*model.Order, error)
}

type WebhookSubscriptionStore interface {
	Create(ctx context.Context, sub *model.WebhookSubscription) error
	List(ctx context.Context, orgID int64) ([]model.WebhookSubscription, error)
	ListActiveForEvent(ctx context.Context, orgID int64, eventType string) ([]model.WebhookSubscription, error)
	Delete(ctx context.Context, orgID, id int64) error
}

type WebhookDeliveryStore interface {
	Create(ctx context.Context, d *model.WebhookDelivery) error
	List(ctx context.Context, subscriptionID int64, limit int32) ([]model.WebhookDelivery, error)
}
