package service

import (
	"context"

	"launchthat.app/portal/core/db"
	"launchthat.app/portal/core/db/sqlc"
	"launchthat.app/portal/internal/store"
)

// StoreProvider exposes the stores available to services, either bound to the
// pool or to a transaction.
type StoreProvider interface {
	Users() store.UserStore
	Sessions() store.SessionStore
	Organizations() store.OrganizationStore
	Memberships() store.MembershipStore
	Invitations() store.InvitationStore
	Tags() store.TagStore
	ContentAccessRules() store.ContentAccessRuleStore
	AccessLogs() store.AccessLogStore
	Connections() store.ConnectionStore
	Scenarios() store.ScenarioStore
	Nodes() store.NodeStore
	Edges() store.EdgeStore
	Runs() store.RunStore
	Orders() store.OrderStore
	WebhookSubscriptions() store.WebhookSubscriptionStore
	WebhookDeliveries() store.WebhookDeliveryStore
}

// TxRunner runs functions within a transaction and provides stores bound to that transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type dbTxRunner struct {
	db *db.DB
}

// NewTxRunner builds a TxRunner backed by the core DB.
func NewTxRunner(db *db.DB) TxRunner {
	return &dbTxRunner{db: db}
}

func (r *dbTxRunner) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	return r.db.WithTx(ctx, func(q *sqlc.Queries) error {
		return fn(store.NewStores(q))
	})
}
