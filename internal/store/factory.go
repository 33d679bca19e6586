package store

import (
	"launchthat.app/portal/core/db/sqlc"
)

type Stores struct {
	queries *sqlc.Queries
}

func NewStores(queries *sqlc.Queries) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.queries)
}

func (s *Stores) Sessions() SessionStore {
	return newSessionStore(s.queries)
}

func (s *Stores) Organizations() OrganizationStore {
	return newOrganizationStore(s.queries)
}

func (s *Stores) Memberships() MembershipStore {
	return newMembershipStore(s.queries)
}

func (s *Stores) Invitations() InvitationStore {
	return newInvitationStore(s.queries)
}

func (s *Stores) Tags() TagStore {
	return newTagStore(s.queries)
}

func (s *Stores) ContentAccessRules() ContentAccessRuleStore {
	return newContentAccessRuleStore(s.queries)
}

func (s *Stores) AccessLogs() AccessLogStore {
	return newAccessLogStore(s.queries)
}

func (s *Stores) Connections() ConnectionStore {
	return newConnectionStore(s.queries)
}

func (s *Stores) Scenarios() ScenarioStore {
	return newScenarioStore(s.queries)
}

func (s *Stores) Nodes() NodeStore {
	return newNodeStore(s.queries)
}

func (s *Stores) Edges() EdgeStore {
	return newEdgeStore(s.queries)
}

func (s *Stores) Runs() RunStore {
	return newRunStore(s.queries)
}

func (s *Stores) Orders() OrderStore {
	return newOrderStore(s.queries)
}

func (s *Stores) WebhookSubscriptions() WebhookSubscriptionStore {
	return newWebhookSubscriptionStore(s.queries)
}

func (s *Stores) WebhookDeliveries() WebhookDeliveryStore {
	return newWebhookDeliveryStore(s.queries)
}
