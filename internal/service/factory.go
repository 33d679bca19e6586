package service

import (
	"launchthat.app/portal/common/secretbox"
	"launchthat.app/portal/core/config"
	"launchthat.app/portal/internal/queue"
	"launchthat.app/portal/internal/ratelimit"
	"launchthat.app/portal/internal/scenario"
	"launchthat.app/portal/internal/webhook"
)

// Dependencies are the long-lived clients shared by every service.
type Dependencies struct {
	Secrets  *secretbox.Box
	Queue    queue.Producer
	Limiter  ratelimit.Limiter
	Sender   *webhook.Sender
	Registry *scenario.Registry
	// Authenticate overrides the WorkOS code exchange, mainly for tests.
	Authenticate CodeAuthenticator
}

type Services struct {
	stores       StoreProvider
	txRunner     TxRunner
	deps         Dependencies
	workOSCfg    config.WorkOSConfig
	dashboardURL string
	engine       *scenario.Engine
}

func NewServices(stores StoreProvider, txRunner TxRunner, deps Dependencies, workOSCfg config.WorkOSConfig, dashboardURL string) *Services {
	return &Services{
		stores:       stores,
		txRunner:     txRunner,
		deps:         deps,
		workOSCfg:    workOSCfg,
		dashboardURL: dashboardURL,
		engine:       scenario.NewEngine(NewEngineStore(stores), deps.Registry, scenario.StandardRetry),
	}
}

func (s *Services) Engine() *scenario.Engine {
	return s.engine
}

func (s *Services) Users() UserService {
	return NewUserService(s.stores.Users(), s.stores.Organizations())
}

func (s *Services) Auth() AuthService {
	return NewAuthService(s.stores.Users(), s.stores.Sessions(), s.workOSCfg, s.deps.Authenticate)
}

func (s *Services) Organizations() OrganizationService {
	return NewOrganizationService(s.stores, s.txRunner)
}

func (s *Services) Memberships() MembershipService {
	return NewMembershipService(s.stores)
}

func (s *Services) Invitations() InvitationService {
	return NewInvitationService(s.stores, s.txRunner, s.dashboardURL)
}

func (s *Services) Tags() TagService {
	return NewTagService(s.stores)
}

func (s *Services) ContentAccess() ContentAccessService {
	return NewContentAccessService(s.stores)
}

func (s *Services) Connections() ConnectionService {
	return NewConnectionService(s.stores, s.deps.Secrets)
}

func (s *Services) Webhooks() WebhookService {
	return NewWebhookService(s.stores, s.Connections(), s.deps.Limiter, s.deps.Sender)
}

func (s *Services) Subscriptions() SubscriptionService {
	return NewSubscriptionService(s.stores, s.deps.Secrets)
}

func (s *Services) Scenarios() ScenarioService {
	return NewScenarioService(s.stores, s.txRunner)
}

func (s *Services) Nodes() NodeService {
	return NewNodeService(s.stores, s.txRunner, s.deps.Registry)
}

func (s *Services) Edges() EdgeService {
	return NewEdgeService(s.stores)
}

func (s *Services) Runs() RunService {
	return NewRunService(s.stores, s.txRunner, s.deps.Queue, s.engine)
}

func (s *Services) Ingest() IngestService {
	return NewIngestService(s.stores, s.txRunner, s.deps.Queue, s.Connections())
}

func (s *Services) Orders() OrderService {
	return NewOrderService(s.stores, s.deps.Queue)
}
