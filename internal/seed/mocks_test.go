package seed_test

import (
	"context"

	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/seed"
	"launchthat.app/portal/internal/service"
)

// seedLog records the calls made by the seeder. The fakes below embed their
// service interface, so any call the seeder should not make panics.
type seedLog struct {
	nextID    int64
	orgs      []string
	slugs     []*string
	tags      []string
	scenarios []service.CreateScenarioInput
	nodes     []service.AddNodeInput
	edges     []service.ConnectInput
	published []int64
	enabled   []int64

	addNodeErr error
}

func (l *seedLog) id() int64 {
	l.nextID++
	return l.nextID
}

func (l *seedLog) services() seed.Services {
	return seed.Services{
		Users:         fakeUsers{log: l},
		Organizations: fakeOrgs{log: l},
		Memberships:   fakeMemberships{log: l},
		Tags:          fakeTags{log: l},
		Scenarios:     fakeScenarios{log: l},
		Nodes:         fakeNodes{log: l},
		Edges:         fakeEdges{log: l},
	}
}

type fakeUsers struct {
	service.UserService
	log *seedLog
}

func (f fakeUsers) Sync(_ context.Context, name, email string, _ *string) (*model.User, []model.Organization, error) {
	return &model.User{ID: 1, Name: name, Email: email}, nil, nil
}

type fakeOrgs struct {
	service.OrganizationService
	log *seedLog
}

func (f fakeOrgs) Create(_ context.Context, name string, slug *string, _ *model.User) (*model.Organization, error) {
	f.log.orgs = append(f.log.orgs, name)
	f.log.slugs = append(f.log.slugs, slug)
	org := &model.Organization{ID: 100 + f.log.id(), Name: name}
	if slug != nil {
		org.Slug = *slug
	}
	return org, nil
}

type fakeMemberships struct {
	service.MembershipService
	log *seedLog
}

func (f fakeMemberships) Resolve(_ context.Context, orgID int64, user *model.User) (*model.Organization, model.Actor, error) {
	return &model.Organization{ID: orgID}, model.Actor{
		User:       user,
		Membership: &model.Membership{OrganizationID: orgID, UserID: user.ID, Role: model.RoleOwner, IsActive: true},
	}, nil
}

type fakeTags struct {
	service.TagService
	log *seedLog
}

func (f fakeTags) Create(_ context.Context, _ int64, actor model.Actor, name string, _ *string) (*model.Tag, error) {
	if actor.Role() != model.RoleOwner {
		return nil, service.ErrPermissionDenied
	}
	f.log.tags = append(f.log.tags, name)
	return &model.Tag{ID: f.log.id(), Name: name}, nil
}

type fakeScenarios struct {
	service.ScenarioService
	log *seedLog
}

func (f fakeScenarios) Create(_ context.Context, orgID int64, _ model.Actor, input service.CreateScenarioInput) (*model.Scenario, error) {
	f.log.scenarios = append(f.log.scenarios, input)
	return &model.Scenario{ID: f.log.id(), OrganizationID: orgID, Name: input.Name}, nil
}

func (f fakeScenarios) Publish(_ context.Context, _ int64, _ model.Actor, scenarioID int64) (*model.Scenario, error) {
	f.log.published = append(f.log.published, scenarioID)
	return &model.Scenario{ID: scenarioID}, nil
}

func (f fakeScenarios) SetEnabled(_ context.Context, _ int64, _ model.Actor, scenarioID int64, enabled bool) (*model.Scenario, error) {
	if enabled {
		f.log.enabled = append(f.log.enabled, scenarioID)
	}
	return &model.Scenario{ID: scenarioID, Enabled: enabled}, nil
}

type fakeNodes struct {
	service.NodeService
	log *seedLog
}

func (f fakeNodes) Add(_ context.Context, _ int64, _ model.Actor, scenarioID int64, input service.AddNodeInput) (*model.Node, error) {
	if f.log.addNodeErr != nil {
		return nil, f.log.addNodeErr
	}
	f.log.nodes = append(f.log.nodes, input)
	return &model.Node{ID: f.log.id(), ScenarioID: scenarioID, Type: input.Type}, nil
}

type fakeEdges struct {
	service.EdgeService
	log *seedLog
}

func (f fakeEdges) Connect(_ context.Context, _ int64, _ model.Actor, scenarioID int64, input service.ConnectInput) (*model.Edge, error) {
	f.log.edges = append(f.log.edges, input)
	return &model.Edge{ID: f.log.id(), ScenarioID: scenarioID, SourceNodeID: input.SourceNodeID, TargetNodeID: input.TargetNodeID}, nil
}
