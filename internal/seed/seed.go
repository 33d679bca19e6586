package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/service"
)

// Services is the subset of the service layer a seed run writes through.
type Services struct {
	Users         service.UserService
	Organizations service.OrganizationService
	Memberships   service.MembershipService
	Tags          service.TagService
	Scenarios     service.ScenarioService
	Nodes         service.NodeService
	Edges         service.EdgeService
}

// Summary counts what a seed run created.
type Summary struct {
	Organizations int `json:"organizations"`
	Tags          int `json:"tags"`
	Scenarios     int `json:"scenarios"`
	Nodes         int `json:"nodes"`
	Edges         int `json:"edges"`
}

type Seeder struct {
	svc Services
}

func NewSeeder(svc Services) *Seeder {
	return &Seeder{svc: svc}
}

// Apply creates everything in f. It is not idempotent; seed an empty database.
func (s *Seeder) Apply(ctx context.Context, f *File) (Summary, error) {
	var sum Summary

	owner, _, err := s.svc.Users.Sync(ctx, f.Owner.Name, f.Owner.Email, nil)
	if err != nil {
		return sum, fmt.Errorf("syncing owner %s: %w", f.Owner.Email, err)
	}

	for _, spec := range f.Organizations {
		if err := s.applyOrganization(ctx, owner, spec, &sum); err != nil {
			return sum, fmt.Errorf("organization %q: %w", spec.Name, err)
		}
	}
	return sum, nil
}

func (s *Seeder) applyOrganization(ctx context.Context, owner *model.User, spec Organization, sum *Summary) error {
	org, err := s.svc.Organizations.Create(ctx, spec.Name, optional(spec.Slug), owner)
	if err != nil {
		return fmt.Errorf("creating: %w", err)
	}
	sum.Organizations++

	_, actor, err := s.svc.Memberships.Resolve(ctx, org.ID, owner)
	if err != nil {
		return fmt.Errorf("resolving owner membership: %w", err)
	}

	for _, tag := range spec.Tags {
		if _, err := s.svc.Tags.Create(ctx, org.ID, actor, tag.Name, optional(tag.Color)); err != nil {
			return fmt.Errorf("tag %q: %w", tag.Name, err)
		}
		sum.Tags++
	}

	for _, sc := range spec.Scenarios {
		if err := s.applyScenario(ctx, org.ID, actor, sc, sum); err != nil {
			return fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
	}

	slog.InfoContext(ctx, "organization seeded",
		"organization_id", org.ID,
		"slug", org.Slug)
	return nil
}

func (s *Seeder) applyScenario(ctx context.Context, orgID int64, actor model.Actor, spec Scenario, sum *Summary) error {
	sc, err := s.svc.Scenarios.Create(ctx, orgID, actor, service.CreateScenarioInput{
		Name:         spec.Name,
		Description:  optional(spec.Description),
		ScenarioType: spec.Type,
		Slug:         optional(spec.Slug),
		TriggerKey:   spec.TriggerKey,
		Schedule:     optional(spec.Schedule),
	})
	if err != nil {
		return fmt.Errorf("creating: %w", err)
	}
	sum.Scenarios++

	nodeIDs := make(map[string]int64, len(spec.Nodes))
	for _, n := range spec.Nodes {
		var config json.RawMessage
		if len(n.Config) > 0 {
			config, err = json.Marshal(n.Config)
			if err != nil {
				return fmt.Errorf("encoding config of node %q: %w", n.Key, err)
			}
		}
		node, err := s.svc.Nodes.Add(ctx, orgID, actor, sc.ID, service.AddNodeInput{
			Type:     n.Type,
			Label:    n.Label,
			Config:   config,
			Position: model.Position{X: n.X, Y: n.Y},
		})
		if err != nil {
			return fmt.Errorf("node %q: %w", n.Key, err)
		}
		nodeIDs[n.Key] = node.ID
		sum.Nodes++
	}

	for _, e := range spec.Edges {
		if _, err := s.svc.Edges.Connect(ctx, orgID, actor, sc.ID, service.ConnectInput{
			SourceNodeID: nodeIDs[e.From],
			TargetNodeID: nodeIDs[e.To],
			Label:        optional(e.Label),
		}); err != nil {
			return fmt.Errorf("edge %s -> %s: %w", e.From, e.To, err)
		}
		sum.Edges++
	}

	if spec.Publish {
		if _, err := s.svc.Scenarios.Publish(ctx, orgID, actor, sc.ID); err != nil {
			return fmt.Errorf("publishing: %w", err)
		}
	}
	if spec.Enabled {
		if _, err := s.svc.Scenarios.SetEnabled(ctx, orgID, actor, sc.ID, true); err != nil {
			return fmt.Errorf("enabling: %w", err)
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
