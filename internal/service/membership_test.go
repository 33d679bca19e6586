package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/service"
	"launchthat.app/portal/internal/store"
)

var _ = Describe("MembershipService", func() {
	var (
		ctx    context.Context
		stores *mockStoreProvider
		svc    service.MembershipService
		admin  model.Actor
	)

	BeforeEach(func() {
		ctx = context.Background()
		stores = newMockStores()
		svc = service.NewMembershipService(stores)
		admin = actorWithRole(model.RoleAdmin)
	})

	Describe("Resolve", func() {
		BeforeEach(func() {
			stores.orgs.getByIDFn = func(context.Context, int64) (*model.Organization, error) {
				return &model.Organization{ID: orgID}, nil
			}
		})

		It("returns the actor with its membership", func() {
			stores.memberships.getFn = func(_ context.Context, _, userID int64) (*model.Membership, error) {
				return &model.Membership{UserID: userID, Role: model.RoleEditor, IsActive: true}, nil
			}
			org, actor, err := svc.Resolve(ctx, orgID, &model.User{ID: 5})
			Expect(err).NotTo(HaveOccurred())
			Expect(org.ID).To(Equal(orgID))
			Expect(actor.Role()).To(Equal(model.RoleEditor))
		})

		It("rejects non-members", func() {
			_, _, err := svc.Resolve(ctx, orgID, &model.User{ID: 5})
			Expect(err).To(MatchError(service.ErrNotMember))
		})

		It("rejects inactive members", func() {
			stores.memberships.getFn = func(context.Context, int64, int64) (*model.Membership, error) {
				return &model.Membership{Role: model.RoleEditor, IsActive: false}, nil
			}
			_, _, err := svc.Resolve(ctx, orgID, &model.User{ID: 5})
			Expect(err).To(MatchError(service.ErrNotMember))
		})

		It("lets platform admins through without a membership", func() {
			_, actor, err := svc.Resolve(ctx, orgID, &model.User{ID: 5, IsPlatformAdmin: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(actor.Membership).To(BeNil())
		})
	})

	Describe("AddByEmail", func() {
		It("needs members.manage", func() {
			_, err := svc.AddByEmail(ctx, orgID, actorWithRole(model.RoleEditor), "a@b.c", model.RoleViewer)
			Expect(err).To(MatchError(service.ErrPermissionDenied))
		})

		It("rejects the owner role", func() {
			_, err := svc.AddByEmail(ctx, orgID, admin, "a@b.c", model.RoleOwner)
			Expect(err).To(MatchError(service.ErrInvalidRole))
		})

		It("fails for unknown users", func() {
			_, err := svc.AddByEmail(ctx, orgID, admin, "nobody@example.com", model.RoleViewer)
			Expect(err).To(MatchError(service.ErrUserNotFound))
		})

		Context("with an existing user", func() {
			BeforeEach(func() {
				stores.users.getByEmailFn = func(_ context.Context, email string) (*model.User, error) {
					Expect(email).To(Equal("new@example.com"))
					return &model.User{ID: 9, Email: email}, nil
				}
			})

			It("creates an active membership", func() {
				m, err := svc.AddByEmail(ctx, orgID, admin, " New@Example.com", model.RoleEditor)
				Expect(err).NotTo(HaveOccurred())
				Expect(m.UserID).To(Equal(int64(9)))
				Expect(m.Role).To(Equal(model.RoleEditor))
				Expect(m.IsActive).To(BeTrue())
			})

			It("reports an active member", func() {
				stores.memberships.getFn = func(context.Context, int64, int64) (*model.Membership, error) {
					return &model.Membership{IsActive: true}, nil
				}
				_, err := svc.AddByEmail(ctx, orgID, admin, "new@example.com", model.RoleEditor)
				Expect(err).To(MatchError(service.ErrAlreadyMember))
			})

			It("reactivates an inactive membership with the new role", func() {
				var updated *model.Membership
				stores.memberships.getFn = func(context.Context, int64, int64) (*model.Membership, error) {
					return &model.Membership{ID: 3, Role: model.RoleViewer, IsActive: false}, nil
				}
				stores.memberships.updateFn = func(_ context.Context, m *model.Membership) error {
					updated = m
					return nil
				}
				_, err := svc.AddByEmail(ctx, orgID, admin, "new@example.com", model.RoleAdmin)
				Expect(err).NotTo(HaveOccurred())
				Expect(updated.ID).To(Equal(int64(3)))
				Expect(updated.IsActive).To(BeTrue())
				Expect(updated.Role).To(Equal(model.RoleAdmin))
			})

			It("maps a unique violation to ErrAlreadyMember", func() {
				stores.memberships.createFn = func(context.Context, *model.Membership) error {
					return store.ErrConflict
				}
				_, err := svc.AddByEmail(ctx, orgID, admin, "new@example.com", model.RoleEditor)
				Expect(err).To(MatchError(service.ErrAlreadyMember))
			})
		})
	})

	Describe("Remove", func() {
		It("cannot remove the owner", func() {
			stores.memberships.getFn = func(context.Context, int64, int64) (*model.Membership, error) {
				return &model.Membership{Role: model.RoleOwner, IsActive: true}, nil
			}
			Expect(svc.Remove(ctx, orgID, admin, 1)).To(MatchError(service.ErrCannotRemoveOwner))
		})

		It("reports non-members", func() {
			Expect(svc.Remove(ctx, orgID, admin, 1)).To(MatchError(service.ErrNotMember))
		})

		It("deactivates the membership", func() {
			var updated *model.Membership
			stores.memberships.getFn = func(context.Context, int64, int64) (*model.Membership, error) {
				return &model.Membership{Role: model.RoleEditor, IsActive: true}, nil
			}
			stores.memberships.updateFn = func(_ context.Context, m *model.Membership) error {
				updated = m
				return nil
			}
			Expect(svc.Remove(ctx, orgID, admin, 1)).To(Succeed())
			Expect(updated.IsActive).To(BeFalse())
		})
	})

	Describe("UpdateRole", func() {
		It("cannot assign owner", func() {
			_, err := svc.UpdateRole(ctx, orgID, admin, 1, model.RoleOwner)
			Expect(err).To(MatchError(service.ErrCannotChangeOwner))
		})

		It("cannot change the owner's role", func() {
			stores.memberships.getFn = func(context.Context, int64, int64) (*model.Membership, error) {
				return &model.Membership{Role: model.RoleOwner, IsActive: true}, nil
			}
			_, err := svc.UpdateRole(ctx, orgID, admin, 1, model.RoleViewer)
			Expect(err).To(MatchError(service.ErrCannotChangeOwner))
		})

		It("changes the role", func() {
			stores.memberships.getFn = func(context.Context, int64, int64) (*model.Membership, error) {
				return &model.Membership{Role: model.RoleViewer, IsActive: true}, nil
			}
			m, err := svc.UpdateRole(ctx, orgID, admin, 1, model.RoleEditor)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Role).To(Equal(model.RoleEditor))
		})
	})

	Describe("List", func() {
		It("is open to any active member", func() {
			stores.memberships.listActiveFn = func(context.Context, int64) ([]model.Membership, error) {
				return []model.Membership{{ID: 1}, {ID: 2}}, nil
			}
			members, err := svc.List(ctx, orgID, actorWithRole(model.RoleViewer))
			Expect(err).NotTo(HaveOccurred())
			Expect(members).To(HaveLen(2))
		})

		It("denies outsiders", func() {
			_, err := svc.List(ctx, orgID, model.Actor{User: &model.User{ID: 1}})
			Expect(err).To(MatchError(service.ErrPermissionDenied))
		})
	})
})
