package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/service"
	"launchthat.app/portal/internal/store"
)

var _ = Describe("InvitationService", func() {
	const dashboardURL = "https://app.example.com"

	var (
		ctx    context.Context
		stores *mockStoreProvider
		tx     *mockTxRunner
		svc    service.InvitationService
		admin  model.Actor
	)

	BeforeEach(func() {
		ctx = context.Background()
		stores = newMockStores()
		tx = &mockTxRunner{stores: stores}
		svc = service.NewInvitationService(stores, tx, dashboardURL)
		admin = actorWithRole(model.RoleAdmin)
	})

	Describe("Create", func() {
		It("creates a pending invitation with a token and the invite url", func() {
			var created *model.Invitation
			stores.invitations.createFn = func(_ context.Context, inv *model.Invitation) error {
				created = inv
				return nil
			}

			inv, url, err := svc.Create(ctx, orgID, admin, "  Guest@Example.COM ", "")

			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeIdenticalTo(inv))
			Expect(inv.Email).To(Equal("guest@example.com"))
			Expect(inv.Role).To(Equal(model.RoleViewer))
			Expect(inv.Status).To(Equal(model.InvitationStatusPending))
			Expect(inv.Token).To(HaveLen(44))
			Expect(*inv.InvitedBy).To(Equal(admin.UserID()))
			Expect(inv.ExpiresAt).To(BeTemporally("~", time.Now().Add(7*24*time.Hour), time.Minute))
			Expect(url).To(Equal(dashboardURL + "/invite?token=" + inv.Token))
		})

		It("rejects active members", func() {
			stores.memberships.activeExistsByEmailFn = func(context.Context, int64, string) (bool, error) {
				return true, nil
			}
			_, _, err := svc.Create(ctx, orgID, admin, "guest@example.com", model.RoleEditor)
			Expect(err).To(MatchError(service.ErrAlreadyMember))
		})

		It("rejects a second pending invitation", func() {
			stores.invitations.getPendingFn = func(context.Context, int64, string) (*model.Invitation, error) {
				return &model.Invitation{Status: model.InvitationStatusPending, ExpiresAt: time.Now().Add(time.Hour)}, nil
			}
			_, _, err := svc.Create(ctx, orgID, admin, "guest@example.com", model.RoleEditor)
			Expect(err).To(MatchError(service.ErrInvitePendingExists))
		})

		It("allows re-inviting when the pending invitation has lapsed", func() {
			stores.invitations.getPendingFn = func(context.Context, int64, string) (*model.Invitation, error) {
				return &model.Invitation{Status: model.InvitationStatusPending, ExpiresAt: time.Now().Add(-time.Hour)}, nil
			}
			_, _, err := svc.Create(ctx, orgID, admin, "guest@example.com", model.RoleEditor)
			Expect(err).NotTo(HaveOccurred())
		})

		It("requires members.manage", func() {
			_, _, err := svc.Create(ctx, orgID, actorWithRole(model.RoleEditor), "guest@example.com", model.RoleViewer)
			Expect(err).To(MatchError(service.ErrPermissionDenied))
		})

		It("does not invite owners", func() {
			_, _, err := svc.Create(ctx, orgID, admin, "guest@example.com", model.RoleOwner)
			Expect(err).To(MatchError(service.ErrInvalidRole))
		})
	})

	DescribeTable("ValidateToken classifies unusable tokens",
		func(inv *model.Invitation, expected error) {
			stores.invitations.getByTokenFn = func(context.Context, string) (*model.Invitation, error) {
				if inv == nil {
					return nil, store.ErrNotFound
				}
				return inv, nil
			}
			_, err := svc.ValidateToken(ctx, "tok")
			Expect(err).To(MatchError(expected))
		},
		Entry("unknown", nil, service.ErrInviteNotFound),
		Entry("accepted", &model.Invitation{Status: model.InvitationStatusAccepted}, service.ErrInviteAlreadyUsed),
		Entry("revoked", &model.Invitation{Status: model.InvitationStatusRevoked}, service.ErrInviteRevoked),
		Entry("expired status", &model.Invitation{Status: model.InvitationStatusExpired}, service.ErrInviteExpired),
		Entry("pending past expiry", &model.Invitation{Status: model.InvitationStatusPending, ExpiresAt: time.Now().Add(-time.Minute)}, service.ErrInviteExpired),
	)

	Describe("Accept", func() {
		var (
			user *model.User
			inv  *model.Invitation
		)

		BeforeEach(func() {
			user = &model.User{ID: 9, Email: "Guest@example.com"}
			inv = &model.Invitation{
				ID:             77,
				OrganizationID: orgID,
				Email:          "guest@example.com",
				Role:           model.RoleEditor,
				Status:         model.InvitationStatusPending,
				ExpiresAt:      time.Now().Add(time.Hour),
			}
			stores.invitations.getValidByTokenFn = func(context.Context, string) (*model.Invitation, error) {
				return inv, nil
			}
			stores.invitations.acceptFn = func(_ context.Context, id, userID int64) (*model.Invitation, error) {
				accepted := *inv
				accepted.Status = model.InvitationStatusAccepted
				accepted.AcceptedBy = &userID
				return &accepted, nil
			}
		})

		It("creates the membership and accepts inside a transaction", func() {
			var created *model.Membership
			stores.memberships.createFn = func(_ context.Context, m *model.Membership) error {
				created = m
				return nil
			}

			accepted, err := svc.Accept(ctx, "tok", user)

			Expect(err).NotTo(HaveOccurred())
			Expect(tx.calls).To(Equal(1))
			Expect(accepted.Status).To(Equal(model.InvitationStatusAccepted))
			Expect(created.UserID).To(Equal(user.ID))
			Expect(created.Role).To(Equal(model.RoleEditor))
		})

		It("matches the email case-insensitively and rejects others", func() {
			user.Email = "other@example.com"
			_, err := svc.Accept(ctx, "tok", user)
			Expect(err).To(MatchError(service.ErrEmailMismatch))
		})

		It("rejects active members", func() {
			stores.memberships.getFn = func(context.Context, int64, int64) (*model.Membership, error) {
				return &model.Membership{IsActive: true}, nil
			}
			_, err := svc.Accept(ctx, "tok", user)
			Expect(err).To(MatchError(service.ErrAlreadyMember))
		})

		It("reactivates a previous membership", func() {
			var updated *model.Membership
			stores.memberships.getFn = func(context.Context, int64, int64) (*model.Membership, error) {
				return &model.Membership{ID: 5, Role: model.RoleViewer, IsActive: false}, nil
			}
			stores.memberships.updateFn = func(_ context.Context, m *model.Membership) error {
				updated = m
				return nil
			}
			_, err := svc.Accept(ctx, "tok", user)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.IsActive).To(BeTrue())
			Expect(updated.Role).To(Equal(model.RoleEditor))
		})

		It("treats a lost race on accept as already used", func() {
			stores.invitations.acceptFn = func(context.Context, int64, int64) (*model.Invitation, error) {
				return nil, store.ErrNotFound
			}
			_, err := svc.Accept(ctx, "tok", user)
			Expect(err).To(MatchError(service.ErrInviteAlreadyUsed))
		})
	})

	Describe("Revoke", func() {
		It("maps a missing pending invitation", func() {
			_, err := svc.Revoke(ctx, orgID, admin, 1)
			Expect(err).To(MatchError(service.ErrInviteNotFound))
		})
	})
})
