package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/service"
	"launchthat.app/portal/internal/store"
)

var _ = Describe("UserService", func() {
	var (
		ctx    context.Context
		stores *mockStoreProvider
		svc    service.UserService
	)

	BeforeEach(func() {
		ctx = context.Background()
		stores = newMockStores()
		svc = service.NewUserService(stores.users, stores.orgs)
	})

	Describe("Sync", func() {
		It("upserts by lowercased email and returns the user's organizations", func() {
			var upserted *model.User
			stores.users.upsertFn = func(_ context.Context, u *model.User) error {
				upserted = u
				u.ID = 7
				return nil
			}
			stores.orgs.listForMemberFn = func(_ context.Context, userID int64) ([]model.Organization, error) {
				Expect(userID).To(Equal(int64(7)))
				return []model.Organization{{ID: 1, Name: "Acme"}}, nil
			}

			user, orgs, err := svc.Sync(ctx, "Ada", "  Ada@Example.COM ", nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(upserted.Email).To(Equal("ada@example.com"))
			Expect(user.ID).To(Equal(int64(7)))
			Expect(orgs).To(HaveLen(1))
		})

		It("rejects an empty email", func() {
			_, _, err := svc.Sync(ctx, "Ada", "   ", nil)
			Expect(err).To(MatchError(service.ErrInvalidInput))
		})

		It("wraps store failures", func() {
			stores.users.upsertFn = func(context.Context, *model.User) error {
				return errors.New("db down")
			}
			_, _, err := svc.Sync(ctx, "Ada", "ada@example.com", nil)
			Expect(err).To(MatchError(ContainSubstring("upserting user")))
		})
	})

	Describe("Get", func() {
		It("maps a missing user to ErrUserNotFound", func() {
			stores.users.getByIDFn = func(context.Context, int64) (*model.User, error) {
				return nil, store.ErrNotFound
			}
			_, err := svc.Get(ctx, 1)
			Expect(err).To(MatchError(service.ErrUserNotFound))
		})
	})
})
