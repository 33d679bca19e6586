package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/workos/workos-go/v6/pkg/usermanagement"

	"launchthat.app/portal/core/config"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/service"
	"launchthat.app/portal/internal/store"
)

var _ = Describe("AuthService", func() {
	var (
		ctx      context.Context
		users    *mockUserStore
		sessions *mockSessionStore
		identity usermanagement.User
		exchange error
		codes    []string
		svc      service.AuthService
	)

	BeforeEach(func() {
		ctx = context.Background()
		users = &mockUserStore{}
		sessions = &mockSessionStore{}
		identity = usermanagement.User{ID: "user_01", Email: " Ada@Example.com ", FirstName: "Ada", LastName: "Lovelace"}
		exchange = nil
		codes = nil

		svc = service.NewAuthService(users, sessions, config.WorkOSConfig{ClientID: "client_1"},
			func(_ context.Context, opts usermanagement.AuthenticateWithCodeOpts) (usermanagement.AuthenticateResponse, error) {
				Expect(opts.ClientID).To(Equal("client_1"))
				codes = append(codes, opts.Code)
				return usermanagement.AuthenticateResponse{User: identity}, exchange
			})
	})

	Describe("HandleCallback", func() {
		It("links the WorkOS user and opens a week long session", func() {
			var opened *model.Session
			sessions.createFn = func(_ context.Context, s *model.Session) error {
				opened = s
				return nil
			}

			user, session, err := svc.HandleCallback(ctx, "code_1")
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Email).To(Equal("ada@example.com"))
			Expect(user.Name).To(Equal("Ada Lovelace"))
			Expect(*user.WorkOSID).To(Equal("user_01"))
			Expect(user.AvatarURL).To(BeNil())

			Expect(session).To(BeIdenticalTo(opened))
			Expect(session.UserID).To(Equal(user.ID))
			Expect(session.ExpiresAt).To(BeTemporally("~", time.Now().Add(service.SessionTTL), time.Minute))
		})

		It("keeps the id of an existing user", func() {
			users.upsertByWorkOSIDFn = func(_ context.Context, u *model.User) error {
				u.ID = 500
				return nil
			}
			_, session, err := svc.HandleCallback(ctx, "code_1")
			Expect(err).NotTo(HaveOccurred())
			Expect(session.UserID).To(Equal(int64(500)))
		})

		It("names the user after the email when WorkOS has no name", func() {
			identity.FirstName, identity.LastName = "", ""
			user, _, err := svc.HandleCallback(ctx, "code_1")
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Name).To(Equal("ada@example.com"))
		})

		It("rejects blank codes without calling WorkOS", func() {
			_, _, err := svc.HandleCallback(ctx, "  ")
			Expect(err).To(MatchError(service.ErrInvalidCode))
			Expect(codes).To(BeEmpty())
		})

		It("reports a rejected exchange as an invalid code", func() {
			exchange = errors.New("invalid_grant")
			_, _, err := svc.HandleCallback(ctx, "code_1")
			Expect(err).To(MatchError(service.ErrInvalidCode))
		})

		It("rejects identities without an email", func() {
			identity.Email = ""
			_, _, err := svc.HandleCallback(ctx, "code_1")
			Expect(err).To(MatchError(service.ErrInvalidCode))
		})
	})

	Describe("ValidateSession", func() {
		It("returns the session's user", func() {
			sessions.getValidFn = func(context.Context, int64) (*model.Session, error) {
				return &model.Session{ID: 1, UserID: 100}, nil
			}
			users.getByIDFn = func(_ context.Context, id int64) (*model.User, error) {
				return &model.User{ID: id}, nil
			}
			user, err := svc.ValidateSession(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(Equal(int64(100)))
		})

		It("treats unknown or expired sessions as expired", func() {
			_, err := svc.ValidateSession(ctx, 1)
			Expect(err).To(MatchError(service.ErrSessionExpired))
		})

		It("drops sessions whose user is gone", func() {
			sessions.getValidFn = func(context.Context, int64) (*model.Session, error) {
				return &model.Session{ID: 1, UserID: 100}, nil
			}
			var deleted []int64
			sessions.deleteFn = func(_ context.Context, id int64) error {
				deleted = append(deleted, id)
				return nil
			}
			_, err := svc.ValidateSession(ctx, 1)
			Expect(err).To(MatchError(service.ErrUserNotFound))
			Expect(deleted).To(Equal([]int64{1}))
		})
	})

	It("logs out idempotently", func() {
		sessions.deleteFn = func(context.Context, int64) error { return store.ErrNotFound }
		Expect(svc.Logout(ctx, 1)).To(Succeed())

		sessions.deleteFn = func(context.Context, int64) error { return errors.New("db down") }
		Expect(svc.Logout(ctx, 1)).To(MatchError(ContainSubstring("db down")))
	})
})
