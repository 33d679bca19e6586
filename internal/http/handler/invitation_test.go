package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"launchthat.app/portal/internal/http/handler"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/service"
)

var _ = Describe("InvitationHandler", func() {
	var (
		router *gin.Engine
		svc    *mockInvitationService
		org    *model.Organization
		actor  model.Actor
	)

	BeforeEach(func() {
		router = gin.New()
		svc = &mockInvitationService{}
		org = &model.Organization{ID: 10, Slug: "acme"}
		actor = model.Actor{
			User:       &model.User{ID: 1, Email: "owner@example.com"},
			Membership: &model.Membership{Role: model.RoleOwner, IsActive: true},
		}

		h := handler.NewInvitationHandler(svc)
		router.GET("/invites/validate", h.Validate)
		router.POST("/invites/accept", withUser(actor.User), h.Accept)

		scoped := router.Group("/orgs/:org_id/invitations", withScope(org, actor))
		scoped.GET("", h.ListPending)
		scoped.POST("", h.Create)
		scoped.POST("/:id/revoke", h.Revoke)
	})

	do := func(method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var resp map[string]any
		if w.Body.Len() > 0 {
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		}
		return w, resp
	}

	Describe("Validate", func() {
		It("requires a token", func() {
			w, resp := do(http.MethodGet, "/invites/validate", nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(resp["code"]).To(Equal("invalid_input"))
		})

		DescribeTable("maps token states",
			func(err error, status int, code string) {
				svc.validateFn = func(context.Context, string) (*model.Invitation, error) { return nil, err }
				w, resp := do(http.MethodGet, "/invites/validate?token=t", nil)
				Expect(w.Code).To(Equal(status))
				Expect(resp["code"]).To(Equal(code))
			},
			Entry("not found", service.ErrInviteNotFound, http.StatusNotFound, "invite_not_found"),
			Entry("expired", service.ErrInviteExpired, http.StatusGone, "invite_expired"),
			Entry("used", service.ErrInviteAlreadyUsed, http.StatusGone, "invite_used"),
			Entry("revoked", service.ErrInviteRevoked, http.StatusGone, "invite_revoked"),
		)

		It("returns the invitation email and role", func() {
			svc.validateFn = func(_ context.Context, token string) (*model.Invitation, error) {
				return &model.Invitation{Email: "new@example.com", Role: model.RoleEditor, ExpiresAt: time.Now().Add(time.Hour)}, nil
			}
			w, resp := do(http.MethodGet, "/invites/validate?token=t", nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(resp["valid"]).To(BeTrue())
			Expect(resp["role"]).To(Equal("editor"))
		})
	})

	Describe("Accept", func() {
		It("accepts for the signed-in user", func() {
			svc.acceptFn = func(_ context.Context, token string, u *model.User) (*model.Invitation, error) {
				Expect(token).To(Equal("tok"))
				Expect(u.ID).To(Equal(int64(1)))
				return &model.Invitation{ID: 3, OrganizationID: 10, Status: model.InvitationStatusAccepted}, nil
			}
			w, resp := do(http.MethodPost, "/invites/accept", map[string]string{"token": "tok"})
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(resp["organization_id"]).To(Equal("10"))
		})

		It("reports an already active member as a conflict", func() {
			svc.acceptFn = func(context.Context, string, *model.User) (*model.Invitation, error) {
				return nil, service.ErrAlreadyMember
			}
			w, _ := do(http.MethodPost, "/invites/accept", map[string]string{"token": "tok"})
			Expect(w.Code).To(Equal(http.StatusConflict))
		})
	})

	Describe("Create", func() {
		It("returns the invite url", func() {
			svc.createFn = func(_ context.Context, orgID int64, a model.Actor, email string, role model.Role) (*model.Invitation, string, error) {
				Expect(orgID).To(Equal(int64(10)))
				Expect(a.UserID()).To(Equal(int64(1)))
				return &model.Invitation{ID: 8, OrganizationID: orgID, Email: email, Role: role}, "https://dash/invite?token=x", nil
			}
			w, resp := do(http.MethodPost, "/orgs/10/invitations", map[string]string{"email": "n@example.com", "role": "viewer"})
			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(resp["invite_url"]).To(Equal("https://dash/invite?token=x"))
			Expect(resp["id"]).To(Equal("8"))
		})

		It("rejects a malformed email", func() {
			w, _ := do(http.MethodPost, "/orgs/10/invitations", map[string]string{"email": "nope", "role": "viewer"})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("maps permission errors to 403", func() {
			svc.createFn = func(context.Context, int64, model.Actor, string, model.Role) (*model.Invitation, string, error) {
				return nil, "", service.ErrPermissionDenied
			}
			w, resp := do(http.MethodPost, "/orgs/10/invitations", map[string]string{"email": "n@example.com", "role": "viewer"})
			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(resp["code"]).To(Equal("permission_denied"))
		})

		It("maps a pending invitation to 409", func() {
			svc.createFn = func(context.Context, int64, model.Actor, string, model.Role) (*model.Invitation, string, error) {
				return nil, "", service.ErrInvitePendingExists
			}
			w, _ := do(http.MethodPost, "/orgs/10/invitations", map[string]string{"email": "n@example.com", "role": "viewer"})
			Expect(w.Code).To(Equal(http.StatusConflict))
		})
	})

	It("revokes by path id", func() {
		svc.revokeFn = func(_ context.Context, _ int64, _ model.Actor, id int64) (*model.Invitation, error) {
			return &model.Invitation{ID: id, Status: model.InvitationStatusRevoked}, nil
		}
		w, resp := do(http.MethodPost, "/orgs/10/invitations/55/revoke", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(resp["status"]).To(Equal("revoked"))

		w, _ = do(http.MethodPost, "/orgs/10/invitations/abc/revoke", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
