package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"launchthat.app/portal/internal/access"
	"launchthat.app/portal/internal/http/handler"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/service"
)

var _ = Describe("AccessHandler", func() {
	var (
		router  *gin.Engine
		content *mockContentAccessService
	)

	org := &model.Organization{ID: 10}

	setup := func(role model.Role) {
		router = gin.New()
		actor := model.Actor{
			User:       &model.User{ID: 1},
			Membership: &model.Membership{Role: role, IsActive: true},
		}
		h := handler.NewAccessHandler(content)
		rg := router.Group("/orgs/:org_id", withScope(org, actor))
		rg.GET("/access-rules/:content_type/:content_id", h.GetRule)
		rg.PUT("/access-rules/:content_type/:content_id", h.SaveRule)
		rg.POST("/access/check", h.Check)
	}

	BeforeEach(func() {
		content = &mockContentAccessService{}
		setup(model.RoleAdmin)
	})

	do := func(method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		return w, resp
	}

	Describe("Check", func() {
		It("defaults to the caller", func() {
			content.checkFn = func(_ context.Context, in service.CheckInput) (access.Decision, error) {
				Expect(in.OrgID).To(Equal(int64(10)))
				Expect(*in.UserID).To(Equal(int64(1)))
				Expect(in.ContentID).To(Equal("lesson-1"))
				return access.Decision{Granted: true, Reason: access.ReasonPublic}, nil
			}
			w, resp := do(http.MethodPost, "/orgs/10/access/check", `{"content_type":"lesson","content_id":"lesson-1"}`)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(resp["granted"]).To(BeTrue())
			Expect(resp["reason"]).To(Equal("public"))
		})

		It("lets rule managers check another user", func() {
			content.checkFn = func(_ context.Context, in service.CheckInput) (access.Decision, error) {
				Expect(*in.UserID).To(Equal(int64(9)))
				return access.Decision{Reason: access.ReasonMissingTag}, nil
			}
			w, resp := do(http.MethodPost, "/orgs/10/access/check", `{"user_id":"9","content_type":"lesson","content_id":"lesson-1"}`)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(resp["granted"]).To(BeFalse())
		})

		It("forbids viewers from checking another user", func() {
			setup(model.RoleViewer)
			content.checkFn = func(context.Context, service.CheckInput) (access.Decision, error) {
				Fail("check should not be called")
				return access.Decision{}, nil
			}
			w, resp := do(http.MethodPost, "/orgs/10/access/check", `{"user_id":"9","content_type":"lesson","content_id":"lesson-1"}`)
			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(resp["code"]).To(Equal("permission_denied"))
		})

		It("rejects a malformed user_id", func() {
			w, _ := do(http.MethodPost, "/orgs/10/access/check", `{"user_id":"nine","content_type":"lesson","content_id":"lesson-1"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	It("returns 404 when the content has no rule", func() {
		w, resp := do(http.MethodGet, "/orgs/10/access-rules/lesson/lesson-1", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(resp["code"]).To(Equal("rule_not_found"))
	})

	It("parses tag ids in saved rules", func() {
		content.saveFn = func(_ context.Context, _ int64, _ model.Actor, in service.AccessRuleInput) (*model.ContentAccessRule, error) {
			Expect(in.ContentType).To(Equal(model.ContentType("lesson")))
			Expect(in.RequiredTags.Mode).To(Equal(model.TagModeSome))
			Expect(in.RequiredTags.TagIDs).To(Equal([]int64{4, 5}))
			return &model.ContentAccessRule{ID: 2, ContentType: in.ContentType, ContentID: in.ContentID, RequiredTags: in.RequiredTags}, nil
		}
		w, resp := do(http.MethodPut, "/orgs/10/access-rules/lesson/lesson-1", `{"required_tags":{"tag_ids":["4","5"]}}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(resp["content_id"]).To(Equal("lesson-1"))
	})

	It("rejects non-numeric tag ids", func() {
		w, _ := do(http.MethodPut, "/orgs/10/access-rules/lesson/lesson-1", `{"required_tags":{"tag_ids":["x"]}}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
