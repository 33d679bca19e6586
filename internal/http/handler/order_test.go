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

	"launchthat.app/portal/internal/http/handler"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/service"
)

var _ = Describe("OrderHandler", func() {
	var (
		router *gin.Engine
		orders *mockOrderService
		orgs   *mockOrganizationService
		h      *handler.OrderHandler
	)

	org := &model.Organization{ID: 10}
	actor := model.Actor{
		User:       &model.User{ID: 1},
		Membership: &model.Membership{Role: model.RoleAdmin, IsActive: true},
	}
	checkoutBody := `{"customer_email":"buyer@example.com","items":[{"product_id":"p1","quantity":2,"unit_price_cents":500}]}`

	BeforeEach(func() {
		router = gin.New()
		orders = &mockOrderService{}
		orgs = &mockOrganizationService{
			getFn: func(_ context.Context, orgID int64) (*model.Organization, error) {
				return &model.Organization{ID: orgID}, nil
			},
		}
		h = handler.NewOrderHandler(orders, orgs)

		rg := router.Group("/orgs/:org_id/orders", withScope(org, actor))
		rg.GET("/:id", h.Get)
		rg.PATCH("/:id/status", h.UpdateStatus)
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

	Describe("Checkout", func() {
		It("creates an anonymous order with a nil actor", func() {
			router.POST("/checkout/:org_id/orders", h.Checkout)
			orders.createFn = func(_ context.Context, orgID int64, a *model.Actor, in service.CreateOrderInput) (*model.Order, error) {
				Expect(a).To(BeNil())
				Expect(in.Items).To(HaveLen(1))
				Expect(in.Items[0].Quantity).To(Equal(int64(2)))
				return &model.Order{ID: 55, OrganizationID: orgID, CustomerEmail: in.CustomerEmail, Status: model.OrderStatusPending, TotalCents: 1000}, nil
			}

			w, resp := do(http.MethodPost, "/checkout/10/orders", checkoutBody)
			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(resp["id"]).To(Equal("55"))
			Expect(resp["status"]).To(Equal("pending"))
			Expect(resp).NotTo(HaveKey("customer_user_id"))
		})

		It("records a signed-in shopper", func() {
			router.POST("/checkout/:org_id/orders", withUser(&model.User{ID: 3}), h.Checkout)
			orders.createFn = func(_ context.Context, _ int64, a *model.Actor, _ service.CreateOrderInput) (*model.Order, error) {
				Expect(a).NotTo(BeNil())
				Expect(a.UserID()).To(Equal(int64(3)))
				Expect(a.Membership).To(BeNil())
				userID := int64(3)
				return &model.Order{ID: 56, CustomerUserID: &userID}, nil
			}

			w, resp := do(http.MethodPost, "/checkout/10/orders", checkoutBody)
			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(resp["customer_user_id"]).To(Equal("3"))
		})

		It("returns 404 for an unknown organization", func() {
			router.POST("/checkout/:org_id/orders", h.Checkout)
			orgs.getFn = nil

			w, resp := do(http.MethodPost, "/checkout/10/orders", checkoutBody)
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(resp["code"]).To(Equal("org_not_found"))
		})

		It("requires at least one item", func() {
			router.POST("/checkout/:org_id/orders", h.Checkout)
			w, _ := do(http.MethodPost, "/checkout/10/orders", `{"items":[]}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		DescribeTable("rejects out of range items before creating the order",
			func(item string) {
				router.POST("/checkout/:org_id/orders", h.Checkout)
				orders.createFn = func(context.Context, int64, *model.Actor, service.CreateOrderInput) (*model.Order, error) {
					Fail("order must not be created")
					return nil, nil
				}

				w, _ := do(http.MethodPost, "/checkout/10/orders", `{"customer_email":"buyer@example.com","items":[`+item+`]}`)
				Expect(w.Code).To(Equal(http.StatusBadRequest))
			},
			Entry("huge quantity", `{"product_id":"p1","quantity":4000000000,"unit_price_cents":4000000000}`),
			Entry("zero quantity", `{"product_id":"p1","quantity":0,"unit_price_cents":100}`),
			Entry("negative price", `{"product_id":"p1","quantity":1,"unit_price_cents":-1}`),
			Entry("huge price", `{"product_id":"p1","quantity":1,"unit_price_cents":100000001}`),
		)
	})

	It("maps a disallowed status change to 409", func() {
		orders.updateStatusFn = func(_ context.Context, _ int64, _ model.Actor, _ int64, status model.OrderStatus) (*model.Order, error) {
			Expect(status).To(Equal(model.OrderStatusFulfilled))
			return nil, service.ErrInvalidTransition
		}
		w, resp := do(http.MethodPatch, "/orgs/10/orders/55/status", `{"status":"fulfilled"}`)
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(resp["code"]).To(Equal("invalid_transition"))
	})

	It("returns 404 for orders outside the organization", func() {
		w, resp := do(http.MethodGet, "/orgs/10/orders/55", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(resp["code"]).To(Equal("order_not_found"))
	})
})
