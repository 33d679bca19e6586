package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"launchthat.app/portal/internal/http/dto"
	"launchthat.app/portal/internal/http/middleware"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/service"
)

type OrderHandler struct {
	orders service.OrderService
	orgs   service.OrganizationService
}

func NewOrderHandler(orders service.OrderService, orgs service.OrganizationService) *OrderHandler {
	return &OrderHandler{orders: orders, orgs: orgs}
}

func (h *OrderHandler) List(c *gin.Context) {
	orgID, actor := scope(c)

	orders, err := h.orders.List(c.Request.Context(), orgID, actor,
		queryInt32(c, "limit", 50, 200),
		queryInt32(c, "offset", 0, 0))
	if err != nil {
		respondError(c, err, "list orders")
		return
	}

	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, dto.ToOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, gin.H{"orders": resp})
}

func (h *OrderHandler) Create(c *gin.Context) {
	orgID, actor := scope(c)

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	order, err := h.orders.Create(c.Request.Context(), orgID, &actor, req.ToInput())
	if err != nil {
		respondError(c, err, "create order")
		return
	}
	c.JSON(http.StatusCreated, dto.ToOrderResponse(order))
}

// Checkout is the storefront order endpoint. The caller may be anonymous;
// a signed-in shopper is recorded as the customer.
func (h *OrderHandler) Checkout(c *gin.Context) {
	ctx := c.Request.Context()
	orgID, ok := pathID(c, "org_id")
	if !ok {
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if _, err := h.orgs.Get(ctx, orgID); err != nil {
		respondError(c, err, "load organization")
		return
	}

	var actor *model.Actor
	if user := middleware.GetUser(ctx); user != nil {
		actor = &model.Actor{User: user}
	}

	order, err := h.orders.Create(ctx, orgID, actor, req.ToInput())
	if err != nil {
		respondError(c, err, "create order")
		return
	}
	c.JSON(http.StatusCreated, dto.ToOrderResponse(order))
}

func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	orgID, actor := scope(c)

	order, err := h.orders.Get(c.Request.Context(), orgID, actor, orderID)
	if err != nil {
		respondError(c, err, "get order")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	orgID, actor := scope(c)

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: status is required")
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), orgID, actor, orderID, req.Status)
	if err != nil {
		respondError(c, err, "update order status")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}
