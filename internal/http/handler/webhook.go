package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"launchthat.app/portal/internal/http/dto"
	"launchthat.app/portal/internal/service"
)

type WebhookHandler struct {
	subscriptions service.SubscriptionService
	webhooks      service.WebhookService
}

func NewWebhookHandler(subscriptions service.SubscriptionService, webhooks service.WebhookService) *WebhookHandler {
	return &WebhookHandler{subscriptions: subscriptions, webhooks: webhooks}
}

func (h *WebhookHandler) List(c *gin.Context) {
	orgID, actor := scope(c)

	subs, err := h.subscriptions.List(c.Request.Context(), orgID, actor)
	if err != nil {
		respondError(c, err, "list webhook subscriptions")
		return
	}

	resp := make([]dto.SubscriptionResponse, 0, len(subs))
	for i := range subs {
		resp = append(resp, dto.ToSubscriptionResponse(&subs[i]))
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": resp})
}

func (h *WebhookHandler) Create(c *gin.Context) {
	orgID, actor := scope(c)

	var req dto.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: url and event_types are required")
		return
	}

	sub, err := h.subscriptions.Create(c.Request.Context(), orgID, actor, service.CreateSubscriptionParams{
		URL:        req.URL,
		EventTypes: req.EventTypes,
		Secret:     req.Secret,
	})
	if err != nil {
		respondError(c, err, "create webhook subscription")
		return
	}
	c.JSON(http.StatusCreated, dto.ToSubscriptionResponse(sub))
}

func (h *WebhookHandler) Delete(c *gin.Context) {
	subID, ok := pathID(c, "id")
	if !ok {
		return
	}
	orgID, actor := scope(c)

	if err := h.subscriptions.Delete(c.Request.Context(), orgID, actor, subID); err != nil {
		respondError(c, err, "delete webhook subscription")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WebhookHandler) Deliveries(c *gin.Context) {
	subID, ok := pathID(c, "id")
	if !ok {
		return
	}
	orgID, actor := scope(c)

	deliveries, err := h.subscriptions.Deliveries(c.Request.Context(), orgID, actor, subID, queryInt32(c, "limit", 50, 200))
	if err != nil {
		respondError(c, err, "list webhook deliveries")
		return
	}

	resp := make([]dto.DeliveryResponse, 0, len(deliveries))
	for i := range deliveries {
		resp = append(resp, dto.ToDeliveryResponse(&deliveries[i]))
	}
	c.JSON(http.StatusOK, gin.H{"deliveries": resp})
}

// Test sends one unsigned request to an arbitrary endpoint. Endpoint failures
// are reported in the body with status 200.
func (h *WebhookHandler) Test(c *gin.Context) {
	orgID, actor := scope(c)

	var req dto.TestWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: url is required")
		return
	}

	result, err := h.webhooks.Test(c.Request.Context(), orgID, actor, req.ToTestRequest())
	if err != nil {
		respondError(c, err, "test webhook")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Send delivers a signed event through one of the org's connections. Endpoint
// failures are reported in the body with status 200.
func (h *WebhookHandler) Send(c *gin.Context) {
	orgID, actor := scope(c)

	var req dto.SendWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: connection_id and url are required")
		return
	}

	params := service.SendWithConnectionParams{
		ConnectionID: req.ConnectionID,
		URL:          req.URL,
		EventType:    req.EventType,
	}
	if len(req.Payload) > 0 {
		params.Payload = req.Payload
	}
	if req.RateLimit != nil {
		params.RateLimit = &service.RateLimit{
			Limit:  req.RateLimit.Limit,
			Window: time.Duration(req.RateLimit.WindowMS) * time.Millisecond,
		}
	}

	result, err := h.webhooks.Send(c.Request.Context(), orgID, actor, params)
	if err != nil {
		respondError(c, err, "send webhook")
		return
	}
	c.JSON(http.StatusOK, dto.ToSendWebhookResponse(result))
}
