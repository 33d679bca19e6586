package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"launchthat.app/portal/internal/service"
)

const maxInboundBody = 1 << 20

type InboundHandler struct {
	ingest service.IngestService
}

func NewInboundHandler(ingest service.IngestService) *InboundHandler {
	return &InboundHandler{ingest: ingest}
}

// Receive starts the scenarios listening on :trigger_key in :org_slug. The
// optional connection_id query selects the secret used to verify the signature.
// A replay of an idempotency key answers 200, a new event 202.
func (h *InboundHandler) Receive(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxInboundBody+1))
	if err != nil {
		badRequest(c, "failed to read body")
		return
	}
	if len(body) > maxInboundBody {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "payload too large", "code": "payload_too_large"})
		return
	}

	params := service.InboundParams{
		OrgSlug:    c.Param("org_slug"),
		TriggerKey: c.Param("trigger_key"),
		Body:       body,
		Headers:    make(map[string]string, len(c.Request.Header)),
	}
	for key := range c.Request.Header {
		params.Headers[key] = c.Request.Header.Get(key)
	}
	if raw := c.Query("connection_id"); raw != "" {
		connID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(c, "invalid connection_id")
			return
		}
		params.ConnectionID = &connID
	}

	result, err := h.ingest.ProcessInbound(ctx, params)
	if err != nil {
		slog.WarnContext(ctx, "inbound webhook rejected",
			"org_slug", params.OrgSlug,
			"trigger_key", params.TriggerKey,
			"error", err)
		respondError(c, err, "process webhook")
		return
	}

	status := http.StatusAccepted
	if result.Idempotent {
		status = http.StatusOK
	}
	c.JSON(status, result)
}
