package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"launchthat.app/portal/internal/scenario"
	"launchthat.app/portal/internal/service"
	"launchthat.app/portal/internal/webhook"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// Checked in order; the first match wins.
var errorMappings = []errorMapping{
	{service.ErrPermissionDenied, http.StatusForbidden, "permission_denied"},
	{service.ErrNotMember, http.StatusForbidden, "not_member"},
	{service.ErrEmailMismatch, http.StatusForbidden, "email_mismatch"},
	{service.ErrCannotRemoveOwner, http.StatusForbidden, "cannot_remove_owner"},
	{service.ErrCannotChangeOwner, http.StatusForbidden, "cannot_change_owner"},
	{service.ErrSystemNode, http.StatusForbidden, "system_node"},

	{service.ErrOrgNotFound, http.StatusNotFound, "org_not_found"},
	{service.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
	{service.ErrInviteNotFound, http.StatusNotFound, "invite_not_found"},
	{service.ErrTagNotFound, http.StatusNotFound, "tag_not_found"},
	{service.ErrConnectionNotFound, http.StatusNotFound, "connection_not_found"},
	{service.ErrScenarioNotFound, http.StatusNotFound, "scenario_not_found"},
	{service.ErrNodeNotFound, http.StatusNotFound, "node_not_found"},
	{service.ErrEdgeNotFound, http.StatusNotFound, "edge_not_found"},
	{service.ErrRunNotFound, http.StatusNotFound, "run_not_found"},
	{service.ErrSubscriptionNotFound, http.StatusNotFound, "subscription_not_found"},
	{service.ErrOrderNotFound, http.StatusNotFound, "order_not_found"},
	{service.ErrNoMatchingScenarios, http.StatusNotFound, "no_matching_scenarios"},

	{service.ErrAlreadyMember, http.StatusConflict, "already_member"},
	{service.ErrInvitePendingExists, http.StatusConflict, "invite_pending"},
	{service.ErrSlugTaken, http.StatusConflict, "slug_taken"},
	{service.ErrSlugUnavailable, http.StatusConflict, "slug_unavailable"},
	{service.ErrTagExists, http.StatusConflict, "tag_exists"},
	{service.ErrDuplicateEdge, http.StatusConflict, "duplicate_edge"},
	{service.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{service.ErrScenarioDisabled, http.StatusConflict, "scenario_disabled"},

	{service.ErrInviteExpired, http.StatusGone, "invite_expired"},
	{service.ErrInviteAlreadyUsed, http.StatusGone, "invite_used"},
	{service.ErrInviteRevoked, http.StatusGone, "invite_revoked"},

	{service.ErrWebhookUnauthorized, http.StatusUnauthorized, "invalid_signature"},
	{webhook.ErrMissingSignature, http.StatusUnauthorized, "missing_signature"},
	{webhook.ErrInvalidTimestamp, http.StatusUnauthorized, "invalid_timestamp"},
	{webhook.ErrReplay, http.StatusUnauthorized, "replayed"},
	{webhook.ErrInvalidSignature, http.StatusUnauthorized, "invalid_signature"},
	{service.ErrSessionExpired, http.StatusUnauthorized, "session_expired"},
	{service.ErrInvalidCode, http.StatusBadRequest, "invalid_code"},

	{service.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{service.ErrInvalidRole, http.StatusBadRequest, "invalid_role"},
	{service.ErrInvalidContentType, http.StatusBadRequest, "invalid_content_type"},
	{service.ErrInvalidConnectionKey, http.StatusBadRequest, "invalid_input"},
	{service.ErrInvalidWebhookURL, http.StatusBadRequest, "invalid_webhook_url"},
	{service.ErrSlugRequired, http.StatusBadRequest, "slug_required"},
	{service.ErrInvalidSchedule, http.StatusBadRequest, "invalid_schedule"},
	{service.ErrSelfLoop, http.StatusBadRequest, "self_loop"},
	{service.ErrMissingIdempotencyKey, http.StatusBadRequest, "missing_idempotency_key"},
	{service.ErrInvalidPayload, http.StatusBadRequest, "invalid_payload"},
	{scenario.ErrUnknownNodeType, http.StatusBadRequest, "unknown_node_type"},
	{scenario.ErrInvalidConfig, http.StatusBadRequest, "invalid_node_config"},

	{webhook.ErrSecretNotConfigured, http.StatusUnprocessableEntity, "secret_not_configured"},
	{service.ErrSecretsUnavailable, http.StatusUnprocessableEntity, "secrets_unavailable"},
}

// respondError writes the {"error","code"} body for err. Unknown errors are
// logged and reported as 500 without their message.
func respondError(c *gin.Context, err error, action string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			c.JSON(m.status, gin.H{"error": err.Error(), "code": m.code})
			return
		}
	}

	slog.ErrorContext(c.Request.Context(), "failed to "+action, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action, "code": "internal"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": "invalid_input"})
}
