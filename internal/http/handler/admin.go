package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"launchthat.app/portal/internal/service"
)

// AdminHandler serves operator endpoints behind the admin API key.
type AdminHandler struct {
	invitations service.InvitationService
	auth        service.AuthService
}

func NewAdminHandler(invitations service.InvitationService, auth service.AuthService) *AdminHandler {
	return &AdminHandler{invitations: invitations, auth: auth}
}

// Sweep runs the invitation and session cleanups immediately.
func (h *AdminHandler) Sweep(c *gin.Context) {
	ctx := c.Request.Context()

	expired, err := h.invitations.ExpireOld(ctx)
	if err != nil {
		respondError(c, err, "expire invitations")
		return
	}
	deleted, err := h.auth.DeleteExpiredSessions(ctx)
	if err != nil {
		respondError(c, err, "delete expired sessions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"expired_invitations": expired,
		"deleted_sessions":    deleted,
	})
}
