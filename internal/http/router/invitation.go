package router

import (
	"github.com/gin-gonic/gin"

	"launchthat.app/portal/internal/http/handler"
)

// InvitationRouter sets up the token routes. Validate is public so the
// dashboard can show the invite before sign-in; Accept needs a session.
func InvitationRouter(rg *gin.RouterGroup, h *handler.InvitationHandler, requireAuth gin.HandlerFunc) {
	rg.GET("/validate", h.Validate)
	rg.POST("/accept", requireAuth, h.Accept)
}

func InboundRouter(rg *gin.RouterGroup, h *handler.InboundHandler) {
	rg.POST("/:org_slug/:trigger_key", h.Receive)
}
