package router

import (
	"github.com/gin-gonic/gin"

	"launchthat.app/portal/internal/http/handler"
	"launchthat.app/portal/internal/http/middleware"
	"launchthat.app/portal/internal/service"
)

// OrganizationRouter registers the organization collection and every
// org-scoped resource under /:org_id, guarded by RequireMembership.
func OrganizationRouter(rg *gin.RouterGroup, services *service.Services, orders *handler.OrderHandler, invitations *handler.InvitationHandler, scenarios *handler.ScenarioHandler) {
	orgHandler := handler.NewOrganizationHandler(services.Organizations())
	rg.POST("", orgHandler.Create)
	rg.GET("", orgHandler.List)

	org := rg.Group("/:org_id")
	org.Use(middleware.RequireMembership(services.Memberships()))
	{
		org.GET("", orgHandler.Get)
		org.PATCH("", orgHandler.Update)
		org.DELETE("", orgHandler.Delete)

		tags := handler.NewTagHandler(services.Tags())
		MemberRouter(org.Group("/members"), handler.NewMemberHandler(services.Memberships()), tags)

		inv := org.Group("/invitations")
		inv.GET("", invitations.ListPending)
		inv.POST("", invitations.Create)
		inv.POST("/:id/revoke", invitations.Revoke)

		TagRouter(org.Group("/tags"), tags)

		access := handler.NewAccessHandler(services.ContentAccess())
		org.GET("/access-rules/:content_type/:content_id", access.GetRule)
		org.PUT("/access-rules/:content_type/:content_id", access.SaveRule)
		org.DELETE("/access-rules/:content_type/:content_id", access.ClearRule)
		org.POST("/access/check", access.Check)

		ConnectionRouter(org.Group("/connections"), handler.NewConnectionHandler(services.Connections()))

		ScenarioRouter(org.Group("/scenarios"), scenarios)

		WebhookRouter(org.Group("/webhooks"), handler.NewWebhookHandler(services.Subscriptions(), services.Webhooks()))

		OrderRouter(org.Group("/orders"), orders)
	}
}

func MemberRouter(rg *gin.RouterGroup, h *handler.MemberHandler, tags *handler.TagHandler) {
	rg.GET("", h.List)
	rg.POST("", h.Add)
	rg.PATCH("/:user_id", h.UpdateRole)
	rg.DELETE("/:user_id", h.Remove)
	rg.GET("/:user_id/tags", tags.ListForUser)
}

func TagRouter(rg *gin.RouterGroup, h *handler.TagHandler) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.DELETE("/:tag_id", h.Delete)
	rg.POST("/:tag_id/assign", h.Assign)
	rg.POST("/:tag_id/unassign", h.Unassign)
}

func ConnectionRouter(rg *gin.RouterGroup, h *handler.ConnectionHandler) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/status", h.SetStatus)
	rg.PUT("/:id/credentials", h.UpdateCredentials)
}

func WebhookRouter(rg *gin.RouterGroup, h *handler.WebhookHandler) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.POST("/test", h.Test)
	rg.POST("/send", h.Send)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/deliveries", h.Deliveries)
}

func OrderRouter(rg *gin.RouterGroup, h *handler.OrderHandler) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/status", h.UpdateStatus)
}
