package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"launchthat.app/portal/common/metrics"
	"launchthat.app/portal/internal/http/handler"
	"launchthat.app/portal/internal/http/middleware"
	"launchthat.app/portal/internal/service"
)

type RouterConfig struct {
	DashboardURL   string
	IsProduction   bool
	AdminAPIKey    string
	MetricsEnabled bool
	MetricsPath    string
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.MetricsEnabled {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(metrics.Handler()))
	}

	requireAuth := middleware.RequireAuth(services.Auth())

	authHandler := handler.NewAuthHandler(services.Auth(), services.Invitations(), services.Organizations(), cfg.DashboardURL, cfg.IsProduction)
	AuthRouter(router.Group("/auth"), authHandler, requireAuth)

	invHandler := handler.NewInvitationHandler(services.Invitations())
	InvitationRouter(router.Group("/invites"), invHandler, requireAuth)

	InboundRouter(router.Group("/hooks"), handler.NewInboundHandler(services.Ingest()))

	orderHandler := handler.NewOrderHandler(services.Orders(), services.Organizations())
	checkout := router.Group("/checkout/:org_id")
	checkout.Use(middleware.OptionalAuth(services.Auth()))
	{
		checkout.POST("/orders", orderHandler.Checkout)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.RequireAdminAPIKey(cfg.AdminAPIKey))
	{
		admin.POST("/sweep", handler.NewAdminHandler(services.Invitations(), services.Auth()).Sweep)
	}

	scenarioHandler := handler.NewScenarioHandler(services.Scenarios(), services.Nodes(), services.Edges(), services.Runs())

	v1 := router.Group("/api/v1")
	v1.Use(requireAuth)
	{
		OrganizationRouter(v1.Group("/organizations"), services, orderHandler, invHandler, scenarioHandler)
		v1.GET("/node-types", scenarioHandler.NodeTypes)
	}
}
