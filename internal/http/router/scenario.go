package router

import (
	"github.com/gin-gonic/gin"

	"launchthat.app/portal/internal/http/handler"
)

func ScenarioRouter(rg *gin.RouterGroup, h *handler.ScenarioHandler) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/runs/:run_id", h.GetRun)

	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/publish", h.Publish)
	rg.POST("/:id/enable", h.SetEnabled)
	rg.POST("/:id/run", h.Run)
	rg.POST("/:id/dry-run", h.DryRun)
	rg.GET("/:id/runs", h.ListRuns)

	rg.POST("/:id/nodes", h.AddNode)
	rg.PATCH("/:id/nodes/:node_id", h.UpdateNode)
	rg.DELETE("/:id/nodes/:node_id", h.RemoveNode)

	rg.POST("/:id/edges", h.Connect)
	rg.DELETE("/:id/edges/:edge_id", h.Disconnect)
}
