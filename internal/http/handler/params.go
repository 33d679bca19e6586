package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"launchthat.app/portal/internal/http/middleware"
	"launchthat.app/portal/internal/model"
)

// pathID parses a snowflake id path parameter, writing a 400 when it is invalid.
func pathID(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

// scope returns the organization id and actor set by RequireMembership.
func scope(c *gin.Context) (int64, model.Actor) {
	ctx := c.Request.Context()
	org := middleware.GetOrganization(ctx)
	if org == nil {
		return 0, middleware.GetActor(ctx)
	}
	return org.ID, middleware.GetActor(ctx)
}

func queryInt32(c *gin.Context, name string, def, max int32) int32 {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 0 {
		return def
	}
	if max > 0 && int32(v) > max {
		return max
	}
	return int32(v)
}
