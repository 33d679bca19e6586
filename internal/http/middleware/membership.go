package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"launchthat.app/portal/common/logger"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/service"
)

const (
	orgContextKey   contextKey = "organization"
	actorContextKey contextKey = "actor"
)

// RequireMembership loads the :org_id organization and the caller's
// membership in it. It must run after RequireAuth.
func RequireMembership(memberships service.MembershipService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		orgID, err := strconv.ParseInt(c.Param("org_id"), 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid organization id", "code": "invalid_input"})
			return
		}

		user := GetUser(ctx)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated", "code": "unauthenticated"})
			return
		}

		org, actor, err := memberships.Resolve(ctx, orgID, user)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrOrgNotFound):
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "organization not found", "code": "org_not_found"})
			case errors.Is(err, service.ErrNotMember):
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not a member of this organization", "code": "not_member"})
			default:
				slog.ErrorContext(ctx, "failed to resolve membership", "error", err, "organization_id", orgID)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve membership", "code": "internal"})
			}
			return
		}

		c.Request = c.Request.WithContext(WithScope(ctx, org, actor))

		c.Next()
	}
}

// WithScope attaches the resolved organization and actor to ctx.
func WithScope(ctx context.Context, org *model.Organization, actor model.Actor) context.Context {
	ctx = context.WithValue(ctx, orgContextKey, org)
	ctx = context.WithValue(ctx, actorContextKey, actor)
	return logger.WithLogFields(ctx, logger.LogFields{OrganizationID: &org.ID})
}

func GetOrganization(ctx context.Context) *model.Organization {
	org, _ := ctx.Value(orgContextKey).(*model.Organization)
	return org
}

func GetActor(ctx context.Context) model.Actor {
	actor, _ := ctx.Value(actorContextKey).(model.Actor)
	return actor
}
