package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"launchthat.app/portal/internal/access"
	"launchthat.app/portal/internal/http/dto"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/service"
)

type AccessHandler struct {
	access service.ContentAccessService
}

func NewAccessHandler(access service.ContentAccessService) *AccessHandler {
	return &AccessHandler{access: access}
}

func contentKey(c *gin.Context) (model.ContentType, string) {
	return model.ContentType(c.Param("content_type")), c.Param("content_id")
}

// GetRule returns 404 when the content has no rule.
func (h *AccessHandler) GetRule(c *gin.Context) {
	orgID, actor := scope(c)
	contentType, contentID := contentKey(c)

	rule, err := h.access.GetRules(c.Request.Context(), orgID, actor, contentType, contentID)
	if err != nil {
		respondError(c, err, "get access rule")
		return
	}
	if rule == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no access rule for this content", "code": "rule_not_found"})
		return
	}
	c.JSON(http.StatusOK, dto.ToAccessRuleResponse(rule))
}

func (h *AccessHandler) SaveRule(c *gin.Context) {
	orgID, actor := scope(c)
	contentType, contentID := contentKey(c)

	var req dto.SaveAccessRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	required, err := req.RequiredTags.ToModel()
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	excluded, err := req.ExcludedTags.ToModel()
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	rule, err := h.access.SaveRules(c.Request.Context(), orgID, actor, service.AccessRuleInput{
		ContentType:         contentType,
		ContentID:           contentID,
		IsPublic:            req.IsPublic,
		RequiredRoles:       req.RequiredRoles,
		RequiredPermissions: req.RequiredPermissions,
		RequiredTags:        required,
		ExcludedTags:        excluded,
		Priority:            req.Priority,
	})
	if err != nil {
		respondError(c, err, "save access rule")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccessRuleResponse(rule))
}

func (h *AccessHandler) ClearRule(c *gin.Context) {
	orgID, actor := scope(c)
	contentType, contentID := contentKey(c)

	if err := h.access.ClearRules(c.Request.Context(), orgID, actor, contentType, contentID); err != nil {
		respondError(c, err, "clear access rule")
		return
	}
	c.Status(http.StatusNoContent)
}

// Check evaluates access for the caller. Checking another user_id needs
// content.manage_rules.
func (h *AccessHandler) Check(c *gin.Context) {
	orgID, actor := scope(c)

	var req dto.AccessCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: content_type and content_id are required")
		return
	}

	var userID *int64
	if actor.User != nil {
		id := actor.User.ID
		userID = &id
	}
	if req.UserID != nil {
		id, err := strconv.ParseInt(*req.UserID, 10, 64)
		if err != nil {
			badRequest(c, "invalid user_id")
			return
		}
		if id != actor.UserID() && !access.Allowed(actor, model.PermContentManageRules) {
			respondError(c, service.ErrPermissionDenied, "check access")
			return
		}
		userID = &id
	}

	decision, err := h.access.Check(c.Request.Context(), service.CheckInput{
		OrgID:       orgID,
		UserID:      userID,
		ContentType: req.ContentType,
		ContentID:   req.ContentID,
		ParentID:    req.ParentID,
	})
	if err != nil {
		respondError(c, err, "check access")
		return
	}
	c.JSON(http.StatusOK, decision)
}
