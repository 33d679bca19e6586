package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"launchthat.app/portal/internal/http/dto"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/service"
)

type TagHandler struct {
	tags service.TagService
}

func NewTagHandler(tags service.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

func (h *TagHandler) List(c *gin.Context) {
	orgID, actor := scope(c)

	tags, err := h.tags.List(c.Request.Context(), orgID, actor)
	if err != nil {
		respondError(c, err, "list tags")
		return
	}

	resp := make([]dto.TagResponse, 0, len(tags))
	for i := range tags {
		resp = append(resp, dto.ToTagResponse(&tags[i]))
	}
	c.JSON(http.StatusOK, gin.H{"tags": resp})
}

func (h *TagHandler) Create(c *gin.Context) {
	orgID, actor := scope(c)

	var req dto.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: name is required")
		return
	}

	tag, err := h.tags.Create(c.Request.Context(), orgID, actor, req.Name, req.Color)
	if err != nil {
		respondError(c, err, "create tag")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTagResponse(tag))
}

func (h *TagHandler) Delete(c *gin.Context) {
	tagID, ok := pathID(c, "tag_id")
	if !ok {
		return
	}
	orgID, actor := scope(c)

	if err := h.tags.Delete(c.Request.Context(), orgID, actor, tagID); err != nil {
		respondError(c, err, "delete tag")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TagHandler) Assign(c *gin.Context) {
	tagID, ok := pathID(c, "tag_id")
	if !ok {
		return
	}
	orgID, actor := scope(c)

	var req dto.AssignTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: user_id is required")
		return
	}

	ut, err := h.tags.Assign(c.Request.Context(), orgID, actor, service.AssignTagParams{
		UserID:    req.UserID,
		TagID:     tagID,
		Source:    model.TagSourceManual,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		respondError(c, err, "assign tag")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserTagResponse(ut))
}

func (h *TagHandler) Unassign(c *gin.Context) {
	tagID, ok := pathID(c, "tag_id")
	if !ok {
		return
	}
	orgID, actor := scope(c)

	var req dto.UnassignTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: user_id is required")
		return
	}

	if err := h.tags.Unassign(c.Request.Context(), orgID, actor, req.UserID, tagID); err != nil {
		respondError(c, err, "unassign tag")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListForUser lists a member's tag assignments.
func (h *TagHandler) ListForUser(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	orgID, actor := scope(c)

	tags, err := h.tags.ListForUser(c.Request.Context(), orgID, actor, userID)
	if err != nil {
		respondError(c, err, "list user tags")
		return
	}

	resp := make([]dto.UserTagResponse, 0, len(tags))
	for i := range tags {
		resp = append(resp, dto.ToUserTagResponse(&tags[i]))
	}
	c.JSON(http.StatusOK, gin.H{"tags": resp})
}
