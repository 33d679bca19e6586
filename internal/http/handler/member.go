package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"launchthat.app/portal/internal/http/dto"
	"launchthat.app/portal/internal/service"
)

type MemberHandler struct {
	memberships service.MembershipService
}

func NewMemberHandler(memberships service.MembershipService) *MemberHandler {
	return &MemberHandler{memberships: memberships}
}

func (h *MemberHandler) List(c *gin.Context) {
	orgID, actor := scope(c)

	members, err := h.memberships.List(c.Request.Context(), orgID, actor)
	if err != nil {
		respondError(c, err, "list members")
		return
	}

	resp := make([]dto.MembershipResponse, 0, len(members))
	for i := range members {
		resp = append(resp, dto.ToMembershipResponse(&members[i]))
	}
	c.JSON(http.StatusOK, gin.H{"members": resp})
}

func (h *MemberHandler) Add(c *gin.Context) {
	orgID, actor := scope(c)

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: email and role are required")
		return
	}

	m, err := h.memberships.AddByEmail(c.Request.Context(), orgID, actor, req.Email, req.Role)
	if err != nil {
		respondError(c, err, "add member")
		return
	}
	c.JSON(http.StatusCreated, dto.ToMembershipResponse(m))
}

func (h *MemberHandler) UpdateRole(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	orgID, actor := scope(c)

	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: role is required")
		return
	}

	m, err := h.memberships.UpdateRole(c.Request.Context(), orgID, actor, userID, req.Role)
	if err != nil {
		respondError(c, err, "update member")
		return
	}
	c.JSON(http.StatusOK, dto.ToMembershipResponse(m))
}

func (h *MemberHandler) Remove(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	orgID, actor := scope(c)

	if err := h.memberships.Remove(c.Request.Context(), orgID, actor, userID); err != nil {
		respondError(c, err, "remove member")
		return
	}
	c.Status(http.StatusNoContent)
}
