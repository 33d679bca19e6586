package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"launchthat.app/portal/internal/http/dto"
	"launchthat.app/portal/internal/http/middleware"
	"launchthat.app/portal/internal/service"
)

type InvitationHandler struct {
	invService service.InvitationService
}

func NewInvitationHandler(invService service.InvitationService) *InvitationHandler {
	return &InvitationHandler{invService: invService}
}

// Validate checks an invitation token. Public.
func (h *InvitationHandler) Validate(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		badRequest(c, "token is required")
		return
	}

	inv, err := h.invService.ValidateToken(c.Request.Context(), token)
	if err != nil {
		respondError(c, err, "validate invitation")
		return
	}

	c.JSON(http.StatusOK, dto.ValidateInvitationResponse{
		Email:     inv.Email,
		Role:      inv.Role,
		ExpiresAt: inv.ExpiresAt,
		Valid:     true,
	})
}

// Accept joins the signed-in user to the invitation's organization.
func (h *InvitationHandler) Accept(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "token is required")
		return
	}

	user := middleware.GetUser(ctx)
	inv, err := h.invService.Accept(ctx, req.Token, user)
	if err != nil {
		respondError(c, err, "accept invitation")
		return
	}

	slog.InfoContext(ctx, "invitation accepted",
		"invitation_id", inv.ID,
		"organization_id", inv.OrganizationID)
	c.JSON(http.StatusOK, dto.ToInvitationResponse(inv))
}

func (h *InvitationHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	orgID, actor := scope(c)

	var req dto.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: email and role are required")
		return
	}

	inv, inviteURL, err := h.invService.Create(ctx, orgID, actor, req.Email, req.Role)
	if err != nil {
		respondError(c, err, "create invitation")
		return
	}

	resp := dto.ToInvitationResponse(inv)
	resp.InviteURL = inviteURL
	c.JSON(http.StatusCreated, resp)
}

func (h *InvitationHandler) ListPending(c *gin.Context) {
	orgID, actor := scope(c)

	invitations, err := h.invService.ListPending(c.Request.Context(), orgID, actor)
	if err != nil {
		respondError(c, err, "list invitations")
		return
	}

	resp := make([]dto.InvitationResponse, 0, len(invitations))
	for i := range invitations {
		resp = append(resp, dto.ToInvitationResponse(&invitations[i]))
	}
	c.JSON(http.StatusOK, gin.H{"invitations": resp})
}

func (h *InvitationHandler) Revoke(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	orgID, actor := scope(c)

	inv, err := h.invService.Revoke(c.Request.Context(), orgID, actor, id)
	if err != nil {
		respondError(c, err, "revoke invitation")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvitationResponse(inv))
}
