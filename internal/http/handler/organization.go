package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"launchthat.app/portal/internal/http/dto"
	"launchthat.app/portal/internal/http/middleware"
	"launchthat.app/portal/internal/service"
)

type OrganizationHandler struct {
	orgService service.OrganizationService
}

func NewOrganizationHandler(orgService service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// Create makes the caller the owner of a new organization.
func (h *OrganizationHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	org, err := h.orgService.Create(ctx, req.Name, req.Slug, middleware.GetUser(ctx))
	if err != nil {
		respondError(c, err, "create organization")
		return
	}
	c.JSON(http.StatusCreated, dto.ToOrganizationResponse(org))
}

func (h *OrganizationHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	orgs, err := h.orgService.ListForUser(ctx, middleware.GetUser(ctx).ID)
	if err != nil {
		respondError(c, err, "list organizations")
		return
	}

	resp := make([]*dto.OrganizationResponse, 0, len(orgs))
	for i := range orgs {
		resp = append(resp, dto.ToOrganizationResponse(&orgs[i]))
	}
	c.JSON(http.StatusOK, gin.H{"organizations": resp})
}

func (h *OrganizationHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToOrganizationResponse(middleware.GetOrganization(c.Request.Context())))
}

func (h *OrganizationHandler) Update(c *gin.Context) {
	orgID, actor := scope(c)

	var req dto.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	org, err := h.orgService.Update(c.Request.Context(), orgID, actor, req.Name)
	if err != nil {
		respondError(c, err, "update organization")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

func (h *OrganizationHandler) Delete(c *gin.Context) {
	orgID, actor := scope(c)

	if err := h.orgService.Delete(c.Request.Context(), orgID, actor); err != nil {
		respondError(c, err, "delete organization")
		return
	}
	c.Status(http.StatusNoContent)
}
