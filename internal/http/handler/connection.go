package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"launchthat.app/portal/internal/http/dto"
	"launchthat.app/portal/internal/service"
)

type ConnectionHandler struct {
	connections service.ConnectionService
}

func NewConnectionHandler(connections service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connections: connections}
}

func (h *ConnectionHandler) List(c *gin.Context) {
	orgID, actor := scope(c)

	conns, err := h.connections.List(c.Request.Context(), orgID, actor)
	if err != nil {
		respondError(c, err, "list connections")
		return
	}

	resp := make([]dto.ConnectionResponse, 0, len(conns))
	for i := range conns {
		resp = append(resp, dto.ToConnectionResponse(&conns[i]))
	}
	c.JSON(http.StatusOK, gin.H{"connections": resp})
}

func (h *ConnectionHandler) Create(c *gin.Context) {
	orgID, actor := scope(c)

	var req dto.CreateConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: app_key is required")
		return
	}

	conn, err := h.connections.Create(c.Request.Context(), orgID, actor, service.CreateConnectionParams{
		AppKey:      req.AppKey,
		Name:        req.Name,
		Credentials: req.Credentials,
		Config:      req.Config,
	})
	if err != nil {
		respondError(c, err, "create connection")
		return
	}
	c.JSON(http.StatusCreated, dto.ToConnectionResponse(conn))
}

func (h *ConnectionHandler) Get(c *gin.Context) {
	connID, ok := pathID(c, "id")
	if !ok {
		return
	}
	orgID, actor := scope(c)

	conn, err := h.connections.Get(c.Request.Context(), orgID, actor, connID)
	if err != nil {
		respondError(c, err, "get connection")
		return
	}
	c.JSON(http.StatusOK, dto.ToConnectionResponse(conn))
}

func (h *ConnectionHandler) SetStatus(c *gin.Context) {
	connID, ok := pathID(c, "id")
	if !ok {
		return
	}
	orgID, actor := scope(c)

	var req dto.SetConnectionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: status is required")
		return
	}

	conn, err := h.connections.SetStatus(c.Request.Context(), orgID, actor, connID, req.Status)
	if err != nil {
		respondError(c, err, "update connection status")
		return
	}
	c.JSON(http.StatusOK, dto.ToConnectionResponse(conn))
}

func (h *ConnectionHandler) UpdateCredentials(c *gin.Context) {
	connID, ok := pathID(c, "id")
	if !ok {
		return
	}
	orgID, actor := scope(c)

	var req dto.UpdateCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: credentials are required")
		return
	}

	if err := h.connections.UpdateCredentials(c.Request.Context(), orgID, actor, connID, req.Credentials); err != nil {
		respondError(c, err, "update connection credentials")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ConnectionHandler) Delete(c *gin.Context) {
	connID, ok := pathID(c, "id")
	if !ok {
		return
	}
	orgID, actor := scope(c)

	if err := h.connections.Delete(c.Request.Context(), orgID, actor, connID); err != nil {
		respondError(c, err, "delete connection")
		return
	}
	c.Status(http.StatusNoContent)
}
