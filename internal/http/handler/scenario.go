package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"launchthat.app/portal/common/logger"
	"launchthat.app/portal/internal/http/dto"
	"launchthat.app/portal/internal/service"
)

type ScenarioHandler struct {
	scenarios service.ScenarioService
	nodes     service.NodeService
	edges     service.EdgeService
	runs      service.RunService
}

func NewScenarioHandler(
	scenarios service.ScenarioService,
	nodes service.NodeService,
	edges service.EdgeService,
	runs service.RunService,
) *ScenarioHandler {
	return &ScenarioHandler{
		scenarios: scenarios,
		nodes:     nodes,
		edges:     edges,
		runs:      runs,
	}
}

// scenarioID parses :id and tags the request context with it.
func scenarioID(c *gin.Context) (int64, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return 0, false
	}
	c.Request = c.Request.WithContext(logger.WithLogFields(c.Request.Context(), logger.LogFields{ScenarioID: &id}))
	return id, true
}

func (h *ScenarioHandler) List(c *gin.Context) {
	orgID, actor := scope(c)

	scenarios, err := h.scenarios.List(c.Request.Context(), orgID, actor)
	if err != nil {
		respondError(c, err, "list scenarios")
		return
	}

	resp := make([]dto.ScenarioResponse, 0, len(scenarios))
	for i := range scenarios {
		resp = append(resp, dto.ToScenarioResponse(&scenarios[i]))
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": resp})
}

func (h *ScenarioHandler) Create(c *gin.Context) {
	orgID, actor := scope(c)

	var req dto.CreateScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	sc, err := h.scenarios.Create(c.Request.Context(), orgID, actor, req.ToInput())
	if err != nil {
		respondError(c, err, "create scenario")
		return
	}
	c.JSON(http.StatusCreated, dto.ToScenarioResponse(sc))
}

// Get returns the scenario with its nodes and edges.
func (h *ScenarioHandler) Get(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	orgID, actor := scope(c)

	sc, err := h.scenarios.Get(ctx, orgID, actor, id)
	if err != nil {
		respondError(c, err, "get scenario")
		return
	}
	nodes, err := h.nodes.List(ctx, orgID, actor, id)
	if err != nil {
		respondError(c, err, "list nodes")
		return
	}
	edges, err := h.edges.List(ctx, orgID, actor, id)
	if err != nil {
		respondError(c, err, "list edges")
		return
	}

	resp := dto.ScenarioDetailResponse{
		ScenarioResponse: dto.ToScenarioResponse(sc),
		Nodes:            make([]dto.NodeResponse, 0, len(nodes)),
		Edges:            make([]dto.EdgeResponse, 0, len(edges)),
	}
	for i := range nodes {
		resp.Nodes = append(resp.Nodes, dto.ToNodeResponse(&nodes[i]))
	}
	for i := range edges {
		resp.Edges = append(resp.Edges, dto.ToEdgeResponse(&edges[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ScenarioHandler) Update(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	orgID, actor := scope(c)

	var req dto.UpdateScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	sc, err := h.scenarios.Update(c.Request.Context(), orgID, actor, id, req.ToInput())
	if err != nil {
		respondError(c, err, "update scenario")
		return
	}
	c.JSON(http.StatusOK, dto.ToScenarioResponse(sc))
}

func (h *ScenarioHandler) Delete(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	orgID, actor := scope(c)

	if err := h.scenarios.Delete(c.Request.Context(), orgID, actor, id); err != nil {
		respondError(c, err, "delete scenario")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ScenarioHandler) Publish(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	orgID, actor := scope(c)

	sc, err := h.scenarios.Publish(c.Request.Context(), orgID, actor, id)
	if err != nil {
		respondError(c, err, "publish scenario")
		return
	}
	slog.InfoContext(c.Request.Context(), "scenario published", "version", sc.Version)
	c.JSON(http.StatusOK, dto.ToScenarioResponse(sc))
}

func (h *ScenarioHandler) SetEnabled(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	orgID, actor := scope(c)

	var req dto.SetEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	sc, err := h.scenarios.SetEnabled(c.Request.Context(), orgID, actor, id, req.Enabled)
	if err != nil {
		respondError(c, err, "update scenario")
		return
	}
	c.JSON(http.StatusOK, dto.ToScenarioResponse(sc))
}

// Run queues a manual run and answers 202 with the pending run.
func (h *ScenarioHandler) Run(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	orgID, actor := scope(c)

	var req dto.RunRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	run, err := h.runs.Trigger(c.Request.Context(), orgID, actor, id, req.Payload)
	if err != nil {
		respondError(c, err, "trigger scenario")
		return
	}
	c.JSON(http.StatusAccepted, dto.ToRunResponse(run))
}

// DryRun executes synchronously without side effects and returns the outcome.
func (h *ScenarioHandler) DryRun(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	orgID, actor := scope(c)

	var req dto.RunRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	outcome, err := h.runs.DryRun(c.Request.Context(), orgID, actor, id, req.Payload)
	if err != nil {
		respondError(c, err, "dry run scenario")
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (h *ScenarioHandler) ListRuns(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	orgID, actor := scope(c)

	runs, err := h.runs.ListByScenario(c.Request.Context(), orgID, actor, id, queryInt32(c, "limit", 50, 200))
	if err != nil {
		respondError(c, err, "list runs")
		return
	}

	resp := make([]dto.RunResponse, 0, len(runs))
	for i := range runs {
		resp = append(resp, dto.ToRunResponse(&runs[i]))
	}
	c.JSON(http.StatusOK, gin.H{"runs": resp})
}

// GetRun returns the run with its executed steps.
func (h *ScenarioHandler) GetRun(c *gin.Context) {
	runID, ok := pathID(c, "run_id")
	if !ok {
		return
	}
	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{RunID: &runID})
	orgID, actor := scope(c)

	run, err := h.runs.Get(ctx, orgID, actor, runID)
	if err != nil {
		respondError(c, err, "get run")
		return
	}
	steps, err := h.runs.Steps(ctx, orgID, actor, runID)
	if err != nil {
		respondError(c, err, "list run steps")
		return
	}

	resp := dto.RunDetailResponse{
		RunResponse: dto.ToRunResponse(run),
		Steps:       make([]dto.RunStepResponse, 0, len(steps)),
	}
	for i := range steps {
		resp.Steps = append(resp.Steps, dto.ToRunStepResponse(&steps[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ScenarioHandler) AddNode(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	orgID, actor := scope(c)

	var req dto.AddNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: type is required")
		return
	}

	node, err := h.nodes.Add(c.Request.Context(), orgID, actor, id, service.AddNodeInput{
		Type:     req.Type,
		Label:    req.Label,
		Config:   req.Config,
		Position: req.Position,
	})
	if err != nil {
		respondError(c, err, "add node")
		return
	}
	c.JSON(http.StatusCreated, dto.ToNodeResponse(node))
}

func (h *ScenarioHandler) UpdateNode(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	nodeID, ok := pathID(c, "node_id")
	if !ok {
		return
	}
	orgID, actor := scope(c)

	var req dto.UpdateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	node, err := h.nodes.Update(c.Request.Context(), orgID, actor, id, nodeID, service.UpdateNodeInput{
		Label:    req.Label,
		Config:   req.Config,
		Position: req.Position,
	})
	if err != nil {
		respondError(c, err, "update node")
		return
	}
	c.JSON(http.StatusOK, dto.ToNodeResponse(node))
}

func (h *ScenarioHandler) RemoveNode(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	nodeID, ok := pathID(c, "node_id")
	if !ok {
		return
	}
	orgID, actor := scope(c)

	if err := h.nodes.Remove(c.Request.Context(), orgID, actor, id, nodeID); err != nil {
		respondError(c, err, "remove node")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ScenarioHandler) Connect(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	orgID, actor := scope(c)

	var req dto.ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: source_node_id and target_node_id are required")
		return
	}

	edge, err := h.edges.Connect(c.Request.Context(), orgID, actor, id, service.ConnectInput{
		SourceNodeID: req.SourceNodeID,
		TargetNodeID: req.TargetNodeID,
		Mapping:      req.Mapping,
		Label:        req.Label,
	})
	if err != nil {
		respondError(c, err, "connect nodes")
		return
	}
	c.JSON(http.StatusCreated, dto.ToEdgeResponse(edge))
}

func (h *ScenarioHandler) Disconnect(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	edgeID, ok := pathID(c, "edge_id")
	if !ok {
		return
	}
	orgID, actor := scope(c)

	if err := h.edges.Disconnect(c.Request.Context(), orgID, actor, id, edgeID); err != nil {
		respondError(c, err, "disconnect nodes")
		return
	}
	c.Status(http.StatusNoContent)
}

// NodeTypes lists the registered node types with their config schemas.
func (h *ScenarioHandler) NodeTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"node_types": h.nodes.NodeTypes()})
}
