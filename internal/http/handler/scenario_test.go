package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"launchthat.app/portal/internal/http/handler"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/scenario"
	"launchthat.app/portal/internal/service"
)

var _ = Describe("ScenarioHandler", func() {
	var (
		router    *gin.Engine
		scenarios *mockScenarioService
		nodes     *mockNodeService
		edges     *mockEdgeService
		runs      *mockRunService
	)

	org := &model.Organization{ID: 10}
	actor := model.Actor{
		User:       &model.User{ID: 1},
		Membership: &model.Membership{Role: model.RoleAdmin, IsActive: true},
	}

	BeforeEach(func() {
		router = gin.New()
		scenarios = &mockScenarioService{}
		nodes = &mockNodeService{}
		edges = &mockEdgeService{}
		runs = &mockRunService{}

		h := handler.NewScenarioHandler(scenarios, nodes, edges, runs)
		router.GET("/node-types", h.NodeTypes)
		rg := router.Group("/orgs/:org_id/scenarios", withScope(org, actor))
		rg.POST("", h.Create)
		rg.GET("/runs/:run_id", h.GetRun)
		rg.GET("/:id", h.Get)
		rg.POST("/:id/run", h.Run)
		rg.POST("/:id/dry-run", h.DryRun)
		rg.POST("/:id/nodes", h.AddNode)
		rg.DELETE("/:id/nodes/:node_id", h.RemoveNode)
		rg.POST("/:id/edges", h.Connect)
	})

	do := func(method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var resp map[string]any
		if w.Body.Len() > 0 {
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		}
		return w, resp
	}

	Describe("Create", func() {
		It("passes the input through and returns 201", func() {
			scenarios.createFn = func(_ context.Context, orgID int64, _ model.Actor, in service.CreateScenarioInput) (*model.Scenario, error) {
				Expect(orgID).To(Equal(int64(10)))
				Expect(in.ScenarioType).To(Equal(model.ScenarioTypeCheckout))
				Expect(*in.Slug).To(Equal("buy-now"))
				return &model.Scenario{ID: 77, OrganizationID: orgID, Name: in.Name, ScenarioType: in.ScenarioType, Slug: in.Slug}, nil
			}

			w, resp := do(http.MethodPost, "/orgs/10/scenarios", `{"name":"Buy","scenario_type":"checkout","slug":"buy-now"}`)
			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(resp["id"]).To(Equal("77"))
			Expect(resp["scenario_type"]).To(Equal("checkout"))
		})

		It("maps a missing checkout slug to 400", func() {
			scenarios.createFn = func(context.Context, int64, model.Actor, service.CreateScenarioInput) (*model.Scenario, error) {
				return nil, service.ErrSlugRequired
			}
			w, resp := do(http.MethodPost, "/orgs/10/scenarios", `{"name":"Buy","scenario_type":"checkout"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(resp["code"]).To(Equal("slug_required"))
		})

		It("maps an invalid cron schedule to 400", func() {
			scenarios.createFn = func(context.Context, int64, model.Actor, service.CreateScenarioInput) (*model.Scenario, error) {
				return nil, fmt.Errorf("%w: bad", service.ErrInvalidSchedule)
			}
			w, resp := do(http.MethodPost, "/orgs/10/scenarios", `{"name":"Nightly","schedule":"nope"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(resp["code"]).To(Equal("invalid_schedule"))
		})
	})

	It("returns the scenario graph", func() {
		scenarios.getFn = func(_ context.Context, _ int64, _ model.Actor, id int64) (*model.Scenario, error) {
			return &model.Scenario{ID: id, Name: "Flow"}, nil
		}
		nodes.listFn = func(context.Context, int64, model.Actor, int64) ([]model.Node, error) {
			return []model.Node{{ID: 1, Type: model.NodeTypeLogger}, {ID: 2, Type: model.NodeTypeWebhookSend}}, nil
		}
		edges.listFn = func(context.Context, int64, model.Actor, int64) ([]model.Edge, error) {
			return []model.Edge{{ID: 3, SourceNodeID: 1, TargetNodeID: 2}}, nil
		}

		w, resp := do(http.MethodGet, "/orgs/10/scenarios/5", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(resp["nodes"]).To(HaveLen(2))
		edge := resp["edges"].([]any)[0].(map[string]any)
		Expect(edge["source_node_id"]).To(Equal("1"))
	})

	It("hides scenarios of other organizations", func() {
		w, resp := do(http.MethodGet, "/orgs/10/scenarios/5", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(resp["code"]).To(Equal("scenario_not_found"))
	})

	It("rejects a non-numeric id", func() {
		w, _ := do(http.MethodGet, "/orgs/10/scenarios/abc", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	Describe("Run", func() {
		It("queues a manual run", func() {
			runs.triggerFn = func(_ context.Context, _ int64, _ model.Actor, scenarioID int64, payload json.RawMessage) (*model.ScenarioRun, error) {
				Expect(scenarioID).To(Equal(int64(5)))
				Expect(string(payload)).To(MatchJSON(`{"a":1}`))
				return &model.ScenarioRun{ID: 900, ScenarioID: scenarioID, Status: model.RunStatusPending}, nil
			}
			w, resp := do(http.MethodPost, "/orgs/10/scenarios/5/run", `{"payload":{"a":1}}`)
			Expect(w.Code).To(Equal(http.StatusAccepted))
			Expect(resp["id"]).To(Equal("900"))
			Expect(resp["status"]).To(Equal("pending"))
		})

		It("accepts an empty body", func() {
			runs.triggerFn = func(_ context.Context, _ int64, _ model.Actor, scenarioID int64, payload json.RawMessage) (*model.ScenarioRun, error) {
				Expect(payload).To(BeEmpty())
				return &model.ScenarioRun{ID: 901}, nil
			}
			w, _ := do(http.MethodPost, "/orgs/10/scenarios/5/run", "")
			Expect(w.Code).To(Equal(http.StatusAccepted))
		})

		It("maps a disabled scenario to 409", func() {
			runs.triggerFn = func(context.Context, int64, model.Actor, int64, json.RawMessage) (*model.ScenarioRun, error) {
				return nil, service.ErrScenarioDisabled
			}
			w, _ := do(http.MethodPost, "/orgs/10/scenarios/5/run", "")
			Expect(w.Code).To(Equal(http.StatusConflict))
		})
	})

	It("returns the dry run outcome", func() {
		runs.dryRunFn = func(context.Context, int64, model.Actor, int64, json.RawMessage) (scenario.Outcome, error) {
			return scenario.Outcome{Success: true, NodesExecuted: 2}, nil
		}
		w, resp := do(http.MethodPost, "/orgs/10/scenarios/5/dry-run", `{"payload":{}}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(resp["success"]).To(BeTrue())
		Expect(resp["nodes_executed"]).To(BeEquivalentTo(2))
	})

	It("returns a run with its steps", func() {
		runs.getFn = func(_ context.Context, _ int64, _ model.Actor, runID int64) (*model.ScenarioRun, error) {
			return &model.ScenarioRun{ID: runID, Status: model.RunStatusSucceeded}, nil
		}
		runs.stepsFn = func(context.Context, int64, model.Actor, int64) ([]model.RunStep, error) {
			return []model.RunStep{{NodeID: 1, Step: 1, Status: model.StepStatusSucceeded}}, nil
		}
		w, resp := do(http.MethodGet, "/orgs/10/scenarios/runs/300", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(resp["id"]).To(Equal("300"))
		Expect(resp["steps"]).To(HaveLen(1))
	})

	Describe("nodes and edges", func() {
		It("maps an unknown node type to 400", func() {
			nodes.addFn = func(context.Context, int64, model.Actor, int64, service.AddNodeInput) (*model.Node, error) {
				return nil, fmt.Errorf("%w: teleport", scenario.ErrUnknownNodeType)
			}
			w, resp := do(http.MethodPost, "/orgs/10/scenarios/5/nodes", `{"type":"teleport"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(resp["code"]).To(Equal("unknown_node_type"))
		})

		It("refuses to remove system nodes", func() {
			nodes.removeFn = func(context.Context, int64, model.Actor, int64, int64) error {
				return service.ErrSystemNode
			}
			w, _ := do(http.MethodDelete, "/orgs/10/scenarios/5/nodes/1", "")
			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("parses string node ids when connecting", func() {
			edges.connectFn = func(_ context.Context, _ int64, _ model.Actor, _ int64, in service.ConnectInput) (*model.Edge, error) {
				Expect(in.SourceNodeID).To(Equal(int64(11)))
				Expect(in.TargetNodeID).To(Equal(int64(12)))
				return &model.Edge{ID: 20, SourceNodeID: 11, TargetNodeID: 12}, nil
			}
			w, _ := do(http.MethodPost, "/orgs/10/scenarios/5/edges", `{"source_node_id":"11","target_node_id":"12"}`)
			Expect(w.Code).To(Equal(http.StatusCreated))
		})

		It("maps a self loop to 400", func() {
			edges.connectFn = func(context.Context, int64, model.Actor, int64, service.ConnectInput) (*model.Edge, error) {
				return nil, service.ErrSelfLoop
			}
			w, resp := do(http.MethodPost, "/orgs/10/scenarios/5/edges", `{"source_node_id":"11","target_node_id":"11"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(resp["code"]).To(Equal("self_loop"))
		})
	})

	It("lists node types", func() {
		nodes.types = []scenario.NodeTypeInfo{{Type: model.NodeTypeLogger, Label: "Logger"}}
		w, resp := do(http.MethodGet, "/node-types", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(resp["node_types"]).To(HaveLen(1))
	})
})
