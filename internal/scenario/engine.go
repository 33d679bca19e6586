package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"strconv"
	"time"

	"launchthat.app/portal/common/logger"
	"launchthat.app/portal/common/metrics"
	"launchthat.app/portal/internal/model"
)

// TriggerOutput is the output key holding the trigger payload.
const TriggerOutput = "trigger"

var ErrScenarioNotFound = errors.New("scenario not found")

// Store is the persistence the engine needs. GetScenario returns
// ErrScenarioNotFound for unknown ids. RecordStep assigns the step id.
type Store interface {
	GetScenario(ctx context.Context, id int64) (*model.Scenario, error)
	ListNodes(ctx context.Context, scenarioID int64) ([]model.Node, error)
	ListEdges(ctx context.Context, scenarioID int64) ([]model.Edge, error)
	MarkRunning(ctx context.Context, runID int64) error
	MarkSucceeded(ctx context.Context, runID int64, nodesExecuted int32) error
	MarkFailed(ctx context.Context, runID int64, code, message string, fatal bool, nodesExecuted int32) error
	RecordStep(ctx context.Context, step *model.RunStep) error
}

type ExecuteInput struct {
	RunID         int64
	ScenarioID    int64
	TriggerKey    string
	CorrelationID string
	Payload       json.RawMessage
	// DryRun simulates outbound calls and persists nothing.
	DryRun bool
}

type Outcome struct {
	Success       bool              `json:"success"`
	RunID         int64             `json:"run_id,string"`
	Error         string            `json:"error,omitempty"`
	ErrorCode     string            `json:"error_code,omitempty"`
	NodesExecuted int               `json:"nodes_executed"`
	DurationMS    int64             `json:"duration_ms"`
	Outputs       map[string]NodeIO `json:"outputs,omitempty"`
}

type Engine struct {
	store    Store
	registry *Registry
	retry    RetryPolicy
}

func NewEngine(store Store, registry *Registry, retry RetryPolicy) *Engine {
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}
	return &Engine{store: store, registry: registry, retry: retry}
}

func (e *Engine) Registry() *Registry {
	return e.registry
}

// Execute runs every node of the scenario in dependency order. Node failures
// are reported in the Outcome; the error is non-nil only when the run state
// could not be read or written.
func (e *Engine) Execute(ctx context.Context, in ExecuteInput) (Outcome, error) {
	start := time.Now()
	fields := logger.LogFields{
		ScenarioID: logger.Ptr(in.ScenarioID),
		Component:  "portal.scenario.engine",
	}
	if in.CorrelationID != "" {
		fields.CorrelationID = logger.Ptr(in.CorrelationID)
	}
	if !in.DryRun {
		fields.RunID = logger.Ptr(in.RunID)
	}
	ctx = logger.WithLogFields(ctx, fields)

	run := &execution{engine: e, in: in, start: start, outcome: Outcome{
		RunID:   in.RunID,
		Outputs: make(map[string]NodeIO),
	}}

	scenario, err := e.store.GetScenario(ctx, in.ScenarioID)
	if errors.Is(err, ErrScenarioNotFound) {
		return run.fail(ctx, ErrCodeScenario, fmt.Sprintf("Scenario %d not found", in.ScenarioID), true, "")
	}
	if err != nil {
		return run.outcome, fmt.Errorf("loading scenario: %w", err)
	}
	if !scenario.Enabled && !in.DryRun {
		return run.fail(ctx, ErrCodeScenario, fmt.Sprintf("Scenario %d is disabled", in.ScenarioID), true, "")
	}

	if !in.DryRun {
		if err := e.store.MarkRunning(ctx, in.RunID); err != nil {
			return run.outcome, fmt.Errorf("marking run running: %w", err)
		}
	}

	nodes, err := e.store.ListNodes(ctx, in.ScenarioID)
	if err != nil {
		return run.outcome, fmt.Errorf("listing nodes: %w", err)
	}
	slices.SortStableFunc(nodes, func(a, b model.Node) int { return int(a.Order) - int(b.Order) })

	run.outcome.Outputs[TriggerOutput] = NodeIO{
		CorrelationID: in.CorrelationID,
		Data:          decodePayload(in.Payload),
		Metadata: map[string]any{
			"trigger_key": in.TriggerKey,
			"scenario_id": in.ScenarioID,
			"timestamp":   start.UnixMilli(),
		},
	}

	if len(nodes) == 0 {
		return run.succeed(ctx)
	}

	edges, err := e.store.ListEdges(ctx, in.ScenarioID)
	if err != nil {
		return run.outcome, fmt.Errorf("listing edges: %w", err)
	}
	if len(edges) == 0 && len(nodes) > 1 {
		edges = linearChain(nodes)
	}

	ordered, ok := ExecutionOrder(nodes, edges)
	if !ok {
		slog.WarnContext(ctx, "could not determine execution order, using node order",
			"node_count", len(nodes),
			"edge_count", len(edges))
	}

	firstSource := make(map[int64]int64, len(edges))
	for _, edge := range edges {
		if _, seen := firstSource[edge.TargetNodeID]; !seen {
			firstSource[edge.TargetNodeID] = edge.SourceNodeID
		}
	}

	for i, node := range ordered {
		step := int32(i + 1)
		input := run.inputFor(node, firstSource, step)

		result, err := run.runWithRetry(ctx, node, input, step)
		if err != nil {
			return run.outcome, err
		}
		metrics.RecordNodeExecution(string(node.Type), string(result.Kind))

		if result.Kind != KindSuccess {
			nodeErr := result.Error
			if nodeErr == nil {
				nodeErr = &NodeError{Code: ErrCodeExecutionFailed, Message: "Node execution failed"}
			}
			summary := fmt.Sprintf("Node %s failed: %s", node.DisplayName(), nodeErr.Message)
			return run.fail(ctx, nodeErr.Code, nodeErr.Message, result.Kind == KindFatal, summary)
		}

		run.outcome.Outputs[nodeKey(node.ID)] = NodeIO{
			CorrelationID: in.CorrelationID,
			Data:          result.Data,
			Metadata: map[string]any{
				"node_id":     node.ID,
				"step":        step,
				"executed_at": time.Now().UnixMilli(),
			},
		}
		run.outcome.NodesExecuted++
	}

	return run.succeed(ctx)
}

// execution carries the state of one Execute call.
type execution struct {
	engine  *Engine
	in      ExecuteInput
	start   time.Time
	outcome Outcome
}

func (x *execution) inputFor(node model.Node, firstSource map[int64]int64, step int32) NodeIO {
	source, ok := firstSource[node.ID]
	if !ok {
		return x.outcome.Outputs[TriggerOutput]
	}
	if out, ok := x.outcome.Outputs[nodeKey(source)]; ok {
		return out
	}
	return NodeIO{
		CorrelationID: x.in.CorrelationID,
		Data:          map[string]any{},
		Metadata:      map[string]any{"step": step},
	}
}

func (x *execution) runWithRetry(ctx context.Context, node model.Node, input NodeIO, step int32) (Result, error) {
	policy := x.engine.retry
	for attempt := 1; ; attempt++ {
		started := time.Now()
		result := x.engine.runNode(ctx, node, input, x.in.DryRun)

		if !x.in.DryRun {
			if err := x.engine.store.RecordStep(ctx, stepRecord(x.in.RunID, node, step, attempt, result, time.Since(started))); err != nil {
				return result, fmt.Errorf("recording step: %w", err)
			}
		}

		if result.Kind != KindRetryable || attempt >= policy.MaxAttempts {
			return result, nil
		}

		delay := policy.Delay(attempt)
		slog.WarnContext(ctx, "node failed, retrying",
			"node_id", node.ID,
			"node_type", node.Type,
			"attempt", attempt,
			"delay_ms", delay.Milliseconds(),
			"error_code", result.Error.Code)

		if err := sleep(ctx, delay); err != nil {
			return result, err
		}
	}
}

func (x *execution) succeed(ctx context.Context) (Outcome, error) {
	x.outcome.Success = true
	x.outcome.DurationMS = time.Since(x.start).Milliseconds()
	if x.in.DryRun {
		return x.outcome, nil
	}

	if err := x.engine.store.MarkSucceeded(ctx, x.in.RunID, int32(x.outcome.NodesExecuted)); err != nil {
		return x.outcome, fmt.Errorf("marking run succeeded: %w", err)
	}
	metrics.RecordScenarioRun(string(model.RunStatusSucceeded), time.Since(x.start))
	slog.InfoContext(ctx, "scenario run succeeded",
		"nodes_executed", x.outcome.NodesExecuted,
		"duration_ms", x.outcome.DurationMS)
	return x.outcome, nil
}

// fail marks the run failed. summary, when set, replaces message in the outcome.
func (x *execution) fail(ctx context.Context, code, message string, fatal bool, summary string) (Outcome, error) {
	x.outcome.Success = false
	x.outcome.ErrorCode = code
	x.outcome.Error = message
	if summary != "" {
		x.outcome.Error = summary
	}
	x.outcome.DurationMS = time.Since(x.start).Milliseconds()
	if x.in.DryRun {
		return x.outcome, nil
	}

	if err := x.engine.store.MarkFailed(ctx, x.in.RunID, code, message, fatal, int32(x.outcome.NodesExecuted)); err != nil {
		return x.outcome, fmt.Errorf("marking run failed: %w", err)
	}
	metrics.RecordScenarioRun(string(model.RunStatusFailed), time.Since(x.start))
	slog.WarnContext(ctx, "scenario run failed",
		"error_code", code,
		"error", x.outcome.Error,
		"is_fatal", fatal,
		"nodes_executed", x.outcome.NodesExecuted)
	return x.outcome, nil
}

func (e *Engine) runNode(ctx context.Context, node model.Node, input NodeIO, dryRun bool) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic in node executor",
				"node_id", node.ID,
				"node_type", node.Type,
				"panic", r,
				"stack", string(debug.Stack()))
			result = Fatal(ErrCodeUnexpected, "Unexpected error executing node %s: %v", node.DisplayName(), r)
		}
	}()

	executor, ok := e.registry.Lookup(node.Type)
	if !ok {
		return Fatal(ErrCodeValidationFailed, "Unknown node type: %s", node.Type)
	}
	return executor.Execute(ctx, node.Config, input, dryRun)
}

func stepRecord(runID int64, node model.Node, step int32, attempt int, result Result, elapsed time.Duration) *model.RunStep {
	rec := &model.RunStep{
		RunID:      runID,
		NodeID:     node.ID,
		Step:       step,
		Attempt:    int32(attempt),
		Status:     model.StepStatusSucceeded,
		DurationMS: elapsed.Milliseconds(),
	}
	if result.Kind == KindSuccess {
		if out, err := json.Marshal(result.Data); err == nil {
			rec.Output = out
		}
		return rec
	}
	rec.Status = model.StepStatusFailed
	if result.Error != nil {
		rec.ErrorCode = &result.Error.Code
		rec.ErrorMessage = &result.Error.Message
	}
	return rec
}

func decodePayload(raw json.RawMessage) any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return string(raw)
	}
	return data
}

func nodeKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
