// Package scenario executes scenario graphs: it orders nodes, runs each one
// through its registered executor with retries and records the outcome.
package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/invopop/jsonschema"

	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/webhook"
)

var (
	ErrUnknownNodeType = errors.New("unknown node type")
	ErrInvalidConfig   = errors.New("invalid node config")
)

// Executor runs one attempt of a node.
type Executor interface {
	Execute(ctx context.Context, config json.RawMessage, input NodeIO, dryRun bool) Result
	Validate(config json.RawMessage) error
}

type NodeTypeInfo struct {
	Type         model.NodeType     `json:"type"`
	Label        string             `json:"label"`
	Description  string             `json:"description"`
	System       bool               `json:"system"`
	ConfigSchema *jsonschema.Schema `json:"config_schema"`
}

type registration struct {
	info     NodeTypeInfo
	executor Executor
}

type Registry struct {
	entries map[model.NodeType]registration
	order   []model.NodeType
}

// NewRegistry returns a registry holding the built-in node types.
func NewRegistry(sender *webhook.Sender, client *resty.Client) *Registry {
	r := &Registry{entries: make(map[model.NodeType]registration)}

	r.Register(NodeTypeInfo{
		Type:        model.NodeTypeLogger,
		Label:       "Logger",
		Description: "Logs a message with the node input.",
	}, &LoggerConfig{}, loggerNode())
	r.Register(NodeTypeInfo{
		Type:        model.NodeTypeHTTPRequest,
		Label:       "HTTP Request",
		Description: "Sends the input data to a URL and returns the response.",
	}, &HTTPRequestConfig{}, httpRequestNode(client))
	r.Register(NodeTypeInfo{
		Type:        model.NodeTypeDataTransform,
		Label:       "Data Transform",
		Description: "Passes through, extracts a field from, or timestamps the input.",
	}, &DataTransformConfig{}, dataTransformNode())
	r.Register(NodeTypeInfo{
		Type:        model.NodeTypeWebhookSend,
		Label:       "Send Webhook",
		Description: "Delivers the input data as a signed webhook.",
	}, &WebhookSendConfig{}, webhookSendNode(sender))
	r.Register(NodeTypeInfo{
		Type:        model.NodeTypeCheckout,
		Label:       "Checkout",
		Description: "Entry point of a checkout scenario.",
		System:      true,
	}, &CheckoutConfig{}, passthroughNode[CheckoutConfig]())
	r.Register(NodeTypeInfo{
		Type:        model.NodeTypeOrderConfirmation,
		Label:       "Order Confirmation",
		Description: "Final step of a checkout scenario.",
		System:      true,
	}, &OrderConfirmationConfig{}, passthroughNode[OrderConfirmationConfig]())

	return r
}

// Register adds or replaces a node type. config is a pointer to the config
// struct and is only used to derive the JSON schema.
func (r *Registry) Register(info NodeTypeInfo, config any, executor Executor) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	info.ConfigSchema = reflector.Reflect(config)

	if _, exists := r.entries[info.Type]; !exists {
		r.order = append(r.order, info.Type)
	}
	r.entries[info.Type] = registration{info: info, executor: executor}
}

// NodeTypes lists registered types in registration order.
func (r *Registry) NodeTypes() []NodeTypeInfo {
	infos := make([]NodeTypeInfo, 0, len(r.order))
	for _, t := range r.order {
		infos = append(infos, r.entries[t].info)
	}
	return infos
}

func (r *Registry) Lookup(nodeType model.NodeType) (Executor, bool) {
	entry, ok := r.entries[nodeType]
	if !ok {
		return nil, false
	}
	return entry.executor, true
}

func (r *Registry) IsSystem(nodeType model.NodeType) bool {
	return r.entries[nodeType].info.System
}

// ValidateConfig checks that config decodes into the node type's config struct.
func (r *Registry) ValidateConfig(nodeType model.NodeType, config json.RawMessage) error {
	executor, ok := r.Lookup(nodeType)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNodeType, nodeType)
	}
	if err := executor.Validate(config); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}
	return nil
}

// typedNode decodes the raw config into C before running.
type typedNode[C any] struct {
	defaults func(*C)
	run      func(ctx context.Context, cfg C, input NodeIO, dryRun bool) Result
}

func (n typedNode[C]) decode(raw json.RawMessage) (C, error) {
	var cfg C
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return cfg, err
		}
	}
	if n.defaults != nil {
		n.defaults(&cfg)
	}
	return cfg, nil
}

func (n typedNode[C]) Validate(raw json.RawMessage) error {
	_, err := n.decode(raw)
	return err
}

func (n typedNode[C]) Execute(ctx context.Context, raw json.RawMessage, input NodeIO, dryRun bool) Result {
	cfg, err := n.decode(raw)
	if err != nil {
		return Fatal(ErrCodeValidationFailed, "Invalid node configuration: %v", err)
	}
	return n.run(ctx, cfg, input, dryRun)
}
