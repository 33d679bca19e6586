package scenario

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"launchthat.app/portal/common/metrics"
	"launchthat.app/portal/internal/webhook"
)

const (
	defaultLoggerMessage    = "Logger node executed"
	defaultWebhookEventType = "scenario_webhook"
)

// Dry-run marker added to simulated responses.
const DryRunKey = "_dry_run"

type LoggerConfig struct {
	Message string `json:"message,omitempty" jsonschema:"description=Message to log,default=Logger node executed"`
}

type HTTPRequestConfig struct {
	URL     string            `json:"url" jsonschema:"required,format=uri,description=Request URL"`
	Method  string            `json:"method,omitempty" jsonschema:"enum=GET,enum=POST,enum=PUT,enum=PATCH,enum=DELETE,default=POST"`
	Headers map[string]string `json:"headers,omitempty" jsonschema:"description=Request headers. Defaults to a JSON content type"`
}

const (
	TransformPassthrough  = "passthrough"
	TransformExtractField = "extract_field"
	TransformAddTimestamp = "add_timestamp"
)

type DataTransformConfig struct {
	TransformType string `json:"transform_type,omitempty" jsonschema:"enum=passthrough,enum=extract_field,enum=add_timestamp,default=passthrough"`
	FieldPath     string `json:"field_path,omitempty" jsonschema:"description=Dot path read by extract_field,default=data"`
	OutputField   string `json:"output_field,omitempty" jsonschema:"description=Key holding the extracted value,default=extracted"`
}

type WebhookSendConfig struct {
	WebhookURL    string            `json:"webhook_url" jsonschema:"required,format=uri"`
	Secret        string            `json:"secret,omitempty" jsonschema:"description=HMAC signing secret"`
	Headers       map[string]string `json:"headers,omitempty"`
	RetryAttempts int               `json:"retry_attempts,omitempty" jsonschema:"minimum=1,maximum=10,default=3"`
	TimeoutMS     int               `json:"timeout_ms,omitempty" jsonschema:"minimum=1,default=30000"`
	EventType     string            `json:"event_type,omitempty" jsonschema:"default=scenario_webhook"`
}

type CheckoutConfig struct {
	Title      string `json:"title,omitempty"`
	SuccessURL string `json:"success_url,omitempty" jsonschema:"format=uri"`
}

type OrderConfirmationConfig struct {
	Message string `json:"message,omitempty"`
}

func loggerNode() Executor {
	return typedNode[LoggerConfig]{
		defaults: func(c *LoggerConfig) {
			if c.Message == "" {
				c.Message = defaultLoggerMessage
			}
		},
		run: func(ctx context.Context, cfg LoggerConfig, input NodeIO, _ bool) Result {
			slog.InfoContext(ctx, "logger node",
				"message", cfg.Message,
				"correlation_id", input.CorrelationID)

			return Success(map[string]any{
				"logged":     true,
				"message":    cfg.Message,
				"input_data": input.Data,
				"timestamp":  time.Now().UnixMilli(),
			})
		},
	}
}

func httpRequestNode(client *resty.Client) Executor {
	return typedNode[HTTPRequestConfig]{
		defaults: func(c *HTTPRequestConfig) {
			c.Method = strings.ToUpper(c.Method)
			if c.Method == "" {
				c.Method = http.MethodPost
			}
			if c.Headers == nil {
				c.Headers = map[string]string{"Content-Type": "application/json"}
			}
		},
		run: func(ctx context.Context, cfg HTTPRequestConfig, input NodeIO, dryRun bool) Result {
			if cfg.URL == "" {
				return Fatal(ErrCodeValidationFailed, "URL is required")
			}
			if dryRun {
				return Success(simulatedResponse())
			}

			req := client.R().SetContext(ctx).SetHeaders(cfg.Headers)
			if cfg.Method != http.MethodGet {
				body, err := json.Marshal(input.Data)
				if err != nil {
					return Fatal(ErrCodeValidationFailed, "encoding request body: %v", err)
				}
				req.SetBody(body)
			}

			resp, err := req.Execute(cfg.Method, cfg.URL)
			if err != nil {
				return Retryable(ErrCodeExternalService, "HTTP request failed: %v", err)
			}

			var parsed any
			if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
				parsed = string(resp.Body())
			}

			headers := make(map[string]string, len(resp.Header()))
			for k := range resp.Header() {
				headers[strings.ToLower(k)] = resp.Header().Get(k)
			}

			return Success(map[string]any{
				"status":      resp.StatusCode(),
				"status_text": http.StatusText(resp.StatusCode()),
				"headers":     headers,
				"body":        parsed,
				"success":     resp.IsSuccess(),
			})
		},
	}
}

func dataTransformNode() Executor {
	return typedNode[DataTransformConfig]{
		defaults: func(c *DataTransformConfig) {
			if c.TransformType == "" {
				c.TransformType = TransformPassthrough
			}
			if c.FieldPath == "" {
				c.FieldPath = "data"
			}
			if c.OutputField == "" {
				c.OutputField = "extracted"
			}
		},
		run: func(_ context.Context, cfg DataTransformConfig, input NodeIO, _ bool) Result {
			switch cfg.TransformType {
			case TransformPassthrough:
				return Success(input.Data)

			case TransformExtractField:
				raw, err := json.Marshal(input.Data)
				if err != nil {
					return Fatal(ErrCodeExecutionFailed, "Data transform failed: %v", err)
				}
				var value any
				if field := gjson.GetBytes(raw, cfg.FieldPath); field.Exists() {
					value = field.Value()
				}
				return Success(map[string]any{cfg.OutputField: value})

			case TransformAddTimestamp:
				now := time.Now()
				out := map[string]any{}
				if obj, ok := input.Data.(map[string]any); ok {
					for k, v := range obj {
						out[k] = v
					}
				}
				out["timestamp"] = now.UnixMilli()
				out["processed_at"] = now.UTC().Format(time.RFC3339Nano)
				return Success(out)
			}
			return Fatal(ErrCodeValidationFailed, "Unknown transform type: %s", cfg.TransformType)
		},
	}
}

func webhookSendNode(sender *webhook.Sender) Executor {
	return typedNode[WebhookSendConfig]{
		defaults: func(c *WebhookSendConfig) {
			if c.RetryAttempts <= 0 {
				c.RetryAttempts = webhook.DefaultRetryAttempts
			}
			if c.TimeoutMS <= 0 {
				c.TimeoutMS = int(webhook.DefaultTimeout / time.Millisecond)
			}
			if c.EventType == "" {
				c.EventType = defaultWebhookEventType
			}
		},
		run: func(ctx context.Context, cfg WebhookSendConfig, input NodeIO, dryRun bool) Result {
			if cfg.WebhookURL == "" {
				return Fatal(ErrCodeValidationFailed, "Webhook URL is required")
			}
			if dryRun {
				return Success(simulatedResponse())
			}

			result := sender.Send(ctx, webhook.Request{
				URL:           cfg.WebhookURL,
				Payload:       input.Data,
				Secret:        cfg.Secret,
				Headers:       cfg.Headers,
				EventType:     cfg.EventType,
				RetryAttempts: cfg.RetryAttempts,
				Timeout:       time.Duration(cfg.TimeoutMS) * time.Millisecond,
			})
			metrics.RecordWebhookDelivery(cfg.EventType, result.Success, result.Attempts)

			if result.Success {
				return Success(result)
			}

			code := ErrCodeNetwork
			if result.StatusCode > 0 {
				code = HTTPErrorCode(result.StatusCode)
			}
			if result.ClientError() {
				return Fatal(code, "Webhook send failed: %s", result.Error)
			}
			return Retryable(code, "Webhook send failed: %s", result.Error)
		},
	}
}

// passthroughNode returns its input unchanged and is used by the checkout system nodes.
func passthroughNode[C any]() Executor {
	return typedNode[C]{
		run: func(_ context.Context, _ C, input NodeIO, _ bool) Result {
			return Success(input.Data)
		},
	}
}

func simulatedResponse() map[string]any {
	now := time.Now().UnixMilli()
	return map[string]any{
		"success":     true,
		"status":      http.StatusOK,
		"status_text": "OK",
		"headers":     map[string]string{"content-type": "application/json"},
		"body": map[string]any{
			"message":   "[Dry run] Simulated HTTP response",
			"timestamp": now,
		},
		"timestamp": now,
		DryRunKey:   true,
	}
}
