// Package webhook sends signed outbound webhooks and verifies inbound ones.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultRetryAttempts = 3
	DefaultTimeout       = 30 * time.Second
	DefaultEventType     = "webhook"
	DefaultUserAgent     = "Portal-Webhooks/1.0"
	TesterUserAgent      = "Portal-Webhook-Tester/1.0"

	defaultBaseBackoff = time.Second
	defaultMaxBackoff  = 10 * time.Second
	contentTypeJSON    = "application/json"
)

type Config struct {
	UserAgent   string
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	// RetryAttempts and Timeout apply to requests that leave them unset.
	RetryAttempts int
	Timeout       time.Duration
}

type Request struct {
	URL           string
	Payload       any
	Secret        string
	Headers       map[string]string
	Method        string
	ContentType   string
	EventType     string
	RetryAttempts int
	Timeout       time.Duration
}

type Result struct {
	Success    bool              `json:"success"`
	StatusCode int               `json:"status_code,omitempty"`
	StatusText string            `json:"status_text,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body,omitempty"`
	Error      string            `json:"error,omitempty"`
	Attempts   int               `json:"attempts"`
}

// ClientError reports whether the final response was a 4xx.
func (r Result) ClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

type Sender struct {
	client *resty.Client
	cfg    Config
}

func NewSender(cfg Config) *Sender {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = defaultBaseBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaultMaxBackoff
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = DefaultRetryAttempts
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Sender{
		client: resty.New().SetRetryCount(0),
		cfg:    cfg,
	}
}

// Backoff is the wait before the attempt following attempt, doubling from base up to ceiling.
func Backoff(attempt int, base, ceiling time.Duration) time.Duration {
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= ceiling {
			return ceiling
		}
	}
	return min(d, ceiling)
}

func (r *Request) applyDefaults(cfg Config) {
	if r.RetryAttempts <= 0 {
		r.RetryAttempts = cfg.RetryAttempts
	}
	if r.Timeout <= 0 {
		r.Timeout = cfg.Timeout
	}
	if r.EventType == "" {
		r.EventType = DefaultEventType
	}
	if r.Method == "" {
		r.Method = http.MethodPost
	}
	r.Method = strings.ToUpper(r.Method)
	if r.ContentType == "" {
		r.ContentType = contentTypeJSON
	}
}

// Send delivers req, retrying 5xx and transport failures. 4xx responses and timeouts stop at once.
func (s *Sender) Send(ctx context.Context, req Request) Result {
	req.applyDefaults(s.cfg)

	signed, err := json.Marshal(req.Payload)
	if err != nil {
		return Result{Error: fmt.Sprintf("encoding payload: %v", err)}
	}
	body := s.body(req, signed)
	headers := s.headers(req, signed)

	var result Result
	for attempt := 1; attempt <= req.RetryAttempts; attempt++ {
		result = Result{Attempts: attempt}

		resp, sendErr := s.do(ctx, req.Method, req.URL, req.Timeout, headers, body)
		if sendErr != nil {
			result.Error = sendErr.Error()
			if errors.Is(sendErr, context.DeadlineExceeded) || ctx.Err() != nil {
				slog.WarnContext(ctx, "webhook timed out",
					"url", req.URL,
					"event_type", req.EventType,
					"attempt", attempt)
				return result
			}
		} else {
			result.StatusCode = resp.StatusCode()
			result.StatusText = http.StatusText(resp.StatusCode())
			result.Headers = flattenHeaders(resp.Header())
			result.Body = resp.String()

			switch {
			case resp.StatusCode() >= 200 && resp.StatusCode() < 300:
				result.Success = true
				result.Error = ""
				return result
			case resp.StatusCode() >= 400 && resp.StatusCode() < 500:
				result.Error = fmt.Sprintf("HTTP %d: %s", result.StatusCode, result.StatusText)
				return result
			default:
				result.Error = fmt.Sprintf("HTTP %d: %s", result.StatusCode, result.StatusText)
			}
		}

		slog.WarnContext(ctx, "webhook attempt failed",
			"url", req.URL,
			"event_type", req.EventType,
			"attempt", attempt,
			"error", result.Error)

		if attempt < req.RetryAttempts {
			if err := sleep(ctx, Backoff(attempt, s.cfg.BaseBackoff, s.cfg.MaxBackoff)); err != nil {
				result.Error = err.Error()
				return result
			}
		}
	}
	return result
}

func (s *Sender) headers(req Request, signed []byte) map[string]string {
	h := map[string]string{
		"Content-Type": req.ContentType,
		"User-Agent":   s.cfg.UserAgent,
	}
	for k, v := range req.Headers {
		h[http.CanonicalHeaderKey(k)] = v
	}
	if req.Secret != "" {
		h[HeaderSignature] = Sign(req.Secret, signed)
	}
	if req.EventType != "" {
		h[HeaderEvent] = req.EventType
	}
	return h
}

func (s *Sender) body(req Request, signed []byte) []byte {
	if req.Method == http.MethodGet {
		return nil
	}
	if strings.Contains(req.ContentType, contentTypeJSON) {
		return signed
	}
	switch p := req.Payload.(type) {
	case string:
		return []byte(p)
	case []byte:
		return p
	case nil:
		return nil
	default:
		return []byte(fmt.Sprint(p))
	}
}

func (s *Sender) do(ctx context.Context, method, url string, timeout time.Duration, headers map[string]string, body []byte) (*resty.Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	r := s.client.R().SetContext(attemptCtx).SetHeaders(headers)
	if body != nil {
		r.SetBody(body)
	}
	return r.Execute(method, url)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		out[k] = h.Get(k)
	}
	return out
}
