package webhook

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type TestRequest struct {
	URL     string
	Method  string
	Headers []Header
	Body    string
	Timeout time.Duration
}

type TestResult struct {
	Success    bool              `json:"success"`
	StatusCode int               `json:"status_code,omitempty"`
	StatusText string            `json:"status_text,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body,omitempty"`
	Error      string            `json:"error,omitempty"`
	DurationMS int64             `json:"duration_ms"`
}

// Test sends a single unsigned request, for checking an endpoint by hand.
func (s *Sender) Test(ctx context.Context, req TestRequest) TestResult {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodPost
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	headers := map[string]string{
		"Content-Type": contentTypeJSON,
		"User-Agent":   TesterUserAgent,
	}
	for _, h := range req.Headers {
		if h.Key != "" {
			headers[h.Key] = h.Value
		}
	}

	var body []byte
	if method != http.MethodGet && req.Body != "" {
		body = []byte(req.Body)
	}

	start := time.Now()
	resp, err := s.do(ctx, method, req.URL, timeout, headers, body)
	result := TestResult{DurationMS: time.Since(start).Milliseconds()}
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.StatusCode = resp.StatusCode()
	result.StatusText = http.StatusText(resp.StatusCode())
	result.Headers = flattenHeaders(resp.Header())
	result.Body = resp.String()
	result.Success = resp.IsSuccess()
	if !result.Success {
		result.Error = fmt.Sprintf("HTTP %d: %s", result.StatusCode, result.StatusText)
	}
	return result
}
