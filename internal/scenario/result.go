package scenario

import "fmt"

type ResultKind string

const (
	KindSuccess   ResultKind = "success"
	KindRetryable ResultKind = "retryable_error"
	KindFatal     ResultKind = "fatal_error"
)

// Error codes reported on failed steps and runs. HTTP failures use HTTP_<status>.
const (
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeExecutionFailed  = "EXECUTION_FAILED"
	ErrCodeExternalService  = "EXTERNAL_SERVICE_ERROR"
	ErrCodeUnexpected       = "UNEXPECTED_ERROR"
	ErrCodeScenario         = "SCENARIO_ERROR"
	ErrCodeNetwork          = "NETWORK_ERROR"
)

func HTTPErrorCode(status int) string {
	return fmt.Sprintf("HTTP_%d", status)
}

type NodeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is what a node executor returns for a single attempt.
type Result struct {
	Kind  ResultKind `json:"kind"`
	Data  any        `json:"data,omitempty"`
	Error *NodeError `json:"error,omitempty"`
}

func Success(data any) Result {
	return Result{Kind: KindSuccess, Data: data}
}

func Retryable(code, format string, args ...any) Result {
	return Result{Kind: KindRetryable, Error: &NodeError{Code: code, Message: fmt.Sprintf(format, args...)}}
}

func Fatal(code, format string, args ...any) Result {
	return Result{Kind: KindFatal, Error: &NodeError{Code: code, Message: fmt.Sprintf(format, args...)}}
}

// NodeIO is the envelope passed between nodes.
type NodeIO struct {
	CorrelationID string         `json:"correlation_id"`
	Data          any            `json:"data"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}
