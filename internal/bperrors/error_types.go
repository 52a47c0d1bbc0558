// Package bperrors is the engine-local error taxonomy: what kind of
// failure happened, whether it's recoverable, and where in the graph it
// happened. It is deliberately narrower than a host-facing error model —
// no HTTP status mapping, no database error codes — since persistence and
// transport live outside this module.
package bperrors

import (
	"fmt"
	"time"
)

// ErrorType classifies a failure by where it originated in the pipeline:
// structural problems found before a run starts, problems resolving a
// node type or a value during a run, a node body's own failure, or a
// failure severe enough to abort the whole run.
type ErrorType string

const (
	// ErrorTypeValidation is a structural problem in the board itself —
	// a dangling pin reference, a type mismatch the editor should have
	// caught — discovered before or during dispatch.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeRegistry is an unknown or misconfigured node type.
	ErrorTypeRegistry ErrorType = "registry"
	// ErrorTypeResolution is a failure to resolve a pin's value — an
	// upstream producer never ran, or a required input has no default.
	ErrorTypeResolution ErrorType = "resolution"
	// ErrorTypeExecution is a node body's own Execute returning an error.
	ErrorTypeExecution ErrorType = "execution"
	// ErrorTypeFatal aborts the run outright (cancellation, panic
	// recovery) rather than just failing one node.
	ErrorTypeFatal ErrorType = "fatal"
)

// Severity is how urgently a host should surface the error.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityFatal   Severity = "fatal"
)

// Error is a structured failure raised anywhere in board validation,
// dispatch, or node execution.
type Error struct {
	Type        ErrorType `json:"type"`
	Severity    Severity  `json:"severity"`
	Message     string    `json:"message"`
	NodeID      string    `json:"nodeId,omitempty"`
	PinID       string    `json:"pinId,omitempty"`
	BoardID     string    `json:"boardId,omitempty"`
	ExecutionID string    `json:"executionId,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Recoverable bool      `json:"recoverable"`
	Cause       error     `json:"-"`
}

func (e *Error) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("%s: node %s: %s", e.Type, e.NodeID, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New constructs an Error, defaulting Severity from Type and stamping the
// current time.
func New(t ErrorType, nodeID, message string, cause error) *Error {
	sev := SeverityError
	recoverable := true
	if t == ErrorTypeFatal {
		sev = SeverityFatal
		recoverable = false
	}
	return &Error{
		Type:        t,
		Severity:    sev,
		Message:     message,
		NodeID:      nodeID,
		Timestamp:   time.Now(),
		Recoverable: recoverable,
		Cause:       cause,
	}
}

// Validationf builds a validation error with a formatted message.
func Validationf(nodeID, format string, args ...interface{}) *Error {
	return New(ErrorTypeValidation, nodeID, fmt.Sprintf(format, args...), nil)
}

// Registryf builds a registry error with a formatted message.
func Registryf(nodeID, format string, args ...interface{}) *Error {
	return New(ErrorTypeRegistry, nodeID, fmt.Sprintf(format, args...), nil)
}

// Resolutionf builds a resolution error with a formatted message.
func Resolutionf(nodeID, format string, args ...interface{}) *Error {
	return New(ErrorTypeResolution, nodeID, fmt.Sprintf(format, args...), nil)
}

// Executionf wraps a node body's own error as an execution error.
func Executionf(nodeID string, cause error) *Error {
	return New(ErrorTypeExecution, nodeID, cause.Error(), cause)
}

// Fatalf builds a fatal, unrecoverable error that should abort the run.
func Fatalf(format string, args ...interface{}) *Error {
	return New(ErrorTypeFatal, "", fmt.Sprintf(format, args...), nil)
}
