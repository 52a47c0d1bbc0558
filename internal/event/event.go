// Package event implements the buffered, batched event pipeline a run
// feeds progress/log/pin-value events through before they reach a host
// (a websocket connection, a CLI's stdout), so a chatty node doesn't turn
// into one host round-trip per value.
package event

import "time"

// InterComEvent is one unit of run telemetry: a node finished, a pin got a
// new value, a log line was emitted. EventType groups events for the
// per-type batching rules in BufferedHandler.
type InterComEvent struct {
	EventType   string      `json:"eventType"`
	ExecutionID string      `json:"executionId"`
	NodeID      string      `json:"nodeId,omitempty"`
	PinID       string      `json:"pinId,omitempty"`
	Payload     interface{} `json:"payload,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}

const (
	EventNodeStarted   = "node.started"
	EventNodeCompleted = "node.completed"
	EventNodeFailed    = "node.failed"
	EventPinValue      = "pin.value"
	EventLog           = "log"
	EventRunFinished   = "run.finished"
)
