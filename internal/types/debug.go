package types

import "time"

// DebugInfo captures one observation made during a node's execution, used
// by the trace accumulator and any interactive debugger the host builds.
type DebugInfo struct {
	NodeID      string
	PinID       string
	Description string
	Value       interface{}
	Timestamp   time.Time
}

// Property is a generic name/value pair (node properties, struct fields).
type Property struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}
