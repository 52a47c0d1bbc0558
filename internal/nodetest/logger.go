// Package nodetest provides a fake ExecutionContext and Logger for
// exercising a node's Execute method directly, without a board or
// dispatcher — the node-level counterpart to a dispatcher/board
// integration test.
package nodetest

// Logger is a no-op node.Logger that records nothing; node bodies never
// assert on what they logged, only on outputs and activated flows.
type Logger struct{}

func (Logger) Opts(map[string]interface{})                      {}
func (Logger) Debug(string, map[string]interface{})             {}
func (Logger) Info(string, map[string]interface{})              {}
func (Logger) Warn(string, map[string]interface{})              {}
func (Logger) Error(string, map[string]interface{})             {}
