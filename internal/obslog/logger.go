// Package obslog implements node.Logger on top of zerolog, the structured
// logger a run's nodes write through for anything worth surfacing to an
// operator (as opposed to the per-node debug trace, which is for the board
// editor/debugger, not the shell).
package obslog

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"flowboard/internal/node"
)

// Logger adapts a zerolog.Logger to node.Logger, tagging every line with
// the node ID it was built for so multi-node runs stay attributable in a
// shared log stream.
type Logger struct {
	zl zerolog.Logger
}

// New builds a Logger writing to w (os.Stderr in the common case) at the
// given level, pre-bound to nodeID.
func New(w io.Writer, level zerolog.Level, nodeID string) *Logger {
	zl := zerolog.New(w).Level(level).With().Timestamp().Str("node", nodeID).Logger()
	return &Logger{zl: zl}
}

// NewDefault builds a console-friendly Logger at info level, writing to
// stderr so stdout stays free for a CLI's actual output (board dumps, run
// results a user might pipe elsewhere).
func NewDefault(nodeID string) *Logger {
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return New(console, zerolog.InfoLevel, nodeID)
}

var _ node.Logger = (*Logger)(nil)

// Opts reconfigures which fields get attached to every subsequent line.
func (l *Logger) Opts(fields map[string]interface{}) {
	ctx := l.zl.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	l.zl = ctx.Logger()
}

func (l *Logger) Debug(msg string, fields map[string]interface{}) { l.log(l.zl.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields map[string]interface{})  { l.log(l.zl.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields map[string]interface{})  { l.log(l.zl.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields map[string]interface{}) { l.log(l.zl.Error(), msg, fields) }

func (l *Logger) log(ev *zerolog.Event, msg string, fields map[string]interface{}) {
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}
