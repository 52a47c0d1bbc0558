package event

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketSink adapts a BufferedHandler's flushed batches onto an
// already-established websocket connection. It owns no HTTP server or
// router — upgrading the connection is a host/transport concern outside
// this module's scope — it only knows how to write batches to a *Conn and
// serialize the write side so concurrent flushes don't interleave frames.
type WebSocketSink struct {
	conn       *websocket.Conn
	writeMu    sync.Mutex
	writeDelay time.Duration
}

// NewWebSocketSink wraps an upgraded connection as a DownstreamFunc target.
func NewWebSocketSink(conn *websocket.Conn) *WebSocketSink {
	return &WebSocketSink{conn: conn, writeDelay: 10 * time.Second}
}

// Send implements DownstreamFunc: marshal the batch as one JSON message
// and write it as a single frame, so a host UI sees a single DOM update
// per flush instead of one message per event.
func (s *WebSocketSink) Send(_ context.Context, batch []InterComEvent) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeDelay))
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// Close closes the underlying connection.
func (s *WebSocketSink) Close() error {
	return s.conn.Close()
}
