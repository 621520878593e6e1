package processor

import (
	"context"
	"encoding/json"
	"ganadero-server/internal/observability"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// EventSink receives everything a completion turn produces. Implementations
// must tolerate being called from the streaming goroutine; chunk order is the
// upstream arrival order.
type EventSink interface {
	TextChunk(ctx context.Context, chunk string)
	TurnEnd(ctx context.Context, fullText string)
	Log(ctx context.Context, message string)
	RemoteError(ctx context.Context, message string)
}

// WebSocketSink forwards events as JSON frames over a live connection, one
// frame per event, matching what the web and call clients expect.
type WebSocketSink struct {
	conn      *websocket.Conn
	writeLock *sync.Mutex
	logger    *observability.Logger
}

func NewWebSocketSink(conn *websocket.Conn, writeLock *sync.Mutex, logger *observability.Logger) *WebSocketSink {
	return &WebSocketSink{
		conn:      conn,
		writeLock: writeLock,
		logger:    logger,
	}
}

func (s *WebSocketSink) TextChunk(ctx context.Context, chunk string) {
	s.send(ctx, map[string]interface{}{"event": "ai_chunk", "chunk": chunk})
}

func (s *WebSocketSink) TurnEnd(ctx context.Context, fullText string) {
	s.send(ctx, map[string]interface{}{"event": "ai_end", "fullResponse": fullText})
}

func (s *WebSocketSink) Log(ctx context.Context, message string) {
	s.send(ctx, map[string]interface{}{"event": "ai_log", "message": message})
}

func (s *WebSocketSink) RemoteError(ctx context.Context, message string) {
	s.send(ctx, map[string]interface{}{"event": "remote_error", "details": message})
}

func (s *WebSocketSink) send(ctx context.Context, frame map[string]interface{}) {
	payload, err := json.Marshal(frame)
	if err != nil {
		s.logger.Error(ctx, "failed to marshal sink frame", err)
		return
	}

	s.writeLock.Lock()
	err = s.conn.WriteMessage(websocket.TextMessage, payload)
	s.writeLock.Unlock()
	if err != nil {
		s.logger.Error(ctx, "failed to write sink frame", err)
	}
}

// BufferSink aggregates a whole turn in memory for synchronous HTTP callers
// that want the final answer, not the stream.
type BufferSink struct {
	mu       sync.Mutex
	text     strings.Builder
	full     string
	errorMsg string
}

func (s *BufferSink) TextChunk(ctx context.Context, chunk string) {
	s.mu.Lock()
	s.text.WriteString(chunk)
	s.mu.Unlock()
}

func (s *BufferSink) TurnEnd(ctx context.Context, fullText string) {
	s.mu.Lock()
	s.full = fullText
	s.mu.Unlock()
}

func (s *BufferSink) Log(ctx context.Context, message string) {}

func (s *BufferSink) RemoteError(ctx context.Context, message string) {
	s.mu.Lock()
	s.errorMsg = message
	s.mu.Unlock()
}

// Response returns the last full turn text, falling back to the accumulated
// chunks, plus any error reported through the sink.
func (s *BufferSink) Response() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.full != "" {
		return s.full, s.errorMsg
	}
	return s.text.String(), s.errorMsg
}
