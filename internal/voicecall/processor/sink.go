package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"ganadero-server/internal/observability"
)

// callSink receives completion events for a phone call. There is no client
// socket on this surface: text chunks feed the field watcher, everything
// else goes to the logs.
type callSink struct {
	watcher *FieldWatcher
	logger  *observability.Logger
}

func (s *callSink) TextChunk(ctx context.Context, chunk string) {
	s.watcher.Feed(chunk)
}

func (s *callSink) TurnEnd(ctx context.Context, fullText string) {
	// The model is prompted to answer with a single JSON object; a reply
	// that fails to parse is worth flagging but never fails the call.
	var analysis map[string]interface{}
	if err := json.Unmarshal([]byte(fullText), &analysis); err != nil {
		s.logger.Warn(observability.WithFields(ctx, observability.Field{Key: "response", Value: fullText}),
			"call analysis reply is not valid JSON")
	} else if _, ok := analysis["proxima_pregunta_agente"]; !ok {
		s.logger.Warn(ctx, "call analysis reply missing proxima_pregunta_agente")
	} else {
		s.logger.Info(observability.WithFields(ctx, observability.Field{Key: "response", Value: fullText}),
			"call analysis turn complete")
	}
	s.watcher.Reset()
}

func (s *callSink) Log(ctx context.Context, message string) {
	s.logger.Info(ctx, message)
}

func (s *callSink) RemoteError(ctx context.Context, message string) {
	s.logger.Warn(ctx, fmt.Sprintf("call completion error: %s", message))
	// An error ends the turn without a TurnEnd event. Drop the partial
	// accumulator and rearm, so the next turn starts clean.
	s.watcher.Reset()
}
