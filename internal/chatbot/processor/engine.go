package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"ganadero-server/internal/observability"
	"ganadero-server/internal/store"
	"strings"

	"github.com/openai/openai-go"
)

// ContinueSentinel re-enters the completion loop after tool results without
// appending a user message.
const ContinueSentinel = "_FUNCTION_RESULT_"

const (
	completionMaxTokens   = 1500
	completionTemperature = 0.2
)

// ChatStream is one streaming completion response.
type ChatStream interface {
	Next() bool
	Current() openai.ChatCompletionChunk
	Err() error
	Close() error
}

// CompletionStreamer opens streaming completion requests. Tests substitute a
// canned stream; production uses the Azure OpenAI client.
type CompletionStreamer interface {
	Stream(ctx context.Context, params openai.ChatCompletionNewParams) ChatStream
}

// Engine runs tool-augmented completion turns over a session's history.
// Callers observe text, tool logs and failures through the sink; Complete
// never returns an error, so one bad turn cannot take down the owning call
// or websocket loop.
type Engine struct {
	streamer   CompletionStreamer
	sessions   SessionStore
	dispatcher *ToolDispatcher
	deployment string
	seed       store.ChatMessage
	logger     *observability.Logger
}

func NewEngine(streamer CompletionStreamer, sessions SessionStore, dispatcher *ToolDispatcher,
	deployment string, seed store.ChatMessage, logger *observability.Logger) *Engine {
	return &Engine{
		streamer:   streamer,
		sessions:   sessions,
		dispatcher: dispatcher,
		deployment: deployment,
		seed:       seed,
		logger:     logger,
	}
}

// Complete runs one conversational turn. When the model requests tool calls,
// the results are appended to the history and the loop streams again, so the
// final spoken/written answer already incorporates them. History mutations
// are persisted before each new streaming request.
func (e *Engine) Complete(ctx context.Context, sessionID, input, emotion string, sink EventSink) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "session_id", Value: sessionID})

	history, err := e.sessions.History(ctx, sessionID, e.seed)
	if err != nil {
		e.logger.Error(ctx, "failed to load session history", err)
		sink.RemoteError(ctx, "No se pudo cargar la conversación")
		return
	}

	if input != ContinueSentinel {
		userMsgs := []store.ChatMessage{{Role: store.MessageRoleUser, Content: input}}
		if emotion != "" {
			userMsgs = append(userMsgs, store.ChatMessage{
				Role:    store.MessageRoleUser,
				Content: "Emoción detectada: " + emotion,
			})
		}
		history = append(history, userMsgs...)
		if err := e.sessions.Append(ctx, sessionID, userMsgs...); err != nil {
			e.logger.Error(ctx, "failed to persist user message", err)
		}
	}

	for {
		text, pending, err := e.streamOnce(ctx, history, sink)
		if err != nil {
			e.logger.Error(ctx, "completion stream failed", err)
			sink.RemoteError(ctx, fmt.Sprintf("Error durante el stream: %v", err))
			return
		}

		if text != "" {
			assistantMsg := store.ChatMessage{Role: store.MessageRoleAssistant, Content: text}
			history = append(history, assistantMsg)
			if err := e.sessions.Append(ctx, sessionID, assistantMsg); err != nil {
				e.logger.Error(ctx, "failed to persist assistant message", err)
			}
			sink.TurnEnd(ctx, text)
		}

		if len(pending) == 0 {
			return
		}

		toolCallMsg := store.ChatMessage{Role: store.MessageRoleAssistant, ToolCalls: pending}
		history = append(history, toolCallMsg)
		if err := e.sessions.Append(ctx, sessionID, toolCallMsg); err != nil {
			e.logger.Error(ctx, "failed to persist tool call message", err)
		}

		for _, call := range pending {
			sink.Log(ctx, "Consultando base de datos: "+call.Name)

			result := e.dispatcher.Dispatch(ctx, call.Name, call.Arguments)
			payload, err := json.Marshal(result)
			if err != nil {
				e.logger.Error(ctx, "failed to marshal tool result", err)
				payload = []byte(`{"error":"Resultado no serializable"}`)
			}

			toolMsg := store.ChatMessage{
				Role:       store.MessageRoleTool,
				ToolCallID: call.ID,
				Name:       call.Name,
				Content:    string(payload),
			}
			history = append(history, toolMsg)
			if err := e.sessions.Append(ctx, sessionID, toolMsg); err != nil {
				e.logger.Error(ctx, "failed to persist tool result", err)
			}
		}
		// Loop: stream again so the model can answer from the tool results.
	}
}

// streamOnce consumes a single streaming response, emitting text chunks in
// arrival order and reassembling tool-call fragments by index.
func (e *Engine) streamOnce(ctx context.Context, history []store.ChatMessage, sink EventSink) (string, []store.ToolCall, error) {
	params := openai.ChatCompletionNewParams{
		Messages:    toMessageParams(history),
		Model:       openai.ChatModel(e.deployment),
		MaxTokens:   openai.Int(completionMaxTokens),
		Temperature: openai.Float(completionTemperature),
		Tools:       toolCatalog,
	}

	stream := e.streamer.Stream(ctx, params)
	defer stream.Close()

	var text strings.Builder
	pending := make(map[int64]*store.ToolCall)
	var order []int64

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta

		if delta.Content != "" {
			text.WriteString(delta.Content)
			sink.TextChunk(ctx, delta.Content)
		}

		for _, fragment := range delta.ToolCalls {
			call, ok := pending[fragment.Index]
			if !ok {
				call = &store.ToolCall{ID: fragment.ID}
				pending[fragment.Index] = call
				order = append(order, fragment.Index)
			}
			if fragment.Function.Name != "" {
				call.Name += fragment.Function.Name
			}
			if fragment.Function.Arguments != "" {
				call.Arguments += fragment.Function.Arguments
			}
		}
	}
	if err := stream.Err(); err != nil {
		return "", nil, err
	}

	calls := make([]store.ToolCall, 0, len(order))
	for _, idx := range order {
		calls = append(calls, *pending[idx])
	}
	return text.String(), calls, nil
}

func toMessageParams(history []store.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case store.MessageRoleSystem:
			msgs = append(msgs, openai.SystemMessage(m.Content))
		case store.MessageRoleUser:
			msgs = append(msgs, openai.UserMessage(m.Content))
		case store.MessageRoleAssistant:
			if len(m.ToolCalls) == 0 {
				msgs = append(msgs, openai.AssistantMessage(m.Content))
				continue
			}
			calls := make([]openai.ChatCompletionMessageToolCallParam, 0, len(m.ToolCalls))
			for _, tc := range m.ToolCalls {
				calls = append(calls, openai.ChatCompletionMessageToolCallParam{
					ID: tc.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				})
			}
			msgs = append(msgs, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{ToolCalls: calls},
			})
		case store.MessageRoleTool:
			msgs = append(msgs, openai.ToolMessage(m.Content, m.ToolCallID))
		}
	}
	return msgs
}
