package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"ganadero-server/internal/chatbot/processor"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// upgrader is a shared WebSocket upgrader
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Add proper origin validation for production
		return true
	},
}

// bytesPerSecond for 16-bit mono PCM at 16 kHz, the browser recording format.
const bytesPerSecond = 32000

type clientMessage struct {
	Type        string `json:"type"`
	SessionID   string `json:"session_id"`
	CallSid     string `json:"callSid"`
	UserMessage string `json:"userMessage"`
	AutoChat    bool   `json:"autoChat"`
	Format      string `json:"format"`
	Audio       string `json:"audio"`
}

// HandleChatSocket handles the browser assistant connection. Text frames
// carry JSON control messages; binary frames carry audio between start_audio
// and stop_audio.
func (h *Handler) HandleChatSocket(c *gin.Context) {
	ctx := c.Request.Context()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error(ctx, "websocket upgrade failed", err)
		return
	}
	defer conn.Close()

	var writeLock sync.Mutex
	sink := processor.NewWebSocketSink(conn, &writeLock, h.logger)

	sessionID := uuid.New().String()
	var (
		recording bool
		autoChat  bool
		audioBuf  []byte
	)

	send := func(frame map[string]interface{}) {
		payload, err := json.Marshal(frame)
		if err != nil {
			h.logger.Error(ctx, "failed to marshal frame", err)
			return
		}
		writeLock.Lock()
		err = conn.WriteMessage(websocket.TextMessage, payload)
		writeLock.Unlock()
		if err != nil {
			h.logger.Error(ctx, "failed to write frame", err)
		}
	}

	for {
		msgType, payload, err := conn.ReadMessage()
		if err != nil {
			h.logger.Info(ctx, fmt.Sprintf("chat socket closed: %v", err))
			return
		}

		if msgType == websocket.BinaryMessage {
			if recording {
				audioBuf = append(audioBuf, payload...)
			}
			continue
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.logger.Warn(ctx, fmt.Sprintf("malformed chat socket message: %v", err))
			continue
		}
		// callSid is the legacy field name; newer clients send session_id.
		if msg.SessionID != "" {
			sessionID = msg.SessionID
		}
		if msg.CallSid != "" {
			sessionID = msg.CallSid
		}

		switch msg.Type {
		case "start_audio":
			recording = true
			autoChat = msg.AutoChat
			audioBuf = audioBuf[:0]
			send(map[string]interface{}{"event": "speech_ready"})

		case "stop_audio":
			recording = false
			if len(audioBuf) == 0 {
				send(map[string]interface{}{"event": "speech_stopped"})
				continue
			}
			h.finishRecording(ctx, sessionID, audioBuf, autoChat, send, sink)
			audioBuf = nil

		case "transcribe_audio":
			audio, err := base64.StdEncoding.DecodeString(msg.Audio)
			if err != nil {
				send(map[string]interface{}{"event": "speech_error", "error": "Audio inválido"})
				continue
			}
			h.finishRecording(ctx, sessionID, audio, false, send, sink)

		default:
			if msg.UserMessage != "" {
				h.processor.Chat(ctx, sessionID, msg.UserMessage, sink)
			}
		}
	}
}

// finishRecording transcribes buffered audio and optionally feeds the result
// straight into a chat turn.
func (h *Handler) finishRecording(ctx context.Context, sessionID string, audio []byte, autoChat bool,
	send func(map[string]interface{}), sink processor.EventSink) {
	text, err := h.processor.Transcribe(ctx, audio)
	if err != nil {
		h.logger.Error(ctx, "transcription failed", err)
		send(map[string]interface{}{"event": "speech_error", "error": "No se pudo transcribir el audio"})
		return
	}

	duration := float64(len(audio)) / bytesPerSecond
	send(map[string]interface{}{"event": "speech_final", "text": text, "duration": duration})

	if autoChat && text != "" {
		h.processor.Chat(ctx, sessionID, text, sink)
	}
}
