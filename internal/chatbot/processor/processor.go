package processor

import (
	"context"
	"errors"
	"ganadero-server/internal/observability"
	"ganadero-server/internal/store"
	"time"

	"github.com/google/uuid"
)

const defaultHistorialLimit = 20

// ChatStore is the session metadata surface the processor needs beyond what
// the engine's SessionStore covers.
type ChatStore interface {
	EnsureChatSession(ctx context.Context, id, usuarioID string, seed store.ChatMessages) error
	GetChatSession(ctx context.Context, id string) (store.ChatSession, error)
	ListChatSessionsByUsuario(ctx context.Context, usuarioID string, limit int) ([]store.ChatSession, error)
	UpdateChatSessionTitulo(ctx context.Context, id, titulo string) error
	CreateChatFeedback(ctx context.Context, mensajeID string, calificacion int, comentario string) error
}

// Transcriber converts WAV audio to text. Implemented by the Groq Whisper
// client.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// ChatProcessor is the web chat surface: streamed completions over durable
// sessions, session management, voice-note transcription and feedback.
type ChatProcessor struct {
	engine       *Engine
	sessions     SessionStore
	chatStore    ChatStore
	transcriber  Transcriber
	geminiAPIKey string
	logger       *observability.Logger
}

func NewChatProcessor(engine *Engine, sessions SessionStore, chatStore ChatStore, transcriber Transcriber,
	geminiAPIKey string, logger *observability.Logger) *ChatProcessor {
	return &ChatProcessor{
		engine:       engine,
		sessions:     sessions,
		chatStore:    chatStore,
		transcriber:  transcriber,
		geminiAPIKey: geminiAPIKey,
		logger:       logger,
	}
}

// Chat runs one user turn against the session and streams the result through
// the sink. A missing session is created on first use.
func (p *ChatProcessor) Chat(ctx context.Context, sessionID, userMessage string, sink EventSink) {
	p.engine.Complete(ctx, sessionID, userMessage, "", sink)
	p.maybeTitleSession(ctx, sessionID, userMessage)
}

// maybeTitleSession generates a title after the opening exchange. Best
// effort: failures keep the default title.
func (p *ChatProcessor) maybeTitleSession(ctx context.Context, sessionID, userMessage string) {
	if p.geminiAPIKey == "" {
		return
	}

	session, err := p.chatStore.GetChatSession(ctx, sessionID)
	if err != nil || session.Titulo != "" {
		return
	}

	var assistantMsg string
	for i := len(session.Mensajes) - 1; i >= 0; i-- {
		m := session.Mensajes[i]
		if m.Role == store.MessageRoleAssistant && m.Content != "" {
			assistantMsg = m.Content
			break
		}
	}
	if assistantMsg == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()

		titulo, err := p.GenerateTitle(ctx, userMessage, assistantMsg)
		if err != nil {
			p.logger.Error(ctx, "failed to generate session title", err)
			return
		}
		if err := p.chatStore.UpdateChatSessionTitulo(ctx, sessionID, titulo); err != nil {
			p.logger.Error(ctx, "failed to save session title", err)
		}
	}()
}

// Transcribe converts browser-recorded WAV audio to text.
func (p *ChatProcessor) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if p.transcriber == nil {
		return "", errors.New("transcription is not configured")
	}
	return p.transcriber.Transcribe(ctx, audio)
}

func (p *ChatProcessor) Historial(ctx context.Context, usuarioID string, limit int) ([]store.ChatSession, error) {
	if limit <= 0 {
		limit = defaultHistorialLimit
	}
	return p.chatStore.ListChatSessionsByUsuario(ctx, usuarioID, limit)
}

// CrearSesion opens an empty session for the user, seeded with the system
// prompt, and returns it.
func (p *ChatProcessor) CrearSesion(ctx context.Context, usuarioID string) (store.ChatSession, error) {
	id := uuid.New().String()
	if err := p.chatStore.EnsureChatSession(ctx, id, usuarioID, store.ChatMessages{ChatSeedMessage()}); err != nil {
		return store.ChatSession{}, err
	}
	return p.chatStore.GetChatSession(ctx, id)
}

func (p *ChatProcessor) Sesion(ctx context.Context, id string) (store.ChatSession, error) {
	return p.chatStore.GetChatSession(ctx, id)
}

func (p *ChatProcessor) EliminarSesion(ctx context.Context, id string) error {
	return p.sessions.Reset(ctx, id)
}

func (p *ChatProcessor) Feedback(ctx context.Context, mensajeID string, calificacion int, comentario string) error {
	return p.chatStore.CreateChatFeedback(ctx, mensajeID, calificacion, comentario)
}

// Sugerencias are the quick-start prompts shown on an empty chat.
func (p *ChatProcessor) Sugerencias() []string {
	return []string{
		"¿Qué necesito para movilizar mi ganado?",
		"Consultar el estado de mi trámite TRM-2026-001",
		"¿Cómo actualizo mi UPP este año?",
		"Quiero iniciar un trámite de exportación",
	}
}
