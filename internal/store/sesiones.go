package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Message roles
const (
	MessageRoleSystem    = "system"
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
	MessageRoleTool      = "tool"
)

// ToolCall is one pending tool invocation recorded on an assistant message.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ChatMessage is one entry of a conversation. Ordering is append-only and
// significant: the stored sequence is the literal prompt sent upstream.
type ChatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// ChatMessages is the JSONB-backed message sequence of a session document.
type ChatMessages []ChatMessage

func (m ChatMessages) Value() (driver.Value, error) {
	if m == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(m)
}

func (m *ChatMessages) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("incompatible type for ChatMessages")
	}
	return json.Unmarshal(data, m)
}

// ChatSession is a conversation document keyed by the call SID or browser
// session identifier.
type ChatSession struct {
	ID          string       `db:"id" json:"sesion_id"`
	UsuarioID   string       `db:"usuario_id" json:"usuario_id"`
	Titulo      string       `db:"titulo" json:"titulo"`
	FechaInicio time.Time    `db:"fecha_inicio" json:"fecha_inicio"`
	Mensajes    ChatMessages `db:"mensajes" json:"mensajes"`
}

const sqlEnsureChatSession = `
INSERT INTO sesiones (id, usuario_id, titulo, fecha_inicio, mensajes)
VALUES ($1, $2, '', NOW(), $3)
ON CONFLICT (id) DO NOTHING`

// EnsureChatSession creates the session seeded with the given messages if it
// does not exist yet. Concurrent first accesses collapse to one stored
// sequence (first writer wins).
func (s *Store) EnsureChatSession(ctx context.Context, id, usuarioID string, seed ChatMessages) error {
	_, err := s.db.ExecContext(ctx, sqlEnsureChatSession, id, usuarioID, seed)
	if err != nil {
		s.logger.Error(ctx, "failed to ensure chat session", err)
		return fmt.Errorf("failed to ensure chat session: %w", err)
	}
	return nil
}

const sqlGetChatSession = `
SELECT * FROM sesiones WHERE id = $1`

func (s *Store) GetChatSession(ctx context.Context, id string) (ChatSession, error) {
	var session ChatSession
	err := s.db.GetContext(ctx, &session, sqlGetChatSession, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ChatSession{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get chat session", err)
		return ChatSession{}, fmt.Errorf("failed to get chat session: %w", err)
	}
	return session, nil
}

const sqlAppendChatMessages = `
UPDATE sesiones SET mensajes = mensajes || $2::jsonb WHERE id = $1`

// AppendChatMessages appends messages atomically; concurrent appends for the
// same session never lose entries.
func (s *Store) AppendChatMessages(ctx context.Context, id string, msgs ChatMessages) error {
	result, err := s.db.ExecContext(ctx, sqlAppendChatMessages, id, msgs)
	if err != nil {
		s.logger.Error(ctx, "failed to append chat messages", err)
		return fmt.Errorf("failed to append chat messages: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

const sqlDeleteChatSession = `
DELETE FROM sesiones WHERE id = $1`

func (s *Store) DeleteChatSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, sqlDeleteChatSession, id)
	if err != nil {
		s.logger.Error(ctx, "failed to delete chat session", err)
		return fmt.Errorf("failed to delete chat session: %w", err)
	}
	return nil
}

const sqlListChatSessionsByUsuario = `
SELECT * FROM sesiones WHERE usuario_id = $1 ORDER BY fecha_inicio DESC LIMIT $2`

func (s *Store) ListChatSessionsByUsuario(ctx context.Context, usuarioID string, limit int) ([]ChatSession, error) {
	var sessions []ChatSession
	err := s.db.SelectContext(ctx, &sessions, sqlListChatSessionsByUsuario, usuarioID, limit)
	if err != nil {
		s.logger.Error(ctx, "failed to list chat sessions by usuario", err)
		return nil, fmt.Errorf("failed to list chat sessions by usuario: %w", err)
	}
	return sessions, nil
}

const sqlUpdateChatSessionTitulo = `
UPDATE sesiones SET titulo = $2 WHERE id = $1`

func (s *Store) UpdateChatSessionTitulo(ctx context.Context, id, titulo string) error {
	_, err := s.db.ExecContext(ctx, sqlUpdateChatSessionTitulo, id, titulo)
	if err != nil {
		s.logger.Error(ctx, "failed to update chat session titulo", err)
		return fmt.Errorf("failed to update chat session titulo: %w", err)
	}
	return nil
}

const sqlCreateChatFeedback = `
INSERT INTO feedback_chatbot (mensaje_id, calificacion, comentario, fecha)
VALUES ($1, $2, $3, NOW())`

func (s *Store) CreateChatFeedback(ctx context.Context, mensajeID string, calificacion int, comentario string) error {
	_, err := s.db.ExecContext(ctx, sqlCreateChatFeedback, mensajeID, calificacion, comentario)
	if err != nil {
		s.logger.Error(ctx, "failed to create chat feedback", err)
		return fmt.Errorf("failed to create chat feedback: %w", err)
	}
	return nil
}
