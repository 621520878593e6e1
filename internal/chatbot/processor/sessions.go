package processor

import (
	"context"
	"ganadero-server/internal/observability"
	"ganadero-server/internal/store"
	"sync"
)

// SessionStore keeps per-session message history. The contract is the same
// for every implementation: the seed message is stored exactly once even
// under concurrent first access, appends are monotonic and never reorder,
// and Reset drops the whole session.
type SessionStore interface {
	History(ctx context.Context, sessionID string, seed store.ChatMessage) ([]store.ChatMessage, error)
	Append(ctx context.Context, sessionID string, msgs ...store.ChatMessage) error
	Reset(ctx context.Context, sessionID string) error
}

// InMemorySessionStore holds histories for the lifetime of the process. Used
// for phone calls, where a session is one caller and continuity across
// restarts is not worth a round trip per audio window.
type InMemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string][]store.ChatMessage
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[string][]store.ChatMessage),
	}
}

func (s *InMemorySessionStore) History(ctx context.Context, sessionID string, seed store.ChatMessage) ([]store.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		s.sessions[sessionID] = []store.ChatMessage{seed}
	}

	history := make([]store.ChatMessage, len(s.sessions[sessionID]))
	copy(history, s.sessions[sessionID])
	return history, nil
}

func (s *InMemorySessionStore) Append(ctx context.Context, sessionID string, msgs ...store.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return store.ErrNotFound
	}
	s.sessions[sessionID] = append(s.sessions[sessionID], msgs...)
	return nil
}

func (s *InMemorySessionStore) Reset(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// DurableSessionStore persists histories as JSONB documents; survives process
// restarts and serves the web chat surface.
type DurableSessionStore struct {
	store  SessionBackend
	logger *observability.Logger
}

// SessionBackend is the subset of the database store the durable session
// store needs.
type SessionBackend interface {
	EnsureChatSession(ctx context.Context, id, usuarioID string, seed store.ChatMessages) error
	GetChatSession(ctx context.Context, id string) (store.ChatSession, error)
	AppendChatMessages(ctx context.Context, id string, msgs store.ChatMessages) error
	DeleteChatSession(ctx context.Context, id string) error
}

func NewDurableSessionStore(backend SessionBackend, logger *observability.Logger) *DurableSessionStore {
	return &DurableSessionStore{
		store:  backend,
		logger: logger,
	}
}

func (s *DurableSessionStore) History(ctx context.Context, sessionID string, seed store.ChatMessage) ([]store.ChatMessage, error) {
	// ON CONFLICT DO NOTHING makes the seed first-writer-wins.
	if err := s.store.EnsureChatSession(ctx, sessionID, "", store.ChatMessages{seed}); err != nil {
		return nil, err
	}

	session, err := s.store.GetChatSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Mensajes, nil
}

func (s *DurableSessionStore) Append(ctx context.Context, sessionID string, msgs ...store.ChatMessage) error {
	return s.store.AppendChatMessages(ctx, sessionID, store.ChatMessages(msgs))
}

func (s *DurableSessionStore) Reset(ctx context.Context, sessionID string) error {
	return s.store.DeleteChatSession(ctx, sessionID)
}
