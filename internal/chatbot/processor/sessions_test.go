package processor

import (
	"context"
	"ganadero-server/internal/store"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemorySessionStore_SeedsOnce(t *testing.T) {
	s := NewInMemorySessionStore()
	seed := VoiceSeedMessage()

	first, err := s.History(context.Background(), "CA123", seed)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, store.MessageRoleSystem, first[0].Role)

	require.NoError(t, s.Append(context.Background(), "CA123",
		store.ChatMessage{Role: store.MessageRoleUser, Content: "hola"}))

	// A second History call must not re-seed.
	second, err := s.History(context.Background(), "CA123", seed)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "hola", second[1].Content)
}

func TestInMemorySessionStore_ConcurrentFirstAccessSeedsOnce(t *testing.T) {
	s := NewInMemorySessionStore()
	seed := VoiceSeedMessage()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.History(context.Background(), "CA123", seed)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	history, err := s.History(context.Background(), "CA123", seed)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, store.MessageRoleSystem, history[0].Role)
}

func TestInMemorySessionStore_HistoryReturnsCopy(t *testing.T) {
	s := NewInMemorySessionStore()

	history, err := s.History(context.Background(), "CA123", VoiceSeedMessage())
	require.NoError(t, err)

	history[0].Content = "mutated"

	fresh, err := s.History(context.Background(), "CA123", VoiceSeedMessage())
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", fresh[0].Content)
}

func TestInMemorySessionStore_AppendToMissingSession(t *testing.T) {
	s := NewInMemorySessionStore()

	err := s.Append(context.Background(), "CA404",
		store.ChatMessage{Role: store.MessageRoleUser, Content: "hola"})

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInMemorySessionStore_ResetDropsHistory(t *testing.T) {
	s := NewInMemorySessionStore()

	_, err := s.History(context.Background(), "CA123", VoiceSeedMessage())
	require.NoError(t, err)
	require.NoError(t, s.Append(context.Background(), "CA123",
		store.ChatMessage{Role: store.MessageRoleUser, Content: "hola"}))

	require.NoError(t, s.Reset(context.Background(), "CA123"))

	history, err := s.History(context.Background(), "CA123", VoiceSeedMessage())
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
