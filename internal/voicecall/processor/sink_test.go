package processor

import (
	"context"
	"ganadero-server/internal/observability"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallSink_RemoteErrorClearsPartialBuffer(t *testing.T) {
	var fired []string
	sink := &callSink{
		watcher: NewFieldWatcher(func(q string) { fired = append(fired, q) }),
		logger:  observability.NewLogger(),
	}
	ctx := context.Background()

	// The turn dies mid-value; the stream never completes and the engine
	// reports an error instead of a turn end.
	sink.TextChunk(ctx, `{"proxima_pregunta_agente":"¿Cuá`)
	sink.RemoteError(ctx, "stream aborted")
	require.Empty(t, fired)

	// The next turn must not splice onto the dead turn's fragment.
	sink.TextChunk(ctx, `{"proxima_pregunta_agente":"¿Cuenta con su clave UPP?"}`)
	require.Len(t, fired, 1)
	assert.Equal(t, "¿Cuenta con su clave UPP?", fired[0])
}

func TestCallSink_RemoteErrorRearmsAfterFire(t *testing.T) {
	var fired []string
	sink := &callSink{
		watcher: NewFieldWatcher(func(q string) { fired = append(fired, q) }),
		logger:  observability.NewLogger(),
	}
	ctx := context.Background()

	// The question fires, then the rest of the stream fails before TurnEnd.
	sink.TextChunk(ctx, `{"proxima_pregunta_agente":"primera"}`)
	require.Len(t, fired, 1)
	sink.RemoteError(ctx, "stream aborted")

	// A healthy follow-up turn must still speak.
	sink.TextChunk(ctx, `{"proxima_pregunta_agente":"segunda"}`)
	assert.Equal(t, []string{"primera", "segunda"}, fired)
}

func TestCallSink_TurnEndResetsWatcher(t *testing.T) {
	var fired []string
	sink := &callSink{
		watcher: NewFieldWatcher(func(q string) { fired = append(fired, q) }),
		logger:  observability.NewLogger(),
	}
	ctx := context.Background()

	sink.TextChunk(ctx, `{"proxima_pregunta_agente":"primera"}`)
	sink.TurnEnd(ctx, `{"proxima_pregunta_agente":"primera"}`)
	sink.TextChunk(ctx, `{"proxima_pregunta_agente":"segunda"}`)

	assert.Equal(t, []string{"primera", "segunda"}, fired)
}
