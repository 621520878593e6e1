package processor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferSink_PrefersFullTurnText(t *testing.T) {
	var sink BufferSink
	ctx := context.Background()

	sink.TextChunk(ctx, "Hola, ")
	sink.TextChunk(ctx, "¿en qué puedo ayudar?")
	sink.TurnEnd(ctx, "Hola, ¿en qué puedo ayudar?")

	text, errMsg := sink.Response()
	assert.Equal(t, "Hola, ¿en qué puedo ayudar?", text)
	assert.Empty(t, errMsg)
}

func TestBufferSink_FallsBackToChunksWithoutTurnEnd(t *testing.T) {
	var sink BufferSink
	ctx := context.Background()

	sink.TextChunk(ctx, "respuesta ")
	sink.TextChunk(ctx, "parcial")

	text, _ := sink.Response()
	assert.Equal(t, "respuesta parcial", text)
}

func TestBufferSink_CapturesRemoteError(t *testing.T) {
	var sink BufferSink
	ctx := context.Background()

	sink.RemoteError(ctx, "Error durante el stream: upstream caído")

	_, errMsg := sink.Response()
	assert.Equal(t, "Error durante el stream: upstream caído", errMsg)
}
