package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldWatcher_FiresOnceWhenValueCompletes(t *testing.T) {
	var fired []string
	w := NewFieldWatcher(func(q string) { fired = append(fired, q) })

	w.Feed(`{"urgencia":"Medio","proxima_pregunta_agente":"¿Cuál es su`)
	assert.Empty(t, fired, "must not fire before the closing quote")

	w.Feed(` clave UPP?"`)
	require.Len(t, fired, 1)
	assert.Equal(t, "¿Cuál es su clave UPP?", fired[0])

	// The rest of the JSON keeps streaming; no second fire.
	w.Feed(`,"analisis_completo":{}}`)
	assert.Len(t, fired, 1)
}

func TestFieldWatcher_SingleCharacterChunks(t *testing.T) {
	var fired []string
	w := NewFieldWatcher(func(q string) { fired = append(fired, q) })

	payload := `{"proxima_pregunta_agente":"Hola"}`
	for _, r := range payload {
		w.Feed(string(r))
	}

	require.Len(t, fired, 1)
	assert.Equal(t, "Hola", fired[0])
}

func TestFieldWatcher_DecodesEscapes(t *testing.T) {
	var fired []string
	w := NewFieldWatcher(func(q string) { fired = append(fired, q) })

	w.Feed(`{"proxima_pregunta_agente":"Diga \"listo\" al terminar"}`)

	require.Len(t, fired, 1)
	assert.Equal(t, `Diga "listo" al terminar`, fired[0])
}

func TestFieldWatcher_ResetRearmsForNextTurn(t *testing.T) {
	var fired []string
	w := NewFieldWatcher(func(q string) { fired = append(fired, q) })

	w.Feed(`{"proxima_pregunta_agente":"primera"}`)
	w.Reset()
	w.Feed(`{"proxima_pregunta_agente":"segunda"}`)

	assert.Equal(t, []string{"primera", "segunda"}, fired)
}

func TestFieldWatcher_MissingFieldNeverFires(t *testing.T) {
	fired := 0
	w := NewFieldWatcher(func(string) { fired++ })

	w.Feed(`{"urgencia":"Alto","razonamiento_justificacion":"sin pregunta"}`)

	assert.Zero(t, fired)
}
