package speech

import (
	"context"
	"ganadero-server/internal/observability"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscribe_SendsMultipartWAV(t *testing.T) {
	var gotPath, gotFilename string
	var gotAudio []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename
		gotAudio, _ = io.ReadAll(file)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"texto":"hola mundo"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, observability.NewLogger())
	result := c.Transcribe(context.Background(), []byte{1, 2, 3})

	require.NotNil(t, result)
	assert.Equal(t, "hola mundo", result.Texto)
	assert.Equal(t, "/trans?language=es", gotPath)
	assert.Equal(t, "audio.wav", gotFilename)
	assert.Equal(t, []byte{1, 2, 3}, gotAudio)
}

func TestTranscribe_NilOnUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(srv.URL, observability.NewLogger())

	assert.Nil(t, c.Transcribe(context.Background(), []byte{1}))
}

func TestTranscribe_NilWhenUnreachable(t *testing.T) {
	c := New("http://127.0.0.1:1", observability.NewLogger())

	assert.Nil(t, c.Transcribe(context.Background(), []byte{1}))
}

func TestClassifyEmotion_DecodesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emotion", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"emocion":"enojo","confianza":0.82}`))
	}))
	defer srv.Close()

	c := New(srv.URL, observability.NewLogger())
	result := c.ClassifyEmotion(context.Background(), []byte{1})

	require.NotNil(t, result)
	assert.Equal(t, "enojo", result.Emocion)
	assert.InDelta(t, 0.82, result.Confianza, 0.0001)
}
