package openai

import (
	"bytes"
	"context"
	"errors"
	"ganadero-server/internal/observability"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	groqBaseURL  = "https://api.groq.com/openai/v1"
	whisperModel = "whisper-large-v3"
)

// TranscriptionClient transcribes WAV audio through Groq's OpenAI-compatible
// Whisper endpoint. Used by the browser voice mode; phone audio goes through
// the speech sidecar instead.
type TranscriptionClient struct {
	client openai.Client
	logger *observability.Logger
}

func NewTranscriptionClient(apiKey string, logger *observability.Logger) (*TranscriptionClient, error) {
	if apiKey == "" {
		return nil, errors.New("groq API key is required")
	}
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(groqBaseURL),
	)
	return &TranscriptionClient{client: client, logger: logger}, nil
}

// Transcribe returns the Spanish transcript of the given WAV bytes.
func (c *TranscriptionClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	file := openai.File(bytes.NewReader(audio), "audio.wav", "audio/wav")
	params := openai.AudioTranscriptionNewParams{
		Model:    whisperModel,
		File:     file,
		Language: openai.String("es"),
	}
	resp, err := c.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
