package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"ganadero-server/internal/observability"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const requestTimeout = 10 * time.Second

// Transcription is the recognized text for one audio window.
type Transcription struct {
	Texto string `json:"texto"`
}

// Emotion is the classification result for one audio window.
type Emotion struct {
	Emocion   string  `json:"emocion"`
	Confianza float64 `json:"confianza"`
}

// Client talks to the speech inference sidecar. Both calls are best-effort:
// a transport or upstream failure returns nil, never an error, so one bad
// window cannot stall the audio pipeline.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *observability.Logger
}

func New(baseURL string, logger *observability.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// Transcribe uploads a WAV clip and returns the recognized Spanish text, or
// nil if the sidecar could not be reached or rejected the clip.
func (c *Client) Transcribe(ctx context.Context, wav []byte) *Transcription {
	var result Transcription
	if err := c.postWAV(ctx, "/trans?language=es", wav, &result); err != nil {
		c.logger.Warn(ctx, fmt.Sprintf("transcription failed: %v", err))
		return nil
	}
	return &result
}

// ClassifyEmotion uploads a WAV clip and returns the detected emotion, or nil
// on any failure.
func (c *Client) ClassifyEmotion(ctx context.Context, wav []byte) *Emotion {
	var result Emotion
	if err := c.postWAV(ctx, "/emotion", wav, &result); err != nil {
		c.logger.Warn(ctx, fmt.Sprintf("emotion classification failed: %v", err))
		return nil
	}
	return &result
}

func (c *Client) postWAV(ctx context.Context, path string, wav []byte, out interface{}) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return fmt.Errorf("failed to build multipart form: %w", err)
	}
	if _, err := part.Write(wav); err != nil {
		return fmt.Errorf("failed to write audio part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call speech sidecar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("speech sidecar returned %d: %s", resp.StatusCode, payload)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode speech sidecar response: %w", err)
	}
	return nil
}
