package processor

import (
	"context"
	chatbot "ganadero-server/internal/chatbot/processor"
	"ganadero-server/internal/clients/speech"
)

// Completer runs one tool-augmented completion turn for a call session.
type Completer interface {
	Complete(ctx context.Context, sessionID, input, emotion string, sink chatbot.EventSink)
}

// SpeechAnalyzer transcribes and classifies WAV audio. Both methods return
// nil when the sidecar is unavailable; a window without a transcript is
// simply skipped.
type SpeechAnalyzer interface {
	Transcribe(ctx context.Context, wav []byte) *speech.Transcription
	ClassifyEmotion(ctx context.Context, wav []byte) *speech.Emotion
}

// TelephonyClient interrupts a live call with spoken text and reconnects the
// media stream.
type TelephonyClient interface {
	SpeakAndReconnect(ctx context.Context, callSID, text string) error
}
