package processor

import (
	"context"
	chatbot "ganadero-server/internal/chatbot/processor"
	"ganadero-server/internal/clients/speech"
	"ganadero-server/internal/observability"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSpeech struct {
	windows    chan []byte
	transcript *speech.Transcription
	emotion    *speech.Emotion
}

func (f *fakeSpeech) Transcribe(ctx context.Context, wav []byte) *speech.Transcription {
	f.windows <- wav
	return f.transcript
}

func (f *fakeSpeech) ClassifyEmotion(ctx context.Context, wav []byte) *speech.Emotion {
	return f.emotion
}

type completeCall struct {
	sessionID string
	input     string
	emotion   string
}

type fakeCompleter struct {
	mu    sync.Mutex
	calls []completeCall
	done  chan struct{}
}

func (f *fakeCompleter) Complete(ctx context.Context, sessionID, input, emotion string, sink chatbot.EventSink) {
	f.mu.Lock()
	f.calls = append(f.calls, completeCall{sessionID: sessionID, input: input, emotion: emotion})
	f.mu.Unlock()
	if f.done != nil {
		f.done <- struct{}{}
	}
}

type fakeTelephony struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeTelephony) SpeakAndReconnect(ctx context.Context, callSID, text string) error {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()
	return f.err
}

func newTestProcessor(t *testing.T, transcript *speech.Transcription) (*VoiceCallProcessor, *fakeSpeech, *fakeCompleter, string) {
	t.Helper()
	dir := t.TempDir()
	sp := &fakeSpeech{windows: make(chan []byte, 16), transcript: transcript}
	completer := &fakeCompleter{done: make(chan struct{}, 16)}
	p := New(completer, sp, &fakeTelephony{}, dir, observability.NewLogger())
	return p, sp, completer, dir
}

func collectWindows(t *testing.T, sp *fakeSpeech, want int) [][]byte {
	t.Helper()
	var got [][]byte
	for len(got) < want {
		select {
		case wav := <-sp.windows:
			got = append(got, wav)
		case <-time.After(2 * time.Second):
			t.Fatalf("expected %d windows, got %d", want, len(got))
		}
	}
	return got
}

func assertNoWindow(t *testing.T, sp *fakeSpeech) {
	t.Helper()
	select {
	case <-sp.windows:
		t.Fatal("unexpected window dispatched")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestOnFrame_BuffersUntilWindowFills(t *testing.T) {
	p, sp, _, _ := newTestProcessor(t, nil)
	session := p.StartSession(context.Background(), "CA1")

	p.OnFrame(context.Background(), session, make([]byte, windowBytes-1))

	assertNoWindow(t, sp)
}

func TestOnFrame_ThreeFramesCompleteOneWindow(t *testing.T) {
	p, sp, _, _ := newTestProcessor(t, nil)
	session := p.StartSession(context.Background(), "CA1")

	// 3 x 26667 = 80001 bytes: exactly one window plus one leftover byte.
	for i := 0; i < 3; i++ {
		p.OnFrame(context.Background(), session, make([]byte, 26667))
	}

	windows := collectWindows(t, sp, 1)
	// 44-byte WAV header plus 2 bytes of PCM per mu-law sample.
	assert.Len(t, windows[0], 44+2*windowBytes)
	assertNoWindow(t, sp)
}

func TestOnFrame_LargeFrameCompletesSeveralWindows(t *testing.T) {
	p, sp, _, _ := newTestProcessor(t, nil)
	session := p.StartSession(context.Background(), "CA1")

	p.OnFrame(context.Background(), session, make([]byte, 2*windowBytes+5))

	collectWindows(t, sp, 2)
	assertNoWindow(t, sp)
}

func TestOnFrame_SavesDebugClipOnce(t *testing.T) {
	p, sp, _, dir := newTestProcessor(t, nil)
	session := p.StartSession(context.Background(), "CA7")

	p.OnFrame(context.Background(), session, make([]byte, clipBytes))
	collectWindows(t, sp, 3)

	path := filepath.Join(dir, "CA7.wav")
	require.Eventually(t, func() bool {
		info, err := os.Stat(path)
		return err == nil && info.Size() == int64(44+2*clipBytes)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestProcessWindow_FeedsTranscriptAndEmotionToEngine(t *testing.T) {
	p, sp, completer, _ := newTestProcessor(t, &speech.Transcription{Texto: "necesito movilizar ganado"})
	sp.emotion = &speech.Emotion{Emocion: "calma", Confianza: 0.9}
	session := p.StartSession(context.Background(), "CA2")

	p.OnFrame(context.Background(), session, make([]byte, windowBytes))

	select {
	case <-completer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("engine was never called")
	}

	completer.mu.Lock()
	defer completer.mu.Unlock()
	require.Len(t, completer.calls, 1)
	assert.Equal(t, "CA2", completer.calls[0].sessionID)
	assert.Equal(t, "necesito movilizar ganado", completer.calls[0].input)
	assert.Equal(t, "calma", completer.calls[0].emotion)
}

func TestProcessWindow_SkipsSilentWindow(t *testing.T) {
	p, sp, completer, _ := newTestProcessor(t, &speech.Transcription{Texto: "   "})
	session := p.StartSession(context.Background(), "CA3")

	p.OnFrame(context.Background(), session, make([]byte, windowBytes))
	collectWindows(t, sp, 1)

	time.Sleep(100 * time.Millisecond)
	completer.mu.Lock()
	defer completer.mu.Unlock()
	assert.Empty(t, completer.calls)
}

func TestEndSession_StaleLegDoesNotClobberNewLeg(t *testing.T) {
	p, _, _, _ := newTestProcessor(t, nil)

	leg1 := p.StartSession(context.Background(), "CA5")
	leg2 := p.StartSession(context.Background(), "CA5")

	p.EndSession(context.Background(), leg1)

	p.mu.Lock()
	defer p.mu.Unlock()
	assert.Same(t, leg2, p.sessions["CA5"])
}

func TestInterrupt_SpeaksQuestionThroughTelephony(t *testing.T) {
	tel := &fakeTelephony{}
	p := New(&fakeCompleter{}, &fakeSpeech{windows: make(chan []byte, 1)}, tel, t.TempDir(),
		observability.NewLogger())
	session := p.StartSession(context.Background(), "CA6")

	session.sink.TextChunk(context.Background(),
		`{"proxima_pregunta_agente":"¿Cuenta con su clave UPP?"}`)

	require.Eventually(t, func() bool {
		tel.mu.Lock()
		defer tel.mu.Unlock()
		return len(tel.calls) == 1
	}, 2*time.Second, 10*time.Millisecond)

	tel.mu.Lock()
	defer tel.mu.Unlock()
	assert.Equal(t, "¿Cuenta con su clave UPP?", tel.calls[0])
}

func TestOnFrame_WindowNumberingAcrossFrames(t *testing.T) {
	p, sp, _, _ := newTestProcessor(t, nil)
	session := p.StartSession(context.Background(), "CA8")

	p.OnFrame(context.Background(), session, make([]byte, windowBytes))
	collectWindows(t, sp, 1)
	p.OnFrame(context.Background(), session, make([]byte, windowBytes))
	collectWindows(t, sp, 1)

	session.mu.Lock()
	defer session.mu.Unlock()
	assert.Equal(t, 3, session.windowN)
	assert.Equal(t, 2*windowBytes, session.consumed)
	assert.Len(t, session.buffer, 2*windowBytes)
}
