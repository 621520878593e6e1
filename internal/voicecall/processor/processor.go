package processor

import (
	"context"
	"fmt"
	"ganadero-server/internal/observability"
	"ganadero-server/internal/voice/audio"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	// windowBytes is 10 seconds of 8 kHz mu-law audio. Each full window is
	// transcribed and analyzed independently.
	windowBytes = 80000
	// clipBytes is the 30-second debug clip saved once per stream.
	clipBytes = 240000
)

// CallSession is the audio state of one media stream leg. The buffer only
// grows for the lifetime of the leg; consumed marks how much has already
// been cut into windows, so offsets are strictly increasing and never
// overlap.
type CallSession struct {
	callSID string
	watcher *FieldWatcher
	sink    *callSink

	mu        sync.Mutex
	buffer    []byte
	consumed  int
	windowN   int
	clipSaved bool
}

// VoiceCallProcessor turns a raw telephony media stream into analyzed
// conversation turns. Every stage past the buffer is fire-and-forget: a
// failed transcription, completion or interruption is that window's loss
// alone and never reaches the media loop.
type VoiceCallProcessor struct {
	engine        Completer
	speech        SpeechAnalyzer
	telephony     TelephonyClient
	recordingsDir string
	logger        *observability.Logger

	mu       sync.Mutex
	sessions map[string]*CallSession
}

func New(engine Completer, speech SpeechAnalyzer, telephony TelephonyClient, recordingsDir string,
	logger *observability.Logger) *VoiceCallProcessor {
	return &VoiceCallProcessor{
		engine:        engine,
		speech:        speech,
		telephony:     telephony,
		recordingsDir: recordingsDir,
		logger:        logger,
		sessions:      make(map[string]*CallSession),
	}
}

// StartSession registers a media stream leg. An interruption reconnects the
// stream, so a call can go through several legs; each gets fresh audio
// state while the conversation history continues under the same call SID.
func (p *VoiceCallProcessor) StartSession(ctx context.Context, callSID string) *CallSession {
	session := &CallSession{callSID: callSID, windowN: 1}
	session.watcher = NewFieldWatcher(func(question string) {
		// Do not block stream consumption on the telephony round trip.
		go p.interrupt(context.WithoutCancel(ctx), callSID, question)
	})
	session.sink = &callSink{watcher: session.watcher, logger: p.logger}

	p.mu.Lock()
	p.sessions[callSID] = session
	p.mu.Unlock()

	p.logger.Info(ctx, "call session started")
	return session
}

// OnFrame appends one decoded media frame and dispatches every full window
// it completes. Frame boundaries never align with window boundaries; a
// single frame can complete zero or several windows.
func (p *VoiceCallProcessor) OnFrame(ctx context.Context, session *CallSession, frame []byte) {
	type window struct {
		data []byte
		n    int
	}
	var windows []window
	var clip []byte

	session.mu.Lock()
	session.buffer = append(session.buffer, frame...)
	for len(session.buffer)-session.consumed >= windowBytes {
		data := make([]byte, windowBytes)
		copy(data, session.buffer[session.consumed:session.consumed+windowBytes])
		session.consumed += windowBytes
		windows = append(windows, window{data: data, n: session.windowN})
		session.windowN++
	}
	if !session.clipSaved && len(session.buffer) >= clipBytes {
		session.clipSaved = true
		clip = make([]byte, clipBytes)
		copy(clip, session.buffer[:clipBytes])
	}
	session.mu.Unlock()

	bg := context.WithoutCancel(ctx)
	for _, w := range windows {
		go p.processWindow(bg, session, w.data, w.n)
	}
	if clip != nil {
		go p.saveClip(bg, session.callSID, clip)
	}
}

// EndSession drops the leg's audio state. A newer leg under the same call
// SID is left alone, and the conversation history lives in the session
// store and is not touched here.
func (p *VoiceCallProcessor) EndSession(ctx context.Context, session *CallSession) {
	p.mu.Lock()
	if p.sessions[session.callSID] == session {
		delete(p.sessions, session.callSID)
	}
	p.mu.Unlock()

	p.logger.Info(ctx, "call session ended")
}

func (p *VoiceCallProcessor) processWindow(ctx context.Context, session *CallSession, mulaw []byte, n int) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_sid", Value: session.callSID},
		observability.Field{Key: "window", Value: n},
	)

	wav := audio.MuLawToWAV(mulaw)

	transcription := p.speech.Transcribe(ctx, wav)
	if transcription == nil || strings.TrimSpace(transcription.Texto) == "" {
		p.logger.Info(ctx, "window produced no transcript, skipping")
		return
	}

	var emotion string
	if result := p.speech.ClassifyEmotion(ctx, wav); result != nil {
		emotion = result.Emocion
	}

	p.logger.Info(observability.WithFields(ctx, observability.Field{Key: "transcript", Value: transcription.Texto}),
		"window transcribed")

	p.engine.Complete(ctx, session.callSID, transcription.Texto, emotion, session.sink)
}

// interrupt speaks the agent's next question into the live call. Failures
// are logged and not retried; the caller simply hears the next turn.
func (p *VoiceCallProcessor) interrupt(ctx context.Context, callSID, question string) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "call_sid", Value: callSID})

	if err := p.telephony.SpeakAndReconnect(ctx, callSID, question); err != nil {
		p.logger.Error(ctx, "failed to interrupt call", err)
		return
	}
	p.logger.Info(observability.WithFields(ctx, observability.Field{Key: "question", Value: question}),
		"interrupted call with next question")
}

func (p *VoiceCallProcessor) saveClip(ctx context.Context, callSID string, mulaw []byte) {
	if p.recordingsDir == "" {
		return
	}

	if err := os.MkdirAll(p.recordingsDir, 0o755); err != nil {
		p.logger.Error(ctx, "failed to create recordings dir", err)
		return
	}

	path := filepath.Join(p.recordingsDir, fmt.Sprintf("%s.wav", callSID))
	if err := os.WriteFile(path, audio.MuLawToWAV(mulaw), 0o644); err != nil {
		p.logger.Error(ctx, "failed to save debug clip", err)
		return
	}
	p.logger.Info(observability.WithFields(ctx, observability.Field{Key: "path", Value: path}),
		"saved debug clip")
}
