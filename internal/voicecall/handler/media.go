package handler

import (
	"encoding/json"
	"fmt"
	"ganadero-server/internal/voice/audio"
	"ganadero-server/internal/voicecall/processor"

	"github.com/gin-gonic/gin"
)

// mediaEvent is one frame of the telephony media stream protocol.
type mediaEvent struct {
	Event string `json:"event"`
	Start struct {
		StreamSid string `json:"streamSid"`
		CallSid   string `json:"callSid"`
	} `json:"start,omitempty"`
	Media struct {
		Payload string `json:"payload"`
	} `json:"media,omitempty"`
	Stop struct {
		StreamSid string `json:"streamSid"`
		CallSid   string `json:"callSid"`
	} `json:"stop,omitempty"`
}

// HandleMediaStream handles the media websocket the telephony provider
// connects after answering. Frames carry base64 mu-law audio; the processor
// does everything past decoding.
func (h *Handler) HandleMediaStream(c *gin.Context) {
	ctx := c.Request.Context()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error(ctx, "media stream upgrade failed", err)
		return
	}
	defer conn.Close()

	var session *processor.CallSession
	defer func() {
		if session != nil {
			h.voiceProcessor.EndSession(ctx, session)
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			h.logger.Info(ctx, fmt.Sprintf("media stream closed: %v", err))
			return
		}

		var event mediaEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			h.logger.Warn(ctx, fmt.Sprintf("malformed media event: %v", err))
			continue
		}

		switch event.Event {
		case "start":
			h.logger.Info(ctx, fmt.Sprintf("media stream started: call=%s stream=%s",
				event.Start.CallSid, event.Start.StreamSid))
			session = h.voiceProcessor.StartSession(ctx, event.Start.CallSid)

		case "media":
			if session == nil {
				continue
			}
			frame, err := audio.Base64ToBytes(event.Media.Payload)
			if err != nil {
				h.logger.Warn(ctx, fmt.Sprintf("failed to decode media payload: %v", err))
				continue
			}
			h.voiceProcessor.OnFrame(ctx, session, frame)

		case "stop":
			h.logger.Info(ctx, fmt.Sprintf("media stream stopped: stream=%s", event.Stop.StreamSid))
			return

		case "connected":
			// Protocol preamble, nothing to do.

		default:
			h.logger.Warn(ctx, fmt.Sprintf("unknown media event: %s", event.Event))
		}
	}
}
