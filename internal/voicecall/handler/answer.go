package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/twilio/twilio-go/twiml"
)

const greeting = "Bienvenido al sistema de trámites ganaderos. Por favor, describa su solicitud después del tono."

// HandleAnswerCall handles POST /api/llamadas/answer, the webhook the
// telephony provider hits when a call comes in. The response greets the
// caller and connects the inbound audio to the media stream socket.
func (h *Handler) HandleAnswerCall(c *gin.Context) {
	say := &twiml.VoiceSay{
		Message:  greeting,
		Language: "es-MX",
	}
	stream := twiml.VoiceStream{
		Url:   h.streamURL,
		Track: "inbound_track",
	}
	connect := twiml.VoiceConnect{
		InnerElements: []twiml.Element{stream},
	}

	twimlResult, err := twiml.Voice([]twiml.Element{say, connect})
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	c.Header("Content-Type", "text/xml")
	c.String(http.StatusOK, twimlResult)
}
