package telephony

import (
	"context"
	"fmt"
	"ganadero-server/internal/observability"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/twilio/twilio-go/twiml"
)

// Client updates live calls through the Twilio REST API.
type Client struct {
	api       *twilio.RestClient
	streamURL string
	logger    *observability.Logger
}

func New(accountSID, authToken, streamURL string, logger *observability.Logger) *Client {
	restClient := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &Client{
		api:       restClient,
		streamURL: streamURL,
		logger:    logger,
	}
}

// SpeakAndReconnect interrupts an in-progress call: the caller hears the given
// text, then the inbound audio track reconnects to the media stream so capture
// resumes. The update replaces the call's current TwiML.
func (c *Client) SpeakAndReconnect(ctx context.Context, callSID, text string) error {
	say := &twiml.VoiceSay{
		Message:  text,
		Language: "es-MX",
	}
	stream := twiml.VoiceStream{
		Url:   c.streamURL,
		Track: "inbound_track",
	}
	connect := &twiml.VoiceConnect{
		InnerElements: []twiml.Element{stream},
	}

	directive, err := twiml.Voice([]twiml.Element{say, connect})
	if err != nil {
		return fmt.Errorf("failed to build voice directive: %w", err)
	}

	params := &api.UpdateCallParams{}
	params.SetTwiml(directive)

	if _, err := c.api.Api.UpdateCall(callSID, params); err != nil {
		return fmt.Errorf("failed to update call %s: %w", callSID, err)
	}

	c.logger.Info(ctx, fmt.Sprintf("Call %s interrupted with spoken prompt", callSID))
	return nil
}
