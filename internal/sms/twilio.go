package sms

import (
	"context"
	"net/http"
	"time"

	"github.com/twilio/twilio-go"
	"github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Twilio sends messages through the Twilio Messages resource.
type Twilio struct {
	From string
	rest *twilio.RestClient
}

func NewTwilio(sid, token, from string) *Twilio {
	return NewTwilioWithHTTP(sid, token, from, &http.Client{Timeout: 10 * time.Second})
}

// NewTwilioWithHTTP lets the caller supply the transport (proxy, tests).
func NewTwilioWithHTTP(sid, token, from string, hc *http.Client) *Twilio {
	t := &Twilio{From: from}
	if sid == "" || token == "" {
		return t
	}
	c := &client.Client{Credentials: client.NewCredentials(sid, token), HTTPClient: hc}
	c.SetAccountSid(sid)
	t.rest = twilio.NewRestClientWithParams(twilio.ClientParams{Username: sid, Password: token, Client: c})
	return t
}

func (t *Twilio) Send(ctx context.Context, to, body string) (string, error) {
	if t.rest == nil {
		return "", ErrProviderNotConfigured
	}
	// SDK tidak menerima ctx; batas waktu datang dari http.Client
	if err := ctx.Err(); err != nil {
		return "", err
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.From)
	params.SetBody(body)

	msg, err := t.rest.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if msg.Sid == nil {
		return "", nil
	}
	return *msg.Sid, nil
}
