package sms

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSender sends through the Twilio REST API from a fixed number.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender returns nil when the account credentials are missing, so
// callers can treat a nil *TwilioSender as "not configured".
func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	if accountSID == "" || authToken == "" || from == "" {
		logrus.Warn("Twilio env vars missing. SMS sending will fail until configured.")
	}
	if accountSID == "" || authToken == "" {
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, from: from}
}

func (s *TwilioSender) Send(_ context.Context, to, message string) (Result, error) {
	if s == nil || s.client == nil {
		return Result{}, ErrNotConfigured
	}
	to = strings.TrimSpace(to)
	if to == "" || strings.TrimSpace(message) == "" {
		return Result{}, ErrMissingFields
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(message)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return Result{}, err
	}

	var res Result
	if resp.Sid != nil {
		res.SID = *resp.Sid
	}
	if resp.Status != nil {
		res.Status = *resp.Status
	}
	return res, nil
}
