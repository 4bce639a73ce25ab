package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-reliefdesk/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentMessage(t *testing.T) {
	d := &types.Disaster{Name: "River Flood", Type: types.Flood}
	rs := []types.Resource{{Name: "Water", Quantity: 5}, {Name: "Boats", Quantity: 2}}

	assert.Equal(t,
		"Assignment: River Flood (Flood) @ North Bridge. Resources: Water: 5, Boats: 2.",
		AssignmentMessage(d, " North Bridge ", rs))
	assert.Equal(t,
		"Assignment: Disaster @ Depot. Resources: None.",
		AssignmentMessage(nil, "Depot", nil))
}

func TestRelayClientSend(t *testing.T) {
	var got relayRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(Result{SID: "SM123", Status: "queued"})
	}))
	defer srv.Close()

	res, err := NewRelayClient(srv.URL).Send(context.Background(), "+15551234567", "hello")
	require.NoError(t, err)
	assert.Equal(t, Result{SID: "SM123", Status: "queued"}, res)
	assert.Equal(t, relayRequest{To: "+15551234567", Message: "hello"}, got)
}

func TestRelayClientSurfacesRelayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Twilio not configured"}`))
	}))
	defer srv.Close()

	_, err := NewRelayClient(srv.URL).Send(context.Background(), "+15551234567", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Twilio not configured")
}

func TestRelayClientDefaultURL(t *testing.T) {
	assert.Equal(t, DefaultRelayURL, NewRelayClient("  ").url)
}

func TestTwilioSenderNotConfigured(t *testing.T) {
	s := NewTwilioSender("", "", "")
	assert.Nil(t, s)

	_, err := s.Send(context.Background(), "+15551234567", "hello")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestTwilioSenderRejectsMissingFields(t *testing.T) {
	s := NewTwilioSender("AC123", "token", "+15550000000")
	require.NotNil(t, s)

	_, err := s.Send(context.Background(), "", "hello")
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = s.Send(context.Background(), "+15551234567", " ")
	assert.ErrorIs(t, err, ErrMissingFields)
}
