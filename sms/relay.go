package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const DefaultRelayURL = "http://localhost:4000/api/sms"

type relayRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type relayError struct {
	Error string `json:"error"`
}

// RelayClient posts messages to a relay endpoint speaking the /api/sms
// contract.
type RelayClient struct {
	url    string
	client *http.Client
}

func NewRelayClient(url string) *RelayClient {
	url = strings.TrimSpace(url)
	if url == "" {
		url = DefaultRelayURL
	}
	return &RelayClient{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *RelayClient) Send(ctx context.Context, to, message string) (Result, error) {
	body, err := json.Marshal(relayRequest{To: to, Message: message})
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var relayErr relayError
		if err := json.NewDecoder(resp.Body).Decode(&relayErr); err != nil || relayErr.Error == "" {
			return Result{}, fmt.Errorf("sms relay returned %d", resp.StatusCode)
		}
		return Result{}, fmt.Errorf("sms relay returned %d: %s", resp.StatusCode, relayErr.Error)
	}

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return Result{}, fmt.Errorf("failed to decode sms relay response: %w", err)
	}
	return res, nil
}
