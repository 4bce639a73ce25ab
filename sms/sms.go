// Package sms delivers text messages to volunteers, either straight through
// Twilio or through a relay endpoint that does.
package sms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-reliefdesk/types"
)

var (
	ErrNotConfigured = errors.New("twilio not configured")
	ErrMissingFields = errors.New("missing to or message")
)

// Result is the provider's receipt for one message.
type Result struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

type Sender interface {
	Send(ctx context.Context, to, message string) (Result, error)
}

// AssignmentMessage is the text sent to a volunteer after assignment. A nil
// disaster renders as "Disaster".
func AssignmentMessage(d *types.Disaster, location string, resources []types.Resource) string {
	label := "Disaster"
	if d != nil {
		label = fmt.Sprintf("%s (%s)", d.Name, d.Type)
	}
	return fmt.Sprintf("Assignment: %s @ %s. Resources: %s.",
		label, strings.TrimSpace(location), types.FormatResources(resources))
}
