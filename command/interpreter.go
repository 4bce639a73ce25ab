// Package command turns free text into resource updates on the active
// disaster, first by matching the text itself and then by asking the
// assistant and matching its reply.
package command

import (
	"context"
	"errors"

	"go-reliefdesk/metrics"
	"go-reliefdesk/types"

	"github.com/sirupsen/logrus"
)

const (
	NoActiveDisasterMessage = "Please create/select a disaster in Disaster Setup first, then ask me to manage resources."
	FallbackMessage         = "Sorry, I could not reach the AI right now. Please check your API key and try again."
)

var errNoAssistant = errors.New("assistant not configured")

// Outcome says how a message was resolved.
type Outcome string

const (
	OutcomeNoActive Outcome = "no_active_disaster"
	OutcomeDirect   Outcome = "direct"
	OutcomeAction   Outcome = "action"
	OutcomeReply    Outcome = "reply"
	OutcomeError    Outcome = "error"
)

type State interface {
	ActiveDisaster() (types.Disaster, bool)
	ApplyToActive(ctx context.Context, fn func([]types.Resource) []types.Resource) (types.Disaster, error)
	VolunteerCount() int
}

type Assistant interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Reply struct {
	Text    string  `json:"text"`
	Outcome Outcome `json:"outcome"`
	Intent  *Intent `json:"-"`
}

type Interpreter struct {
	state     State
	assistant Assistant
	metrics   *metrics.Metrics
}

// New builds an interpreter. A nil assistant behaves like an unreachable one.
func New(state State, assistant Assistant, m *metrics.Metrics) *Interpreter {
	return &Interpreter{state: state, assistant: assistant, metrics: m}
}

// Handle resolves one user message. It never returns an error: assistant
// failures become FallbackMessage.
//
// The assistant call is bounded by ctx only. An action in a late reply is
// applied to whichever disaster is active when the reply arrives.
func (in *Interpreter) Handle(ctx context.Context, text string) Reply {
	reply := in.handle(ctx, text)
	in.metrics.Command(string(reply.Outcome))
	return reply
}

func (in *Interpreter) handle(ctx context.Context, text string) Reply {
	active, ok := in.state.ActiveDisaster()
	if !ok {
		return Reply{Text: NoActiveDisasterMessage, Outcome: OutcomeNoActive}
	}

	if intent := ParseDirect(text); intent.Matched() {
		if r, ok := in.apply(ctx, intent); ok {
			r.Outcome = OutcomeDirect
			return r
		}
	}

	if in.assistant == nil {
		logrus.WithError(errNoAssistant).Warn("Assistant error")
		return Reply{Text: FallbackMessage, Outcome: OutcomeError}
	}

	prompt := BuildPrompt(&active, in.state.VolunteerCount(), text)
	answer, err := in.assistant.Generate(ctx, prompt)
	if err != nil {
		logrus.WithError(err).Warn("Assistant error")
		return Reply{Text: FallbackMessage, Outcome: OutcomeError}
	}

	if intent := ParseAction(answer); intent.Matched() {
		if r, ok := in.apply(ctx, intent); ok {
			r.Outcome = OutcomeAction
			return r
		}
	}
	return Reply{Text: answer, Outcome: OutcomeReply}
}

// apply updates whichever disaster is active when it runs, in one state operation.
func (in *Interpreter) apply(ctx context.Context, intent Intent) (Reply, bool) {
	updated, err := in.state.ApplyToActive(ctx, intent.Apply)
	if err != nil {
		logrus.WithError(err).Warnf("Failed to apply %s", intent.Kind)
		return Reply{}, false
	}
	return Reply{Text: intent.Confirmation(updated.DisplayName()), Intent: &intent}, true
}
