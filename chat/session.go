package chat

import (
	"context"
	"errors"
	"strings"

	"go-reliefdesk/command"
	"go-reliefdesk/types"
)

var ErrEmptyMessage = errors.New("message is empty")

type Interpreter interface {
	Handle(ctx context.Context, text string) command.Reply
}

// Session pairs a transcript with the interpreter that answers it.
type Session struct {
	transcript  *Transcript
	interpreter Interpreter
}

func NewSession(t *Transcript, in Interpreter) *Session {
	return &Session{transcript: t, interpreter: in}
}

type Exchange struct {
	User    types.ChatMessage `json:"user"`
	Reply   types.ChatMessage `json:"reply"`
	Outcome command.Outcome   `json:"outcome"`
}

// Send records the user's message, resolves it and records the reply. The
// user message is stored before the interpreter runs.
func (s *Session) Send(ctx context.Context, text string) (Exchange, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Exchange{}, ErrEmptyMessage
	}

	user := s.transcript.Append(ctx, types.RoleUser, text)
	reply := s.interpreter.Handle(ctx, text)
	bot := s.transcript.Append(ctx, types.RoleAssistant, reply.Text)

	return Exchange{User: user, Reply: bot, Outcome: reply.Outcome}, nil
}

func (s *Session) Messages() []types.ChatMessage {
	return s.transcript.Messages()
}

func (s *Session) Clear(ctx context.Context) []types.ChatMessage {
	return s.transcript.Clear(ctx)
}
