// Package chat keeps the assistant conversation and routes new messages
// through the command interpreter.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-reliefdesk/db"
	"go-reliefdesk/types"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const Greeting = "Hi! I'm your AI Assistant. Ask me about resources, volunteers, or say things like: 'Set water to 100' or 'Set all resources to 50'."

// Transcript is the append-only message log, persisted whole under db.ChatKey.
type Transcript struct {
	mu       sync.Mutex
	store    db.Store
	now      func() time.Time
	messages []types.ChatMessage
}

func NewTranscript(store db.Store) *Transcript {
	return &Transcript{store: store, now: time.Now}
}

// storedMessage tells an absent text apart from an empty one. The timestamp
// is parsed separately so a bad value does not cost the message.
type storedMessage struct {
	ID        string          `json:"id"`
	Role      types.ChatRole  `json:"role"`
	Text      *string         `json:"text"`
	Timestamp json.RawMessage `json:"ts"`
}

// decodeMessage returns false for entries that are not objects or that lack
// an id, a role or a string text. An unparseable ts becomes the zero time.
func decodeMessage(raw json.RawMessage) (types.ChatMessage, bool) {
	var m storedMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return types.ChatMessage{}, false
	}
	if m.ID == "" || m.Role == "" || m.Text == nil {
		return types.ChatMessage{}, false
	}

	msg := types.ChatMessage{ID: m.ID, Role: m.Role, Text: *m.Text}
	if len(m.Timestamp) > 0 {
		var ts time.Time
		if err := json.Unmarshal(m.Timestamp, &ts); err == nil {
			msg.Timestamp = ts
		}
	}
	return msg, true
}

// Load reads the stored transcript. Entries without an id, role or text are
// dropped. An absent or unreadable transcript starts over with the greeting.
func (t *Transcript) Load(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	data, err := t.store.Load(ctx, db.ChatKey)
	if errors.Is(err, db.ErrNotFound) {
		t.messages = []types.ChatMessage{t.greeting()}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load chat transcript: %w", err)
	}

	var stored []json.RawMessage
	if err := json.Unmarshal(data, &stored); err != nil || stored == nil {
		logrus.WithError(err).Warn("Resetting corrupt chat history")
		t.messages = []types.ChatMessage{t.greeting()}
		return nil
	}

	t.messages = make([]types.ChatMessage, 0, len(stored))
	dropped := 0
	for _, raw := range stored {
		msg, ok := decodeMessage(raw)
		if !ok {
			dropped++
			continue
		}
		t.messages = append(t.messages, msg)
	}
	if dropped > 0 {
		logrus.Warnf("Dropped %d malformed chat messages", dropped)
	}
	return nil
}

func (t *Transcript) Messages() []types.ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]types.ChatMessage, len(t.messages))
	copy(out, t.messages)
	return out
}

// Append adds a message with a fresh id and timestamp and persists the log.
func (t *Transcript) Append(ctx context.Context, role types.ChatRole, text string) types.ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()

	msg := t.message(role, text)
	t.messages = append(t.messages, msg)
	t.persist(ctx)
	return msg
}

// Clear drops the history and leaves only a new greeting.
func (t *Transcript) Clear(ctx context.Context) []types.ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.messages = []types.ChatMessage{t.greeting()}
	t.persist(ctx)
	return []types.ChatMessage{t.messages[0]}
}

func (t *Transcript) greeting() types.ChatMessage {
	return t.message(types.RoleAssistant, Greeting)
}

func (t *Transcript) message(role types.ChatRole, text string) types.ChatMessage {
	return types.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: t.now().UTC(),
	}
}

func (t *Transcript) persist(ctx context.Context) {
	data, err := json.Marshal(t.messages)
	if err != nil {
		logrus.WithError(err).Error("Failed to encode chat transcript")
		return
	}
	if err := t.store.Save(ctx, db.ChatKey, data); err != nil {
		logrus.WithError(err).Error("Failed to save chat transcript")
	}
}
