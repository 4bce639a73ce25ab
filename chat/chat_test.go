package chat

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-reliefdesk/command"
	"go-reliefdesk/db"
	"go-reliefdesk/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStore struct{ *db.MemoryStore }

func (brokenStore) Load(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection reset")
}

type echoInterpreter struct{ seen []string }

func (e *echoInterpreter) Handle(_ context.Context, text string) command.Reply {
	e.seen = append(e.seen, text)
	return command.Reply{Text: "echo: " + text, Outcome: command.OutcomeReply}
}

func loaded(t *testing.T, store db.Store) *Transcript {
	t.Helper()
	tr := NewTranscript(store)
	require.NoError(t, tr.Load(context.Background()))
	return tr
}

func TestLoadStartsWithGreeting(t *testing.T) {
	msgs := loaded(t, db.NewMemoryStore()).Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, types.RoleAssistant, msgs[0].Role)
	assert.Equal(t, Greeting, msgs[0].Text)
	assert.NotEmpty(t, msgs[0].ID)
}

func TestLoadCorruptHistoryResets(t *testing.T) {
	for _, raw := range []string{`{"id": 1`, `{}`, `null`} {
		store := db.NewMemoryStore()
		require.NoError(t, store.Save(context.Background(), db.ChatKey, []byte(raw)))

		msgs := loaded(t, store).Messages()
		require.Len(t, msgs, 1, raw)
		assert.Equal(t, Greeting, msgs[0].Text, raw)
	}
}

func TestLoadDropsMalformedEntries(t *testing.T) {
	store := db.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), db.ChatKey, []byte(`[
		{"id": "a", "role": "user", "text": "hello", "ts": "2025-03-01T12:00:00Z"},
		{"id": "", "role": "user", "text": "no id"},
		{"id": "c", "text": "no role"},
		{"id": "d", "role": "assistant"},
		null,
		{"id": "e", "role": "assistant", "text": ""}
	]`)))

	msgs := loaded(t, store).Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "a", msgs[0].ID)
	assert.Equal(t, "hello", msgs[0].Text)
	assert.Equal(t, "e", msgs[1].ID)
}

func TestLoadKeepsGoodEntriesNextToWrongTypedOnes(t *testing.T) {
	store := db.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), db.ChatKey, []byte(`[
		{"id": "a", "role": "user", "text": "keep me", "ts": "2025-03-01T12:00:00Z"},
		{"id": "b", "role": "user", "text": 5},
		{"id": "c", "role": "assistant", "text": "bad time", "ts": "not a date"},
		{"id": 7, "role": "user", "text": "numeric id"},
		"just a string",
		42
	]`)))

	msgs := loaded(t, store).Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "a", msgs[0].ID)
	assert.Equal(t, "keep me", msgs[0].Text)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), msgs[0].Timestamp.UTC())
	assert.Equal(t, "c", msgs[1].ID)
	assert.True(t, msgs[1].Timestamp.IsZero())
}

func TestLoadEmptyHistoryStaysEmpty(t *testing.T) {
	store := db.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), db.ChatKey, []byte(`[]`)))
	assert.Empty(t, loaded(t, store).Messages())
}

func TestLoadReturnsStoreErrors(t *testing.T) {
	err := NewTranscript(brokenStore{db.NewMemoryStore()}).Load(context.Background())
	assert.Error(t, err)
}

func TestSendAppendsBothMessagesAndPersists(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	in := &echoInterpreter{}
	s := NewSession(loaded(t, store), in)

	ex, err := s.Send(ctx, "  how many boats?  ")
	require.NoError(t, err)
	assert.Equal(t, []string{"how many boats?"}, in.seen)
	assert.Equal(t, types.RoleUser, ex.User.Role)
	assert.Equal(t, "how many boats?", ex.User.Text)
	assert.Equal(t, "echo: how many boats?", ex.Reply.Text)
	assert.Equal(t, command.OutcomeReply, ex.Outcome)
	assert.NotEqual(t, ex.User.ID, ex.Reply.ID)

	require.Len(t, s.Messages(), 3)

	data, err := store.Load(ctx, db.ChatKey)
	require.NoError(t, err)
	var stored []types.ChatMessage
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, s.Messages(), stored)
}

func TestSendRejectsBlankText(t *testing.T) {
	in := &echoInterpreter{}
	s := NewSession(loaded(t, db.NewMemoryStore()), in)

	_, err := s.Send(context.Background(), " \n\t")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, in.seen)
	assert.Len(t, s.Messages(), 1)
}

func TestClearLeavesOnlyGreeting(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	s := NewSession(loaded(t, store), &echoInterpreter{})
	_, err := s.Send(ctx, "hi")
	require.NoError(t, err)

	msgs := s.Clear(ctx)
	require.Len(t, msgs, 1)
	assert.Equal(t, Greeting, msgs[0].Text)

	reloaded := loaded(t, store).Messages()
	require.Len(t, reloaded, 1)
	assert.Equal(t, msgs[0].ID, reloaded[0].ID)
}
