package command

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go-reliefdesk/db"
	"go-reliefdesk/state"
	"go-reliefdesk/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssistant struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeAssistant) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func newState(t *testing.T) (*state.Manager, types.Disaster) {
	t.Helper()
	ctx := context.Background()
	m := state.New(db.NewMemoryStore())
	d, err := m.AddDisaster(ctx, types.NewDisaster{Type: types.Wildfire, Name: "Ridge Fire"})
	require.NoError(t, err)
	return m, d
}

func resources(t *testing.T, m *state.Manager, id string) []types.Resource {
	t.Helper()
	d, ok := m.DisasterByID(id)
	require.True(t, ok)
	return d.Resources
}

func TestDirectSingleUpdateSkipsAssistant(t *testing.T) {
	m, d := newState(t)
	ai := &fakeAssistant{}
	in := New(m, ai, nil)

	reply := in.Handle(context.Background(), "Set water to 50")
	assert.Equal(t, OutcomeDirect, reply.Outcome)
	assert.Equal(t, "Updated water to 50 for Ridge Fire.", reply.Text)
	assert.Empty(t, ai.prompts)

	for _, r := range resources(t, m, d.ID) {
		if r.Name == "Water" {
			assert.Equal(t, 50, r.Quantity)
			assert.Equal(t, 50, r.Stock)
		} else {
			assert.Equal(t, 10, r.Quantity, r.Name)
		}
	}
}

func TestDirectBulkUpdate(t *testing.T) {
	m, d := newState(t)
	in := New(m, &fakeAssistant{}, nil)

	reply := in.Handle(context.Background(), "Set all resources to 0")
	assert.Equal(t, "Updated all resources to 0 for Ridge Fire.", reply.Text)
	for _, r := range resources(t, m, d.ID) {
		assert.Equal(t, 0, r.Quantity)
		assert.Equal(t, 0, r.Stock)
	}
}

func TestAssistantActionIsApplied(t *testing.T) {
	m, d := newState(t)
	ai := &fakeAssistant{reply: `[ACTION] UPDATE_RESOURCE(resourceName: "blankets", newQuantity: 75)`}
	in := New(m, ai, nil)

	reply := in.Handle(context.Background(), "We just received a big delivery of blankets, seventy five in total")
	assert.Equal(t, OutcomeAction, reply.Outcome)
	assert.Equal(t, "Updated blankets to 75 for Ridge Fire.", reply.Text)
	require.Len(t, ai.prompts, 1)
	assert.Contains(t, ai.prompts[0], "Active Disaster: Ridge Fire")
	assert.Contains(t, ai.prompts[0], "Volunteers: 0")

	rs := resources(t, m, d.ID)
	assert.Equal(t, 75, rs[3].Quantity)
	assert.Equal(t, "Blankets", rs[3].Name)
}

func TestAssistantBulkAction(t *testing.T) {
	m, d := newState(t)
	in := New(m, &fakeAssistant{reply: "[ACTION] UPDATE_ALL_RESOURCES(newQuantity: 30)"}, nil)

	reply := in.Handle(context.Background(), "restock everything to thirty")
	assert.Equal(t, OutcomeAction, reply.Outcome)
	for _, r := range resources(t, m, d.ID) {
		assert.Equal(t, 30, r.Quantity)
	}
}

func TestAssistantProseIsEchoed(t *testing.T) {
	m, d := newState(t)
	before := resources(t, m, d.ID)
	in := New(m, &fakeAssistant{reply: "Water is at 10 units."}, nil)

	reply := in.Handle(context.Background(), "how much water?")
	assert.Equal(t, OutcomeReply, reply.Outcome)
	assert.Equal(t, "Water is at 10 units.", reply.Text)
	assert.Equal(t, before, resources(t, m, d.ID))
}

func TestUnreachableAssistantFallsBack(t *testing.T) {
	m, d := newState(t)
	before := resources(t, m, d.ID)

	for name, ai := range map[string]Assistant{
		"error": &fakeAssistant{err: errors.New("all models failed")},
		"nil":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			reply := New(m, ai, nil).Handle(context.Background(), "asdkjasd")
			assert.Equal(t, OutcomeError, reply.Outcome)
			assert.Equal(t, FallbackMessage, reply.Text)
			assert.Equal(t, before, resources(t, m, d.ID))
		})
	}
}

func TestNoActiveDisaster(t *testing.T) {
	ctx := context.Background()
	m := state.New(db.NewMemoryStore())
	ai := &fakeAssistant{reply: "[ACTION] UPDATE_ALL_RESOURCES(newQuantity: 1)"}

	reply := New(m, ai, nil).Handle(ctx, "Set all resources to 5")
	assert.Equal(t, OutcomeNoActive, reply.Outcome)
	assert.Equal(t, NoActiveDisasterMessage, reply.Text)
	assert.Empty(t, ai.prompts)
}

func TestMalformedQuantityFallsThroughToAssistant(t *testing.T) {
	m, _ := newState(t)
	ai := &fakeAssistant{reply: "Which quantity did you mean?"}

	reply := New(m, ai, nil).Handle(context.Background(), "set water to 99999999999999999999999")
	assert.Equal(t, OutcomeReply, reply.Outcome)
	assert.Len(t, ai.prompts, 1)
}

// racingState adds a resource right after every read of the active
// disaster, standing in for other requests landing mid-command.
type racingState struct {
	*state.Manager
	t     *testing.T
	added []string
}

func (r *racingState) ActiveDisaster() (types.Disaster, bool) {
	d, ok := r.Manager.ActiveDisaster()
	if ok {
		name := fmt.Sprintf("Generators %d", len(r.added)+1)
		_, err := r.Manager.AddResource(context.Background(), d.ID, name, 3)
		require.NoError(r.t, err)
		r.added = append(r.added, name)
	}
	return d, ok
}

func TestDirectUpdateKeepsResourcesAddedMeanwhile(t *testing.T) {
	m, d := newState(t)
	racing := &racingState{Manager: m, t: t}
	in := New(racing, &fakeAssistant{}, nil)

	reply := in.Handle(context.Background(), "Set water to 50")
	assert.Equal(t, "Updated water to 50 for Ridge Fire.", reply.Text)
	require.NotEmpty(t, racing.added)

	quantities := map[string]int{}
	for _, r := range resources(t, m, d.ID) {
		quantities[r.Name] = r.Quantity
	}
	assert.Equal(t, 50, quantities["Water"])
	for _, name := range racing.added {
		assert.Equal(t, 3, quantities[name], name)
	}
}
