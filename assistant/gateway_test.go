package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-reliefdesk/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedBackend struct {
	replies  map[string]string
	errs     map[string]error
	calls    []string
	deadline bool
}

func (b *scriptedBackend) Generate(ctx context.Context, model, _ string) (string, error) {
	b.calls = append(b.calls, model)
	if _, ok := ctx.Deadline(); ok {
		b.deadline = true
	}
	if err := b.errs[model]; err != nil {
		return "", err
	}
	return b.replies[model], nil
}

func TestGenerateReturnsFirstSuccess(t *testing.T) {
	b := &scriptedBackend{
		replies: map[string]string{"b": "from b", "c": "from c"},
		errs:    map[string]error{"a": errors.New("404 model not found")},
	}
	m := metrics.New()
	g := NewGateway(b, []string{"a", "b", "c"}, 0, m)

	text, err := g.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "from b", text)
	assert.Equal(t, []string{"a", "b"}, b.calls)
	assert.False(t, b.deadline)
	n, err := testutil.GatherAndCount(m.Registry(), "relief_assistant_model_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGenerateSurfacesLastError(t *testing.T) {
	last := errors.New("quota exceeded")
	b := &scriptedBackend{errs: map[string]error{
		"a": errors.New("unavailable"),
		"b": last,
	}}
	g := NewGateway(b, []string{"a", "b"}, 0, nil)

	_, err := g.Generate(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, last)
	assert.Contains(t, err.Error(), "model b")
}

func TestGenerateTreatsBlankReplyAsFailure(t *testing.T) {
	b := &scriptedBackend{replies: map[string]string{"a": "  ", "b": "ok"}}
	g := NewGateway(b, []string{"a", "b"}, 0, nil)

	text, err := g.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestGenerateAppliesTimeout(t *testing.T) {
	b := &scriptedBackend{replies: map[string]string{"a": "ok"}}
	g := NewGateway(b, []string{"a"}, time.Second, nil)

	_, err := g.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.True(t, b.deadline)
}

func TestGenerateStopsWhenContextIsDone(t *testing.T) {
	b := &scriptedBackend{errs: map[string]error{"a": context.Canceled, "b": context.Canceled}}
	g := NewGateway(b, []string{"a", "b"}, 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Generate(ctx, "hello")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"a"}, b.calls)
}

func TestGenerateWithoutBackend(t *testing.T) {
	_, err := NewGateway(nil, []string{"a"}, 0, nil).Generate(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotConfigured)

	var g *Gateway
	_, err = g.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewWithoutKeyUsesDefaults(t *testing.T) {
	g, err := New(context.Background(), Config{Provider: "OpenAI"}, nil)
	require.NoError(t, err)
	assert.Nil(t, g.backend)
	assert.Equal(t, DefaultModels[ProviderOpenAI], g.models)

	g, err = New(context.Background(), Config{Models: []string{"custom"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"custom"}, g.models)

	_, err = New(context.Background(), Config{Provider: "claude"}, nil)
	assert.Error(t, err)
}
