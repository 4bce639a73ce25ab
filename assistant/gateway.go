// Package assistant sends prompts to a hosted language model and returns its
// text reply, trying each configured model in turn.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-reliefdesk/metrics"

	"github.com/sirupsen/logrus"
)

var (
	ErrNotConfigured = errors.New("assistant API key is not configured")
	errEmptyReply    = errors.New("model returned an empty reply")
)

type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

var DefaultModels = map[Provider][]string{
	ProviderGemini: {"gemini-2.5-flash", "gemini-1.5-flash", "gemini-pro"},
	ProviderOpenAI: {"gpt-4o-mini", "gpt-3.5-turbo"},
}

// Backend generates one reply with one model.
type Backend interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

type Gateway struct {
	backend Backend
	models  []string
	timeout time.Duration
	metrics *metrics.Metrics
}

// NewGateway wraps backend. A nil backend yields a gateway whose every call
// fails with ErrNotConfigured. A zero timeout leaves calls bounded by the
// caller's context only.
func NewGateway(backend Backend, models []string, timeout time.Duration, m *metrics.Metrics) *Gateway {
	return &Gateway{
		backend: backend,
		models:  models,
		timeout: timeout,
		metrics: m,
	}
}

// Generate tries each model in order and returns the first reply. When every
// model fails the last error is returned.
func (g *Gateway) Generate(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.backend == nil {
		return "", ErrNotConfigured
	}
	if len(g.models) == 0 {
		return "", errors.New("no assistant models configured")
	}

	var lastErr error
	for _, model := range g.models {
		text, err := g.try(ctx, model, prompt)
		if err == nil {
			return text, nil
		}
		logrus.WithError(err).Warnf("Model %s failed", model)
		g.metrics.ModelFailure(model)
		lastErr = fmt.Errorf("model %s: %w", model, err)

		if ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}

func (g *Gateway) try(ctx context.Context, model, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	text, err := g.backend.Generate(ctx, model, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errEmptyReply
	}
	return text, nil
}

type Config struct {
	Provider     Provider
	GeminiAPIKey string
	OpenAIAPIKey string
	Models       []string
	Timeout      time.Duration
}

// New builds the gateway for cfg.Provider. A missing API key is not an error
// here; the gateway reports ErrNotConfigured when used.
func New(ctx context.Context, cfg Config, m *metrics.Metrics) (*Gateway, error) {
	provider := Provider(strings.ToLower(string(cfg.Provider)))
	if provider == "" {
		provider = ProviderGemini
	}

	models := cfg.Models
	if len(models) == 0 {
		models = DefaultModels[provider]
	}

	var backend Backend
	switch provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey != "" {
			b, err := NewGeminiBackend(ctx, cfg.GeminiAPIKey)
			if err != nil {
				return nil, err
			}
			backend = b
		}
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey != "" {
			backend = NewOpenAIBackend(cfg.OpenAIAPIKey)
		}
	default:
		return nil, fmt.Errorf("unknown assistant provider %q", cfg.Provider)
	}

	if backend == nil {
		logrus.Warnf("No API key for %s, the assistant will answer with the fallback message", provider)
	}
	return NewGateway(backend, models, cfg.Timeout, m), nil
}
