// Package ai wraps the external completion providers that generate code
// reviews. The rest of the application only sees the Generator interface.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/revuhq/revu/internal/models"
)

var (
	// ErrConfiguration means the adapter cannot be built from the given
	// configuration. Detected before any network I/O.
	ErrConfiguration = errors.New("ai configuration error")

	// ErrEmptyResponse means the provider answered with no usable content.
	ErrEmptyResponse = errors.New("ai provider returned empty response")

	// ErrMalformedResponse means the provider content did not parse as a
	// JSON object.
	ErrMalformedResponse = errors.New("ai response is not valid JSON")
)

const (
	// DefaultBaseURL is an OpenAI-compatible completions endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1"

	// DefaultModel is the supported default model identifier.
	DefaultModel = "llama3-8b"

	// DefaultTimeout bounds a single completion request.
	DefaultTimeout = 120 * time.Second
)

// deprecatedModels maps known-removed identifiers that must not be sent
// upstream. A configured deprecated model is silently substituted rather
// than failing the request.
var deprecatedModels = map[string]bool{
	"llama3-8b-8192": true,
}

// Config holds everything needed to construct a Generator. It is explicit
// by design: two adapters built from equal Configs behave identically.
type Config struct {
	Provider      string // "openai" (default) or "anthropic"
	APIKey        string
	BaseURL       string
	Model         string
	FallbackModel string
	Timeout       time.Duration
	MaxRetries    int
}

// ResolvedModel applies the model-name resolution order: explicit override,
// then the default; a known-deprecated override is replaced by the fallback
// (or the default when no fallback is configured) instead of failing.
func (c Config) ResolvedModel() string {
	m := c.Model
	if m == "" {
		m = DefaultModel
	}
	if deprecatedModels[m] {
		if c.FallbackModel != "" {
			return c.FallbackModel
		}
		return DefaultModel
	}
	return m
}

// Generator produces a fully populated review for one code submission.
// Implementations issue exactly one upstream request per call unless
// retries are explicitly configured.
type Generator interface {
	Generate(ctx context.Context, code, language string) (models.ReviewOutput, error)
}

// New builds the Generator selected by cfg.Provider. A missing API key is
// rejected here so the failure surfaces at startup, not on first request.
func New(cfg Config) (Generator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: api key is not set", ErrConfiguration)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	switch cfg.Provider {
	case "", "openai":
		return newOpenAI(cfg), nil
	case "anthropic":
		return newAnthropic(cfg), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrConfiguration, cfg.Provider)
	}
}
