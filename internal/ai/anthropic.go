package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/revuhq/revu/internal/models"
)

// anthropicGen generates reviews through the Anthropic Messages API.
// Claude has no JSON response mode, so fenced output is stripped before
// normalization.
type anthropicGen struct {
	cfg   Config
	model string

	once   sync.Once
	client *anthropic.Client
}

func newAnthropic(cfg Config) *anthropicGen {
	return &anthropicGen{cfg: cfg, model: cfg.ResolvedModel()}
}

func (g *anthropicGen) api() *anthropic.Client {
	g.once.Do(func() {
		opts := []option.RequestOption{
			option.WithAPIKey(g.cfg.APIKey),
			option.WithRequestTimeout(g.cfg.Timeout),
			option.WithMaxRetries(g.cfg.MaxRetries),
		}
		if g.cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(g.cfg.BaseURL))
		}
		c := anthropic.NewClient(opts...)
		g.client = &c
	})
	return g.client
}

func (g *anthropicGen) Generate(ctx context.Context, code, language string) (models.ReviewOutput, error) {
	msg, err := g.api().Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMessage(code, language))),
		},
	})
	if err != nil {
		return models.ReviewOutput{}, fmt.Errorf("anthropic API call: %w", err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if strings.TrimSpace(text) == "" {
		return models.ReviewOutput{}, ErrEmptyResponse
	}

	return Normalize(stripFences(text))
}

// stripFences removes a surrounding markdown code fence if present.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.SplitN(text, "\n", 2)
	if len(lines) > 1 {
		text = lines[1]
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
