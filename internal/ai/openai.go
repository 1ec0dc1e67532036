package ai

import (
	"context"
	"fmt"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/revuhq/revu/internal/models"
)

// openAI talks to any OpenAI-compatible chat-completions endpoint (Groq,
// OpenAI itself, local gateways). It is the default provider.
type openAI struct {
	cfg   Config
	model string

	once   sync.Once
	client *openai.Client
}

func newOpenAI(cfg Config) *openAI {
	return &openAI{cfg: cfg, model: cfg.ResolvedModel()}
}

// api builds the SDK client on first use. Construction is deterministic
// from the config, so racing first callers observe an equivalent client.
func (g *openAI) api() *openai.Client {
	g.once.Do(func() {
		baseURL := g.cfg.BaseURL
		if baseURL == "" {
			baseURL = DefaultBaseURL
		}
		c := openai.NewClient(
			option.WithAPIKey(g.cfg.APIKey),
			option.WithBaseURL(baseURL),
			option.WithRequestTimeout(g.cfg.Timeout),
			option.WithMaxRetries(g.cfg.MaxRetries),
		)
		g.client = &c
	})
	return g.client
}

func (g *openAI) Generate(ctx context.Context, code, language string) (models.ReviewOutput, error) {
	completion, err := g.api().Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userMessage(code, language)),
		},
		Temperature: openai.Float(0.2),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return models.ReviewOutput{}, fmt.Errorf("chat completion: %w", err)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return models.ReviewOutput{}, ErrEmptyResponse
	}

	return Normalize(completion.Choices[0].Message.Content)
}
