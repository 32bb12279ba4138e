package ai

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/doeshing/voco/internal/domain"
	"github.com/doeshing/voco/internal/ports"
)

var errNoChoices = errors.New("no choices in response")

// openaiProvider talks to any OpenAI-compatible chat-completions endpoint
// through the official SDK.
type openaiProvider struct {
	model  domain.ModelDefinition
	client openai.Client
}

func newOpenAIProvider(model domain.ModelDefinition) ports.Provider {
	opts := []option.RequestOption{
		option.WithHTTPClient(&http.Client{Timeout: domain.DefaultRequestTimeout}),
	}
	if key := resolveAuth(model.AuthEnvVar, "OPENAI_API_KEY"); key != "" {
		opts = append(opts, option.WithAPIKey(key))
	}
	if model.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(model.Endpoint))
	}

	return &openaiProvider{
		model:  model,
		client: openai.NewClient(opts...),
	}
}

func (p *openaiProvider) Name() string {
	return "openai"
}

func (p *openaiProvider) Model() domain.ModelDefinition {
	return p.model
}

func (p *openaiProvider) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    openai.ChatModel(p.model.ModelID),
	}
	if p.model.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(p.model.MaxTokens))
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", &domain.EndpointError{Endpoint: p.model.Endpoint, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &domain.EndpointError{Endpoint: p.model.Endpoint, Err: errNoChoices}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func resolveAuth(primary string, fallback string) string {
	if primary != "" {
		if value := os.Getenv(primary); value != "" {
			return value
		}
	}
	if fallback == "" {
		return ""
	}
	return os.Getenv(fallback)
}

var _ ports.Provider = (*openaiProvider)(nil)
