package completion

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

// openaiService calls the OpenAI Chat Completions API.
type openaiService struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int
}

func newOpenAI(cfg Config) *openaiService {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// Retries are owned by the caller so they can be counted and logged.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &openaiService{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutputTokens,
	}
}

func (s *openaiService) Complete(ctx context.Context, prompt, text string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(BuildPrompt(prompt, text)),
		},
		Temperature: param.NewOpt(s.temperature),
	}
	if s.maxTokens > 0 {
		params.MaxCompletionTokens = param.NewOpt(int64(s.maxTokens))
	}

	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		status := 0
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		return "", classify(ProviderOpenAI, status, err)
	}
	if len(resp.Choices) == 0 {
		return "", emptyResponse(ProviderOpenAI)
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", emptyResponse(ProviderOpenAI)
	}
	return out, nil
}
