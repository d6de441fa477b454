package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// geminiService calls the Google Gemini API.
type geminiService struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func newGemini(ctx context.Context, cfg Config) (*geminiService, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(float32(cfg.Temperature))
	if cfg.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(int32(cfg.MaxOutputTokens))
	}
	return &geminiService{client: client, model: model}, nil
}

func (s *geminiService) Complete(ctx context.Context, prompt, text string) (string, error) {
	resp, err := s.model.GenerateContent(ctx, genai.Text(BuildPrompt(prompt, text)))
	if err != nil {
		return "", classify(ProviderGemini, geminiStatus(err), err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		break
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", emptyResponse(ProviderGemini)
	}
	return out, nil
}

func (s *geminiService) Close() error {
	return s.client.Close()
}

// geminiStatus extracts an HTTP-equivalent status from REST or gRPC errors.
func geminiStatus(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return grpcToHTTP(err)
}

func grpcToHTTP(err error) int {
	st, ok := status.FromError(err)
	if !ok {
		return 0
	}
	switch st.Code() {
	case codes.ResourceExhausted:
		return 429
	case codes.Unauthenticated:
		return 401
	case codes.PermissionDenied:
		return 403
	case codes.Unavailable, codes.Internal:
		return 503
	case codes.InvalidArgument:
		return 400
	}
	return 0
}
