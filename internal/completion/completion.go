// Package completion is the boundary to hosted text-generation APIs. Every
// provider is exposed through Service and reports failures as ServiceError
// values classified into the package's sentinel errors.
package completion

import (
	"context"
	"fmt"
	"io"
	"strings"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_service.go -package=mocks github.com/dgallion1/pdfdigest/internal/completion Service

// Service generates text for a prompt applied to some context text.
type Service interface {
	Complete(ctx context.Context, prompt, text string) (string, error)
}

// Provider names a completion backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// Config selects and parameterizes a provider.
type Config struct {
	Provider        Provider
	Model           string
	Temperature     float64
	MaxInputTokens  int // Prompt budget used by the reduce phase; 0 means unlimited.
	MaxOutputTokens int
	APIKey          string
	BaseURL         string
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(p Provider) string {
	switch p {
	case ProviderAnthropic:
		return "claude-sonnet-4-5-20250929"
	case ProviderGemini:
		return "gemini-1.5-flash"
	default:
		return "gpt-3.5-turbo-16k"
	}
}

// New builds the provider named by cfg.Provider. It fails with
// ErrMissingCredential before any network call when no API key is set.
func New(ctx context.Context, cfg Config) (Service, error) {
	if cfg.Provider == "" {
		cfg.Provider = ProviderOpenAI
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w for provider %s", ErrMissingCredential, cfg.Provider)
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		return newOpenAI(cfg), nil
	case ProviderAnthropic:
		return newAnthropic(cfg), nil
	case ProviderGemini:
		return newGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported completion provider: %q", cfg.Provider)
	}
}

// BuildPrompt renders the request text. A "{text}" placeholder in prompt is
// replaced by text; otherwise text is appended after a separator.
func BuildPrompt(prompt, text string) string {
	if strings.Contains(prompt, "{text}") {
		return strings.ReplaceAll(prompt, "{text}", text)
	}
	var sb strings.Builder
	sb.WriteString(prompt)
	sb.WriteString("\n\n---\n")
	sb.WriteString(text)
	return sb.String()
}

// Close releases provider resources when the service holds any.
func Close(svc Service) error {
	if c, ok := svc.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
