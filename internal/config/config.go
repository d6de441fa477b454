// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/dgallion1/pdfdigest/internal/chunker"
	"github.com/dgallion1/pdfdigest/internal/completion"
	"github.com/dgallion1/pdfdigest/internal/summarize"
)

var (
	// ErrMissingCredential means the selected provider has no API key.
	ErrMissingCredential = completion.ErrMissingCredential
	// ErrInvalid means a setting is out of range.
	ErrInvalid = errors.New("invalid configuration")
)

type Config struct {
	// Completion provider
	LLMProvider        string  `validate:"oneof=openai anthropic gemini"`
	LLMModel           string  `validate:"required"`
	LLMTemperature     float64 `validate:"gte=0,lte=2"`
	LLMMaxInputTokens  int     `validate:"gte=0"`
	LLMMaxOutputTokens int     `validate:"gte=0"`
	LLMBaseURL         string  `validate:"omitempty,url"`
	LLMRateLimit       float64 `validate:"gte=0"`
	LLMRequestTimeout  time.Duration

	OpenAIAPIKey    string
	AnthropicAPIKey string
	GeminiAPIKey    string

	// Chunking
	ChunkSize    int `validate:"gt=0"`
	ChunkOverlap int `validate:"gte=0,ltfield=ChunkSize"`

	// Summarization
	SummaryConcurrency    int `validate:"gte=1"`
	SummaryMaxRetries     int `validate:"gte=0"`
	SummaryMaxReduceDepth int `validate:"gte=1"`

	// PDF
	PDFFallbackPdftotext bool

	// Server
	Port            string
	PdfdigestAPIKey string
	WorkerCount     int   `validate:"gte=1"`
	MaxQueueSize    int   `validate:"gte=1"`
	MaxUploadBytes  int64 `validate:"gt=0"`
	JobTTL          time.Duration

	// Observability
	LogLevel     string `validate:"oneof=debug info warn error"`
	LogFormat    string `validate:"oneof=text json"`
	OTelEnabled  bool
	OTelEndpoint string
}

// Load reads configuration from the environment. A .env file in the
// working directory or one of its parents is loaded first; variables
// already set take precedence.
func Load() Config {
	loadDotEnv()

	provider := strings.ToLower(envOr("LLM_PROVIDER", string(completion.ProviderOpenAI)))
	model := envOr("LLM_MODEL", completion.DefaultModel(completion.Provider(provider)))
	maxOutput := envInt("LLM_MAX_OUTPUT_TOKENS", 0)

	cfg := Config{
		LLMProvider:        provider,
		LLMModel:           model,
		LLMTemperature:     envFloat("LLM_TEMPERATURE", 0),
		LLMMaxInputTokens:  envInt("LLM_MAX_INPUT_TOKENS", completion.DefaultMaxInputTokens(model, maxOutput)),
		LLMMaxOutputTokens: maxOutput,
		LLMBaseURL:         os.Getenv("LLM_BASE_URL"),
		LLMRateLimit:       envFloat("LLM_RATE_LIMIT", 0),
		LLMRequestTimeout:  envDuration("LLM_REQUEST_TIMEOUT", 120*time.Second),

		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),

		ChunkSize:    envInt("CHUNK_SIZE", chunker.DefaultConfig().ChunkSize),
		ChunkOverlap: envInt("CHUNK_OVERLAP", chunker.DefaultConfig().ChunkOverlap),

		SummaryConcurrency:    envInt("SUMMARY_CONCURRENCY", summarize.DefaultConfig().Concurrency),
		SummaryMaxRetries:     envInt("SUMMARY_MAX_RETRIES", summarize.DefaultConfig().MaxRetries),
		SummaryMaxReduceDepth: envInt("SUMMARY_MAX_REDUCE_DEPTH", summarize.DefaultConfig().MaxReduceDepth),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		Port:            envOr("PORT", "8090"),
		PdfdigestAPIKey: os.Getenv("PDFDIGEST_API_KEY"),
		WorkerCount:     envInt("WORKER_COUNT", 2),
		MaxQueueSize:    envInt("MAX_QUEUE_SIZE", 100),
		MaxUploadBytes:  envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB
		JobTTL:          envDuration("JOB_TTL", 1*time.Hour),

		LogLevel:     strings.ToLower(envOr("LOG_LEVEL", "info")),
		LogFormat:    strings.ToLower(envOr("LOG_FORMAT", "text")),
		OTelEnabled:  envBool("OTEL_ENABLED", false),
		OTelEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if cfg.LLMRequestTimeout <= 0 {
		cfg.LLMRequestTimeout = 120 * time.Second
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	return cfg
}

var validate = validator.New()

// Validate checks the settings needed to summarize. A missing provider key
// is reported as ErrMissingCredential.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey()) == "" {
		return fmt.Errorf("%w! Please add your API key to the .env file:\n%s=your_api_key_here",
			ErrMissingCredential, c.apiKeyVar())
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, describe(err))
	}
	return nil
}

// ValidateServer runs Validate and also requires the HTTP API key.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.PdfdigestAPIKey == "" {
		return fmt.Errorf("%w: PDFDIGEST_API_KEY is required", ErrInvalid)
	}
	return nil
}

// APIKey returns the key for the selected provider.
func (c Config) APIKey() string {
	switch completion.Provider(c.LLMProvider) {
	case completion.ProviderAnthropic:
		return c.AnthropicAPIKey
	case completion.ProviderGemini:
		return c.GeminiAPIKey
	default:
		return c.OpenAIAPIKey
	}
}

func (c Config) apiKeyVar() string {
	switch completion.Provider(c.LLMProvider) {
	case completion.ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case completion.ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// Completion returns the provider settings.
func (c Config) Completion() completion.Config {
	return completion.Config{
		Provider:        completion.Provider(c.LLMProvider),
		Model:           c.LLMModel,
		Temperature:     c.LLMTemperature,
		MaxInputTokens:  c.LLMMaxInputTokens,
		MaxOutputTokens: c.LLMMaxOutputTokens,
		APIKey:          c.APIKey(),
		BaseURL:         c.LLMBaseURL,
	}
}

// Chunking returns the chunker settings.
func (c Config) Chunking() chunker.Config {
	return chunker.Config{ChunkSize: c.ChunkSize, ChunkOverlap: c.ChunkOverlap}
}

// Summarize returns the summarizer settings.
func (c Config) Summarize() summarize.Config {
	cfg := summarize.DefaultConfig()
	cfg.Concurrency = c.SummaryConcurrency
	cfg.MaxRetries = c.SummaryMaxRetries
	cfg.MaxReduceDepth = c.SummaryMaxReduceDepth
	cfg.MaxInputTokens = c.LLMMaxInputTokens
	cfg.RequestTimeout = c.LLMRequestTimeout
	return cfg
}

// SlogLevel maps LogLevel to a slog level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger from LogLevel and LogFormat.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// describe flattens validator errors into one readable message.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s (got %v)", fe.Field(), fe.Tag(), fe.Value()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// loadDotEnv loads the nearest .env walking up from the working directory.
func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for range 5 {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
