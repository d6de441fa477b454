package completion

import (
	"github.com/pkoukk/tiktoken-go"

	"github.com/dgallion1/pdfdigest/internal/chunker"
)

// TokenCounter measures text in model tokens.
type TokenCounter interface {
	CountTokens(text string) int
}

// TokenCounterFunc adapts a function to TokenCounter.
type TokenCounterFunc func(text string) int

func (f TokenCounterFunc) CountTokens(text string) int { return f(text) }

// HeuristicCounter estimates tokens from word and character counts.
var HeuristicCounter TokenCounter = TokenCounterFunc(chunker.EstimateTokens)

type tiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func (c *tiktokenCounter) CountTokens(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// NewTokenCounter returns an exact BPE counter for OpenAI models and the
// heuristic counter for other providers or when no encoding is available.
func NewTokenCounter(provider Provider, model string) TokenCounter {
	if provider != ProviderOpenAI && provider != "" {
		return HeuristicCounter
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
	}
	if err != nil {
		return HeuristicCounter
	}
	return &tiktokenCounter{enc: enc}
}

// DefaultOutputReserve is held back from a model's context window for the
// completion when no output limit is configured.
const DefaultOutputReserve = 1024

// ContextWindow returns the total token window of well-known models, or 0.
func ContextWindow(model string) int {
	switch model {
	case "gpt-3.5-turbo-16k":
		return 16385
	case "gpt-3.5-turbo":
		return 4096
	case "gpt-4":
		return 8192
	}
	return 0
}

// DefaultMaxInputTokens is the prompt budget for well-known models: the
// context window minus room for maxOutputTokens of completion
// (DefaultOutputReserve when unset). Unknown models return 0.
func DefaultMaxInputTokens(model string, maxOutputTokens int) int {
	window := ContextWindow(model)
	if window == 0 {
		return 0
	}
	reserve := maxOutputTokens
	if reserve <= 0 {
		reserve = DefaultOutputReserve
	}
	return window - min(reserve, window/2)
}
