package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/pdfdigest/internal/completion"
	"github.com/dgallion1/pdfdigest/internal/config"
	"github.com/dgallion1/pdfdigest/internal/parser"
	"github.com/dgallion1/pdfdigest/internal/summarize"
)

// FromConfig builds the completion client and the pipeline on top of it.
// The returned client carries the latency stats and must be closed with
// completion.Close when the caller is done.
func FromConfig(ctx context.Context, cfg config.Config, log *slog.Logger) (*Pipeline, *completion.Instrumented, error) {
	ccfg := cfg.Completion()
	svc, err := completion.New(ctx, ccfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create completion client: %w", err)
	}
	limited, llm := instrument(svc, ccfg.Model, cfg.LLMRateLimit)

	counter := completion.NewTokenCounter(ccfg.Provider, ccfg.Model)
	s := summarize.New(limited, counter, cfg.Summarize(), log)

	p, err := New(cfg.Chunking(), s, parser.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext}, log)
	if err != nil {
		completion.Close(limited)
		return nil, nil, err
	}
	log.Info("pipeline ready",
		"provider", ccfg.Provider,
		"model", ccfg.Model,
		"chunk_size", cfg.ChunkSize,
		"overlap", cfg.ChunkOverlap,
		"max_input_tokens", ccfg.MaxInputTokens,
	)
	return p, llm, nil
}

// instrument wraps svc with latency stats and then with a rate limiter of
// perSecond requests. Stats record provider time only; limiter waits are
// not counted.
func instrument(svc completion.Service, model string, perSecond float64) (completion.Service, *completion.Instrumented) {
	llm := completion.WithStats(svc, model, completion.NewLLMStats(time.Hour))
	return completion.WithRateLimit(llm, completion.NewLimiter(perSecond, 1)), llm
}

// OrchestratorConfigFrom maps server settings onto the orchestrator.
func OrchestratorConfigFrom(cfg config.Config) OrchestratorConfig {
	return OrchestratorConfig{
		WorkerCount:  cfg.WorkerCount,
		MaxQueueSize: cfg.MaxQueueSize,
		JobTTL:       cfg.JobTTL,
	}
}
