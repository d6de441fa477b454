// Package summarize condenses chunked documents into one summary with a
// map-reduce over a completion service.
package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/pdfdigest/internal/chunker"
	"github.com/dgallion1/pdfdigest/internal/completion"
	"github.com/dgallion1/pdfdigest/internal/document"
)

// Config controls the map and reduce phases.
type Config struct {
	MapPrompt     string
	CombinePrompt string
	Separator     string

	// Concurrency bounds in-flight map requests.
	Concurrency int

	// MaxInputTokens is the prompt budget for a reduce request. Zero
	// disables the check so reduce is always a single request.
	MaxInputTokens int
	// ReduceChunkSize caps collapse pieces in runes. Pieces are cut
	// smaller when needed to keep each request within MaxInputTokens.
	ReduceChunkSize    int
	ReduceChunkOverlap int
	MaxReduceDepth     int

	MaxRetries           int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RequestTimeout       time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MapPrompt:            MapPrompt,
		CombinePrompt:        CombinePrompt,
		Separator:            "\n",
		Concurrency:          4,
		ReduceChunkSize:      8000,
		ReduceChunkOverlap:   0,
		MaxReduceDepth:       3,
		MaxRetries:           3,
		RetryInitialInterval: time.Second,
		RetryMaxInterval:     30 * time.Second,
		RequestTimeout:       120 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MapPrompt == "" {
		c.MapPrompt = def.MapPrompt
	}
	if c.CombinePrompt == "" {
		c.CombinePrompt = def.CombinePrompt
	}
	if c.Separator == "" {
		c.Separator = def.Separator
	}
	if c.Concurrency <= 0 {
		c.Concurrency = def.Concurrency
	}
	if c.ReduceChunkSize <= 0 {
		c.ReduceChunkSize = def.ReduceChunkSize
	}
	if c.ReduceChunkOverlap < 0 || c.ReduceChunkOverlap >= c.ReduceChunkSize {
		c.ReduceChunkOverlap = 0
	}
	if c.MaxReduceDepth <= 0 {
		c.MaxReduceDepth = def.MaxReduceDepth
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryInitialInterval <= 0 {
		c.RetryInitialInterval = def.RetryInitialInterval
	}
	if c.RetryMaxInterval <= 0 {
		c.RetryMaxInterval = def.RetryMaxInterval
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = def.RequestTimeout
	}
	return c
}

// ProgressFunc is called after each map-phase chunk is summarized. It may
// be called from several goroutines at once.
type ProgressFunc func(done, total int)

// Summarizer runs the map-reduce over a completion service.
type Summarizer struct {
	svc     completion.Service
	counter completion.TokenCounter
	cfg     Config
	log     *slog.Logger
}

// New creates a Summarizer. A nil counter falls back to the heuristic
// token estimate.
func New(svc completion.Service, counter completion.TokenCounter, cfg Config, log *slog.Logger) *Summarizer {
	if counter == nil {
		counter = completion.HeuristicCounter
	}
	if log == nil {
		log = slog.Default()
	}
	return &Summarizer{
		svc:     svc,
		counter: counter,
		cfg:     cfg.withDefaults(),
		log:     log,
	}
}

// Summarize returns one summary for chunks. An empty chunk list yields ""
// without calling the completion service.
func (s *Summarizer) Summarize(ctx context.Context, chunks []document.Chunk) (string, error) {
	return s.SummarizeWithProgress(ctx, chunks, nil)
}

// SummarizeWithProgress is Summarize with a per-chunk progress callback.
func (s *Summarizer) SummarizeWithProgress(ctx context.Context, chunks []document.Chunk, progress ProgressFunc) (string, error) {
	if len(chunks) == 0 {
		return "", nil
	}

	start := time.Now()
	partials, err := s.mapChunks(ctx, chunks, s.cfg.MapPrompt, StageMap, 0, progress)
	if err != nil {
		return "", err
	}
	s.log.Info("map phase complete", "chunks", len(chunks), "duration_ms", time.Since(start).Milliseconds())

	summary, err := s.reduce(ctx, partials, 0)
	if err != nil {
		return "", err
	}
	s.log.Info("summary complete", "chunks", len(chunks), "duration_ms", time.Since(start).Milliseconds())
	return summary, nil
}

// mapChunks summarizes every chunk with prompt. Result i belongs to
// chunks[i]. The first failure cancels the remaining requests.
func (s *Summarizer) mapChunks(ctx context.Context, chunks []document.Chunk, prompt string, stage Stage, level int, progress ProgressFunc) ([]string, error) {
	out := make([]string, len(chunks))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, chunk := range chunks {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			summary, err := s.complete(gctx, prompt, chunk.Text, stage, chunk.Index, level)
			if err != nil {
				return &Error{Stage: stage, ChunkIndex: chunk.Index, Level: level, Err: err}
			}
			out[i] = summary
			if progress != nil {
				progress(int(done.Add(1)), len(chunks))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Parent cancellation can stop the loop before any goroutine fails.
	if err := ctx.Err(); err != nil {
		return nil, &Error{Stage: stage, ChunkIndex: -1, Level: level, Err: err}
	}
	return out, nil
}

// reduce combines partials into one summary, collapsing them first when
// they do not fit the input budget.
func (s *Summarizer) reduce(ctx context.Context, partials []string, level int) (string, error) {
	joined := strings.Join(partials, s.cfg.Separator)

	tokens, fits := s.fits(joined)
	if fits {
		summary, err := s.complete(ctx, s.cfg.CombinePrompt, joined, StageReduce, -1, level)
		if err != nil {
			return "", &Error{Stage: StageReduce, ChunkIndex: -1, Level: level, Err: err}
		}
		return summary, nil
	}

	if level >= s.cfg.MaxReduceDepth {
		return "", &Error{
			Stage:      StageReduce,
			ChunkIndex: -1,
			Level:      level,
			Err:        fmt.Errorf("%w: %d tokens after %d collapse passes (limit %d)", ErrReduceInputTooLarge, tokens, level, s.cfg.MaxInputTokens),
		}
	}

	pieces, err := s.splitForCollapse(joined)
	if err != nil {
		return "", &Error{Stage: StageReduce, ChunkIndex: -1, Level: level, Err: err}
	}
	s.log.Info("collapsing partial summaries", "level", level+1, "tokens", tokens, "pieces", len(pieces))

	collapsed, err := s.mapChunks(ctx, pieces, s.cfg.CombinePrompt, StageReduce, level+1, nil)
	if err != nil {
		return "", err
	}
	return s.reduce(ctx, collapsed, level+1)
}

// splitForCollapse cuts text into pieces of at most ReduceChunkSize runes
// whose combine request each fits the input budget. The piece size shrinks
// in proportion to the largest overshoot until every piece fits.
func (s *Summarizer) splitForCollapse(text string) ([]document.Chunk, error) {
	size := min(s.cfg.ReduceChunkSize, utf8.RuneCountInString(text))
	for size > 0 {
		overlap := s.cfg.ReduceChunkOverlap
		if overlap >= size {
			overlap = 0
		}
		pieces, err := chunker.Split(text, size, overlap)
		if err != nil {
			return nil, err
		}
		worst := 0
		for _, p := range pieces {
			if tokens, ok := s.fits(p.Text); !ok && tokens > worst {
				worst = tokens
			}
		}
		if worst == 0 {
			return pieces, nil
		}
		next := size * s.cfg.MaxInputTokens / worst
		if next >= size {
			next = size - 1
		}
		size = next
	}
	prompt, _ := s.fits("")
	return nil, fmt.Errorf("%w: combine prompt alone is %d tokens (limit %d)", ErrReduceInputTooLarge, prompt, s.cfg.MaxInputTokens)
}

// fits reports whether a reduce request over text stays within the input
// budget, along with its token count.
func (s *Summarizer) fits(text string) (int, bool) {
	if s.cfg.MaxInputTokens <= 0 {
		return 0, true
	}
	tokens := s.counter.CountTokens(completion.BuildPrompt(s.cfg.CombinePrompt, text))
	return tokens, tokens <= s.cfg.MaxInputTokens
}
