// Package pipeline turns documents into summaries: parse, chunk, then
// map-reduce summarize. It runs synchronously for the command line and as
// queued jobs for the HTTP server.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/pdfdigest/internal/chunker"
	"github.com/dgallion1/pdfdigest/internal/document"
	"github.com/dgallion1/pdfdigest/internal/parser"
	"github.com/dgallion1/pdfdigest/internal/summarize"
)

// Observer receives progress from SummarizeDocument. Summarized may be
// called from several goroutines at once.
type Observer interface {
	Chunked(total int)
	Summarized(done, total int)
}

// Pipeline chains the parser, chunker and summarizer.
type Pipeline struct {
	chunking   chunker.Config
	summarizer *summarize.Summarizer
	parserOpts parser.Options
	log        *slog.Logger
}

// New creates a Pipeline. The chunking config is validated here so a bad
// CHUNK_SIZE fails before any file is read.
func New(chunking chunker.Config, summarizer *summarize.Summarizer, opts parser.Options, log *slog.Logger) (*Pipeline, error) {
	if err := chunking.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		chunking:   chunking,
		summarizer: summarizer,
		parserOpts: opts,
		log:        log,
	}, nil
}

// WithChunking returns a copy of p that splits with cfg.
func (p *Pipeline) WithChunking(cfg chunker.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cp := *p
	cp.chunking = cfg
	return &cp, nil
}

// Chunking returns the chunker settings in use.
func (p *Pipeline) Chunking() chunker.Config {
	return p.chunking
}

// ParserOptions returns the options passed to format parsers.
func (p *Pipeline) ParserOptions() parser.Options {
	return p.parserOpts
}

// SummarizeFile extracts the PDF at path and summarizes it.
func (p *Pipeline) SummarizeFile(ctx context.Context, path string) (string, error) {
	start := time.Now()
	doc, err := parser.OpenPDF(path, p.parserOpts)
	if err != nil {
		return "", fmt.Errorf("error processing PDF: %w", err)
	}
	p.log.Info("extracted pdf", "path", path, "title", doc.Title, "pages", len(doc.Pages()))

	summary, err := p.SummarizeDocument(ctx, doc, nil)
	if err != nil {
		return "", fmt.Errorf("error processing PDF: %w", err)
	}
	p.log.Info("pdf summarized", "path", path, "duration_ms", time.Since(start).Milliseconds())
	return summary, nil
}

// SummarizeDocument chunks doc and summarizes the chunks. A document with
// no text yields "" without calling the completion service. obs may be nil.
func (p *Pipeline) SummarizeDocument(ctx context.Context, doc *document.Document, obs Observer) (string, error) {
	chunks, err := p.chunking.Split(doc.Text())
	if err != nil {
		return "", err
	}
	largest := 0
	for _, c := range chunks {
		largest = max(largest, c.Len())
	}
	p.log.Info("chunked document", "title", doc.Title, "chunks", len(chunks), "largest_chunk", largest,
		"chunk_size", p.chunking.ChunkSize, "overlap", p.chunking.ChunkOverlap)

	var progress summarize.ProgressFunc
	if obs != nil {
		obs.Chunked(len(chunks))
		progress = obs.Summarized
	}
	return p.summarizer.SummarizeWithProgress(ctx, chunks, progress)
}
