package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/pdfdigest/internal/parser"
	"github.com/dgallion1/pdfdigest/internal/summarize"
)

// Worker processes a single summarization job.
type Worker struct {
	pipeline *Pipeline
	jobs     *JobStore
	log      *slog.Logger
}

func NewWorker(p *Pipeline, jobs *JobStore, log *slog.Logger) *Worker {
	return &Worker{
		pipeline: p,
		jobs:     jobs,
		log:      log,
	}
}

// Process runs parse, chunk and summarize for a job, recording progress
// and the outcome on the job itself.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename, w.pipeline.ParserOptions())
	if err != nil {
		w.fail(log, job, "parsing", "unsupported format", err)
		return
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	job.releaseFileData()
	if err != nil {
		w.fail(log, job, "parsing", "parse failed", fmt.Errorf("parse: %w", err))
		return
	}
	if job.Title != "" {
		doc.Title = job.Title
	}

	text := doc.Text()
	job.SetContentHash(ContentHashHex([]byte(text)))

	// Phase 1.5: Reuse a retained summary of identical content.
	if prev := w.jobs.FindCompleted(job.ContentHash, job.Chunking()); prev != nil && prev != job {
		log.Info("identical content already summarized", "cached_from", prev.ID)
		job.CompleteFromCache(prev)
		return
	}

	// Phase 2: Chunk and summarize
	job.SetStatus(StatusChunking, "chunking")
	pl, err := w.pipeline.WithChunking(job.Chunking())
	if err != nil {
		w.fail(log, job, "chunking", "invalid chunking", err)
		return
	}

	summary, err := pl.SummarizeDocument(ctx, doc, job)
	if err != nil {
		phase := "summarizing"
		var serr *summarize.Error
		if errors.As(err, &serr) {
			phase = "summarizing_" + string(serr.Stage)
		}
		w.fail(log, job, phase, "summarization failed", err)
		return
	}
	if job.Snapshot().Progress.TotalChunks == 0 {
		w.fail(log, job, "chunking", "no chunks produced", errors.New("no extractable content"))
		return
	}

	job.Complete(summary)
	log.Info("job completed", "chunks", job.Snapshot().Progress.TotalChunks, "summary_chars", len(summary))
}

func (w *Worker) fail(log *slog.Logger, job *Job, phase, msg string, err error) {
	log.Error(msg, "phase", phase, "error", err)
	job.AddError(err.Error())
	job.SetStatus(StatusFailed, phase)
}
