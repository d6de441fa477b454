package summarize

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dgallion1/pdfdigest/internal/completion"
	"github.com/dgallion1/pdfdigest/internal/telemetry"
)

var tracer = otel.Tracer("github.com/dgallion1/pdfdigest/internal/summarize")

// IsRetryable reports whether a completion failure is transient. A request
// that hit its own timeout is transient; a cancelled parent is not.
func IsRetryable(parent context.Context, err error) bool {
	if parent.Err() != nil {
		return false
	}
	return completion.IsRetryable(err) || errors.Is(err, context.DeadlineExceeded)
}

// complete issues one completion request with a per-request timeout,
// retrying transient failures with exponential backoff and jitter.
func (s *Summarizer) complete(ctx context.Context, prompt, text string, stage Stage, chunkIndex, level int) (out string, err error) {
	ctx, span := tracer.Start(ctx, "summarize."+string(stage), trace.WithAttributes(
		attribute.Int("summarize.chunk_index", chunkIndex),
		attribute.Int("summarize.level", level),
		attribute.Int("summarize.input_chars", len(text)),
	))
	defer func() { telemetry.End(span, err) }()

	attempts := 0
	op := func() (string, error) {
		attempts++
		if err := ctx.Err(); err != nil {
			return "", backoff.Permanent(err)
		}
		reqCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()

		out, err := s.svc.Complete(reqCtx, prompt, text)
		if err == nil {
			return out, nil
		}
		if !IsRetryable(ctx, err) {
			return "", backoff.Permanent(err)
		}
		return "", err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.RetryInitialInterval
	b.MaxInterval = s.cfg.RetryMaxInterval

	out, err = backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(s.cfg.MaxRetries+1)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			s.log.Warn("retryable completion error",
				"stage", stage, "chunk", chunkIndex, "level", level,
				"attempt", attempts, "retry_in", next, "error", err)
		}),
	)
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Unwrap()
	}
	span.SetAttributes(attribute.Int("summarize.attempts", attempts))
	return out, err
}
