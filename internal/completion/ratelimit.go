package completion

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

type rateLimited struct {
	next    Service
	limiter *rate.Limiter
}

// WithRateLimit wraps next so calls wait for a token from limiter. A nil
// limiter returns next unchanged.
func WithRateLimit(next Service, limiter *rate.Limiter) Service {
	if limiter == nil {
		return next
	}
	return &rateLimited{next: next, limiter: limiter}
}

// NewLimiter builds a limiter allowing perSecond requests with the given
// burst. It returns nil when perSecond is not positive.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func (s *rateLimited) Complete(ctx context.Context, prompt, text string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("rate limit wait: %w", ctxErr)
		}
		// The next token arrives after the request deadline.
		return "", fmt.Errorf("%w: rate limit wait: %w", ErrRateLimited, err)
	}
	return s.next.Complete(ctx, prompt, text)
}

func (s *rateLimited) Close() error { return Close(s.next) }
