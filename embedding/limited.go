package embedding

import (
	"context"
	stderrors "errors"

	"github.com/vinayprograms/resumerag/errors"
	"github.com/vinayprograms/resumerag/ratelimit"
)

// Limited throttles a Provider through a rate limiter. Each Embed call costs
// one token from the bucket named after the provider. A RATE_LIMITED answer
// from the provider shrinks that bucket. Calls are never retried.
type Limited struct {
	inner    Provider
	limiter  ratelimit.RateLimiter
	resource string
}

// NewLimited wraps p. The limiter must already have capacity configured
// for NameOf(p), otherwise every call fails with ErrResourceUnknown.
func NewLimited(p Provider, limiter ratelimit.RateLimiter) *Limited {
	return &Limited{inner: p, limiter: limiter, resource: NameOf(p)}
}

// Name implements Named.
func (l *Limited) Name() string { return l.resource }

// Embed waits for a token, then delegates.
func (l *Limited) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := l.limiter.Acquire(ctx, l.resource); err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
			return nil, errors.Wrap(err, "waiting for embedding rate limit")
		}
		return nil, errors.WrapWithCode(err, errors.ErrCodeRateLimit, "embedding rate limit",
			errors.WithMetadata("provider", l.resource))
	}

	vecs, err := l.inner.Embed(ctx, texts)
	if errors.Is(err, errors.ErrCodeRateLimit) {
		l.limiter.Reduce(l.resource, err.Error())
	}
	return vecs, err
}

// Dimension returns the wrapped provider's dimension.
func (l *Limited) Dimension() int {
	return l.inner.Dimension()
}
