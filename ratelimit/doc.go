// Package ratelimit throttles calls to embedding providers.
//
// Hosted embedding APIs enforce request quotas. A MemoryLimiter keeps a token
// bucket per provider so a large ingestion batch spreads its calls out instead
// of tripping the provider's limit:
//
//	limiter := ratelimit.NewMemoryLimiter()
//	limiter.SetCapacity("openai", 60, time.Minute) // 60 requests per minute
//
//	// Block until a token is available
//	if err := limiter.Acquire(ctx, "openai"); err != nil {
//	    return err // context cancelled
//	}
//
// When the provider answers 429 anyway, Reduce shrinks the bucket so the
// process backs off for the rest of its life. Nothing here retries a call.
package ratelimit
