// Package embedding turns text into vectors via a remote or local provider.
package embedding

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"net/http"

	"github.com/vinayprograms/resumerag/errors"
)

// Provider generates vector embeddings for text.
// Vectors from one Provider are comparable by Euclidean distance.
type Provider interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the expected embedding dimension.
	Dimension() int
}

// Named is implemented by providers that can report a short name for logs
// and rate limit buckets.
type Named interface {
	Name() string
}

// NameOf returns p's name, or its Go type when it has none.
func NameOf(p Provider) string {
	if n, ok := p.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", p)
}

// EmbedOne embeds a single text and checks the provider returned a usable
// vector: non-empty and free of NaN or infinite components.
func EmbedOne(ctx context.Context, p Provider, text string) ([]float32, error) {
	vecs, err := p.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 || len(vecs[0]) == 0 {
		return nil, errors.New(errors.ErrCodeEmbedding, "provider returned no embedding",
			errors.WithMetadata("provider", NameOf(p)))
	}
	for i, v := range vecs[0] {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, errors.New(errors.ErrCodeEmbedding, "provider returned a non-finite embedding",
				errors.WithMetadata("provider", NameOf(p)),
				errors.WithMetadata("component", fmt.Sprint(i)))
		}
	}
	return vecs[0], nil
}

// statusError classifies a failed provider HTTP exchange.
func statusError(provider string, status int, body string) error {
	opts := []errors.Option{
		errors.WithMetadata("provider", provider),
		errors.WithMetadata("status", fmt.Sprint(status)),
	}
	msg := fmt.Sprintf("%s embedding error (status %d): %s", provider, status, body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return errors.Unauthorized(msg, opts...)
	case status == http.StatusTooManyRequests:
		return errors.RateLimited(msg, opts...)
	case status == http.StatusBadRequest || status == http.StatusRequestEntityTooLarge:
		return errors.New(errors.ErrCodeEmbedding, msg, opts...)
	default:
		return errors.Unavailable(msg, opts...)
	}
}

// transportError classifies a call that never produced an HTTP status.
func transportError(provider string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return errors.Wrap(err, provider+" embedding request", errors.WithMetadata("provider", provider))
	}
	return errors.WrapWithCode(err, errors.ErrCodeUnavailable, provider+" embedding request failed",
		errors.WithMetadata("provider", provider))
}
