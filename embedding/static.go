package embedding

import (
	"context"
	"sync"
)

// Static is an in-process provider with fixed answers. Texts registered with
// Set get their vector back verbatim; anything else gets a deterministic
// vector derived from its bytes. Used by tests and the offline demo mode.
type Static struct {
	mu        sync.RWMutex
	dimension int
	vectors   map[string][]float32
	failures  map[string]error
	calls     int
}

// NewStatic creates a static provider producing vectors of the given dimension.
func NewStatic(dimension int) *Static {
	return &Static{
		dimension: dimension,
		vectors:   make(map[string][]float32),
		failures:  make(map[string]error),
	}
}

// Set registers the vector returned for text.
func (e *Static) Set(text string, vector []float32) *Static {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vectors[text] = vector
	return e
}

// Fail makes every Embed call containing text return err.
func (e *Static) Fail(text string, err error) *Static {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failures[text] = err
	return e
}

// Calls returns how many times Embed has been called.
func (e *Static) Calls() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.calls
}

// Name implements Named.
func (e *Static) Name() string { return "static" }

// Embed returns the registered or derived vector for each text.
func (e *Static) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	results := make([][]float32, len(texts))
	for i, text := range texts {
		if err, ok := e.failures[text]; ok {
			return nil, err
		}
		if vec, ok := e.vectors[text]; ok {
			results[i] = append([]float32(nil), vec...)
			continue
		}
		results[i] = e.derive(text)
	}
	return results, nil
}

// derive builds a deterministic vector from the text bytes.
func (e *Static) derive(text string) []float32 {
	vec := make([]float32, e.dimension)
	if len(text) == 0 {
		return vec
	}
	for i := 0; i < len(text); i++ {
		vec[i%e.dimension] += float32(text[i]) / 256.0
	}
	return vec
}

// Dimension returns the embedding dimension.
func (e *Static) Dimension() int {
	return e.dimension
}
