package embedding

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/vinayprograms/resumerag/errors"
)

// Google generates embeddings with the Gemini API.
type Google struct {
	client *genai.Client
	model  *genai.EmbeddingModel
	name   string
}

// GoogleConfig configures the Google embedder.
type GoogleConfig struct {
	APIKey string
	Model  string // default: text-embedding-004
}

// NewGoogle creates a Google embedding provider. Close releases the client.
func NewGoogle(ctx context.Context, cfg GoogleConfig) (*Google, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api_key is required for google")
	}
	model := cfg.Model
	if model == "" {
		model = "text-embedding-004"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create google client: %w", err)
	}

	return &Google{
		client: client,
		model:  client.EmbeddingModel(model),
		name:   model,
	}, nil
}

// Name implements Named.
func (e *Google) Name() string { return "google" }

// Embed generates embeddings for the given texts in one batch call.
func (e *Google) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	batch := e.model.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	resp, err := e.model.BatchEmbedContents(ctx, batch)
	if err != nil {
		var gErr *googleapi.Error
		if stderrors.As(err, &gErr) {
			return nil, statusError("google", gErr.Code, gErr.Message)
		}
		return nil, transportError("google", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, errors.New(errors.ErrCodeEmbedding,
			fmt.Sprintf("google returned %d embeddings for %d inputs", len(resp.Embeddings), len(texts)),
			errors.WithMetadata("provider", "google"))
	}

	result := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, errors.New(errors.ErrCodeEmbedding,
				fmt.Sprintf("google returned no embedding for input %d", i),
				errors.WithMetadata("provider", "google"))
		}
		result[i] = emb.Values
	}
	return result, nil
}

// Dimension returns the embedding dimension.
func (e *Google) Dimension() int {
	return 768
}

// Close releases the underlying client.
func (e *Google) Close() error {
	return e.client.Close()
}
