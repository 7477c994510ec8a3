package embedding

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/vinayprograms/resumerag/errors"
)

// OpenAI generates embeddings with the official OpenAI SDK.
type OpenAI struct {
	client *openai.Client
	model  string
}

// OpenAIConfig configures the OpenAI embedder.
type OpenAIConfig struct {
	APIKey  string
	Model   string // default: text-embedding-ada-002
	BaseURL string // optional, for compatible endpoints
}

// NewOpenAI creates an OpenAI embedding provider.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api_key is required for openai")
	}
	model := cfg.Model
	if model == "" {
		model = string(openai.EmbeddingModelTextEmbeddingAda002)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	return &OpenAI{client: &client, model: model}, nil
}

// Name implements Named.
func (e *OpenAI) Name() string { return "openai" }

// Embed generates embeddings for the given texts in one request.
func (e *OpenAI) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
	})
	if err != nil {
		var apiErr *openai.Error
		if stderrors.As(err, &apiErr) {
			return nil, statusError("openai", apiErr.StatusCode, apiErr.Message)
		}
		return nil, transportError("openai", err)
	}

	// data may come back in any order, index says where it goes
	result := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(result) {
			continue
		}
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		result[d.Index] = vec
	}
	for i := range result {
		if len(result[i]) == 0 {
			return nil, errors.New(errors.ErrCodeEmbedding,
				fmt.Sprintf("openai returned no embedding for input %d", i),
				errors.WithMetadata("provider", "openai"))
		}
	}
	return result, nil
}

// Dimension returns the embedding dimension for the model.
func (e *OpenAI) Dimension() int {
	switch e.model {
	case "text-embedding-3-large":
		return 3072
	default:
		// text-embedding-3-small and text-embedding-ada-002
		return 1536
	}
}
