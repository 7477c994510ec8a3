package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vinayprograms/resumerag/errors"
)

// Ollama generates embeddings using a local Ollama server.
type Ollama struct {
	baseURL   string
	model     string
	dimension int
	client    *http.Client
}

// OllamaConfig configures the Ollama embedder.
type OllamaConfig struct {
	BaseURL   string // default: http://localhost:11434
	Model     string // e.g., nomic-embed-text, mxbai-embed-large
	Dimension int    // embedding dimension (model-specific)
}

// NewOllama creates a new Ollama embedding provider.
func NewOllama(cfg OllamaConfig) *Ollama {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	model := cfg.Model
	if model == "" {
		model = "nomic-embed-text"
	}
	dimension := cfg.Dimension
	if dimension == 0 {
		switch model {
		case "mxbai-embed-large":
			dimension = 1024
		case "all-minilm":
			dimension = 384
		default:
			dimension = 768
		}
	}
	return &Ollama{
		baseURL:   baseURL,
		model:     model,
		dimension: dimension,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Name implements Named.
func (e *Ollama) Name() string { return "ollama" }

// Embed generates embeddings for the given texts in one /api/embed call.
func (e *Ollama) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	jsonBody, err := json.Marshal(ollamaEmbedRequest{Model: e.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embed", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, transportError("ollama", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError("ollama", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("ollama", resp.StatusCode, string(body))
	}

	var embedResp ollamaEmbedResponse
	if err := json.Unmarshal(body, &embedResp); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCodeEmbedding, "failed to parse ollama response")
	}
	if len(embedResp.Embeddings) != len(texts) {
		return nil, errors.New(errors.ErrCodeEmbedding,
			fmt.Sprintf("ollama returned %d embeddings for %d inputs", len(embedResp.Embeddings), len(texts)),
			errors.WithMetadata("provider", "ollama"))
	}

	return embedResp.Embeddings, nil
}

// Dimension returns the embedding dimension.
func (e *Ollama) Dimension() int {
	return e.dimension
}
