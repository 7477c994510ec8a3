package main

import (
	"context"
	"fmt"
	"time"

	"github.com/vinayprograms/resumerag/config"
	"github.com/vinayprograms/resumerag/credentials"
	"github.com/vinayprograms/resumerag/embedding"
	"github.com/vinayprograms/resumerag/ratelimit"
)

// staticDimension is the vector size of the offline demo provider.
const staticDimension = 64

// built is a provider plus whatever must be released at shutdown.
type built struct {
	provider embedding.Provider
	closers  []func() error
}

func (b *built) Close() error {
	var first error
	for _, c := range b.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// loadCredentials reads cfg.CredentialsFile when set, otherwise the standard
// locations.
func loadCredentials(cfg *config.Config) (*credentials.Credentials, error) {
	if cfg.CredentialsFile != "" {
		return credentials.LoadFile(cfg.CredentialsFile)
	}
	creds, _, err := credentials.Load()
	return creds, err
}

// buildProvider constructs the configured embedding provider, wrapped in a
// rate limiter when cfg.RateLimit is set.
func buildProvider(ctx context.Context, cfg *config.Config, creds *credentials.Credentials) (*built, error) {
	b := &built{}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		key := creds.APIKey(config.ProviderOpenAI)
		if key == "" {
			return nil, fmt.Errorf("no OpenAI API key: set %s or add [openai] to credentials.toml",
				credentials.EnvVar(config.ProviderOpenAI))
		}
		p, err := embedding.NewOpenAI(embedding.OpenAIConfig{APIKey: key, Model: cfg.Model, BaseURL: cfg.BaseURL})
		if err != nil {
			return nil, err
		}
		b.provider = p
	case config.ProviderGoogle:
		key := creds.APIKey(config.ProviderGoogle)
		if key == "" {
			return nil, fmt.Errorf("no Google API key: set %s or add [google] to credentials.toml",
				credentials.EnvVar(config.ProviderGoogle))
		}
		p, err := embedding.NewGoogle(ctx, embedding.GoogleConfig{APIKey: key, Model: cfg.Model})
		if err != nil {
			return nil, err
		}
		b.provider = p
		b.closers = append(b.closers, p.Close)
	case config.ProviderOllama:
		b.provider = embedding.NewOllama(embedding.OllamaConfig{BaseURL: cfg.BaseURL, Model: cfg.Model})
	case config.ProviderStatic:
		b.provider = embedding.NewStatic(staticDimension)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	if cfg.RateLimit > 0 {
		limiter := ratelimit.NewMemoryLimiter()
		limiter.SetCapacity(embedding.NameOf(b.provider), cfg.RateLimit, time.Minute)
		b.provider = embedding.NewLimited(b.provider, limiter)
		b.closers = append(b.closers, limiter.Close)
	}
	return b, nil
}
