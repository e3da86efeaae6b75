// Package embedding provides a factory over the embedding provider
// adapters.
package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/kbase-cli/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/kbase-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/kbase-cli/internal/config"
	"github.com/custodia-labs/kbase-cli/internal/core/domain"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// NewService creates an embedding service for the configured provider.
func NewService(cfg config.Embedding) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case "openai", "":
		return openai.NewEmbeddingService(openai.Config{
			APIKey:            cfg.APIKey,
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			MaxInputChars:     cfg.TruncateChars,
			RequestsPerSecond: cfg.RequestsPerSecond,
		})
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:       cfg.BaseURL,
			Model:         cfg.Model,
			MaxInputChars: cfg.TruncateChars,
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q",
			domain.ErrEmbeddingUnavailable, cfg.Provider)
	}
}

// NewValidatedService creates an embedding service and validates
// connectivity with a bounded ping.
func NewValidatedService(cfg config.Embedding) (driven.EmbeddingService, error) {
	svc, err := NewService(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}
