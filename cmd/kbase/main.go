// kbase is a document knowledge-base CLI: it ingests files, chunks and
// embeds their text, and answers similarity queries.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/kbase-cli/internal/adapters/driven/embedding"
	"github.com/custodia-labs/kbase-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/kbase-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/kbase-cli/internal/chunkers"
	"github.com/custodia-labs/kbase-cli/internal/chunkers/generic"
	"github.com/custodia-labs/kbase-cli/internal/chunkers/tabular"
	"github.com/custodia-labs/kbase-cli/internal/config"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driven"
	"github.com/custodia-labs/kbase-cli/internal/core/services"
	"github.com/custodia-labs/kbase-cli/internal/extractors"
	"github.com/custodia-labs/kbase-cli/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("KBASE_CONFIG"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	// Embedding is optional at startup: ingestion without it stores
	// unembedded chunks and search returns no results.
	var embeddingService driven.EmbeddingService
	if svc, err := embedding.NewService(cfg.Embedding); err != nil {
		logger.Warn("Embedding service unavailable: %v", err)
	} else {
		embeddingService = svc
		defer svc.Close()
	}

	selector := chunkers.NewSelector(
		generic.New(
			generic.WithChunkSize(cfg.Chunking.ChunkSize),
			generic.WithOverlap(cfg.Chunking.Overlap),
			generic.WithMinLength(cfg.Chunking.MinLength),
			generic.WithMaxChunks(cfg.Chunking.MaxChunks),
		),
		tabular.New(
			tabular.WithChunkSize(cfg.Chunking.ChunkSize),
			tabular.WithMaxChunks(cfg.Chunking.MaxChunks),
		),
	)

	documentService := services.NewDocumentService(
		store,
		extractors.NewDefaultRegistry(),
		selector,
		embeddingService,
		services.DocumentServiceConfig{
			MaxFileSize:      cfg.MaxFileSize,
			EmbedConcurrency: cfg.Embedding.Concurrency,
		},
	)

	searchService := services.NewSearchService(
		store,
		embeddingService,
		services.SearchServiceConfig{
			Threshold: cfg.Search.Threshold,
			Limit:     cfg.Search.Limit,
			MaxLimit:  cfg.Search.MaxLimit,
			MaxWeight: cfg.Search.MaxWeight,
		},
	)

	cli.SetDocumentService(documentService)
	cli.SetSearchService(searchService)
	cli.SetVersion(version)

	return cli.Execute()
}
