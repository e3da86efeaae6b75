package driving

import (
	"context"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

// SearchService answers workspace-scoped similarity queries.
type SearchService interface {
	// Search ranks documents by how well their chunks match the query.
	// Embedding failure degrades to an empty result list, not an error.
	Search(ctx context.Context, query domain.SearchQuery) ([]domain.SearchResult, error)
}
