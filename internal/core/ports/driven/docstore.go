package driven

import (
	"context"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

// DocumentStore persists documents and chunks, scoped by workspace.
// Backed by SQLite for durable storage; an in-memory implementation
// exists for tests.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by workspace and ID.
	// Returns domain.ErrNotFound when absent.
	GetDocument(ctx context.Context, workspaceID, id string) (*domain.Document, error)

	// ListDocuments returns all documents in a workspace, newest first.
	ListDocuments(ctx context.Context, workspaceID string) ([]domain.Document, error)

	// DeleteDocument removes a document. Returns domain.ErrNotFound when
	// the document does not exist in that workspace.
	DeleteDocument(ctx context.Context, workspaceID, id string) error

	// SaveChunks stores chunks for a document in one batch.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetChunks retrieves all chunks for a document ordered by index.
	GetChunks(ctx context.Context, workspaceID, documentID string) ([]domain.Chunk, error)

	// ListWorkspaceChunks returns every chunk in a workspace. Used by the
	// search engine's linear similarity scan.
	ListWorkspaceChunks(ctx context.Context, workspaceID string) ([]domain.Chunk, error)

	// DeleteChunks removes all chunks for a document.
	DeleteChunks(ctx context.Context, workspaceID, documentID string) error
}
