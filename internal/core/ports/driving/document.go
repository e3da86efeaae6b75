package driving

import (
	"context"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

// IngestRequest carries a validated upload into the ingestion pipeline.
type IngestRequest struct {
	// Data is the raw file content.
	Data []byte

	// FileName is the original file name; its suffix decides the type.
	FileName string

	// WorkspaceID is the owning workspace.
	WorkspaceID string

	// Title overrides the default title (the file name) when non-empty.
	Title string

	// Description is an optional free-form note.
	Description string

	// Tags label the document for filtered search. Blank tags are dropped.
	Tags []string
}

// DocumentService manages the document ingestion lifecycle.
type DocumentService interface {
	// Ingest validates, extracts, chunks, embeds and persists an uploaded
	// file. It returns the stored document (possibly with ChunkCount 0)
	// or a typed failure; it never returns a silent empty success.
	Ingest(ctx context.Context, req IngestRequest) (*domain.Document, error)

	// Get retrieves a document and records the access.
	Get(ctx context.Context, workspaceID, documentID string) (*domain.Document, error)

	// List returns all documents in a workspace, newest first.
	List(ctx context.Context, workspaceID string) ([]domain.Document, error)

	// Update mutates title/description/tags/content/status. It does not
	// re-chunk when content changes.
	Update(ctx context.Context, workspaceID, documentID string, upd domain.DocumentUpdate) (*domain.Document, error)

	// Delete removes a document and its chunks. Returns false without
	// error when the document does not exist in that workspace.
	Delete(ctx context.Context, workspaceID, documentID string) (bool, error)

	// RecordAccess increments the access counter and stamps the access
	// time. Side-effect only; failures never surface to the read path.
	RecordAccess(ctx context.Context, workspaceID, documentID string)

	// Stats aggregates document statistics for a workspace.
	Stats(ctx context.Context, workspaceID string) (*domain.WorkspaceStats, error)
}
