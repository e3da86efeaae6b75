package domain

import (
	"strings"
	"time"
)

// DocumentType identifies the original file format of a document.
type DocumentType string

// Supported document types, decided by file-name suffix.
const (
	TypePDF  DocumentType = "pdf"
	TypeDOCX DocumentType = "docx"
	TypeTXT  DocumentType = "txt"
	TypeXLSX DocumentType = "xlsx"
	TypeXLS  DocumentType = "xls"
)

// TypeFromFileName derives the document type from a file name suffix.
// Returns ErrUnsupportedType for anything outside the supported set.
func TypeFromFileName(name string) (DocumentType, error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return TypePDF, nil
	case strings.HasSuffix(lower, ".docx"):
		return TypeDOCX, nil
	case strings.HasSuffix(lower, ".txt"):
		return TypeTXT, nil
	case strings.HasSuffix(lower, ".xlsx"):
		return TypeXLSX, nil
	case strings.HasSuffix(lower, ".xls"):
		return TypeXLS, nil
	default:
		return "", ErrUnsupportedType
	}
}

// Tabular reports whether the type carries worksheet-structured data.
// Tabular documents are chunked with the worksheet-aware strategy.
func (t DocumentType) Tabular() bool {
	return t == TypeXLSX || t == TypeXLS
}

// DocumentStatus tracks a document through its ingestion lifecycle.
type DocumentStatus string

const (
	// StatusProcessing means the document record exists but chunking and
	// embedding have not finished yet.
	StatusProcessing DocumentStatus = "processing"

	// StatusReady means ingestion completed. ChunkCount may be zero if
	// every chunk failed embedding; that is still a valid ready state.
	StatusReady DocumentStatus = "ready"

	// StatusError means extraction yielded insufficient content or an
	// unrecoverable failure occurred after the record was created.
	StatusError DocumentStatus = "error"
)

// Document represents an ingested file with its extracted content.
// All documents are scoped to a workspace.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// WorkspaceID is the owning tenant scope.
	WorkspaceID string

	// Title is the human-readable title (defaults to the file name).
	Title string

	// FileName is the original uploaded file name.
	FileName string

	// Type is the original file format.
	Type DocumentType

	// Content is the full extracted text.
	Content string

	// FileSize is the uploaded size in bytes.
	FileSize int64

	// Status is the ingestion lifecycle state.
	Status DocumentStatus

	// ChunkCount is the number of chunks persisted for this document.
	ChunkCount int

	// Tags label the document for filtered search.
	Tags []string

	// Description is an optional free-form note.
	Description string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// AccessCount is the number of recorded reads.
	AccessCount int

	// LastAccessedAt is when the document was last read, if ever.
	LastAccessedAt *time.Time

	// CreatedAt is when the record was created.
	CreatedAt time.Time

	// UpdatedAt is when the record was last modified.
	UpdatedAt time.Time

	// ProcessedAt is when ingestion finished, if it has.
	ProcessedAt *time.Time
}

// DocumentUpdate carries the mutable fields for Update. Nil pointers
// leave the corresponding field untouched. Updating Content does not
// re-chunk the document.
type DocumentUpdate struct {
	Title       *string
	Description *string
	Content     *string
	Status      *DocumentStatus
	Tags        []string
}

// Chunk is a bounded span of a document's extracted text, embedded and
// stored independently for retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// WorkspaceID duplicates the document's scope for scoped queries.
	WorkspaceID string

	// Content is the text content of this chunk.
	Content string

	// Index is the 0-based ordinal position within the document.
	Index int

	// Embedding is the vector representation for similarity search.
	Embedding []float32

	// Metadata contains chunk-specific key-value pairs: word and char
	// counts, a chunk_type tag, and worksheet provenance for tabular
	// chunks.
	Metadata map[string]any

	// CreatedAt is when the chunk was persisted.
	CreatedAt time.Time
}

// WorkspaceStats aggregates document statistics for one workspace.
type WorkspaceStats struct {
	TotalDocuments  int
	TotalSize       int64
	TotalChunks     int
	AvgAccessCount  float64
	TypeBreakdown   map[DocumentType]int
	StatusBreakdown map[DocumentStatus]int
}
