package domain

// MaxResultChunks is the number of representative chunks returned per
// matched document.
const MaxResultChunks = 5

// SearchQuery configures a workspace-scoped similarity search.
// It is a request object and is never persisted.
type SearchQuery struct {
	// Query is the free-text query to embed and match.
	Query string

	// WorkspaceID scopes the search to one workspace.
	WorkspaceID string

	// Limit is the maximum number of documents to return.
	Limit int

	// Threshold is the minimum cosine similarity (0.0-1.0) a chunk must
	// reach to contribute to any result.
	Threshold float64

	// Types optionally restricts results to the given document types.
	Types []DocumentType

	// Tags optionally restricts results to documents carrying at least
	// one of the given tags.
	Tags []string
}

// SearchResult is a single ranked document hit.
type SearchResult struct {
	// Document is the matched document.
	Document Document

	// Chunks holds up to MaxResultChunks best-matching chunks.
	Chunks []Chunk

	// SimilarityScore is the best single chunk similarity.
	SimilarityScore float64

	// RelevanceScore blends best and average chunk similarity and is the
	// ranking key: 0.6*max + 0.4*avg.
	RelevanceScore float64
}
