package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driven"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driving"
	"github.com/custodia-labs/kbase-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

const (
	// defaultThreshold is the minimum cosine similarity for a chunk to
	// count as a match.
	defaultThreshold = 0.6

	// defaultLimit is the number of documents returned when the query
	// does not say.
	defaultLimit = 5

	// defaultMaxLimit caps the per-request result limit.
	defaultMaxLimit = 50

	// defaultMaxWeight weights the best chunk similarity in the
	// relevance blend; the average gets the complement.
	defaultMaxWeight = 0.6
)

// SearchServiceConfig tunes ranking defaults.
type SearchServiceConfig struct {
	Threshold float64
	Limit     int
	MaxLimit  int
	MaxWeight float64
}

// SearchService ranks documents by embedding similarity against a
// query. Chunks are scanned linearly; per-document scores blend the
// best and average chunk similarity.
type SearchService struct {
	store            driven.DocumentStore
	embeddingService driven.EmbeddingService
	threshold        float64
	limit            int
	maxLimit         int
	maxWeight        float64
}

// NewSearchService creates a new search service.
func NewSearchService(
	store driven.DocumentStore,
	embeddingService driven.EmbeddingService,
	cfg SearchServiceConfig,
) *SearchService {
	if cfg.Threshold <= 0 {
		cfg.Threshold = defaultThreshold
	}
	if cfg.Limit <= 0 {
		cfg.Limit = defaultLimit
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = defaultMaxLimit
	}
	if cfg.MaxWeight <= 0 || cfg.MaxWeight > 1 {
		cfg.MaxWeight = defaultMaxWeight
	}
	return &SearchService{
		store:            store,
		embeddingService: embeddingService,
		threshold:        cfg.Threshold,
		limit:            cfg.Limit,
		maxLimit:         cfg.MaxLimit,
		maxWeight:        cfg.MaxWeight,
	}
}

// docScore accumulates chunk similarities for one document.
type docScore struct {
	chunks []domain.Chunk
	scores []float64
	best   float64
	sum    float64
}

// Search embeds the query and ranks ready documents by blended chunk
// similarity. An unreachable embedding service yields empty results,
// not an error.
func (s *SearchService) Search(ctx context.Context, query domain.SearchQuery) ([]domain.SearchResult, error) {
	logger.Section("Similarity Search")
	logger.Debug("Query: %q, workspace: %q", query.Query, query.WorkspaceID)

	text := strings.TrimSpace(query.Query)
	if text == "" {
		return []domain.SearchResult{}, nil
	}
	if query.WorkspaceID == "" {
		return nil, fmt.Errorf("%w: workspace ID is required", domain.ErrInvalidInput)
	}

	limit := query.Limit
	if limit <= 0 {
		limit = s.limit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	threshold := query.Threshold
	if threshold <= 0 {
		threshold = s.threshold
	}
	logger.Debug("Limit: %d, threshold: %.2f", limit, threshold)

	if s.embeddingService == nil {
		logger.Warn("No embedding service configured; returning no results")
		return []domain.SearchResult{}, nil
	}

	queryVector, err := s.embeddingService.Embed(ctx, text)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return []domain.SearchResult{}, nil
	}

	chunks, err := s.store.ListWorkspaceChunks(ctx, query.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing workspace chunks: %w", err)
	}
	logger.Debug("Scanning %d chunks", len(chunks))

	scores := make(map[string]*docScore)
	for _, chunk := range chunks {
		if len(chunk.Embedding) != len(queryVector) {
			continue
		}
		similarity := cosineSimilarity(queryVector, chunk.Embedding)
		if similarity < threshold {
			continue
		}

		ds, ok := scores[chunk.DocumentID]
		if !ok {
			ds = &docScore{}
			scores[chunk.DocumentID] = ds
		}
		ds.chunks = append(ds.chunks, chunk)
		ds.scores = append(ds.scores, similarity)
		ds.sum += similarity
		if similarity > ds.best {
			ds.best = similarity
		}
	}
	logger.Debug("%d documents above threshold", len(scores))

	results := make([]domain.SearchResult, 0, len(scores))
	for docID, ds := range scores {
		doc, err := s.store.GetDocument(ctx, query.WorkspaceID, docID)
		if err != nil {
			logger.Warn("Hydrating document %s failed: %v", docID, err)
			continue
		}
		if doc.Status != domain.StatusReady {
			continue
		}
		if !matchesType(doc.Type, query.Types) || !matchesTags(doc.Tags, query.Tags) {
			continue
		}

		avg := ds.sum / float64(len(ds.scores))
		relevance := s.maxWeight*ds.best + (1-s.maxWeight)*avg

		results = append(results, domain.SearchResult{
			Document:        *doc,
			Chunks:          topChunks(ds.chunks, ds.scores, domain.MaxResultChunks),
			SimilarityScore: ds.best,
			RelevanceScore:  relevance,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	if len(results) > limit {
		results = results[:limit]
	}

	logger.Info("Search returned %d results", len(results))
	return results, nil
}

// topChunks returns the n highest-scoring chunks, best first.
func topChunks(chunks []domain.Chunk, scores []float64, n int) []domain.Chunk {
	order := make([]int, len(chunks))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	top := make([]domain.Chunk, len(order))
	for i, idx := range order {
		top[i] = chunks[idx]
	}
	return top
}

// matchesType reports whether the type passes the filter. An empty
// filter matches everything.
func matchesType(t domain.DocumentType, filter []domain.DocumentType) bool {
	if len(filter) == 0 {
		return true
	}
	for _, want := range filter {
		if t == want {
			return true
		}
	}
	return false
}

// matchesTags reports whether the document carries at least one of the
// requested tags. An empty filter matches everything.
func matchesTags(tags, filter []string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, want := range filter {
		for _, tag := range tags {
			if tag == want {
				return true
			}
		}
	}
	return false
}

// cosineSimilarity computes the cosine of the angle between two equal
// length vectors. Zero vectors score zero.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
