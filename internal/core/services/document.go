package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/kbase-cli/internal/chunkers"
	"github.com/custodia-labs/kbase-cli/internal/core/domain"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driven"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driving"
	"github.com/custodia-labs/kbase-cli/internal/extractors"
	"github.com/custodia-labs/kbase-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

const (
	// minExtractedChars is the minimum trimmed content length after
	// extraction; anything shorter fails before a record is created.
	minExtractedChars = 10

	// defaultMaxFileSize caps uploads at 10 MiB unless configured.
	defaultMaxFileSize = 10 * 1024 * 1024

	// defaultEmbedConcurrency bounds parallel embedding calls.
	defaultEmbedConcurrency = 2
)

// DocumentServiceConfig tunes the ingestion pipeline.
type DocumentServiceConfig struct {
	// MaxFileSize is the upload size limit in bytes.
	MaxFileSize int64

	// EmbedConcurrency bounds parallel embedding calls per document.
	EmbedConcurrency int
}

// DocumentService manages the document ingestion lifecycle: validation,
// extraction, chunking, embedding and persistence.
type DocumentService struct {
	store            driven.DocumentStore
	registry         *extractors.Registry
	selector         *chunkers.Selector
	embeddingService driven.EmbeddingService
	maxFileSize      int64
	embedConcurrency int
}

// NewDocumentService creates a new document service. The embedding
// service is optional; without it chunks are stored unembedded and
// excluded from similarity search.
func NewDocumentService(
	store driven.DocumentStore,
	registry *extractors.Registry,
	selector *chunkers.Selector,
	embeddingService driven.EmbeddingService,
	cfg DocumentServiceConfig,
) *DocumentService {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = defaultMaxFileSize
	}
	if cfg.EmbedConcurrency <= 0 {
		cfg.EmbedConcurrency = defaultEmbedConcurrency
	}
	return &DocumentService{
		store:            store,
		registry:         registry,
		selector:         selector,
		embeddingService: embeddingService,
		maxFileSize:      cfg.MaxFileSize,
		embedConcurrency: cfg.EmbedConcurrency,
	}
}

// Ingest validates, extracts, chunks, embeds and persists an uploaded
// file. Validation and extraction failures happen before any record is
// created; failures after creation leave the document in error status.
func (s *DocumentService) Ingest(ctx context.Context, req driving.IngestRequest) (*domain.Document, error) {
	logger.Section("Document Ingestion")
	logger.Debug("File: %q, workspace: %q, size: %d bytes", req.FileName, req.WorkspaceID, len(req.Data))

	if req.WorkspaceID == "" {
		return nil, fmt.Errorf("%w: workspace ID is required", domain.ErrInvalidInput)
	}
	if req.FileName == "" {
		return nil, fmt.Errorf("%w: file name is required", domain.ErrInvalidInput)
	}
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", domain.ErrInvalidInput)
	}

	docType, err := domain.TypeFromFileName(req.FileName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, req.FileName)
	}

	if int64(len(req.Data)) > s.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d",
			domain.ErrFileTooLarge, len(req.Data), s.maxFileSize)
	}

	extractor, err := s.registry.For(req.FileName)
	if err != nil {
		return nil, err
	}

	content, err := extractor.Extract(ctx, req.Data, req.FileName)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", req.FileName, err)
	}

	content = strings.TrimSpace(content)
	if len(content) < minExtractedChars {
		return nil, domain.ErrExtractionEmpty
	}
	logger.Debug("Extracted %d characters", len(content))

	title := req.Title
	if title == "" {
		title = req.FileName
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:          uuid.New().String(),
		WorkspaceID: req.WorkspaceID,
		Title:       title,
		FileName:    req.FileName,
		Type:        docType,
		Content:     content,
		FileSize:    int64(len(req.Data)),
		Status:      domain.StatusProcessing,
		Tags:        cleanTags(req.Tags),
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}

	if err := s.process(ctx, doc); err != nil {
		s.markError(ctx, doc)
		return nil, err
	}

	return doc, nil
}

// process runs chunking and embedding for a freshly created document
// and flips it to ready.
func (s *DocumentService) process(ctx context.Context, doc *domain.Document) error {
	chunker := s.selector.For(doc.Type)
	logger.Debug("Chunking strategy: %s", chunker.Name())

	chunks, err := chunker.Chunk(ctx, doc)
	if err != nil {
		return fmt.Errorf("chunking document: %w", err)
	}
	logger.Debug("Produced %d chunks", len(chunks))

	embedded := s.embedChunks(ctx, chunks)
	logger.Debug("Embedded %d of %d chunks", len(embedded), len(chunks))

	if err := s.store.SaveChunks(ctx, embedded); err != nil {
		return fmt.Errorf("saving chunks: %w", err)
	}

	now := time.Now().UTC()
	doc.ChunkCount = len(embedded)
	doc.Status = domain.StatusReady
	doc.ProcessedAt = &now
	doc.UpdatedAt = now

	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("finalising document: %w", err)
	}
	return nil
}

// embedChunks runs the embedding calls with bounded concurrency. A
// failed chunk is dropped with a warning; the rest of the document
// still completes. Without an embedding service the chunks pass
// through unembedded.
func (s *DocumentService) embedChunks(ctx context.Context, chunks []domain.Chunk) []domain.Chunk {
	if len(chunks) == 0 {
		return nil
	}
	if s.embeddingService == nil {
		logger.Warn("No embedding service configured; chunks stored without vectors")
		return chunks
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		sem      = make(chan struct{}, s.embedConcurrency)
		embedded = make([]domain.Chunk, 0, len(chunks))
	)

	for i := range chunks {
		wg.Add(1)
		sem <- struct{}{}
		go func(chunk domain.Chunk) {
			defer wg.Done()
			defer func() { <-sem }()

			vector, err := s.embeddingService.Embed(ctx, chunk.Content)
			if err != nil {
				logger.Warn("Embedding chunk %d failed: %v", chunk.Index, err)
				return
			}
			chunk.Embedding = vector

			mu.Lock()
			embedded = append(embedded, chunk)
			mu.Unlock()
		}(chunks[i])
	}
	wg.Wait()

	sort.Slice(embedded, func(i, j int) bool { return embedded[i].Index < embedded[j].Index })
	return embedded
}

// markError flips a document to error status after a post-creation
// failure. Best effort; the original error is what surfaces.
func (s *DocumentService) markError(ctx context.Context, doc *domain.Document) {
	doc.Status = domain.StatusError
	doc.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		logger.Warn("Marking document %s as errored failed: %v", doc.ID, err)
	}
}

// Get retrieves a document and records the access.
func (s *DocumentService) Get(ctx context.Context, workspaceID, documentID string) (*domain.Document, error) {
	doc, err := s.store.GetDocument(ctx, workspaceID, documentID)
	if err != nil {
		return nil, err
	}
	s.RecordAccess(ctx, workspaceID, documentID)
	return doc, nil
}

// List returns all documents in a workspace, newest first.
func (s *DocumentService) List(ctx context.Context, workspaceID string) ([]domain.Document, error) {
	return s.store.ListDocuments(ctx, workspaceID)
}

// Update mutates the document's mutable fields. Content changes do not
// re-chunk; existing chunks keep serving search until re-ingestion.
func (s *DocumentService) Update(
	ctx context.Context, workspaceID, documentID string, upd domain.DocumentUpdate,
) (*domain.Document, error) {
	doc, err := s.store.GetDocument(ctx, workspaceID, documentID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		doc.Title = *upd.Title
	}
	if upd.Description != nil {
		doc.Description = *upd.Description
	}
	if upd.Content != nil {
		doc.Content = *upd.Content
	}
	if upd.Status != nil {
		doc.Status = *upd.Status
	}
	if upd.Tags != nil {
		doc.Tags = cleanTags(upd.Tags)
	}
	doc.UpdatedAt = time.Now().UTC()

	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("updating document: %w", err)
	}
	return doc, nil
}

// Delete removes a document and its chunks. Returns false without
// error when the document does not exist in that workspace.
func (s *DocumentService) Delete(ctx context.Context, workspaceID, documentID string) (bool, error) {
	if _, err := s.store.GetDocument(ctx, workspaceID, documentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	// Chunks first so a crash never strands them behind a missing parent.
	if err := s.store.DeleteChunks(ctx, workspaceID, documentID); err != nil {
		return false, fmt.Errorf("deleting chunks: %w", err)
	}
	if err := s.store.DeleteDocument(ctx, workspaceID, documentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("deleting document: %w", err)
	}
	return true, nil
}

// RecordAccess increments the access counter and stamps the access
// time. Failures are logged, never surfaced.
func (s *DocumentService) RecordAccess(ctx context.Context, workspaceID, documentID string) {
	doc, err := s.store.GetDocument(ctx, workspaceID, documentID)
	if err != nil {
		logger.Debug("Recording access for %s failed: %v", documentID, err)
		return
	}
	now := time.Now().UTC()
	doc.AccessCount++
	doc.LastAccessedAt = &now
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		logger.Debug("Recording access for %s failed: %v", documentID, err)
	}
}

// Stats aggregates document statistics for a workspace.
func (s *DocumentService) Stats(ctx context.Context, workspaceID string) (*domain.WorkspaceStats, error) {
	docs, err := s.store.ListDocuments(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	stats := &domain.WorkspaceStats{
		TypeBreakdown:   make(map[domain.DocumentType]int),
		StatusBreakdown: make(map[domain.DocumentStatus]int),
	}

	var totalAccess int
	for _, doc := range docs {
		stats.TotalDocuments++
		stats.TotalSize += doc.FileSize
		stats.TotalChunks += doc.ChunkCount
		stats.TypeBreakdown[doc.Type]++
		stats.StatusBreakdown[doc.Status]++
		totalAccess += doc.AccessCount
	}
	if stats.TotalDocuments > 0 {
		stats.AvgAccessCount = float64(totalAccess) / float64(stats.TotalDocuments)
	}

	return stats, nil
}

// cleanTags drops blank tags and trims the rest.
func cleanTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	return cleaned
}
