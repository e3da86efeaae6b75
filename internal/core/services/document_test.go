package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/kbase-cli/internal/chunkers"
	"github.com/custodia-labs/kbase-cli/internal/chunkers/generic"
	"github.com/custodia-labs/kbase-cli/internal/chunkers/tabular"
	"github.com/custodia-labs/kbase-cli/internal/core/domain"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driving"
	"github.com/custodia-labs/kbase-cli/internal/extractors"
	"github.com/custodia-labs/kbase-cli/internal/extractors/plaintext"
)

// fakeEmbedder returns a fixed vector, optionally failing for chunks
// whose content contains a marker substring.
type fakeEmbedder struct {
	mu       sync.Mutex
	calls    int
	failWhen string
	vector   []float32
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.failWhen != "" && strings.Contains(text, f.failWhen) {
		return nil, errors.New("provider unavailable")
	}
	if f.vector != nil {
		return f.vector, nil
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeEmbedder) Dimensions() int            { return 3 }
func (f *fakeEmbedder) ModelName() string          { return "fake-model" }
func (f *fakeEmbedder) Ping(context.Context) error { return nil }
func (f *fakeEmbedder) Close() error               { return nil }

func newTestService(store *memory.DocumentStore, embedder *fakeEmbedder) *DocumentService {
	registry := extractors.NewRegistry()
	registry.Register(plaintext.New())

	selector := chunkers.NewSelector(generic.New(), tabular.New())

	return NewDocumentService(store, registry, selector, embedder, DocumentServiceConfig{})
}

func txtRequest(content string) driving.IngestRequest {
	return driving.IngestRequest{
		Data:        []byte(content),
		FileName:    "notes.txt",
		WorkspaceID: "ws1",
	}
}

func TestIngest_HappyPath(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := newTestService(store, &fakeEmbedder{})
	ctx := context.Background()

	// ~3000 chars of prose chunks into 4-5 pieces at the defaults.
	content := strings.Repeat("Every invoice must be archived before the end of the month. ", 50)

	doc, err := svc.Ingest(ctx, txtRequest(content))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusReady, doc.Status)
	assert.Equal(t, "notes.txt", doc.Title)
	assert.Equal(t, domain.TypeTXT, doc.Type)
	require.NotNil(t, doc.ProcessedAt)
	assert.GreaterOrEqual(t, doc.ChunkCount, 4)
	assert.LessOrEqual(t, doc.ChunkCount, 5)

	chunks, err := store.GetChunks(ctx, "ws1", doc.ID)
	require.NoError(t, err)
	require.Len(t, chunks, doc.ChunkCount)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
		assert.NotEmpty(t, chunk.Embedding)
	}
}

func TestIngest_ValidationFailures(t *testing.T) {
	svc := newTestService(memory.NewDocumentStore(), &fakeEmbedder{})
	ctx := context.Background()

	cases := []struct {
		name string
		req  driving.IngestRequest
		want error
	}{
		{
			name: "missing workspace",
			req:  driving.IngestRequest{Data: []byte("x"), FileName: "a.txt"},
			want: domain.ErrInvalidInput,
		},
		{
			name: "missing file name",
			req:  driving.IngestRequest{Data: []byte("x"), WorkspaceID: "ws1"},
			want: domain.ErrInvalidInput,
		},
		{
			name: "empty data",
			req:  driving.IngestRequest{FileName: "a.txt", WorkspaceID: "ws1"},
			want: domain.ErrInvalidInput,
		},
		{
			name: "unsupported type",
			req:  driving.IngestRequest{Data: []byte("x"), FileName: "image.png", WorkspaceID: "ws1"},
			want: domain.ErrUnsupportedType,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Ingest(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestIngest_UnsupportedTypeLeavesNoRecord(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := newTestService(store, &fakeEmbedder{})
	ctx := context.Background()

	_, err := svc.Ingest(ctx, driving.IngestRequest{
		Data: []byte("png bytes"), FileName: "image.png", WorkspaceID: "ws1",
	})
	require.ErrorIs(t, err, domain.ErrUnsupportedType)

	docs, err := store.ListDocuments(ctx, "ws1")
	require.NoError(t, err)
	assert.Empty(t, docs)

	chunks, err := store.ListWorkspaceChunks(ctx, "ws1")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestIngest_FileTooLarge(t *testing.T) {
	store := memory.NewDocumentStore()
	registry := extractors.NewRegistry()
	registry.Register(plaintext.New())
	svc := NewDocumentService(store, registry, chunkers.NewDefaultSelector(), &fakeEmbedder{},
		DocumentServiceConfig{MaxFileSize: 10})

	_, err := svc.Ingest(context.Background(), txtRequest("this exceeds ten bytes easily"))
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestIngest_ExtractionTooShort(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := newTestService(store, &fakeEmbedder{})

	_, err := svc.Ingest(context.Background(), txtRequest("short"))
	require.ErrorIs(t, err, domain.ErrExtractionEmpty)

	docs, listErr := store.ListDocuments(context.Background(), "ws1")
	require.NoError(t, listErr)
	assert.Empty(t, docs)
}

func TestIngest_PartialEmbeddingFailureStillReady(t *testing.T) {
	store := memory.NewDocumentStore()
	// Fail any chunk containing the marker word.
	embedder := &fakeEmbedder{failWhen: "UNEMBEDDABLE"}
	svc := newTestService(store, embedder)
	ctx := context.Background()

	good := strings.Repeat("Reliable sentences embed without any trouble at all here. ", 25)
	bad := strings.Repeat("UNEMBEDDABLE text repeats enough to fill its own chunk span. ", 25)

	doc, err := svc.Ingest(ctx, txtRequest(good+bad))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusReady, doc.Status)
	assert.Greater(t, doc.ChunkCount, 0)

	chunks, err := store.GetChunks(ctx, "ws1", doc.ID)
	require.NoError(t, err)
	require.Len(t, chunks, doc.ChunkCount)
	for _, chunk := range chunks {
		assert.NotContains(t, chunk.Content, "UNEMBEDDABLE")
		assert.NotEmpty(t, chunk.Embedding)
	}
}

func TestIngest_TitleAndTags(t *testing.T) {
	svc := newTestService(memory.NewDocumentStore(), &fakeEmbedder{})

	req := txtRequest(strings.Repeat("Tagged content sentence. ", 10))
	req.Title = "Custom Title"
	req.Tags = []string{"  policy ", "", "hr"}

	doc, err := svc.Ingest(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Custom Title", doc.Title)
	assert.Equal(t, []string{"policy", "hr"}, doc.Tags)
}

func TestGet_RecordsAccess(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := newTestService(store, &fakeEmbedder{})
	ctx := context.Background()

	doc, err := svc.Ingest(ctx, txtRequest(strings.Repeat("Access tracked sentence. ", 10)))
	require.NoError(t, err)

	_, err = svc.Get(ctx, "ws1", doc.ID)
	require.NoError(t, err)
	_, err = svc.Get(ctx, "ws1", doc.ID)
	require.NoError(t, err)

	stored, err := store.GetDocument(ctx, "ws1", doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.AccessCount)
	assert.NotNil(t, stored.LastAccessedAt)
}

func TestUpdate_DoesNotRechunk(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := newTestService(store, &fakeEmbedder{})
	ctx := context.Background()

	doc, err := svc.Ingest(ctx, txtRequest(strings.Repeat("Original content sentence. ", 20)))
	require.NoError(t, err)
	originalChunks, err := store.GetChunks(ctx, "ws1", doc.ID)
	require.NoError(t, err)

	newContent := "completely different content"
	newTitle := "New Title"
	updated, err := svc.Update(ctx, "ws1", doc.ID, domain.DocumentUpdate{
		Title:   &newTitle,
		Content: &newContent,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, newContent, updated.Content)

	after, err := store.GetChunks(ctx, "ws1", doc.ID)
	require.NoError(t, err)
	assert.Equal(t, len(originalChunks), len(after))
	assert.Equal(t, originalChunks[0].Content, after[0].Content)
}

func TestUpdate_NotFound(t *testing.T) {
	svc := newTestService(memory.NewDocumentStore(), &fakeEmbedder{})
	title := "x"
	_, err := svc.Update(context.Background(), "ws1", "missing", domain.DocumentUpdate{Title: &title})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := newTestService(store, &fakeEmbedder{})
	ctx := context.Background()

	doc, err := svc.Ingest(ctx, txtRequest(strings.Repeat("Deletable content sentence. ", 20)))
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, "ws1", doc.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	chunks, err := store.ListWorkspaceChunks(ctx, "ws1")
	require.NoError(t, err)
	assert.Empty(t, chunks)

	// Deleting again reports false, not an error.
	deleted, err = svc.Delete(ctx, "ws1", doc.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestStats(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := newTestService(store, &fakeEmbedder{})
	ctx := context.Background()

	first, err := svc.Ingest(ctx, txtRequest(strings.Repeat("Stats fodder number one here. ", 15)))
	require.NoError(t, err)
	_, err = svc.Ingest(ctx, txtRequest(strings.Repeat("Stats fodder number two here. ", 15)))
	require.NoError(t, err)

	// One access on the first document.
	_, err = svc.Get(ctx, "ws1", first.ID)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, "ws1")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalDocuments)
	assert.Equal(t, 2, stats.TypeBreakdown[domain.TypeTXT])
	assert.Equal(t, 2, stats.StatusBreakdown[domain.StatusReady])
	assert.Greater(t, stats.TotalChunks, 0)
	assert.InDelta(t, 0.5, stats.AvgAccessCount, 0.001)
}

func TestStats_EmptyWorkspace(t *testing.T) {
	svc := newTestService(memory.NewDocumentStore(), &fakeEmbedder{})

	stats, err := svc.Stats(context.Background(), "empty")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalDocuments)
	assert.Equal(t, 0.0, stats.AvgAccessCount)
}
