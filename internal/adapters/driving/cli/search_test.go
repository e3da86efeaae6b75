package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

// mockSearchService returns canned results.
type mockSearchService struct {
	results  []domain.SearchResult
	err      error
	gotQuery domain.SearchQuery
}

func (m *mockSearchService) Search(_ context.Context, q domain.SearchQuery) ([]domain.SearchResult, error) {
	m.gotQuery = q
	return m.results, m.err
}

// withSearchService swaps the package service for one test.
func withSearchService(t *testing.T, svc *mockSearchService) {
	t.Helper()
	old := searchService
	searchService = svc
	t.Cleanup(func() { searchService = old })
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	withSearchService(t, &mockSearchService{})

	_, err := executeCommand(t, "search")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_NoService(t *testing.T) {
	withSearchService(t, nil)
	searchService = nil

	_, err := executeCommand(t, "search", "query")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestSearchCmd_NoResults(t *testing.T) {
	withSearchService(t, &mockSearchService{})

	out, err := executeCommand(t, "search", "nothing matches")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_PrintsResults(t *testing.T) {
	svc := &mockSearchService{results: []domain.SearchResult{
		{
			Document: domain.Document{
				ID: "d1", Title: "Refund Policy", Type: domain.TypePDF, ChunkCount: 4,
			},
			Chunks:          []domain.Chunk{{Content: "Refunds are processed within 14 days."}},
			SimilarityScore: 0.91,
			RelevanceScore:  0.88,
		},
	}}
	withSearchService(t, svc)

	out, err := executeCommand(t, "search", "refund policy")
	require.NoError(t, err)

	assert.Contains(t, out, "Refund Policy")
	assert.Contains(t, out, "0.88")
	assert.Contains(t, out, "Refunds are processed")
	assert.Equal(t, "refund policy", svc.gotQuery.Query)
}

func TestSearchCmd_PassesWorkspaceAndFlags(t *testing.T) {
	svc := &mockSearchService{}
	withSearchService(t, svc)

	_, err := executeCommand(t, "search", "q", "-w", "team-a", "-n", "7", "--tag", "finance")
	require.NoError(t, err)

	assert.Equal(t, "team-a", svc.gotQuery.WorkspaceID)
	assert.Equal(t, 7, svc.gotQuery.Limit)
	assert.Equal(t, []string{"finance"}, svc.gotQuery.Tags)
}

func TestSearchCmd_ServiceError(t *testing.T) {
	withSearchService(t, &mockSearchService{err: errors.New("backend down")})

	_, err := executeCommand(t, "search", "query")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}
