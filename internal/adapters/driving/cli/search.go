package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

var (
	searchLimit     int
	searchThreshold float64
	searchTypes     []string
	searchTags      []string
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the knowledge base",
	Long: `Embeds the query and ranks documents by cosine similarity of their
chunks. Results blend the best and average chunk scores per document.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of documents (0 = default)")
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", 0, "minimum chunk similarity (0 = default)")
	searchCmd.Flags().StringSliceVar(&searchTypes, "type", nil, "restrict to document types (repeatable)")
	searchCmd.Flags().StringSliceVar(&searchTags, "tag", nil, "restrict to documents with a tag (repeatable)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	types := make([]domain.DocumentType, 0, len(searchTypes))
	for _, t := range searchTypes {
		types = append(types, domain.DocumentType(t))
	}

	ctx := context.Background()
	results, err := searchService.Search(ctx, domain.SearchQuery{
		Query:       args[0],
		WorkspaceID: workspaceID,
		Limit:       searchLimit,
		Threshold:   searchThreshold,
		Types:       types,
		Tags:        searchTags,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		doc := results[i].Document
		cmd.Printf("  [%d] %s (relevance %.2f, best chunk %.2f)\n",
			i+1, doc.Title, results[i].RelevanceScore, results[i].SimilarityScore)
		cmd.Printf("      %s, %d chunks\n", doc.Type, doc.ChunkCount)
		if len(results[i].Chunks) > 0 {
			cmd.Printf("      %s\n", snippet(results[i].Chunks[0].Content, 120))
		}
		cmd.Println()
	}
	return nil
}

// snippet truncates text for one-line display.
func snippet(text string, n int) string {
	if len(text) <= n {
		return text
	}
	return text[:n] + "..."
}
