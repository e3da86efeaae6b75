// Package cli implements the kbase command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbase-cli/internal/core/ports/driving"
	"github.com/custodia-labs/kbase-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services are injected before Execute. Commands check for nil so the
// CLI degrades gracefully when a backend is unavailable.
var (
	documentService driving.DocumentService
	searchService   driving.SearchService
)

var (
	verboseFlag bool
	workspaceID string
)

var rootCmd = &cobra.Command{
	Use:   "kbase",
	Short: "Document knowledge base with semantic search",
	Long: `kbase ingests documents (PDF, DOCX, TXT, XLSX, XLS), extracts and
chunks their text, embeds the chunks, and answers natural-language
queries by vector similarity.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&workspaceID, "workspace", "w", "default", "workspace to operate in")
}

// SetDocumentService injects the document service.
func SetDocumentService(svc driving.DocumentService) {
	documentService = svc
}

// SetSearchService injects the search service.
func SetSearchService(svc driving.SearchService) {
	searchService = svc
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
