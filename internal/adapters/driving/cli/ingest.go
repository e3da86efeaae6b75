package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbase-cli/internal/core/ports/driving"
)

var (
	ingestTitle       string
	ingestDescription string
	ingestTags        []string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a document into the knowledge base",
	Long: `Extracts text from the file, splits it into chunks, embeds each
chunk and stores everything in the current workspace.
Supported formats: PDF, DOCX, TXT, XLSX, XLS.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestTitle, "title", "t", "", "document title (defaults to file name)")
	ingestCmd.Flags().StringVarP(&ingestDescription, "description", "d", "", "document description")
	ingestCmd.Flags().StringSliceVar(&ingestTags, "tag", nil, "tag to attach (repeatable)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	ctx := context.Background()
	doc, err := documentService.Ingest(ctx, driving.IngestRequest{
		Data:        data,
		FileName:    filepath.Base(path),
		WorkspaceID: workspaceID,
		Title:       ingestTitle,
		Description: ingestDescription,
		Tags:        ingestTags,
	})
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	cmd.Printf("Ingested %s\n", doc.FileName)
	cmd.Printf("  ID: %s\n", doc.ID)
	cmd.Printf("  Status: %s\n", doc.Status)
	cmd.Printf("  Chunks: %d\n", doc.ChunkCount)
	return nil
}
