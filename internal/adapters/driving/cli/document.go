package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage stored documents",
	Long:  `List, view, update, or delete documents in the current workspace.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents in the workspace",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [doc-id]",
	Short: "Print extracted document content",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show workspace statistics",
	Args:  cobra.NoArgs,
	RunE:  runDocumentStats,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentContentCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentStatsCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := context.Background()
	docs, err := documentService.List(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Printf("No documents in workspace: %s\n", workspaceID)
		return nil
	}

	cmd.Printf("Documents in workspace %s:\n\n", workspaceID)
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Title: %s\n", docs[i].Title)
		cmd.Printf("    Type: %s, Status: %s, Chunks: %d\n",
			docs[i].Type, docs[i].Status, docs[i].ChunkCount)
		cmd.Println()
	}
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := context.Background()
	doc, err := documentService.Get(ctx, workspaceID, args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("ID: %s\n", doc.ID)
	cmd.Printf("Title: %s\n", doc.Title)
	cmd.Printf("File: %s (%d bytes)\n", doc.FileName, doc.FileSize)
	cmd.Printf("Type: %s\n", doc.Type)
	cmd.Printf("Status: %s\n", doc.Status)
	cmd.Printf("Chunks: %d\n", doc.ChunkCount)
	if doc.Description != "" {
		cmd.Printf("Description: %s\n", doc.Description)
	}
	if len(doc.Tags) > 0 {
		cmd.Printf("Tags: %v\n", doc.Tags)
	}
	cmd.Printf("Accessed: %d times\n", doc.AccessCount)
	cmd.Printf("Created: %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := context.Background()
	doc, err := documentService.Get(ctx, workspaceID, args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Println(doc.Content)
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := context.Background()
	deleted, err := documentService.Delete(ctx, workspaceID, args[0])
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if !deleted {
		cmd.Printf("Document not found: %s\n", args[0])
		return nil
	}
	cmd.Printf("Deleted document: %s\n", args[0])
	return nil
}

func runDocumentStats(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := context.Background()
	stats, err := documentService.Stats(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	cmd.Printf("Workspace: %s\n", workspaceID)
	cmd.Printf("Documents: %d\n", stats.TotalDocuments)
	cmd.Printf("Total size: %d bytes\n", stats.TotalSize)
	cmd.Printf("Chunks: %d\n", stats.TotalChunks)
	cmd.Printf("Average accesses: %.1f\n", stats.AvgAccessCount)
	if len(stats.TypeBreakdown) > 0 {
		cmd.Println("By type:")
		for docType, count := range stats.TypeBreakdown {
			cmd.Printf("  %s: %d\n", docType, count)
		}
	}
	if len(stats.StatusBreakdown) > 0 {
		cmd.Println("By status:")
		for status, count := range stats.StatusBreakdown {
			cmd.Printf("  %s: %d\n", status, count)
		}
	}
	return nil
}
