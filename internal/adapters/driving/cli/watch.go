package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driving"
	"github.com/custodia-labs/kbase-cli/internal/logger"
)

// settleDelay gives writers time to finish before a dropped file is
// read. Editors and downloads often emit several write events.
const settleDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Auto-ingest files dropped into a directory",
	Long: `Watches a directory and ingests every supported file created in it.
Unsupported file types are skipped. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (workspace %s). Press Ctrl+C to stop.\n", dir, workspaceID)

	for {
		select {
		case <-ctx.Done():
			cmd.Println("Stopped.")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			ingestWatched(ctx, cmd, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// ingestWatched ingests one dropped file, skipping unsupported types.
func ingestWatched(ctx context.Context, cmd *cobra.Command, path string) {
	name := filepath.Base(path)
	if _, err := domain.TypeFromFileName(name); err != nil {
		logger.Debug("Skipping unsupported file %s", name)
		return
	}

	time.Sleep(settleDelay)

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Reading %s failed: %v", path, err)
		return
	}

	doc, err := documentService.Ingest(ctx, driving.IngestRequest{
		Data:        data,
		FileName:    name,
		WorkspaceID: workspaceID,
	})
	if err != nil {
		cmd.Printf("Failed to ingest %s: %v\n", name, err)
		return
	}
	cmd.Printf("Ingested %s (%d chunks)\n", name, doc.ChunkCount)
}
