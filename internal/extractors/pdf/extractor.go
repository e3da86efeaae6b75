// Package pdf extracts text from PDF files by shelling out to the
// poppler pdftotext tool. The tool is injected through a CommandRunner
// so tests can substitute a double.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = fmt.Errorf("%w: pdftotext is not installed", domain.ErrToolNotFound)

// whitespaceRuns collapses runs of spaces and tabs left by PDF layout.
var whitespaceRuns = regexp.MustCompile(`[ \t]+`)

// blankLines collapses runs of blank lines.
var blankLines = regexp.MustCompile(`\n{2,}`)

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor converts PDF bytes to plain text via pdftotext.
type Extractor struct {
	runner driven.CommandRunner
}

// New creates a PDF extractor using the system pdftotext binary.
func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewWithRunner creates a PDF extractor with an injected runner.
func NewWithRunner(runner driven.CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// SupportedExtensions returns the suffixes this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".pdf"}
}

// CheckAvailable reports whether pdftotext is on PATH.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns platform hints for installing pdftotext.
func InstallInstructions() string {
	return "pdftotext is required for PDF ingestion.\n" +
		"  macOS:  brew install poppler\n" +
		"  Debian: apt install poppler-utils\n" +
		"  Fedora: dnf install poppler-utils"
}

// Extract writes the bytes to a temp file, runs pdftotext and collapses
// the whitespace the layout engine leaves behind.
func (e *Extractor) Extract(ctx context.Context, data []byte, _ string) (string, error) {
	if len(data) == 0 {
		return "", domain.ErrCorruptFile
	}

	tmp, err := os.CreateTemp("", "kbase-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	// "-" sends the extracted text to stdout.
	out, err := e.runner.Run(ctx, "pdftotext", tmpPath, "-")
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", ErrPDFToolNotFound
		}
		return "", fmt.Errorf("%w: %s", domain.ErrCorruptFile, filepath.Base(tmpPath))
	}

	return cleanText(string(out)), nil
}

// cleanText collapses whitespace runs and blank lines.
func cleanText(text string) string {
	text = whitespaceRuns.ReplaceAllString(text, " ")
	text = blankLines.ReplaceAllString(text, "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
