// Package xls extracts text from legacy .xls workbooks by converting
// them to .xlsx with the Gnumeric ssconvert tool, then delegating to the
// xlsx extractor. The tool runs through an injected CommandRunner so
// tests can substitute a double.
package xls

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driven"
	"github.com/custodia-labs/kbase-cli/internal/extractors/xlsx"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// ErrConvertToolNotFound indicates ssconvert is not installed.
var ErrConvertToolNotFound = fmt.Errorf("%w: ssconvert is not installed", domain.ErrToolNotFound)

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Extractor converts .xls bytes to text via ssconvert + the xlsx parser.
type Extractor struct {
	runner driven.CommandRunner
	xlsx   *xlsx.Extractor
}

// New creates an XLS extractor using the system ssconvert binary.
func New() *Extractor {
	return NewWithRunner(execRunner{})
}

// NewWithRunner creates an XLS extractor with an injected runner.
func NewWithRunner(runner driven.CommandRunner) *Extractor {
	return &Extractor{
		runner: runner,
		xlsx:   xlsx.New(),
	}
}

// SupportedExtensions returns the suffixes this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".xls"}
}

// CheckAvailable reports whether ssconvert is on PATH.
func CheckAvailable() error {
	if _, err := exec.LookPath("ssconvert"); err != nil {
		return ErrConvertToolNotFound
	}
	return nil
}

// InstallInstructions returns platform hints for installing ssconvert.
func InstallInstructions() string {
	return "ssconvert is required for legacy .xls ingestion.\n" +
		"  macOS:  brew install gnumeric\n" +
		"  Debian: apt install gnumeric\n" +
		"  Fedora: dnf install gnumeric"
}

// Extract converts the workbook to .xlsx in a temp directory and runs
// the converted bytes through the xlsx extractor, so both formats share
// one rendering path.
func (e *Extractor) Extract(ctx context.Context, data []byte, fileName string) (string, error) {
	if len(data) == 0 {
		return "", domain.ErrCorruptFile
	}

	dir, err := os.MkdirTemp("", "kbase-xls-")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "input.xls")
	outPath := filepath.Join(dir, "output.xlsx")

	if err := os.WriteFile(inPath, data, 0600); err != nil {
		return "", fmt.Errorf("writing temp file: %w", err)
	}

	if _, err := e.runner.Run(ctx, "ssconvert", inPath, outPath); err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", ErrConvertToolNotFound
		}
		return "", fmt.Errorf("%w: %s", domain.ErrCorruptFile, fileName)
	}

	converted, err := os.ReadFile(outPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrCorruptFile, fileName)
	}

	return e.xlsx.Extract(ctx, converted, fileName)
}
