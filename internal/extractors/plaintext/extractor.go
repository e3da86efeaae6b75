// Package plaintext extracts text from plain .txt uploads.
package plaintext

import (
	"context"
	"strings"

	"github.com/custodia-labs/kbase-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text files.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the suffixes this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".txt"}
}

// Extract returns the file content as trimmed UTF-8 text.
func (e *Extractor) Extract(_ context.Context, data []byte, _ string) (string, error) {
	return strings.TrimSpace(string(data)), nil
}
