package driven

import "context"

// Extractor converts raw file bytes into plain text.
// Each extractor handles specific file-name suffixes (e.g. .pdf, .docx).
type Extractor interface {
	// SupportedExtensions returns the lower-case suffixes this extractor
	// handles, including the leading dot.
	SupportedExtensions() []string

	// Extract converts file bytes into plain text. The file name is used
	// for diagnostics and, for spreadsheets, recorded as provenance.
	// Returns domain.ErrCorruptFile when the bytes cannot be parsed as
	// the declared format.
	Extract(ctx context.Context, data []byte, fileName string) (string, error)
}
