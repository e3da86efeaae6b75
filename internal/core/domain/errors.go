package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file format outside the supported
	// set (pdf, docx, txt, xlsx, xls).
	ErrUnsupportedType = errors.New("unsupported document type")

	// ErrFileTooLarge indicates the upload exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrExtractionEmpty indicates extraction produced less than the
	// minimum amount of usable text.
	ErrExtractionEmpty = errors.New("document content is too short or could not be extracted")

	// ErrCorruptFile indicates the file could not be parsed as its
	// declared format.
	ErrCorruptFile = errors.New("corrupt or unreadable file")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable. Search degrades to empty results.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrToolNotFound indicates a required external extraction tool is
	// not installed.
	ErrToolNotFound = errors.New("extraction tool not found")
)
