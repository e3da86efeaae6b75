// Package generic provides a boundary-seeking text chunking strategy.
package generic

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 800

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 100

// DefaultMinLength is the minimum trimmed chunk length worth keeping.
const DefaultMinLength = 20

// DefaultMaxChunks is the hard cap on chunks per document.
const DefaultMaxChunks = 100

// Chunker splits document content into overlapping windows, preferring
// sentence and word boundaries over hard cuts. Chunking is a pure
// function of (text, chunk size, overlap): identical input yields
// byte-identical boundaries.
type Chunker struct {
	chunkSize int
	overlap   int
	minLength int
	maxChunks int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// WithMinLength sets the minimum trimmed chunk length worth keeping.
func WithMinLength(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.minLength = n
		}
	}
}

// WithMaxChunks sets the hard cap on chunks per document.
func WithMaxChunks(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.maxChunks = n
		}
	}
}

// New creates a new boundary-seeking chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
		minLength: DefaultMinLength,
		maxChunks: DefaultMaxChunks,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Name returns the strategy name.
func (c *Chunker) Name() string {
	return "generic"
}

// Chunk splits the document content into ordered, overlapping chunks.
func (c *Chunker) Chunk(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	content := strings.TrimSpace(doc.Content)
	if content == "" {
		return nil, nil
	}

	contentLen := len(content)
	estimated := contentLen/(c.chunkSize-c.overlap) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	start := 0
	for start < contentLen && len(chunks) < c.maxChunks {
		end := c.cutPoint(content, start)

		piece := strings.TrimSpace(content[start:end])
		if len(piece) > c.minLength {
			chunks = append(chunks, domain.Chunk{
				ID:          uuid.New().String(),
				DocumentID:  doc.ID,
				WorkspaceID: doc.WorkspaceID,
				Content:     piece,
				Index:       len(chunks),
				Metadata: map[string]any{
					"chunk_type": "standard",
					"word_count": len(strings.Fields(piece)),
					"char_count": len(piece),
				},
			})
		}

		if end >= contentLen {
			break
		}

		// Advance with overlap; guarantee forward progress when a
		// boundary cut lands inside the overlap region.
		next := end - c.overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks, nil
}

// cutPoint proposes the end offset for a chunk starting at start. When
// the window does not reach the text end it searches backward for the
// last sentence terminator, then the last space, accepting either only
// past one-third of the window.
func (c *Chunker) cutPoint(content string, start int) int {
	end := start + c.chunkSize
	if end >= len(content) {
		return len(content)
	}

	window := content[start:end]
	third := c.chunkSize / 3

	sentence := lastIndexAny(window, ".!?")
	if sentence > third {
		return start + sentence + 1
	}

	if space := strings.LastIndexByte(window, ' '); space > third {
		return start + space
	}

	return end
}

// lastIndexAny returns the last index in s of any byte in set, or -1.
func lastIndexAny(s, set string) int {
	best := -1
	for _, b := range []byte(set) {
		if i := strings.LastIndexByte(s, b); i > best {
			best = i
		}
	}
	return best
}
