// Package tabular provides a worksheet-aware chunking strategy for
// spreadsheet documents. It re-segments the labeled text produced by the
// spreadsheet extractor rather than raw cell data, so every chunk stays
// self-describing: the worksheet context line is repeated at the head of
// each chunk cut from that worksheet.
package tabular

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

// WorksheetMarker is the literal prefix the spreadsheet extractor emits
// for each worksheet section.
const WorksheetMarker = "=== WORKSHEET"

// DefaultChunkSize is the character budget per tabular chunk.
const DefaultChunkSize = 800

// Chunker groups worksheet lines into bounded chunks.
type Chunker struct {
	chunkSize int
	maxChunks int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the character budget per chunk.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
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

// New creates a new tabular chunker.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		maxChunks: 100,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the strategy name.
func (c *Chunker) Name() string {
	return "tabular"
}

// Chunk splits the worksheet-marked content into per-sheet chunks.
func (c *Chunker) Chunk(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if strings.TrimSpace(doc.Content) == "" {
		return nil, nil
	}

	var chunks []domain.Chunk

	sections := strings.Split(doc.Content, WorksheetMarker)
	for sectionIdx, section := range sections {
		if strings.TrimSpace(section) == "" {
			continue
		}

		lines := strings.Split(strings.TrimSpace(section), "\n")

		// The first split element holds any preamble before the first
		// marker; it carries no worksheet header line.
		context := ""
		body := lines
		if sectionIdx > 0 {
			context = strings.TrimSpace(WorksheetMarker + " " + strings.TrimSpace(lines[0]))
			body = lines[1:]
		}

		chunks = c.appendSection(chunks, doc, sectionIdx, context, body)
		if len(chunks) >= c.maxChunks {
			chunks = chunks[:c.maxChunks]
			break
		}
	}

	for i := range chunks {
		chunks[i].Index = i
	}

	return chunks, nil
}

// appendSection accumulates non-blank lines of one worksheet into chunks
// of at most chunkSize characters, re-emitting the context line first.
func (c *Chunker) appendSection(chunks []domain.Chunk, doc *domain.Document, sectionIdx int, context string, lines []string) []domain.Chunk {
	var current []string
	size := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		content := strings.Join(current, "\n")
		if strings.TrimSpace(content) != "" {
			chunks = append(chunks, c.newChunk(doc, sectionIdx, context, content, current))
		}
		current = nil
		size = 0
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if len(current) == 0 && context != "" {
			current = append(current, context)
			size += len(context)
		}

		if size+len(line) > c.chunkSize && len(current) > 0 {
			flush()
			if context != "" {
				current = append(current, context)
				size += len(context)
			}
		}

		current = append(current, line)
		size += len(line)
	}
	flush()

	return chunks
}

// newChunk builds a tabular chunk with worksheet provenance metadata.
func (c *Chunker) newChunk(doc *domain.Document, sectionIdx int, context, content string, lines []string) domain.Chunk {
	rowCount := 0
	for _, l := range lines {
		if strings.HasPrefix(l, "Row") {
			rowCount++
		}
	}

	return domain.Chunk{
		ID:          uuid.New().String(),
		DocumentID:  doc.ID,
		WorkspaceID: doc.WorkspaceID,
		Content:     content,
		Metadata: map[string]any{
			"chunk_type":        "excel_data",
			"source_file":       doc.FileName,
			"worksheet_section": sectionIdx,
			"worksheet_info":    context,
			"has_headers":       strings.Contains(content, "Headers:"),
			"row_count":         rowCount,
			"word_count":        len(strings.Fields(content)),
			"char_count":        len(content),
		},
	}
}
