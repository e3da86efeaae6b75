// Package chunkers provides the chunking strategies and their selector.
package chunkers

import (
	"context"

	"github.com/custodia-labs/kbase-cli/internal/chunkers/generic"
	"github.com/custodia-labs/kbase-cli/internal/chunkers/tabular"
	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

// Chunker splits a document's extracted content into ordered chunks.
// Both strategies implement this interface.
type Chunker interface {
	// Name returns the strategy name.
	Name() string

	// Chunk splits the document content. Chunk indexes are 0-based and
	// dense; boundaries are deterministic for identical input.
	Chunk(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}

// Selector picks the chunking strategy for a document type: tabular for
// spreadsheet documents, the boundary-seeking generic strategy otherwise.
type Selector struct {
	generic Chunker
	tabular Chunker
}

// NewSelector creates a selector over the two built-in strategies.
func NewSelector(genericChunker, tabularChunker Chunker) *Selector {
	return &Selector{
		generic: genericChunker,
		tabular: tabularChunker,
	}
}

// NewDefaultSelector creates a selector with both strategies at their
// default parameters.
func NewDefaultSelector() *Selector {
	return NewSelector(generic.New(), tabular.New())
}

// For returns the strategy for the given document type.
func (s *Selector) For(t domain.DocumentType) Chunker {
	if t.Tabular() {
		return s.tabular
	}
	return s.generic
}
