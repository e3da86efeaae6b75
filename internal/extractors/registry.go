package extractors

import (
	"path/filepath"
	"strings"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driven"
)

// Registry maps file-name suffixes to their extractors.
type Registry struct {
	byExt map[string]driven.Extractor
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		byExt: make(map[string]driven.Extractor),
	}
}

// Register adds an extractor for every suffix it supports. Later
// registrations win, so callers can override built-ins.
func (r *Registry) Register(e driven.Extractor) {
	for _, ext := range e.SupportedExtensions() {
		r.byExt[strings.ToLower(ext)] = e
	}
}

// For returns the extractor for a file name. Returns
// domain.ErrUnsupportedType when no extractor handles the suffix.
func (r *Registry) For(fileName string) (driven.Extractor, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	e, ok := r.byExt[ext]
	if !ok {
		return nil, domain.ErrUnsupportedType
	}
	return e, nil
}

// Extensions returns all registered suffixes.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	return exts
}
