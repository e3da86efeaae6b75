package extractors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

type stubExtractor struct {
	exts []string
}

func (s *stubExtractor) SupportedExtensions() []string { return s.exts }

func (s *stubExtractor) Extract(context.Context, []byte, string) (string, error) {
	return "stub", nil
}

func TestRegistry_ForKnownSuffix(t *testing.T) {
	r := NewRegistry()
	stub := &stubExtractor{exts: []string{".txt"}}
	r.Register(stub)

	e, err := r.For("notes.txt")
	require.NoError(t, err)
	assert.Same(t, stub, e)
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{exts: []string{".pdf"}})

	_, err := r.For("REPORT.PDF")
	assert.NoError(t, err)
}

func TestRegistry_UnknownSuffix(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{exts: []string{".txt"}})

	_, err := r.For("image.png")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRegistry_LaterRegistrationWins(t *testing.T) {
	r := NewRegistry()
	first := &stubExtractor{exts: []string{".txt"}}
	second := &stubExtractor{exts: []string{".txt"}}
	r.Register(first)
	r.Register(second)

	e, err := r.For("a.txt")
	require.NoError(t, err)
	assert.Same(t, second, e)
}

func TestNewDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()

	for _, name := range []string{"a.txt", "a.pdf", "a.docx", "a.xlsx", "a.xls"} {
		_, err := r.For(name)
		assert.NoError(t, err, name)
	}
	assert.Len(t, r.Extensions(), 5)
}
