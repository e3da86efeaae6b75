package pdf

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

// fakeRunner records the invocation and returns canned output.
type fakeRunner struct {
	name   string
	args   []string
	output []byte
	err    error
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.name = name
	r.args = args
	return r.output, r.err
}

func TestSupportedExtensions(t *testing.T) {
	assert.Equal(t, []string{".pdf"}, New().SupportedExtensions())
}

func TestExtract_EmptyData(t *testing.T) {
	_, err := New().Extract(context.Background(), nil, "empty.pdf")
	assert.ErrorIs(t, err, domain.ErrCorruptFile)
}

func TestExtract_RunsPdftotext(t *testing.T) {
	runner := &fakeRunner{output: []byte("Extracted   PDF    text.\n\n\nNext line.")}
	e := NewWithRunner(runner)

	text, err := e.Extract(context.Background(), []byte("%PDF-1.4 fake"), "doc.pdf")
	require.NoError(t, err)

	assert.Equal(t, "pdftotext", runner.name)
	require.Len(t, runner.args, 2)
	assert.Equal(t, "-", runner.args[1])

	// Whitespace runs and blank lines collapse.
	assert.Equal(t, "Extracted PDF text.\nNext line.", text)
}

func TestExtract_ToolMissing(t *testing.T) {
	runner := &fakeRunner{err: &exec.Error{Name: "pdftotext", Err: exec.ErrNotFound}}
	e := NewWithRunner(runner)

	_, err := e.Extract(context.Background(), []byte("%PDF"), "doc.pdf")
	assert.ErrorIs(t, err, ErrPDFToolNotFound)
	assert.ErrorIs(t, err, domain.ErrToolNotFound)
}

func TestExtract_ToolFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1")}
	e := NewWithRunner(runner)

	_, err := e.Extract(context.Background(), []byte("%PDF"), "doc.pdf")
	assert.ErrorIs(t, err, domain.ErrCorruptFile)
}

func TestCleanText(t *testing.T) {
	in := "  col1\t\tcol2   col3  \n\n\n\nline two   "
	assert.Equal(t, "col1 col2 col3\nline two", cleanText(in))
}
