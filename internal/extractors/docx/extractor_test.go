package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

// buildDocx wraps a word/document.xml body in a zip container.
func buildDocx(t *testing.T, body string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(`<?xml version="1.0"?><document><body>` + body + `</body></document>`))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestSupportedExtensions(t *testing.T) {
	assert.Equal(t, []string{".docx"}, New().SupportedExtensions())
}

func TestExtract_NotAZip(t *testing.T) {
	_, err := New().Extract(context.Background(), []byte("plain text"), "bad.docx")
	assert.ErrorIs(t, err, domain.ErrCorruptFile)
}

func TestExtract_MissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = New().Extract(context.Background(), buf.Bytes(), "bad.docx")
	assert.ErrorIs(t, err, domain.ErrCorruptFile)
}

func TestExtract_Paragraphs(t *testing.T) {
	body := `<p><r><t>First paragraph.</t></r></p>` +
		`<p><r><t>Second </t></r><r><t>paragraph across runs.</t></r></p>` +
		`<p><r><t>  </t></r></p>`

	text, err := New().Extract(context.Background(), buildDocx(t, body), "doc.docx")
	require.NoError(t, err)

	assert.Equal(t, "First paragraph.\nSecond paragraph across runs.", text)
}

func TestExtract_Tables(t *testing.T) {
	body := `<p><r><t>Intro text.</t></r></p>` +
		`<tbl>` +
		`<tr><tc><p><r><t>Name</t></r></p></tc><tc><p><r><t>Value</t></r></p></tc></tr>` +
		`<tr><tc><p><r><t>Alpha</t></r></p></tc><tc><p><r><t>One</t></r></p></tc></tr>` +
		`</tbl>`

	text, err := New().Extract(context.Background(), buildDocx(t, body), "doc.docx")
	require.NoError(t, err)

	assert.Contains(t, text, "Intro text.")
	assert.Contains(t, text, "Name Value")
	assert.Contains(t, text, "Alpha One")
}

func TestExtract_EmptyDocument(t *testing.T) {
	text, err := New().Extract(context.Background(), buildDocx(t, ""), "doc.docx")
	require.NoError(t, err)
	assert.Empty(t, text)
}
