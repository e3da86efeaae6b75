package xlsx

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

// buildWorkbook assembles a minimal OOXML container with the given
// sheet names and worksheet part bodies, in order.
func buildWorkbook(t *testing.T, names []string, sheetBodies []string, sharedStrings []string) []byte {
	t.Helper()

	var sheets, rels strings.Builder
	for i, name := range names {
		fmt.Fprintf(&sheets, `<sheet name="%s" sheetId="%d" r:id="rId%d"/>`, name, i+1, i+1)
		fmt.Fprintf(&rels, `<Relationship Id="rId%d" Type="worksheet" Target="worksheets/sheet%d.xml"/>`, i+1, i+1)
	}

	files := map[string]string{
		"xl/workbook.xml": `<?xml version="1.0"?>` +
			`<workbook xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
			`<sheets>` + sheets.String() + `</sheets></workbook>`,
		"xl/_rels/workbook.xml.rels": `<?xml version="1.0"?>` +
			`<Relationships>` + rels.String() + `</Relationships>`,
	}
	for i, body := range sheetBodies {
		files[fmt.Sprintf("xl/worksheets/sheet%d.xml", i+1)] =
			`<?xml version="1.0"?><worksheet><sheetData>` + body + `</sheetData></worksheet>`
	}
	if sharedStrings != nil {
		var si strings.Builder
		for _, s := range sharedStrings {
			fmt.Fprintf(&si, "<si><t>%s</t></si>", s)
		}
		files["xl/sharedStrings.xml"] = `<?xml version="1.0"?><sst>` + si.String() + `</sst>`
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestSupportedExtensions(t *testing.T) {
	assert.Equal(t, []string{".xlsx"}, New().SupportedExtensions())
}

func TestExtract_CorruptFile(t *testing.T) {
	_, err := New().Extract(context.Background(), []byte("not a zip"), "bad.xlsx")
	assert.ErrorIs(t, err, domain.ErrCorruptFile)
}

func TestExtract_MissingWorkbookPart(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("unrelated.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = New().Extract(context.Background(), buf.Bytes(), "bad.xlsx")
	assert.ErrorIs(t, err, domain.ErrCorruptFile)
}

func TestExtract_HeadersAndRows(t *testing.T) {
	sheet := `<row r="1">` +
		`<c r="A1" t="s"><v>0</v></c>` +
		`<c r="B1" t="s"><v>1</v></c>` +
		`<c r="C1" t="s"><v>2</v></c>` +
		`</row>` +
		`<row r="2">` +
		`<c r="A2" t="s"><v>3</v></c>` +
		`<c r="B2"><v>5</v></c>` +
		`<c r="C2"><v>9.99</v></c>` +
		`</row>` +
		`<row r="3">` +
		`<c r="A3" t="s"><v>4</v></c>` +
		`<c r="B3"><v>12</v></c>` +
		`<c r="C3"><v>4.5</v></c>` +
		`</row>`

	data := buildWorkbook(t, []string{"Sales"}, []string{sheet},
		[]string{"Product", "Quantity", "Price", "Widget", "Gadget"})

	text, err := New().Extract(context.Background(), data, "sales.xlsx")
	require.NoError(t, err)

	assert.Contains(t, text, "=== WORKSHEET 1: Sales ===")
	assert.Contains(t, text, "Headers: Product | Quantity | Price")
	assert.Contains(t, text, "Row 2: Product: Widget | Quantity: 5 | Price: 9.99")
	assert.Contains(t, text, "Row 3: Product: Gadget | Quantity: 12 | Price: 4.5")
}

func TestExtract_NoHeadersUsesCellReferences(t *testing.T) {
	// First row mostly empty: no header detection, so cells get
	// A1-style labels.
	sheet := `<row r="1">` +
		`<c r="A1" t="s"><v>0</v></c>` +
		`<c r="B1"><v></v></c>` +
		`<c r="C1"><v></v></c>` +
		`</row>` +
		`<row r="2">` +
		`<c r="A2" t="s"><v>1</v></c>` +
		`<c r="B2"><v>7</v></c>` +
		`<c r="C2"><v>8</v></c>` +
		`</row>`

	data := buildWorkbook(t, []string{"Raw"}, []string{sheet}, []string{"only", "value"})

	text, err := New().Extract(context.Background(), data, "raw.xlsx")
	require.NoError(t, err)

	assert.NotContains(t, text, "Headers:")
	assert.Contains(t, text, "A1: only")
	assert.Contains(t, text, "Row 2: A2: value | B2: 7 | C2: 8")
}

func TestExtract_EmptyWorksheet(t *testing.T) {
	data := buildWorkbook(t, []string{"Blank"}, []string{""}, nil)

	text, err := New().Extract(context.Background(), data, "blank.xlsx")
	require.NoError(t, err)

	assert.Contains(t, text, "=== WORKSHEET 1: Blank ===")
	assert.Contains(t, text, "(Empty worksheet)")
}

func TestExtract_MultipleWorksheets(t *testing.T) {
	sheet1 := `<row r="1"><c r="A1" t="s"><v>0</v></c></row>`
	sheet2 := `<row r="1"><c r="A1" t="s"><v>1</v></c></row>`

	data := buildWorkbook(t, []string{"First", "Second"},
		[]string{sheet1, sheet2}, []string{"alpha content here", "beta content here"})

	text, err := New().Extract(context.Background(), data, "multi.xlsx")
	require.NoError(t, err)

	first := strings.Index(text, "=== WORKSHEET 1: First ===")
	second := strings.Index(text, "=== WORKSHEET 2: Second ===")
	require.GreaterOrEqual(t, first, 0)
	require.Greater(t, second, first)
	assert.Contains(t, text, "alpha content here")
	assert.Contains(t, text, "beta content here")
}

func TestExtract_InlineStrings(t *testing.T) {
	sheet := `<row r="1"><c r="A1" t="inlineStr"><is><t>inline text value</t></is></c></row>`

	data := buildWorkbook(t, []string{"Inline"}, []string{sheet}, nil)

	text, err := New().Extract(context.Background(), data, "inline.xlsx")
	require.NoError(t, err)
	assert.Contains(t, text, "inline text value")
}

func TestExtract_TruncatesLongCells(t *testing.T) {
	long := strings.Repeat("x", MaxCellContent+50)
	sheet := `<row r="1"><c r="A1" t="inlineStr"><is><t>` + long + `</t></is></c></row>`

	data := buildWorkbook(t, []string{"Long"}, []string{sheet}, nil)

	text, err := New().Extract(context.Background(), data, "long.xlsx")
	require.NoError(t, err)
	assert.Contains(t, text, strings.Repeat("x", MaxCellContent)+"...")
	assert.NotContains(t, text, strings.Repeat("x", MaxCellContent+1))
}

func TestColumnLetter(t *testing.T) {
	assert.Equal(t, "A", columnLetter(0))
	assert.Equal(t, "Z", columnLetter(25))
	assert.Equal(t, "AA", columnLetter(26))
	assert.Equal(t, "AB", columnLetter(27))
}

func TestColumnIndex(t *testing.T) {
	assert.Equal(t, 0, columnIndex("A1"))
	assert.Equal(t, 25, columnIndex("Z10"))
	assert.Equal(t, 26, columnIndex("AA3"))
}

func TestFormatNumeric(t *testing.T) {
	assert.Equal(t, "42", formatNumeric("42.0", false))
	assert.Equal(t, "9.99", formatNumeric("9.99", false))
	assert.Equal(t, "", formatNumeric("", false))
	// Serial 45658 is 2025-01-01 in the 1900 date system.
	assert.Equal(t, "2025-01-01 00:00:00", formatNumeric("45658", true))
}
