// Package xlsx extracts text from XLSX workbooks by reading the OOXML
// parts directly with archive/zip and encoding/xml. Each worksheet is
// rendered as a labeled section so the tabular chunker can re-segment
// the text without touching raw cell data.
package xlsx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// MaxCellContent is the per-cell character cap; longer content is
// truncated with an ellipsis.
const MaxCellContent = 1000

// MaxRowsPerBlock groups rendered rows into sub-blocks to bound memory
// for very large sheets.
const MaxRowsPerBlock = 50

// headerThreshold is the fraction of non-empty first-row cells required
// to treat the first row as headers.
const headerThreshold = 0.5

// Extractor handles XLSX workbooks.
type Extractor struct{}

// New creates a new XLSX extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the suffixes this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".xlsx"}
}

// Extract renders every worksheet as a labeled section: a marker line
// with the worksheet ordinal and name, then either "(Empty worksheet)"
// or a row-by-row rendering in 50-row sub-blocks.
func (e *Extractor) Extract(_ context.Context, data []byte, _ string) (string, error) {
	wb, err := openWorkbook(data)
	if err != nil {
		return "", err
	}

	var sections []string
	for i, sheet := range wb.sheets {
		section := renderWorksheet(sheet, i+1)
		if strings.TrimSpace(section) != "" {
			sections = append(sections, section)
		}
	}

	return strings.Join(sections, "\n\n"), nil
}

// worksheet is a sheet name plus its cell grid, rows in file order.
type worksheet struct {
	name string
	rows []rowData
}

type rowData struct {
	number int // 1-based row number from the sheet
	cells  []string
}

// renderWorksheet produces one labeled section for a sheet.
func renderWorksheet(ws worksheet, ordinal int) string {
	parts := []string{fmt.Sprintf("=== WORKSHEET %d: %s ===", ordinal, ws.name)}

	if len(ws.rows) == 0 {
		parts = append(parts, "(Empty worksheet)")
		return strings.Join(parts, "\n")
	}

	maxCol := 0
	for _, row := range ws.rows {
		if len(row.cells) > maxCol {
			maxCol = len(row.cells)
		}
	}

	headers := detectHeaders(ws.rows[0], maxCol)
	dataRows := ws.rows
	if headers != nil {
		parts = append(parts, "Headers: "+strings.Join(headers, " | "), "")
		dataRows = ws.rows[1:]
	}

	var block []string
	for _, row := range dataRows {
		line := renderRow(row, headers)
		if line == "" {
			continue
		}
		block = append(block, line)

		if len(block) >= MaxRowsPerBlock {
			parts = append(parts, strings.Join(block, "\n"), "")
			block = nil
		}
	}
	if len(block) > 0 {
		parts = append(parts, strings.Join(block, "\n"))
	}

	return strings.Join(parts, "\n")
}

// detectHeaders treats the first row as headers when at least half of
// the sheet's columns are non-empty in it. Empty header cells get a
// positional Column_N name.
func detectHeaders(first rowData, maxCol int) []string {
	if maxCol == 0 {
		return nil
	}

	headers := make([]string, 0, maxCol)
	nonEmpty := 0
	for i := 0; i < maxCol; i++ {
		val := ""
		if i < len(first.cells) {
			val = first.cells[i]
		}
		if val != "" {
			headers = append(headers, val)
			nonEmpty++
		} else {
			headers = append(headers, fmt.Sprintf("Column_%d", len(headers)+1))
		}
	}

	if float64(nonEmpty) >= float64(maxCol)*headerThreshold {
		return headers
	}
	return nil
}

// renderRow renders the non-empty cells of one row as "Row N: ..." with
// header or column-letter labels.
func renderRow(row rowData, headers []string) string {
	var cells []string
	for colIdx, val := range row.cells {
		if val == "" {
			continue
		}
		if headers != nil && colIdx < len(headers) {
			cells = append(cells, fmt.Sprintf("%s: %s", headers[colIdx], val))
		} else {
			cells = append(cells, fmt.Sprintf("%s%d: %s", columnLetter(colIdx), row.number, val))
		}
	}
	if len(cells) == 0 {
		return ""
	}
	return fmt.Sprintf("Row %d: %s", row.number, strings.Join(cells, " | "))
}

// columnLetter converts a 0-based column index to its A1-style letters.
func columnLetter(idx int) string {
	letters := ""
	idx++
	for idx > 0 {
		idx--
		letters = string(rune('A'+idx%26)) + letters
		idx /= 26
	}
	return letters
}

// ==================== OOXML parsing ====================

type workbookXML struct {
	Sheets struct {
		Sheets []struct {
			Name string `xml:"name,attr"`
			RID  string `xml:"id,attr"`
		} `xml:"sheet"`
	} `xml:"sheets"`
}

type relationshipsXML struct {
	Relationships []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

type sharedStringsXML struct {
	Items []struct {
		Text  string `xml:"t"`
		Runs  []struct {
			Text string `xml:"t"`
		} `xml:"r"`
	} `xml:"si"`
}

type stylesXML struct {
	CellXfs struct {
		Xfs []struct {
			NumFmtID int `xml:"numFmtId,attr"`
		} `xml:"xf"`
	} `xml:"cellXfs"`
}

type sheetXML struct {
	SheetData struct {
		Rows []struct {
			R     int `xml:"r,attr"`
			Cells []struct {
				R     string `xml:"r,attr"`
				T     string `xml:"t,attr"`
				S     int    `xml:"s,attr"`
				V     string `xml:"v"`
				IS    struct {
					T string `xml:"t"`
				} `xml:"is"`
			} `xml:"c"`
		} `xml:"row"`
	} `xml:"sheetData"`
}

type parsedWorkbook struct {
	sheets []worksheet
}

// openWorkbook reads the workbook parts out of the zip container and
// resolves sheets in workbook order.
func openWorkbook(data []byte) (*parsedWorkbook, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, domain.ErrCorruptFile
	}

	files := make(map[string][]byte)
	for _, f := range reader.File {
		rc, err := f.Open()
		if err != nil {
			return nil, domain.ErrCorruptFile
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, domain.ErrCorruptFile
		}
		files[f.Name] = content
	}

	wbData, ok := files["xl/workbook.xml"]
	if !ok {
		return nil, domain.ErrCorruptFile
	}

	var wb workbookXML
	if err := xml.Unmarshal(wbData, &wb); err != nil {
		return nil, domain.ErrCorruptFile
	}

	rels := parseRelationships(files["xl/_rels/workbook.xml.rels"])
	shared := parseSharedStrings(files["xl/sharedStrings.xml"])
	dateStyles := parseDateStyles(files["xl/styles.xml"])

	parsed := &parsedWorkbook{}
	for i, sheet := range wb.Sheets.Sheets {
		target := rels[sheet.RID]
		if target == "" {
			target = fmt.Sprintf("worksheets/sheet%d.xml", i+1)
		}
		sheetData := files[path.Join("xl", target)]
		if sheetData == nil {
			// Some producers emit absolute targets.
			sheetData = files[strings.TrimPrefix(target, "/")]
		}

		rows, err := parseSheet(sheetData, shared, dateStyles)
		if err != nil {
			return nil, err
		}
		parsed.sheets = append(parsed.sheets, worksheet{name: sheet.Name, rows: rows})
	}

	if len(parsed.sheets) == 0 {
		return nil, domain.ErrCorruptFile
	}
	return parsed, nil
}

func parseRelationships(data []byte) map[string]string {
	rels := make(map[string]string)
	if data == nil {
		return rels
	}
	var parsed relationshipsXML
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return rels
	}
	for _, r := range parsed.Relationships {
		rels[r.ID] = r.Target
	}
	return rels
}

func parseSharedStrings(data []byte) []string {
	if data == nil {
		return nil
	}
	var parsed sharedStringsXML
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return nil
	}
	strs := make([]string, len(parsed.Items))
	for i, item := range parsed.Items {
		if len(item.Runs) > 0 {
			var b strings.Builder
			for _, r := range item.Runs {
				b.WriteString(r.Text)
			}
			strs[i] = b.String()
			continue
		}
		strs[i] = item.Text
	}
	return strs
}

// parseDateStyles returns the set of cell style indexes whose number
// format is one of the builtin date/time formats.
func parseDateStyles(data []byte) map[int]bool {
	styles := make(map[int]bool)
	if data == nil {
		return styles
	}
	var parsed stylesXML
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return styles
	}
	for i, xf := range parsed.CellXfs.Xfs {
		if isDateFormat(xf.NumFmtID) {
			styles[i] = true
		}
	}
	return styles
}

// isDateFormat reports whether a builtin numFmtId renders dates/times.
func isDateFormat(id int) bool {
	return (id >= 14 && id <= 22) || (id >= 45 && id <= 47)
}

// parseSheet converts one worksheet part into a cell grid. A missing
// part yields an empty sheet, matching workbooks with declared but
// absent sheets.
func parseSheet(data []byte, shared []string, dateStyles map[int]bool) ([]rowData, error) {
	if data == nil {
		return nil, nil
	}

	var parsed sheetXML
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return nil, domain.ErrCorruptFile
	}

	var rows []rowData
	for _, row := range parsed.SheetData.Rows {
		rd := rowData{number: row.R}
		hasContent := false

		for seq, cell := range row.Cells {
			colIdx := seq
			if cell.R != "" {
				colIdx = columnIndex(cell.R)
			}

			val := cellValue(cell.T, cell.V, cell.IS.T, shared, dateStyles[cell.S])
			if val == "" {
				continue
			}
			hasContent = true

			for len(rd.cells) <= colIdx {
				rd.cells = append(rd.cells, "")
			}
			rd.cells[colIdx] = val
		}

		if hasContent {
			rows = append(rows, rd)
		}
	}

	return rows, nil
}

// columnIndex converts an A1-style reference to a 0-based column index.
func columnIndex(ref string) int {
	idx := 0
	for _, r := range ref {
		if r < 'A' || r > 'Z' {
			break
		}
		idx = idx*26 + int(r-'A'+1)
	}
	if idx == 0 {
		return 0
	}
	return idx - 1
}

// cellValue renders one cell as text: shared/inline strings trimmed,
// numbers as integers when integral, dates as YYYY-MM-DD HH:MM:SS, and
// anything over MaxCellContent truncated with an ellipsis.
func cellValue(cellType, raw, inline string, shared []string, isDate bool) string {
	var content string

	switch cellType {
	case "s":
		i, err := strconv.Atoi(raw)
		if err != nil || i < 0 || i >= len(shared) {
			return ""
		}
		content = strings.TrimSpace(shared[i])
	case "inlineStr":
		content = strings.TrimSpace(inline)
	case "str":
		content = strings.TrimSpace(raw)
	case "b":
		if raw == "1" {
			content = "TRUE"
		} else if raw == "0" {
			content = "FALSE"
		}
	case "d":
		content = formatISODate(raw)
	default: // numeric
		content = formatNumeric(raw, isDate)
	}

	if len(content) > MaxCellContent {
		content = content[:MaxCellContent] + "..."
	}
	return content
}

func formatNumeric(raw string, isDate bool) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}

	if isDate {
		return serialToTime(f).Format("2006-01-02 15:04:05")
	}

	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// serialToTime converts an Excel serial date (days since 1899-12-30,
// 1900 date system) to a time.
func serialToTime(serial float64) time.Time {
	epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	days := math.Trunc(serial)
	frac := serial - days
	return epoch.
		AddDate(0, 0, int(days)).
		Add(time.Duration(math.Round(frac * 24 * 3600 * float64(time.Second))))
}

func formatISODate(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02 15:04:05")
		}
	}
	return raw
}
