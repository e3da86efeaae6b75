// Package docx extracts text from DOCX files by reading the OOXML parts
// directly with archive/zip and encoding/xml.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strings"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
	"github.com/custodia-labs/kbase-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the suffixes this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".docx"}
}

// Extract concatenates paragraph and table-cell text from
// word/document.xml, one paragraph per line.
func (e *Extractor) Extract(_ context.Context, data []byte, _ string) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.ErrCorruptFile
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", domain.ErrCorruptFile
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", domain.ErrCorruptFile
		}

		return parseDocumentXML(content), nil
	}

	// A zip without word/document.xml is not a DOCX.
	return "", domain.ErrCorruptFile
}

// documentXML mirrors the parts of word/document.xml we read. Tables
// nest paragraphs inside rows and cells.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
		Tables     []table     `xml:"tbl"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

type table struct {
	Rows []tableRow `xml:"tr"`
}

type tableRow struct {
	Cells []tableCell `xml:"tc"`
}

type tableCell struct {
	Paragraphs []paragraph `xml:"p"`
}

// parseDocumentXML extracts paragraph text, then table-cell text with
// cells joined by spaces and rows on their own lines.
func parseDocumentXML(content []byte) string {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return ""
	}

	var result strings.Builder
	for _, para := range doc.Body.Paragraphs {
		if text := paragraphText(para); text != "" {
			result.WriteString(text)
			result.WriteString("\n")
		}
	}

	for _, tbl := range doc.Body.Tables {
		for _, row := range tbl.Rows {
			var cells []string
			for _, cell := range row.Cells {
				var cellText strings.Builder
				for _, para := range cell.Paragraphs {
					cellText.WriteString(paragraphText(para))
				}
				if s := strings.TrimSpace(cellText.String()); s != "" {
					cells = append(cells, s)
				}
			}
			if len(cells) > 0 {
				result.WriteString(strings.Join(cells, " "))
				result.WriteString("\n")
			}
		}
	}

	return strings.TrimSpace(result.String())
}

func paragraphText(p paragraph) string {
	var b strings.Builder
	for _, r := range p.Runs {
		for _, t := range r.Text {
			b.WriteString(t.Content)
		}
	}
	return strings.TrimSpace(b.String())
}
