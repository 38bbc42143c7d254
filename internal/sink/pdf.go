// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/pdiddy/research-writer/pkg/types"
)

// Layout constants, in mm.
const (
	lineHeight   = 6
	paragraphGap = 4
)

// Paginator writes text to a paginated document at path.
type Paginator interface {
	Paginate(path, content string) error
}

// EncodingError reports a rune that the document's font encoding cannot
// represent. Offset is the byte offset of the rune in the content.
type EncodingError struct {
	Rune   rune
	Offset int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("character %U (%q) at offset %d cannot be encoded in cp1252", e.Rune, e.Rune, e.Offset)
}

// PDFWriter lays text out on A4 pages with a core font. Paragraphs are
// separated by blank lines; each line inside a paragraph is word-wrapped
// at WrapWidth columns.
type PDFWriter struct {
	FontFamily   string
	FontSize     float64
	BottomMargin float64
	WrapWidth    int
}

// NewPDFWriter returns a PDFWriter configured from cfg.
func NewPDFWriter(cfg types.OutputConfig) *PDFWriter {
	return &PDFWriter{
		FontFamily:   cfg.FontFamily,
		FontSize:     cfg.FontSize,
		BottomMargin: cfg.BottomMargin,
		WrapWidth:    cfg.WrapWidth,
	}
}

// Paginate writes content to a PDF at path. Content with a rune outside
// the cp1252 code page fails with *EncodingError before anything is written.
func (w *PDFWriter) Paginate(path, content string) error {
	if err := checkEncodable(content); err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, w.BottomMargin)
	pdf.AddPage()
	pdf.SetFont(w.FontFamily, "", w.FontSize)
	if pdf.Err() {
		return fmt.Errorf("setting up PDF: %w", pdf.Error())
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, paragraph := range strings.Split(content, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		for _, line := range strings.Split(paragraph, "\n") {
			for _, wrapped := range wrapLine(line, w.WrapWidth) {
				pdf.CellFormat(0, lineHeight, tr(wrapped), "", 1, "L", false, 0, "")
			}
		}
		pdf.Ln(paragraphGap)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing PDF %s: %w", path, err)
	}
	return nil
}

// checkEncodable returns an *EncodingError for the first rune of s that
// cp1252 cannot represent. Invalid UTF-8 counts as unencodable.
func checkEncodable(s string) error {
	for i, r := range s {
		if r == utf8.RuneError {
			return &EncodingError{Rune: r, Offset: i}
		}
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return &EncodingError{Rune: r, Offset: i}
		}
	}
	return nil
}

// wrapLine splits line into chunks of at most width runes, breaking at
// whitespace. Words longer than width are split. A blank line yields nothing.
func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return nil
	}
	if width <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	var cur []rune
	for _, word := range words {
		wr := []rune(word)
		for len(wr) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(wr[:width]))
			wr = wr[width:]
		}
		if len(wr) == 0 {
			continue
		}
		switch {
		case len(cur) == 0:
			cur = append(cur, wr...)
		case len(cur)+1+len(wr) <= width:
			cur = append(cur, ' ')
			cur = append(cur, wr...)
		default:
			lines = append(lines, string(cur))
			cur = append([]rune(nil), wr...)
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
