// Package testutil builds the PDF and spreadsheet fixtures used by the tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Text is a string drawn at an absolute page position (points, origin bottom-left).
type Text struct {
	X, Y int
	S    string
}

// Page is the content of one PDF page.
type Page []Text

// Layout lays rows out as a table: row i on baseline top-i*rowGap, cell j at
// xs[j]. Empty strings leave the cell blank.
func Layout(xs []int, top, rowGap int, rows [][]string) Page {
	var p Page
	for i, row := range rows {
		for j, s := range row {
			if s == "" || j >= len(xs) {
				continue
			}
			p = append(p, Text{X: xs[j], Y: top - i*rowGap, S: s})
		}
	}
	return p
}

// Grid is Layout with evenly spaced columns starting at left.
func Grid(left, top, colWidth, rowGap int, rows [][]string) Page {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	xs := make([]int, width)
	for j := range xs {
		xs[j] = left + j*colWidth
	}
	return Layout(xs, top, rowGap, rows)
}

// Positioning selects how text runs are placed in the content stream.
type Positioning int

const (
	// PosTm sets an absolute text matrix per run.
	PosTm Positioning = iota
	// PosTd writes the page as a single text object moving with relative Td.
	PosTd
	// PosTJ is PosTd with each run drawn as a kerned TJ array.
	PosTJ
)

var pdfEscaper = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

// PDF assembles an uncompressed PDF with one Helvetica text run per Text,
// positioned with Tm.
func PDF(pages ...Page) []byte {
	return PDFWith(PosTm, pages...)
}

// PDFWith is PDF with the given text positioning.
func PDFWith(pos Positioning, pages ...Page) []byte {
	// 1 catalog, 2 page tree, 3 font, then a page/content pair per page.
	total := 3 + 2*len(pages)
	offsets := make([]int, total+1)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	writeObj(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, page := range pages {
		pageNum, contentNum := 4+2*i, 5+2*i
		writeObj(pageNum, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 842 595] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			contentNum))

		stream := contentStream(pos, page)
		writeObj(contentNum, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", total+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= total; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", total+1, xref)
	return buf.Bytes()
}

func contentStream(pos Positioning, page Page) string {
	var b strings.Builder
	if pos == PosTm {
		for _, t := range page {
			fmt.Fprintf(&b, "BT /F1 7 Tf 1 0 0 1 %d %d Tm (%s) Tj ET\n", t.X, t.Y, pdfEscaper.Replace(t.S))
		}
		return b.String()
	}

	// Td offsets are relative to the start of the previous line.
	b.WriteString("BT /F1 7 Tf\n")
	prevX, prevY := 0, 0
	for _, t := range page {
		fmt.Fprintf(&b, "%d %d Td ", t.X-prevX, t.Y-prevY)
		prevX, prevY = t.X, t.Y
		if pos == PosTJ {
			b.WriteString(kerned(t.S))
			b.WriteString(" TJ\n")
			continue
		}
		fmt.Fprintf(&b, "(%s) Tj\n", pdfEscaper.Replace(t.S))
	}
	b.WriteString("ET\n")
	return b.String()
}

// kerned splits s in two halves joined by a small kern, keeping the text intact.
func kerned(s string) string {
	r := []rune(s)
	if len(r) < 2 {
		return fmt.Sprintf("[(%s)]", pdfEscaper.Replace(s))
	}
	mid := len(r) / 2
	return fmt.Sprintf("[(%s) 15 (%s)]", pdfEscaper.Replace(string(r[:mid])), pdfEscaper.Replace(string(r[mid:])))
}

// WritePDF saves PDF(pages...) under dir and returns its path.
func WritePDF(t testing.TB, dir, name string, pages ...Page) string {
	t.Helper()
	return WritePDFWith(t, dir, name, PosTm, pages...)
}

// WritePDFWith is WritePDF with the given text positioning.
func WritePDFWith(t testing.TB, dir, name string, pos Positioning, pages ...Page) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, PDFWith(pos, pages...), 0644); err != nil {
		t.Fatalf("failed to write PDF fixture: %v", err)
	}
	return path
}

// ReportColumns are the x positions of the 15 report columns on a landscape
// A4 page: sequence, name, CRM, PIX key, ten intermediate columns and total.
func ReportColumns() []int {
	xs := []int{20, 45, 165, 205}
	for x := 300; x < 700; x += 40 {
		xs = append(xs, x)
	}
	return append(xs, 700)
}

// ReportPage lays the header and rows out with ReportColumns.
func ReportPage(rows ...[]string) Page {
	all := append([][]string{ReportHeader()}, rows...)
	return Layout(ReportColumns(), 500, 20, all)
}

// ReportRow builds a 15-column report row with the name at index 1, the PIX
// key at index 3 and the total at index 14.
func ReportRow(seq, nome, pix, total string) []string {
	row := make([]string, 15)
	row[0] = seq
	row[1] = nome
	row[2] = "CRM"
	row[3] = pix
	for i := 4; i < 14; i++ {
		row[i] = "0"
	}
	row[14] = total
	return row
}

// ReportHeader is the header line of the report table.
func ReportHeader() []string {
	row := make([]string, 15)
	row[0] = "N"
	row[1] = "NOME DO PROFISSIONAL"
	row[2] = "CRM"
	row[3] = "CHAVE PIX"
	for i := 4; i < 14; i++ {
		row[i] = fmt.Sprintf("C%d", i)
	}
	row[14] = "TOTAL A PAGAR"
	return row
}

// WriteTemplate saves an xlsx whose first sheet is named sheet and holds rows
// starting at A1. Extra sheets are created empty.
func WriteTemplate(t testing.TB, dir, name, sheet string, rows [][]any, extraSheets ...string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("failed to rename sheet: %v", err)
	}
	for _, extra := range extraSheets {
		if _, err := f.NewSheet(extra); err != nil {
			t.Fatalf("failed to add sheet %s: %v", extra, err)
		}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("bad coordinates: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("failed to write template row: %v", err)
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save template: %v", err)
	}
	return path
}
