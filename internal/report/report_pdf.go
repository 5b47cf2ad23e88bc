package report

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	pdfFontSize   = 11
	pdfLeading    = 14
	pdfTop        = 800
	pdfMaxLines   = 54
	pdfTruncation = "... (truncated)"
)

// buildSinglePagePDF lays lines out top to bottom on one A4 page in Helvetica. Lines past
// the page end are dropped.
func buildSinglePagePDF(lines []string) []byte {
	if len(lines) == 0 {
		lines = []string{"Report"}
	}
	if len(lines) > pdfMaxLines {
		lines = append(lines[:pdfMaxLines-1:pdfMaxLines-1], pdfTruncation)
	}

	var content strings.Builder
	fmt.Fprintf(&content, "BT\n/F1 %d Tf\n%d TL\n50 %d Td\n", pdfFontSize, pdfLeading, pdfTop)
	for i, line := range lines {
		if i > 0 {
			content.WriteString("T* ")
		}
		fmt.Fprintf(&content, "(%s) Tj\n", pdfEscape(line))
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)
	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", len(offsets))
	out.WriteString("0000000000 65535 f \n")
	for _, off := range offsets[1:] {
		fmt.Fprintf(&out, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart)
	return out.Bytes()
}

// pdfEscape escapes string delimiters and replaces anything outside printable ASCII.
func pdfEscape(v string) string {
	var b strings.Builder
	for _, r := range v {
		switch {
		case r == '\\' || r == '(' || r == ')':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x20 || r > 0x7e:
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
