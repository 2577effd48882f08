// Package resumetest builds small PDF documents for tests.
package resumetest

import (
	"bytes"
	"fmt"
	"strings"
)

// Line is one Helvetica text line placed at (X, Y) in points.
type Line struct {
	Text string
	Size int
	X, Y int
}

// BuildPDF renders a single page with a valid cross-reference table.
func BuildPDF(lines ...Line) []byte {
	var content strings.Builder
	for _, line := range lines {
		fmt.Fprintf(&content, "BT /F1 %d Tf %d %d Td (%s) Tj ET\n", line.Size, line.X, line.Y, line.Text)
	}

	widths := strings.TrimSpace(strings.Repeat("500 ", 95))
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding " +
			"/FirstChar 32 /LastChar 126 /Widths [" + widths + "] >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, object := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, object)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, offset := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

// ContactPDF is a résumé header with a name, an email and a phone number.
func ContactPDF() []byte {
	return BuildPDF(
		Line{Text: "John Smith", Size: 24, X: 72, Y: 750},
		Line{Text: "john@x.com", Size: 10, X: 72, Y: 700},
		Line{Text: "555-1234567", Size: 10, X: 72, Y: 680},
	)
}
