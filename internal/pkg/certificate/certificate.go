// Package certificate renders course completion certificates as
// single-page PDF documents without external dependencies.
package certificate

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// Data carries the fields printed on a certificate
type Data struct {
	StudentName string
	CourseTitle string
	IssuedAt    time.Time
}

// Generator renders certificate PDFs
type Generator struct {
	issuerName string
}

// NewGenerator creates a certificate generator. issuerName appears as
// the signing organization at the bottom of the document.
func NewGenerator(issuerName string) *Generator {
	return &Generator{issuerName: issuerName}
}

// A4 landscape dimensions in PDF points
const (
	pageWidth  = 842
	pageHeight = 595
)

// Generate renders a one-page certificate PDF
func (g *Generator) Generate(data Data) ([]byte, error) {
	if strings.TrimSpace(data.StudentName) == "" {
		return nil, fmt.Errorf("student name is required")
	}
	if strings.TrimSpace(data.CourseTitle) == "" {
		return nil, fmt.Errorf("course title is required")
	}

	issued := data.IssuedAt
	if issued.IsZero() {
		issued = time.Now()
	}

	content := buildContentStream(data.StudentName, data.CourseTitle, g.issuerName, issued)
	return assemblePDF(content), nil
}

// buildContentStream lays out the certificate text with the PDF text
// operators. Coordinates originate at the bottom-left corner.
func buildContentStream(student, course, issuer string, issued time.Time) string {
	var b strings.Builder

	line := func(font string, size int, y float64, text string) {
		// Rough centering: Helvetica glyphs average about half the
		// point size in width.
		width := float64(len(text)) * float64(size) * 0.5
		x := (pageWidth - width) / 2
		fmt.Fprintf(&b, "BT /%s %d Tf %.1f %.1f Td (%s) Tj ET\n", font, size, x, y, escapePDFText(text))
	}

	line("F1", 34, 470, "Certificado de Conclusão")
	line("F2", 14, 410, "Certificamos que")
	line("F1", 26, 360, student)
	line("F2", 14, 310, "concluiu com êxito o curso")
	line("F1", 22, 260, course)
	line("F2", 12, 180, issued.Format("02/01/2006"))
	line("F2", 12, 140, issuer)

	return b.String()
}

// escapePDFText escapes the characters with special meaning inside a
// PDF literal string.
func escapePDFText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// assemblePDF wraps a content stream in the object structure of a
// minimal single-page document with a valid cross-reference table.
func assemblePDF(content string) []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Contents 4 0 R /Resources << /Font << /F1 5 0 R /F2 6 0 R >> >> >>", pageWidth, pageHeight),
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold /Encoding /WinAnsiEncoding >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects)+1)
	for i, obj := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefStart)

	return buf.Bytes()
}
