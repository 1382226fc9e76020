// Package pdf renders minimal single-page A4 documents with the standard
// Helvetica font, without any external layout engine.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Line is one "label: value" row. An empty Label renders Value alone.
type Line struct {
	Label string
	Value string
}

const (
	pageWidth  = 595
	pageHeight = 842
	margin     = 50
	leading    = 18
)

var escaper = strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`, "\r", "", "\n", " ")

// Render builds a one-page document with a title followed by lines.
// Lines that do not fit on the page are dropped.
func Render(title string, lines []Line) ([]byte, error) {
	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())

	text := func(v string) (string, error) {
		out, err := enc.String(v)
		if err != nil {
			return "", err
		}
		return escaper.Replace(out), nil
	}

	var content strings.Builder
	t, err := text(title)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(&content, "BT\n/F2 18 Tf\n%d %d Td\n(%s) Tj\nET\n", margin, pageHeight-margin-10, t)

	maxLines := (pageHeight - 2*margin - 40) / leading
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	fmt.Fprintf(&content, "BT\n%d TL\n%d %d Td\n", leading, margin, pageHeight-margin-50)
	for i, l := range lines {
		if i > 0 {
			content.WriteString("T*\n")
		}
		if l.Label != "" {
			label, err := text(l.Label + ": ")
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&content, "/F2 12 Tf\n(%s) Tj\n", label)
		}
		value, err := text(l.Value)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&content, "/F1 12 Tf\n(%s) Tj\n", value)
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Resources << /Font << /F1 4 0 R /F2 5 0 R >> >> /Contents 6 0 R >>", pageWidth, pageHeight),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", len(objects)+1)
	out.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&out, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(objects)+1, xref)

	return out.Bytes(), nil
}
