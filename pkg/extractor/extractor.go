package extractor

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Extract reduces raw document bytes to plain text based on the source
// extension. Unknown extensions are treated as plain text. An empty result
// means the source had no usable content; callers treat that as an
// ingestion failure.
func Extract(raw []byte, ext string) (string, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))

	switch ext {
	case "pdf":
		return extractPDF(raw)
	case "html", "htm", "url":
		return stripHTML(decodeText(raw)), nil
	default:
		return decodeText(raw), nil
	}
}

func extractPDF(raw []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var buf bytes.Buffer
	body, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	if _, err := buf.ReadFrom(body); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

// decodeText interprets raw bytes as UTF-8, dropping invalid sequences
// instead of failing on them.
func decodeText(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	return strings.ToValidUTF8(string(raw), "")
}

// stripHTML removes markup from an HTML page, dropping script and style
// contents entirely and collapsing the rest to space-separated text.
func stripHTML(html string) string {
	var out strings.Builder
	var tag strings.Builder
	inTag := false
	skipDepth := 0 // inside <script> or <style>

	flushTag := func() {
		name := strings.ToLower(strings.TrimSpace(tag.String()))
		tag.Reset()
		// Take only the element name, ignoring attributes.
		if i := strings.IndexAny(name, " \t\n/>"); i >= 0 {
			name = name[:i]
		}
		switch name {
		case "script", "style":
			skipDepth++
		case "/script", "/style":
			if skipDepth > 0 {
				skipDepth--
			}
		}
	}

	for _, r := range html {
		switch {
		case inTag:
			if r == '>' {
				inTag = false
				flushTag()
				out.WriteByte(' ')
			} else {
				tag.WriteRune(r)
			}
		case r == '<':
			inTag = true
		case skipDepth == 0:
			out.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(out.String()), " ")
}
