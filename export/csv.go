package export

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// escapeField quotes a field only when it contains a comma, quote, or
// newline; internal quotes are doubled. Missing values render empty.
func escapeField(s string) string {
	if strings.ContainsAny(s, ",\"\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// Render builds a CSV document with a UTF-8 BOM and CRLF row endings.
// The header row comes first; field order follows the slices as given.
func Render(header []string, rows [][]string) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM

	writeRow := func(fields []string) {
		for i, f := range fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(escapeField(f))
		}
		buf.WriteString("\r\n")
	}

	writeRow(header)
	for _, row := range rows {
		writeRow(row)
	}
	return buf.Bytes()
}

// Transcode converts a rendered document to the requested charset.
// "latin1" produces Windows-1252 (no BOM) for spreadsheet imports;
// anything else returns the document unchanged.
func Transcode(doc []byte, charset string) ([]byte, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
		return doc, nil
	case "latin1", "windows-1252":
		doc = bytes.TrimPrefix(doc, []byte{0xEF, 0xBB, 0xBF})
		out, _, err := transform.Bytes(charmap.Windows1252.NewEncoder(), doc)
		if err != nil {
			return nil, fmt.Errorf("transcode to windows-1252: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported charset %q", charset)
}
