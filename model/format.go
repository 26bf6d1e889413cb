package model

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// FormatBytes formats bytes as human readable size
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// isDisplayableText reports whether a binary value can be shown as text in a
// grid cell: valid UTF-8 with no control characters other than the tab and
// line breaks the reports already escape
func isDisplayableText(b []byte) bool {
	if len(b) == 0 || !utf8.Valid(b) {
		return false
	}
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		b = b[size:]
		switch {
		case r == '\t', r == '\n', r == '\r':
		case unicode.IsControl(r), !unicode.IsPrint(r) && !unicode.IsSpace(r):
			return false
		}
	}
	return true
}
