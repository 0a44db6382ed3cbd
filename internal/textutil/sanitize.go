package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var formattingRuneLabels = map[rune]string{
	0x061C: "⟪ALM⟫",
	0x200B: "⟪ZWSP⟫",
	0x200E: "⟪LRM⟫",
	0x200F: "⟪RLM⟫",
	0x202A: "⟪LRE⟫",
	0x202B: "⟪RLE⟫",
	0x202C: "⟪PDF⟫",
	0x202D: "⟪LRO⟫",
	0x202E: "⟪RLO⟫",
	0x2066: "⟪LRI⟫",
	0x2067: "⟪RLI⟫",
	0x2068: "⟪FSI⟫",
	0x2069: "⟪PDI⟫",
	0xFEFF: "⟪BOM⟫",
}

// SanitizeLine prepares remote text for a single terminal row: the text is
// NFC-normalized, tabs and line breaks become spaces, other control characters become
// '?' and bidi overrides are shown as labels so they cannot reorder the row.
func SanitizeLine(text string) string {
	return sanitize(text, false)
}

// SanitizeBlock is SanitizeLine for multi-line text; '\n' is preserved so the
// result can be wrapped.
func SanitizeBlock(text string) string {
	return sanitize(strings.ReplaceAll(text, "\r\n", "\n"), true)
}

func sanitize(text string, keepNewlines bool) string {
	text = norm.NFC.String(text)
	if !needsSanitizing(text, keepNewlines) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if label, ok := formattingRuneLabels[r]; ok {
			b.WriteString(label)
			continue
		}
		switch {
		case r == '\n' && keepNewlines:
			b.WriteByte('\n')
		case r == '\t', r == '\n', r == '\r':
			b.WriteByte(' ')
		case r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0):
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func needsSanitizing(text string, keepNewlines bool) bool {
	for _, r := range text {
		if r == '\n' && keepNewlines {
			continue
		}
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) {
			return true
		}
		if _, ok := formattingRuneLabels[r]; ok {
			return true
		}
	}
	return false
}
