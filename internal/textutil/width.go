package textutil

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// DisplayWidth reports the printable width of text accounting for wide runes.
func DisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// Truncate shortens text to width columns, ending with an ellipsis when
// anything was cut.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if DisplayWidth(text) <= width {
		return text
	}
	if width == 1 {
		return "…"
	}
	return runewidth.Truncate(text, width, "…")
}

// Wrap breaks text into lines no wider than width. Words longer than a line
// are split. Existing newlines start a new line.
func Wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		var line strings.Builder
		lineWidth := 0
		flush := func() {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}

		for _, word := range words {
			w := DisplayWidth(word)
			if lineWidth > 0 && lineWidth+1+w > width {
				flush()
			}
			for w > width {
				head := runewidth.Truncate(word, width, "")
				if head == "" {
					// A single rune wider than the line.
					_, size := utf8.DecodeRuneInString(word)
					head = word[:size]
				}
				if lineWidth > 0 {
					flush()
				}
				line.WriteString(head)
				flush()
				word = word[len(head):]
				w = DisplayWidth(word)
			}
			if word == "" {
				continue
			}
			if lineWidth > 0 {
				line.WriteByte(' ')
				lineWidth++
			}
			line.WriteString(word)
			lineWidth += w
		}
		if lineWidth > 0 {
			flush()
		}
	}
	return lines
}
