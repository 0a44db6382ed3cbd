package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

type helpOverlayEntry struct {
	keys string
	desc string
}

type helpOverlaySection struct {
	title   string
	entries []helpOverlayEntry
}

var helpSections = []helpOverlaySection{
	{
		title: "Navigation",
		entries: []helpOverlayEntry{
			{keys: "↑/↓ or k/j", desc: "Move selection"},
			{keys: "PgUp/PgDn", desc: "Page through comments"},
			{keys: "g / G", desc: "First / last comment"},
		},
	},
	{
		title: "Actions",
		entries: []helpOverlayEntry{
			{keys: "r", desc: "Fetch comments again"},
			{keys: "y", desc: "Copy comment to clipboard"},
			{keys: "p", desc: "Open full record in $PAGER"},
		},
	},
	{
		title: "Exit",
		entries: []helpOverlayEntry{
			{keys: "q", desc: "Quit"},
			{keys: "Ctrl+C", desc: "Quit immediately"},
			{keys: "Ctrl+Z", desc: "Suspend to shell"},
			{keys: "?", desc: "Close this help"},
		},
	},
}

func buildHelpOverlayLines() []string {
	lines := make([]string, 0, 16)
	for i, section := range helpSections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.title)
		for _, entry := range section.entries {
			lines = append(lines, fmt.Sprintf("  %-14s %s", entry.keys, entry.desc))
		}
	}
	return lines
}

func (r *Renderer) drawHelpOverlay(w, h int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	for y := 0; y < h; y++ {
		r.fillRow(0, w, y, baseStyle)
	}

	title := " Help "
	headerStyle := baseStyle.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg).Bold(true)
	titleStart := 0
	if titleWidth := r.measureTextWidth(title); w > titleWidth {
		titleStart = (w - titleWidth) / 2
	}
	r.drawTextLine(titleStart, 0, w-titleStart, title, headerStyle)

	row := 2
	for _, line := range buildHelpOverlayLines() {
		if row >= h-1 {
			break
		}
		text := r.truncateTextToWidth(strings.TrimRight(line, " "), w-4)
		r.drawTextLine(2, row, w-4, text, baseStyle)
		row++
	}
}
