package render

import (
	"strings"

	statepkg "github.com/kk-code-lab/rcomments/internal/state"
)

// buildFooterHelpText returns the footer hint string with leading/trailing padding.
func buildFooterHelpText(state *statepkg.AppState) string {
	parts := buildFooterHelpSegments(state)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

func buildFooterHelpSegments(state *statepkg.AppState) []string {
	if state == nil {
		return nil
	}
	if state.View.HelpVisible {
		return []string{"?/Esc: close help"}
	}

	segments := []string{"↑/↓: move"}
	if len(state.Comments) > state.View.PageSize() {
		segments = append(segments, "PgUp/PgDn: page")
	}
	if !state.Fetch.InFlight {
		segments = append(segments, "r: refresh")
	}
	return append(segments, "?: help", "q: quit")
}
