package render

import (
	"fmt"
	"strings"
	"time"

	statepkg "github.com/kk-code-lab/rcomments/internal/state"
)

// formatFetchStatus summarizes the fetch slice for the status line.
func formatFetchStatus(state *statepkg.AppState, now time.Time) string {
	fetch := state.Fetch
	switch {
	case fetch.InFlight:
		return "fetching comments…"
	case state.View.LastError != nil:
		return "error: " + state.View.LastError.Error()
	case fetch.Error != "":
		return "error: " + fetch.Error
	case fetch.LastFetched.IsZero():
		return "not fetched yet"
	}

	parts := []string{"updated " + formatAge(now.Sub(fetch.LastFetched)) + " ago"}
	if fetch.LastStatus != 0 {
		parts = append(parts, fmt.Sprintf("HTTP %d", fetch.LastStatus))
	}
	return strings.Join(parts, " · ")
}

func formatCommentCount(n int) string {
	if n == 1 {
		return "1 comment"
	}
	return formatCompactNumber(n) + " comments"
}

func formatCompactNumber(n int) string {
	switch {
	case n >= 1_000_000:
		return trimTrailingZero(fmt.Sprintf("%.1f", float64(n)/1_000_000.0)) + "M"
	case n >= 10_000:
		return trimTrailingZero(fmt.Sprintf("%.1f", float64(n)/1_000.0)) + "k"
	default:
		return fmt.Sprintf("%d", n)
	}
}

func trimTrailingZero(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	return strings.TrimSuffix(strings.TrimSuffix(s, "0"), ".")
}

func formatAge(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
