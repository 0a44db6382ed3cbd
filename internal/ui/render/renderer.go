package render

import (
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rcomments/internal/state"
	textutil "github.com/kk-code-lab/rcomments/internal/textutil"
)

const (
	appTitle   = "rcomments"
	bodyIndent = 2
)

// Renderer handles all UI rendering
type Renderer struct {
	screen           tcell.Screen
	theme            ColorTheme
	now              func() time.Time
	runeWidthCache   [128]int // ASCII cache (0-127)
	runeWidthCacheMu sync.RWMutex
	runeWidthWide    sync.Map // For non-ASCII runes
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
		now:    time.Now,
	}
}

// Render draws the entire UI based on state
func (r *Renderer) Render(state *statepkg.AppState) {
	r.screen.Clear()
	w, h := r.screen.Size()
	if w <= 0 || h <= 0 || state == nil {
		r.screen.Show()
		return
	}

	if state.View.HelpVisible {
		r.drawHelpOverlay(w, h)
		r.drawStatusLine(state, w, h)
		r.screen.Show()
		return
	}

	r.drawHeader(state, w)
	r.drawCommentList(state, w, h)
	r.drawStatusLine(state, w, h)
	r.screen.Show()
}

// drawHeader renders the top bar: title, source and comment count.
func (r *Renderer) drawHeader(state *statepkg.AppState, w int) {
	headerStyle := tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg)

	endX := r.drawTextLine(0, 0, w, appTitle, headerStyle.Bold(true))

	count := " " + formatCommentCount(len(state.Comments)) + " "
	countWidth := r.measureTextWidth(count)

	if source := state.Fetch.Source; source != "" && endX+1 < w-countWidth {
		r.screen.SetContent(endX, 0, ' ', nil, headerStyle)
		endX++
		label := r.truncateTextToWidth(textutil.SanitizeLine(source), w-countWidth-endX)
		endX = r.drawTextLine(endX, 0, w-countWidth-endX, label, headerStyle.Foreground(r.theme.MutedFg))
	}

	r.fillRow(endX, w, 0, headerStyle)
	if countWidth < w-endX {
		r.drawTextLine(w-countWidth, 0, countWidth, count, headerStyle)
	}
}

// drawCommentList renders the visible comments between header and status line.
func (r *Renderer) drawCommentList(state *statepkg.AppState, w, h int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	top, bottom := 1, h-1
	for y := top; y < bottom; y++ {
		r.fillRow(0, w, y, baseStyle)
	}

	if len(state.Comments) == 0 {
		msg := "No comments"
		if state.Fetch.InFlight {
			msg = "Loading comments…"
		}
		r.drawCentered(msg, w, top, bottom, baseStyle.Foreground(r.theme.MutedFg))
		return
	}

	y := top
	for i, comment := range state.VisibleComments() {
		if y >= bottom {
			break
		}
		index := state.View.Scroll + i
		y = r.drawComment(comment, index == state.View.Selected, y, w, bottom)
	}
}

// drawComment renders one comment card and returns the row after it.
func (r *Renderer) drawComment(comment statepkg.Comment, selected bool, y, w, bottom int) int {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	idStyle := baseStyle.Foreground(r.theme.IDFg)
	authorStyle := baseStyle.Foreground(r.theme.AuthorFg).Bold(true)
	bodyStyle := baseStyle.Foreground(r.theme.BodyFg)
	if selected {
		selStyle := baseStyle.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
		idStyle, authorStyle, bodyStyle = selStyle, selStyle.Bold(true), selStyle
	}

	rows := commentLines(comment, w)
	for i, line := range rows {
		row := y + i
		if row >= bottom {
			return bottom
		}
		style := bodyStyle
		if i == 0 {
			style = authorStyle
		}
		if selected {
			r.fillRow(0, w, row, bodyStyle)
		}

		x := 0
		if i == 0 {
			if id := comment.ID(); id != "" {
				x = r.drawTextLine(x, row, w, "#"+textutil.SanitizeLine(id)+" ", idStyle)
			}
		} else {
			x = bodyIndent
		}
		r.drawTextLine(x, row, w-x, r.truncateTextToWidth(line, w-x), style)
	}
	return y + statepkg.CommentRows
}

// commentLines lays out the author line and the clipped body lines of a
// comment for a list of width w.
func commentLines(comment statepkg.Comment, w int) []string {
	author := textutil.SanitizeLine(comment.Author())
	if author == "" {
		author = "(anonymous)"
	}
	if email, ok := comment.Field("email"); ok && email != "" && email != author {
		author += " <" + textutil.SanitizeLine(email) + ">"
	}

	bodyWidth := w - bodyIndent
	body := textutil.SanitizeBlock(comment.Body())
	wrapped := textutil.Wrap(strings.Join(strings.Fields(body), " "), bodyWidth)
	if len(wrapped) > statepkg.CommentBodyLines {
		last := wrapped[statepkg.CommentBodyLines-1]
		wrapped = wrapped[:statepkg.CommentBodyLines]
		if textutil.DisplayWidth(last)+1 > bodyWidth {
			last = textutil.Truncate(last, bodyWidth-1)
			last = strings.TrimSuffix(last, "…")
		}
		wrapped[statepkg.CommentBodyLines-1] = last + "…"
	}

	return append([]string{author}, wrapped...)
}

func (r *Renderer) drawCentered(text string, w, top, bottom int, style tcell.Style) {
	if bottom <= top {
		return
	}
	text = r.truncateTextToWidth(text, w)
	x := (w - r.measureTextWidth(text)) / 2
	if x < 0 {
		x = 0
	}
	r.drawTextLine(x, top+(bottom-top)/2, w-x, text, style)
}

// drawStatusLine renders the fetch status and key hints on the last row.
func (r *Renderer) drawStatusLine(state *statepkg.AppState, w, h int) {
	y := h - 1
	normalStyle := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)
	statusStyle := normalStyle.Foreground(r.theme.MutedFg)
	switch {
	case state.Fetch.InFlight:
		statusStyle = normalStyle.Foreground(r.theme.BusyFg)
	case state.View.LastError != nil || state.Fetch.Error != "":
		statusStyle = normalStyle.Foreground(r.theme.ErrorFg)
	}

	r.fillRow(0, w, y, normalStyle)
	status := " " + textutil.SanitizeLine(formatFetchStatus(state, r.now())) + " "
	status = r.truncateTextToWidth(status, w)
	x := r.drawTextLine(0, y, w, status, statusStyle)

	help := buildFooterHelpText(state)
	if helpWidth := r.measureTextWidth(help); help != "" && x+helpWidth <= w {
		r.drawTextLine(w-helpWidth, y, helpWidth, help, normalStyle)
	}
}

func (r *Renderer) truncateTextToWidth(text string, maxWidth int) string {
	return textutil.Truncate(text, maxWidth)
}
