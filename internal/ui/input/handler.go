package input

import (
	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rcomments/internal/state"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan<- statepkg.Action
	state      func() *statepkg.AppState // current state for mode checking
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan<- statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetStateFunc sets how the handler reads the current state. The store
// replaces its state on every dispatch, so a snapshot pointer would go stale.
func (ih *InputHandler) SetStateFunc(fn func() *statepkg.AppState) {
	ih.state = fn
}

// ProcessEvent converts a tcell event into an Action. It returns false when
// the event asks the application to quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

func (ih *InputHandler) helpVisible() bool {
	if ih.state == nil {
		return false
	}
	s := ih.state()
	return s != nil && s.View.HelpVisible
}

// processKeyEvent handles keyboard input
func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		ih.actionChan <- statepkg.QuitAction{}
		return false
	}

	if ih.helpVisible() {
		switch ev.Key() {
		case tcell.KeyEscape:
			ih.actionChan <- statepkg.HelpToggleAction{}
		case tcell.KeyRune:
			switch ev.Rune() {
			case '?', 'q', 'Q':
				ih.actionChan <- statepkg.HelpToggleAction{}
			}
		}
		return true
	}

	switch ev.Key() {
	case tcell.KeyUp:
		ih.actionChan <- statepkg.NavigateUpAction{}
	case tcell.KeyDown:
		ih.actionChan <- statepkg.NavigateDownAction{}
	case tcell.KeyPgUp:
		ih.actionChan <- statepkg.ScrollPageUpAction{}
	case tcell.KeyPgDn:
		ih.actionChan <- statepkg.ScrollPageDownAction{}
	case tcell.KeyHome:
		ih.actionChan <- statepkg.GoTopAction{}
	case tcell.KeyEnd:
		ih.actionChan <- statepkg.GoBottomAction{}
	case tcell.KeyCtrlR, tcell.KeyF5:
		ih.actionChan <- statepkg.RefreshAction{}
	case tcell.KeyCtrlZ:
		ih.actionChan <- statepkg.SuspendAction{}
	case tcell.KeyRune:
		return ih.processRune(ev.Rune())
	}
	return true
}

func (ih *InputHandler) processRune(r rune) bool {
	switch r {
	case 'q', 'Q':
		ih.actionChan <- statepkg.QuitAction{}
		return false
	case 'j':
		ih.actionChan <- statepkg.NavigateDownAction{}
	case 'k':
		ih.actionChan <- statepkg.NavigateUpAction{}
	case ' ':
		ih.actionChan <- statepkg.ScrollPageDownAction{}
	case 'b':
		ih.actionChan <- statepkg.ScrollPageUpAction{}
	case 'g':
		ih.actionChan <- statepkg.GoTopAction{}
	case 'G':
		ih.actionChan <- statepkg.GoBottomAction{}
	case 'r', 'R':
		ih.actionChan <- statepkg.RefreshAction{}
	case 'y':
		ih.actionChan <- statepkg.YankCommentAction{}
	case 'p':
		ih.actionChan <- statepkg.OpenPagerAction{}
	case '?':
		ih.actionChan <- statepkg.HelpToggleAction{}
	}
	return true
}
