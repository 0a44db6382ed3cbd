//go:build !windows

package app

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rcomments/internal/config"
	"go.uber.org/zap/zaptest"
)

// engagedScreen refuses to resume a screen that was never suspended, the
// way a real terminal screen does.
type engagedScreen struct {
	tcell.SimulationScreen
	suspended bool
	resumes   int
}

func (s *engagedScreen) Suspend() error {
	s.suspended = true
	return s.SimulationScreen.Suspend()
}

func (s *engagedScreen) Resume() error {
	if !s.suspended {
		return errors.New("already engaged")
	}
	s.suspended = false
	s.resumes++
	return s.SimulationScreen.Resume()
}

func TestResumeAfterStopIgnoresSecondResume(t *testing.T) {
	screen := &engagedScreen{SimulationScreen: newSimScreen(t)}
	app := newApplication(screen, &stubSource{}, config.Config{}, nil, zaptest.NewLogger(t))
	t.Cleanup(func() {
		_ = app.Close()
	})

	if err := screen.Suspend(); err != nil {
		t.Fatalf("Suspend: %v", err)
	}
	// The suspend action resumes first; the queued SIGCONT resumes again.
	if !app.resumeAfterStop() {
		t.Fatalf("expected first resume to succeed")
	}
	if app.resumeAfterStop() {
		t.Fatalf("expected second resume to report nothing resumed")
	}

	if err := app.State().View.LastError; err != nil {
		t.Fatalf("expected no error after resume, got %v", err)
	}
	if screen.resumes != 1 {
		t.Fatalf("expected one real resume, got %d", screen.resumes)
	}
	if w := app.State().View.Width; w != 80 {
		t.Fatalf("expected resume to refresh the view size, got width %d", w)
	}
}
