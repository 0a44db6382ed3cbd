package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rcomments/internal/config"
	"github.com/kk-code-lab/rcomments/internal/source"
	statepkg "github.com/kk-code-lab/rcomments/internal/state"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"
)

type stubSource struct {
	comments []statepkg.Comment
	err      error
	block    chan struct{}
	calls    atomic.Int32
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Close() error { return nil }

func (s *stubSource) Fetch(ctx context.Context) (statepkg.FetchCommentsAction, error) {
	s.calls.Add(1)
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return statepkg.FetchCommentsAction{}, ctx.Err()
		}
	}
	if s.err != nil {
		return statepkg.FetchCommentsAction{}, s.err
	}
	return statepkg.FetchCommentsAction{
		Payload: &statepkg.CommentsPayload{Status: 200, Data: s.comments},
	}, nil
}

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("failed to init screen: %v", err)
	}
	screen.SetSize(80, 24)
	return screen
}

func TestMain(m *testing.M) {
	// signal.Notify starts a process-wide receiver that outlives Run.
	goleak.VerifyTestMain(m, goleak.IgnoreAnyFunction("os/signal.loop"))
}

func newTestApplication(t *testing.T, src *stubSource) (*Application, tcell.SimulationScreen) {
	t.Helper()
	return newConfiguredApplication(t, src, config.Config{})
}

func newConfiguredApplication(t *testing.T, src source.Source, cfg config.Config) (*Application, tcell.SimulationScreen) {
	t.Helper()
	screen := newSimScreen(t)
	app := newApplication(screen, src, cfg, nil, zaptest.NewLogger(t))
	t.Cleanup(func() {
		_ = app.Close()
	})
	return app, screen
}

// waitFor subscribes before Run starts and fires once when cond holds.
func waitFor(app *Application, cond func(*statepkg.AppState) bool) <-chan struct{} {
	done := make(chan struct{})
	var once sync.Once
	app.store.Subscribe(func(s *statepkg.AppState) {
		if cond(s) {
			once.Do(func() { close(done) })
		}
	})
	return done
}

func runInBackground(app *Application, ctx context.Context) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Run(ctx)
	}()
	return errCh
}

func awaitSignal(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func awaitExit(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return")
		return nil
	}
}

func screenText(screen tcell.Screen) string {
	w, h := screen.Size()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mainc, _, _, width := screen.GetContent(x, y)
			if width == 0 {
				continue
			}
			b.WriteRune(mainc)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func TestRunFetchesRendersAndQuits(t *testing.T) {
	src := &stubSource{comments: []statepkg.Comment{
		{"id": 1.0, "name": "first author", "body": "hello there"},
		{"id": 2.0, "name": "second author", "body": "general kenobi"},
	}}
	app, screen := newTestApplication(t, src)
	loaded := waitFor(app, func(s *statepkg.AppState) bool { return len(s.Comments) == 2 })

	errCh := runInBackground(app, context.Background())
	awaitSignal(t, loaded, "comments to load")
	screen.InjectKey(tcell.KeyDown, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	if err := awaitExit(t, errCh); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	state := app.State()
	if state.Fetch.InFlight {
		t.Fatalf("expected fetch to be finished")
	}
	if state.Fetch.Source != "stub" || state.Fetch.LastStatus != 200 {
		t.Fatalf("unexpected fetch status: %+v", state.Fetch)
	}
	if state.View.Selected != 1 {
		t.Fatalf("expected selection to move down before quit, got %d", state.View.Selected)
	}
	if text := screenText(screen); !strings.Contains(text, "first author") {
		t.Fatalf("expected rendered comments, got:\n%s", text)
	}
}

func TestRunSurfacesFetchError(t *testing.T) {
	boom := errors.New("upstream down")
	app, _ := newTestApplication(t, &stubSource{err: boom})
	failed := waitFor(app, func(s *statepkg.AppState) bool { return s.Fetch.Error != "" })

	ctx, cancel := context.WithCancel(context.Background())
	errCh := runInBackground(app, ctx)
	awaitSignal(t, failed, "fetch failure")
	cancel()

	if err := awaitExit(t, errCh); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	state := app.State()
	if !errors.Is(state.View.LastError, boom) {
		t.Fatalf("expected LastError %v, got %v", boom, state.View.LastError)
	}
	if len(state.Comments) != 0 {
		t.Fatalf("expected comments to stay empty, got %d", len(state.Comments))
	}
}

func TestRunStopsInFlightFetchOnCancel(t *testing.T) {
	src := &stubSource{block: make(chan struct{})}
	app, _ := newTestApplication(t, src)
	started := waitFor(app, func(s *statepkg.AppState) bool { return s.Fetch.InFlight })

	ctx, cancel := context.WithCancel(context.Background())
	errCh := runInBackground(app, ctx)
	awaitSignal(t, started, "fetch to start")
	cancel()

	if err := awaitExit(t, errCh); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}

func TestRefreshIgnoredWhileFetching(t *testing.T) {
	src := &stubSource{block: make(chan struct{})}
	app, _ := newTestApplication(t, src)

	ctx, cancel := context.WithCancel(context.Background())
	group, groupCtx := errgroup.WithContext(ctx)
	app.handleAction(groupCtx, group, statepkg.RefreshAction{})
	app.handleAction(groupCtx, group, statepkg.RefreshAction{})
	if !app.fetching {
		t.Fatalf("expected fetch to be marked in flight")
	}

	close(src.block)
	var result statepkg.Action
	for result == nil {
		select {
		case action := <-app.actionCh:
			if _, ok := action.(statepkg.FetchStartedAction); ok {
				continue
			}
			result = action
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for fetch result")
		}
	}
	app.handleAction(groupCtx, group, result)
	if app.fetching {
		t.Fatalf("expected fetch flag to clear after result")
	}

	cancel()
	if err := group.Wait(); err != nil {
		t.Fatalf("group.Wait: %v", err)
	}
	if got := src.calls.Load(); got != 1 {
		t.Fatalf("expected one fetch, got %d", got)
	}
}

func TestHelpKeysToggleOverlayState(t *testing.T) {
	app, _ := newTestApplication(t, &stubSource{})
	ctx := context.Background()
	group, groupCtx := errgroup.WithContext(ctx)

	app.handleEvent(tcell.NewEventKey(tcell.KeyRune, '?', tcell.ModNone))
	app.processActions(groupCtx, group)
	if !app.State().View.HelpVisible {
		t.Fatalf("expected help to open")
	}

	app.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	app.processActions(groupCtx, group)
	if app.State().View.HelpVisible || app.shouldQuit {
		t.Fatalf("expected q to close help without quitting")
	}
	_ = group.Wait()
}

func TestRunPeriodicRefresh(t *testing.T) {
	src := &stubSource{comments: []statepkg.Comment{{"id": 1.0}}}
	app, _ := newConfiguredApplication(t, src, config.Config{Refresh: 20 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := runInBackground(app, ctx)

	deadline := time.After(5 * time.Second)
	for src.calls.Load() < 3 {
		select {
		case <-deadline:
			cancel()
			t.Fatalf("expected repeated fetches, got %d", src.calls.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()

	if err := awaitExit(t, errCh); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(app.State().Comments) != 1 {
		t.Fatalf("expected refreshed comments to stay loaded, got %d", len(app.State().Comments))
	}
}

func TestRunWithoutRefreshFetchesOnce(t *testing.T) {
	src := &stubSource{}
	app, _ := newTestApplication(t, src)
	loaded := waitFor(app, func(s *statepkg.AppState) bool { return !s.Fetch.LastFetched.IsZero() })

	ctx, cancel := context.WithCancel(context.Background())
	errCh := runInBackground(app, ctx)
	awaitSignal(t, loaded, "initial fetch")
	time.Sleep(50 * time.Millisecond)
	cancel()

	if err := awaitExit(t, errCh); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := src.calls.Load(); got != 1 {
		t.Fatalf("expected a single fetch without refresh, got %d", got)
	}
}

func TestRunReloadsWatchedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comments.json")
	if err := os.WriteFile(path, []byte(`[{"id":1,"body":"first"}]`), 0o644); err != nil {
		t.Fatalf("write comments: %v", err)
	}

	app, _ := newConfiguredApplication(t, source.NewFileSource(path), config.Config{Watch: true})
	first := waitFor(app, func(s *statepkg.AppState) bool { return len(s.Comments) == 1 })
	reloaded := waitFor(app, func(s *statepkg.AppState) bool { return len(s.Comments) == 2 })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := runInBackground(app, ctx)
	awaitSignal(t, first, "initial file load")

	if err := os.WriteFile(path, []byte(`[{"id":1,"body":"first"},{"id":2,"body":"second"}]`), 0o644); err != nil {
		t.Fatalf("rewrite comments: %v", err)
	}
	awaitSignal(t, reloaded, "watched file reload")
	cancel()

	if err := awaitExit(t, errCh); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if body := app.State().Comments[1].Body(); body != "second" {
		t.Fatalf("expected reloaded body, got %q", body)
	}
}

func TestWatchIgnoredForNonFileSources(t *testing.T) {
	app, _ := newConfiguredApplication(t, &stubSource{}, config.Config{Watch: true})

	ctx, cancel := context.WithCancel(context.Background())
	group, groupCtx := errgroup.WithContext(ctx)
	app.startBackground(groupCtx, group)
	cancel()

	if err := group.Wait(); err != nil {
		t.Fatalf("group.Wait: %v", err)
	}
	if err := app.State().View.LastError; err != nil {
		t.Fatalf("expected no watch error for a non-file source, got %v", err)
	}
}
