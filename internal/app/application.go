package app

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rcomments/internal/config"
	"github.com/kk-code-lab/rcomments/internal/source"
	statepkg "github.com/kk-code-lab/rcomments/internal/state"
	inputui "github.com/kk-code-lab/rcomments/internal/ui/input"
	renderui "github.com/kk-code-lab/rcomments/internal/ui/render"
	"go.uber.org/zap"
)

const (
	inputBufferSize  = 4
	actionBufferSize = 16
)

// Application represents the running app.
type Application struct {
	screen   tcell.Screen
	store    *statepkg.Store
	renderer *renderui.Renderer
	input    *inputui.InputHandler
	inputCh  chan statepkg.Action
	actionCh chan statepkg.Action
	source   source.Source
	fetcher  *source.Fetcher
	cfg      config.Config
	logger   *zap.Logger

	clipboardCmd []string
	shouldQuit   bool
	dirty        bool
	fetching     bool
	unsubscribe  func()
}

// NewApplication opens the configured source and takes over the terminal.
func NewApplication(cfg config.Config, logger *zap.Logger) (*Application, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	src, err := source.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	if err := screen.Init(); err != nil {
		_ = src.Close()
		return nil, err
	}

	clipboardCmd, _ := detectClipboard()
	return newApplication(screen, src, cfg, clipboardCmd, logger), nil
}

func newApplication(screen tcell.Screen, src source.Source, cfg config.Config, clipboardCmd []string, logger *zap.Logger) *Application {
	if logger == nil {
		logger = zap.NewNop()
	}

	store := statepkg.NewStore(nil, statepkg.NewStateReducer(), logger.Named("store"))
	inputCh := make(chan statepkg.Action, inputBufferSize)
	inputHandler := inputui.NewInputHandler(inputCh)
	inputHandler.SetStateFunc(store.State)

	app := &Application{
		screen:       screen,
		store:        store,
		renderer:     renderui.NewRenderer(screen),
		input:        inputHandler,
		inputCh:      inputCh,
		actionCh:     make(chan statepkg.Action, actionBufferSize),
		source:       src,
		fetcher:      source.NewFetcher(logger.Named("fetch")),
		cfg:          cfg,
		logger:       logger,
		clipboardCmd: clipboardCmd,
	}
	app.unsubscribe = store.Subscribe(func(*statepkg.AppState) {
		app.dirty = true
	})

	w, h := screen.Size()
	_ = store.Dispatch(statepkg.ResizeAction{Width: w, Height: h})
	return app
}

// State returns the current store state.
func (app *Application) State() *statepkg.AppState {
	return app.store.State()
}

// Close releases the source and restores the terminal.
func (app *Application) Close() error {
	if app.unsubscribe != nil {
		app.unsubscribe()
		app.unsubscribe = nil
	}
	var errs []error
	if app.source != nil {
		if err := app.source.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close source: %w", err))
		}
	}
	app.screen.Fini()
	return errors.Join(errs...)
}
