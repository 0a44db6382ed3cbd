package app

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rcomments/internal/source"
	statepkg "github.com/kk-code-lab/rcomments/internal/state"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const watchDebounce = 150 * time.Millisecond

// Run drives the UI until the user quits or ctx is cancelled. Background work
// (screen events, fetches, the file watcher and periodic refresh) is stopped
// before Run returns.
func (app *Application) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	group, groupCtx := errgroup.WithContext(runCtx)

	eventCh := make(chan tcell.Event)
	group.Go(func() error {
		app.screen.ChannelEvents(eventCh, groupCtx.Done())
		return nil
	})
	app.startBackground(groupCtx, group)

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	app.startFetch(groupCtx, group)
	app.renderer.Render(app.store.State())
	app.dirty = false

	for !app.shouldQuit {
		select {
		case <-ctx.Done():
			app.shouldQuit = true
		case ev, ok := <-eventCh:
			if ok {
				app.handleEvent(ev)
			} else {
				eventCh = nil
				app.shouldQuit = true
			}
		case action := <-app.inputCh:
			app.handleAction(groupCtx, group, action)
		case action := <-app.actionCh:
			app.handleAction(groupCtx, group, action)
		case <-sigContCh:
			if app.resumeAfterStop() {
				app.dirty = true
			}
		}

		app.processActions(groupCtx, group)

		if app.dirty && !app.shouldQuit {
			app.renderer.Render(app.store.State())
			app.dirty = false
		}
	}

	cancel()
	return group.Wait()
}

// startBackground launches the periodic refresh and, for file sources, the
// file watcher. Both only send RefreshAction back to the loop.
func (app *Application) startBackground(ctx context.Context, group *errgroup.Group) {
	if app.cfg.Refresh > 0 {
		interval := app.cfg.Refresh
		group.Go(func() error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					app.send(ctx, statepkg.RefreshAction{})
				}
			}
		})
	}

	fileSrc, ok := app.source.(*source.FileSource)
	if !ok || !app.cfg.Watch {
		return
	}
	watcher, err := source.NewWatcher(fileSrc.Path(), watchDebounce, func() {
		app.send(ctx, statepkg.RefreshAction{})
	}, app.logger.Named("watch"))
	if err != nil {
		app.logger.Warn("file watch disabled", zap.String("path", fileSrc.Path()), zap.Error(err))
		_ = app.store.Dispatch(statepkg.ReportErrorAction{Err: err})
		return
	}
	group.Go(func() error {
		return watcher.Run(ctx)
	})
}

// send delivers an action from a background goroutine to the loop.
func (app *Application) send(ctx context.Context, action statepkg.Action) {
	select {
	case app.actionCh <- action:
	case <-ctx.Done():
	}
}

// startFetch runs one fetch in the background unless one is already running.
func (app *Application) startFetch(ctx context.Context, group *errgroup.Group) {
	if app.fetching || app.source == nil {
		return
	}
	app.fetching = true
	group.Go(func() error {
		_ = app.fetcher.Run(ctx, app.source, func(action statepkg.Action) {
			app.send(ctx, action)
		})
		return nil
	})
}

func (app *Application) handleEvent(ev tcell.Event) {
	switch ev.(type) {
	case *tcell.EventKey, *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventInterrupt:
		app.dirty = true
	}
}

func (app *Application) processActions(ctx context.Context, group *errgroup.Group) {
	for !app.shouldQuit {
		select {
		case action := <-app.inputCh:
			app.handleAction(ctx, group, action)
		case action := <-app.actionCh:
			app.handleAction(ctx, group, action)
		default:
			return
		}
	}
}

func (app *Application) handleAction(ctx context.Context, group *errgroup.Group, action statepkg.Action) {
	if action == nil {
		return
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.shouldQuit = true
		return
	case statepkg.RefreshAction:
		app.startFetch(ctx, group)
		return
	case statepkg.SuspendAction:
		app.suspendToShell()
		if app.resumeAfterStop() {
			app.dirty = true
		}
		return
	case statepkg.YankCommentAction:
		app.handleClipboard()
		return
	case statepkg.OpenPagerAction:
		app.handleOpenPager()
		return
	case statepkg.FetchCommentsAction, statepkg.FetchFailedAction:
		app.fetching = false
	}

	// Rejected actions are logged and recorded in the view by the store.
	_ = app.store.Dispatch(action)
}

func (app *Application) reportError(err error) {
	if err == nil {
		return
	}
	_ = app.store.Dispatch(statepkg.ReportErrorAction{Err: err})
}
