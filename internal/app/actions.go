package app

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"

	statepkg "github.com/kk-code-lab/rcomments/internal/state"
	"github.com/kk-code-lab/rcomments/internal/textutil"
)

func (app *Application) handleClipboard() {
	comment := app.store.State().SelectedComment()
	if comment == nil {
		return
	}
	if len(app.clipboardCmd) == 0 {
		app.reportError(fmt.Errorf("no clipboard command available"))
		return
	}

	cmd := commandBuilder(app.clipboardCmd[0], app.clipboardCmd[1:]...)
	cmd.Stdin = strings.NewReader(clipboardText(comment))
	if err := cmd.Run(); err != nil {
		app.reportError(fmt.Errorf("%s: %w", app.clipboardCmd[0], err))
	}
}

// clipboardText is the author line followed by the sanitized body.
func clipboardText(comment statepkg.Comment) string {
	body := textutil.SanitizeBlock(comment.Body())
	if author := comment.Author(); author != "" {
		return textutil.SanitizeLine(author) + "\n\n" + body
	}
	return body
}

func (app *Application) handleOpenPager() {
	comment := app.store.State().SelectedComment()
	if comment == nil {
		return
	}
	if err := app.openCommentInPager(comment); err != nil {
		app.reportError(err)
	}
}

func (app *Application) openCommentInPager(comment statepkg.Comment) error {
	data, err := json.MarshalIndent(comment, "", "  ")
	if err != nil {
		return fmt.Errorf("encode comment: %w", err)
	}

	tmp, err := os.CreateTemp("", "rcomments-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	pagerArgs := pagerArgs(tmp.Name())
	if len(pagerArgs) == 0 {
		return fmt.Errorf("no pager command available")
	}

	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return app.runPagerFallback(pagerArgs)
	}
	defer func() {
		_ = tty.Close()
	}()

	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}

	cmd := commandBuilder(pagerArgs[0], pagerArgs[1:]...)
	cmd.Stdin = tty
	cmd.Stdout = tty
	cmd.Stderr = tty
	runErr := cmd.Run()

	if err := app.screen.Resume(); err != nil {
		return fmt.Errorf("failed to resume screen: %w", err)
	}
	app.screen.Sync()
	app.dirty = true
	if runErr != nil {
		return fmt.Errorf("%s: %w", pagerArgs[0], runErr)
	}
	return nil
}

func (app *Application) runPagerFallback(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no pager command available")
	}
	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}
	defer func() {
		_ = flushConsoleInput()
		_ = app.screen.Resume()
		app.screen.Sync()
		app.dirty = true
	}()

	cmd := commandBuilder(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return nil
}

func pagerArgs(filePath string) []string {
	base := detectPagerCommand(runtime.GOOS, os.Getenv("PAGER"), pagerLookPath)
	if len(base) == 0 {
		return nil
	}

	args := make([]string, len(base)+1)
	copy(args, base)
	args[len(base)] = filePath
	return args
}
