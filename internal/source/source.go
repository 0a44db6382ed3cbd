// Package source fetches comments from outside the process and turns the
// result into FETCH_COMMENTS actions for the state store.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kk-code-lab/rcomments/internal/config"
	statepkg "github.com/kk-code-lab/rcomments/internal/state"
	"go.uber.org/zap"
)

// ErrNotFetchAction is returned when a file holds an action envelope whose tag
// is not FETCH_COMMENTS.
var ErrNotFetchAction = errors.New("action is not FETCH_COMMENTS")

// Source produces the complete, ordered comment list on every Fetch.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (statepkg.FetchCommentsAction, error)
	Close() error
}

// Open builds the source selected by cfg.Source.
func Open(cfg config.Config, logger *zap.Logger) (Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Source {
	case config.SourceHTTP:
		return NewHTTPSource(cfg.URL, cfg.Timeout, logger), nil
	case config.SourceFile:
		return NewFileSource(cfg.File), nil
	case config.SourceSQLite:
		return OpenSQLite(cfg.DB)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownSource, cfg.Source)
	}
}

// decodeComments accepts either a bare JSON array of comments or a full
// action envelope.
func decodeComments(data []byte) (statepkg.FetchCommentsAction, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		action, err := statepkg.DecodeAction(trimmed)
		if err != nil {
			return statepkg.FetchCommentsAction{}, err
		}
		fetch, ok := action.(statepkg.FetchCommentsAction)
		if !ok {
			return statepkg.FetchCommentsAction{}, fmt.Errorf("%w: got %v", ErrNotFetchAction, action)
		}
		return fetch, nil
	}

	var comments []statepkg.Comment
	if err := json.Unmarshal(trimmed, &comments); err != nil {
		return statepkg.FetchCommentsAction{}, fmt.Errorf("decode comments: %w", err)
	}
	if comments == nil {
		return statepkg.FetchCommentsAction{}, statepkg.ErrMissingPayload
	}
	return statepkg.FetchCommentsAction{
		Payload: &statepkg.CommentsPayload{Data: comments},
	}, nil
}
