package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	statepkg "github.com/kk-code-lab/rcomments/internal/state"
)

// FileSource reads comments from a local JSON file holding either an array
// of comments or a FETCH_COMMENTS action.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: filepath.Clean(path)}
}

func (s *FileSource) Name() string { return s.path }

// Path is the cleaned file path; the watcher keys events on it.
func (s *FileSource) Path() string { return s.path }

func (s *FileSource) Close() error { return nil }

func (s *FileSource) Fetch(ctx context.Context) (statepkg.FetchCommentsAction, error) {
	if err := ctx.Err(); err != nil {
		return statepkg.FetchCommentsAction{}, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return statepkg.FetchCommentsAction{}, fmt.Errorf("read comments: %w", err)
	}
	action, err := decodeComments(data)
	if err != nil {
		return statepkg.FetchCommentsAction{}, fmt.Errorf("%s: %w", s.path, err)
	}
	return action, nil
}
