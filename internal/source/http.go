package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	statepkg "github.com/kk-code-lab/rcomments/internal/state"
	"go.uber.org/zap"
)

const maxResponseBytes = 32 << 20

// StatusError reports a non-2xx response.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %s", e.URL, e.Status)
}

// HTTPSource fetches a JSON array of comments with a GET request.
type HTTPSource struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewHTTPSource creates a source for url. A zero timeout means no client
// timeout; the request context still applies.
func NewHTTPSource(url string, timeout time.Duration, logger *zap.Logger) *HTTPSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (s *HTTPSource) Name() string { return s.url }

func (s *HTTPSource) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *HTTPSource) Fetch(ctx context.Context) (statepkg.FetchCommentsAction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return statepkg.FetchCommentsAction{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "rcomments")

	resp, err := s.client.Do(req)
	if err != nil {
		return statepkg.FetchCommentsAction{}, fmt.Errorf("GET %s: %w", s.url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return statepkg.FetchCommentsAction{}, &StatusError{URL: s.url, Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return statepkg.FetchCommentsAction{}, fmt.Errorf("read response: %w", err)
	}
	action, err := decodeComments(body)
	if err != nil {
		return statepkg.FetchCommentsAction{}, fmt.Errorf("GET %s: %w", s.url, err)
	}
	action.Payload.Status = resp.StatusCode

	s.logger.Debug("comments response",
		zap.String("url", s.url),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
	)
	return action, nil
}
