package state

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// CommentBodyLines is how many wrapped body lines are shown per comment.
	CommentBodyLines = 2

	// CommentRows is the number of screen rows one comment occupies in the list:
	// author line, body lines and a blank separator.
	CommentRows = 2 + CommentBodyLines

	// chromeRows covers the header and the status line.
	chromeRows = 2
)

// AppState is the root state. Each field is a slice owned by one reducer.
type AppState struct {
	Comments []Comment   `json:"comments"`
	Fetch    FetchStatus `json:"fetch"`
	View     ViewState   `json:"-"`
}

// FetchStatus tracks the most recent comments request.
type FetchStatus struct {
	RequestID   string    `json:"request_id,omitempty"`
	InFlight    bool      `json:"in_flight"`
	Source      string    `json:"source,omitempty"`
	LastFetched time.Time `json:"last_fetched,omitzero"`
	LastStatus  int       `json:"last_status,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// ViewState is the UI slice: screen size, selection and scroll position.
type ViewState struct {
	Width       int
	Height      int
	Selected    int
	Scroll      int
	HelpVisible bool
	LastError   error
}

// NewAppState returns the state a store starts from.
func NewAppState() *AppState {
	return &AppState{
		Comments: InitialComments(),
	}
}

// PageSize reports how many comments fit on screen.
func (v ViewState) PageSize() int {
	rows := v.Height - chromeRows
	if rows < CommentRows {
		return 1
	}
	return rows / CommentRows
}

// VisibleComments returns the comments currently scrolled into view.
func (s *AppState) VisibleComments() []Comment {
	start := s.View.Scroll
	if start < 0 || start >= len(s.Comments) {
		return nil
	}
	end := start + s.View.PageSize()
	if end > len(s.Comments) {
		end = len(s.Comments)
	}
	return s.Comments[start:end]
}

// SelectedComment returns the highlighted comment or nil when the list is empty.
func (s *AppState) SelectedComment() Comment {
	if s.View.Selected < 0 || s.View.Selected >= len(s.Comments) {
		return nil
	}
	return s.Comments[s.View.Selected]
}

type snapshot struct {
	Comments []Comment   `json:"comments"`
	Fetch    FetchStatus `json:"fetch"`
}

// Snapshot encodes the persistent slices of s keyed by slice name.
func Snapshot(s *AppState) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("snapshot: nil state")
	}
	comments := s.Comments
	if comments == nil {
		comments = []Comment{}
	}
	data, err := json.MarshalIndent(snapshot{Comments: comments, Fetch: s.Fetch}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return data, nil
}
