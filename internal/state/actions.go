package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Action is the base interface for all state mutations
type Action interface{}

// ActionFetchComments is the wire tag of FetchCommentsAction.
const ActionFetchComments = "FETCH_COMMENTS"

var (
	// ErrMissingPayload is returned when a FETCH_COMMENTS action carries no
	// payload or no payload.data.
	ErrMissingPayload = errors.New("fetch comments action has no payload data")
	// ErrMissingType is returned when an encoded action has no type tag.
	ErrMissingType = errors.New("action has no type")
	// ErrInvalidComment is returned when a payload.data element is not a JSON
	// object.
	ErrInvalidComment = errors.New("comment record is not a JSON object")
)

// ===== COMMENTS ACTIONS =====

// CommentsPayload is the result of a completed comments request. Only Data is
// read by the comments reducer.
type CommentsPayload struct {
	Status int       `json:"status,omitempty"`
	Data   []Comment `json:"data"`
}

// FetchCommentsAction replaces the comments slice with Payload.Data.
type FetchCommentsAction struct {
	Payload   *CommentsPayload
	RequestID string
	Source    string
	At        time.Time
}

// UnknownAction carries a wire tag no reducer recognizes.
type UnknownAction struct {
	Type string
}

// ===== FETCH LIFECYCLE ACTIONS =====

type FetchStartedAction struct {
	RequestID string
	Source    string
}

type FetchFailedAction struct {
	RequestID string
	Err       error
}

// ===== VIEW ACTIONS =====

type NavigateUpAction struct{}
type NavigateDownAction struct{}
type ScrollPageUpAction struct{}
type ScrollPageDownAction struct{}
type GoTopAction struct{}
type GoBottomAction struct{}
type HelpToggleAction struct{}

type ResizeAction struct {
	Width  int
	Height int
}

// ===== APPLICATION ACTIONS =====

type RefreshAction struct{}
type QuitAction struct{}
type SuspendAction struct{}

// YankCommentAction copies the selected comment to the system clipboard.
type YankCommentAction struct{}

// OpenPagerAction shows the selected comment's full record in $PAGER.
type OpenPagerAction struct{}

// ReportErrorAction surfaces an error raised outside the reducers.
type ReportErrorAction struct {
	Err error
}

// envelope is the JSON shape of an action:
//
//	{ "type": "FETCH_COMMENTS", "payload": { "data": [ ... ] } }
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DecodeAction decodes a JSON action envelope. FETCH_COMMENTS becomes a
// FetchCommentsAction; any other tag becomes an UnknownAction. A fetch action
// without payload.data fails with ErrMissingPayload.
//
// Each element of payload.data must be a JSON object (or null). The fields of
// a record are never interpreted, but scalars and arrays cannot be shown as
// comments and are rejected with ErrInvalidComment.
func DecodeAction(data []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}
	if env.Type == "" {
		return nil, ErrMissingType
	}

	switch env.Type {
	case ActionFetchComments:
		if isAbsent(env.Payload) {
			return nil, fmt.Errorf("decode %s: %w", env.Type, ErrMissingPayload)
		}
		payload, err := decodePayload(env.Payload)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return FetchCommentsAction{Payload: payload}, nil
	default:
		return UnknownAction{Type: env.Type}, nil
	}
}

// EncodeAction is the inverse of DecodeAction for actions with a wire tag.
func EncodeAction(action Action) ([]byte, error) {
	switch a := action.(type) {
	case FetchCommentsAction:
		if a.Payload == nil || a.Payload.Data == nil {
			return nil, ErrMissingPayload
		}
		payload, err := json.Marshal(a.Payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", ActionFetchComments, err)
		}
		return json.Marshal(envelope{Type: ActionFetchComments, Payload: payload})
	case UnknownAction:
		if a.Type == "" {
			return nil, ErrMissingType
		}
		return json.Marshal(envelope{Type: a.Type})
	default:
		return nil, fmt.Errorf("action %T has no wire form", action)
	}
}

// decodePayload decodes payload.data element by element so a non-object
// record is reported by position.
func decodePayload(raw json.RawMessage) (*CommentsPayload, error) {
	var wire struct {
		Status int               `json:"status,omitempty"`
		Data   []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("payload: %w", err)
	}
	if wire.Data == nil {
		return nil, ErrMissingPayload
	}

	data := make([]Comment, len(wire.Data))
	for i, record := range wire.Data {
		trimmed := bytes.TrimSpace(record)
		if bytes.Equal(trimmed, []byte("null")) {
			continue
		}
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, fmt.Errorf("data[%d]: %w", i, ErrInvalidComment)
		}
		if err := json.Unmarshal(trimmed, &data[i]); err != nil {
			return nil, fmt.Errorf("data[%d]: %w", i, err)
		}
	}
	return &CommentsPayload{Status: wire.Status, Data: data}, nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
