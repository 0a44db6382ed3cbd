package state

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sameSlice(a, b []Comment) bool {
	return len(a) == len(b) && reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

func fetch(data ...Comment) FetchCommentsAction {
	if data == nil {
		data = []Comment{}
	}
	return FetchCommentsAction{Payload: &CommentsPayload{Data: data}}
}

func TestReduceCommentsReplacesStateOnFetch(t *testing.T) {
	tests := []struct {
		name   string
		state  []Comment
		action FetchCommentsAction
		want   []Comment
	}{
		{
			name:   "empty state takes fetched comments",
			state:  []Comment{},
			action: fetch(Comment{"id": 1.0, "text": "hi"}),
			want:   []Comment{{"id": 1.0, "text": "hi"}},
		},
		{
			name:   "existing comments are replaced not merged",
			state:  []Comment{{"id": 1.0}},
			action: fetch(Comment{"id": 2.0}, Comment{"id": 3.0}),
			want:   []Comment{{"id": 2.0}, {"id": 3.0}},
		},
		{
			name:   "empty data clears state",
			state:  []Comment{{"id": 1.0}, {"id": 2.0}},
			action: fetch(),
			want:   []Comment{},
		},
		{
			name:   "order and duplicates are kept",
			state:  nil,
			action: fetch(Comment{"id": 3.0}, Comment{"id": 1.0}, Comment{"id": 3.0}),
			want:   []Comment{{"id": 3.0}, {"id": 1.0}, {"id": 3.0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReduceComments(tt.state, tt.action)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("comments mismatch (-want +got):\n%s", diff)
			}
			if !sameSlice(got, tt.action.Payload.Data) {
				t.Fatalf("expected payload data to be returned verbatim")
			}
		})
	}
}

func TestReduceCommentsIgnoresOtherActions(t *testing.T) {
	state := []Comment{{"id": 1.0, "text": "hi"}}
	actions := []Action{
		UnknownAction{Type: "OTHER_ACTION"},
		UnknownAction{Type: "fetch_comments"},
		NavigateDownAction{},
		ResizeAction{Width: 80, Height: 24},
		FetchStartedAction{RequestID: "r1"},
		FetchFailedAction{Err: errors.New("boom")},
		struct{}{},
	}

	for _, action := range actions {
		got, err := ReduceComments(state, action)
		if err != nil {
			t.Fatalf("%T: unexpected error: %v", action, err)
		}
		if !sameSlice(got, state) {
			t.Fatalf("%T: expected the input slice back unchanged, got %v", action, got)
		}
	}
}

func TestReduceCommentsIsIdempotent(t *testing.T) {
	action := fetch(Comment{"id": 7.0})
	once, err := ReduceComments([]Comment{{"id": 1.0}}, action)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	twice, err := ReduceComments(once, action)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(action.Payload.Data, twice); diff != "" {
		t.Fatalf("second fetch changed result (-want +got):\n%s", diff)
	}
}

func TestReduceCommentsDefaultState(t *testing.T) {
	got, err := ReduceComments(InitialComments(), fetch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestReduceCommentsRejectsMissingPayload(t *testing.T) {
	state := []Comment{{"id": 1.0}}
	for name, action := range map[string]FetchCommentsAction{
		"nil payload": {},
		"nil data":    {Payload: &CommentsPayload{Status: 200}},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := ReduceComments(state, action)
			if !errors.Is(err, ErrMissingPayload) {
				t.Fatalf("expected ErrMissingPayload, got %v", err)
			}
			if !sameSlice(got, state) {
				t.Fatalf("expected state unchanged on error")
			}
		})
	}
}

func TestReduceCommentsDoesNotMutateInputs(t *testing.T) {
	state := []Comment{{"id": 1.0, "text": "old"}}
	data := []Comment{{"id": 2.0, "text": "new"}}
	action := FetchCommentsAction{Payload: &CommentsPayload{Status: 200, Data: data}}

	if _, err := ReduceComments(state, action); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff([]Comment{{"id": 1.0, "text": "old"}}, state); diff != "" {
		t.Fatalf("state mutated (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Comment{{"id": 2.0, "text": "new"}}, action.Payload.Data); diff != "" {
		t.Fatalf("payload mutated (-want +got):\n%s", diff)
	}
}
