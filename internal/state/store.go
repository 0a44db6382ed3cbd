package state

import (
	"fmt"

	"go.uber.org/zap"
)

// Subscriber is notified with the new state after every dispatch.
type Subscriber func(*AppState)

type subscription struct {
	id int
	fn Subscriber
}

// Store holds the current AppState and runs dispatched actions through the
// root reducer in dispatch order. It is not safe for concurrent use: the
// application loop owns it and other goroutines send actions over a channel.
type Store struct {
	state   *AppState
	reducer *StateReducer
	subs    []subscription
	nextID  int
	logger  *zap.Logger
}

// NewStore creates a store starting from initial. A nil initial state starts
// from NewAppState and a nil logger discards log output.
func NewStore(initial *AppState, reducer *StateReducer, logger *zap.Logger) *Store {
	if initial == nil {
		initial = NewAppState()
	}
	if reducer == nil {
		reducer = NewStateReducer()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		state:   initial,
		reducer: reducer,
		logger:  logger,
	}
}

// State returns the current state. Callers must treat it as read-only.
func (s *Store) State() *AppState {
	return s.state
}

// Dispatch reduces action into the current state and notifies subscribers.
// When the reducer fails the slices are left untouched and the error is
// recorded as the view's LastError.
func (s *Store) Dispatch(action Action) error {
	if action == nil {
		return nil
	}

	next, err := s.reducer.Reduce(s.state, action)
	if err != nil {
		s.logger.Warn("action rejected",
			zap.String("action", actionName(action)),
			zap.Error(err),
		)
		failed := *s.state
		failed.View.LastError = err
		if _, ok := action.(FetchCommentsAction); ok && failed.Fetch.InFlight {
			// The request finished even though its result was rejected.
			failed.Fetch.InFlight = false
			failed.Fetch.Error = err.Error()
		}
		s.state = &failed
		s.notify()
		return fmt.Errorf("dispatch %s: %w", actionName(action), err)
	}

	s.state = next
	s.logger.Debug("action reduced",
		zap.String("action", actionName(action)),
		zap.Int("comments", len(next.Comments)),
		zap.Bool("fetch_in_flight", next.Fetch.InFlight),
	)
	s.notify()
	return nil
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Subscriber) func() {
	if fn == nil {
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify() {
	subs := append([]subscription(nil), s.subs...)
	for _, sub := range subs {
		sub.fn(s.state)
	}
}

func actionName(action Action) string {
	switch a := action.(type) {
	case FetchCommentsAction:
		return ActionFetchComments
	case UnknownAction:
		return a.Type
	default:
		return fmt.Sprintf("%T", action)
	}
}
