package state

// StateReducer is the root reducer. It hands every action to the reducer of
// each slice and assembles the next AppState from their results.
type StateReducer struct{}

// NewStateReducer creates a new root reducer.
func NewStateReducer() *StateReducer {
	return &StateReducer{}
}

// Reduce applies action to state and returns the next state. state is never
// modified; on error the input state is returned unchanged.
func (r *StateReducer) Reduce(state *AppState, action Action) (*AppState, error) {
	if state == nil {
		state = NewAppState()
	}

	comments, err := ReduceComments(state.Comments, action)
	if err != nil {
		return state, err
	}

	next := *state
	next.Comments = comments
	next.Fetch = ReduceFetch(state.Fetch, action)
	if !isStaleFailure(state.Fetch, action) {
		next.View = ReduceView(state.View, len(comments), action)
	}
	return &next, nil
}

// ReduceFetch owns the fetch status slice.
func ReduceFetch(status FetchStatus, action Action) FetchStatus {
	switch a := action.(type) {
	case FetchStartedAction:
		status.RequestID = a.RequestID
		status.Source = a.Source
		status.InFlight = true
		status.Error = ""
		return status

	case FetchCommentsAction:
		status.InFlight = false
		status.Error = ""
		if a.RequestID != "" {
			status.RequestID = a.RequestID
		}
		if a.Source != "" {
			status.Source = a.Source
		}
		if !a.At.IsZero() {
			status.LastFetched = a.At
		}
		if a.Payload != nil {
			status.LastStatus = a.Payload.Status
		}
		return status

	case FetchFailedAction:
		// A failure from an older request must not hide a newer one in flight.
		if isStaleFailure(status, a) {
			return status
		}
		status.InFlight = false
		if a.Err != nil {
			status.Error = a.Err.Error()
		}
		return status

	default:
		return status
	}
}

// isStaleFailure reports whether action is a FetchFailedAction for a request
// other than the one status tracks.
func isStaleFailure(status FetchStatus, action Action) bool {
	failed, ok := action.(FetchFailedAction)
	return ok && failed.RequestID != "" && failed.RequestID != status.RequestID
}

// ReduceView owns the view slice. count is the length of the comments slice
// the view is positioned over.
func ReduceView(view ViewState, count int, action Action) ViewState {
	switch a := action.(type) {
	case ResizeAction:
		view.Width = a.Width
		view.Height = a.Height

	case NavigateDownAction:
		view.Selected++

	case NavigateUpAction:
		view.Selected--

	case ScrollPageDownAction:
		view.Selected += view.PageSize()

	case ScrollPageUpAction:
		view.Selected -= view.PageSize()

	case GoTopAction:
		view.Selected = 0

	case GoBottomAction:
		view.Selected = count - 1

	case HelpToggleAction:
		view.HelpVisible = !view.HelpVisible
		return view

	case FetchCommentsAction:
		view.LastError = nil

	case FetchFailedAction:
		view.LastError = a.Err
		return view

	case ReportErrorAction:
		view.LastError = a.Err
		return view

	default:
		return view
	}

	return clampView(view, count)
}

func clampView(view ViewState, count int) ViewState {
	if count == 0 {
		view.Selected = 0
		view.Scroll = 0
		return view
	}
	if view.Selected >= count {
		view.Selected = count - 1
	}
	if view.Selected < 0 {
		view.Selected = 0
	}

	page := view.PageSize()
	if view.Selected < view.Scroll {
		view.Scroll = view.Selected
	} else if view.Selected >= view.Scroll+page {
		view.Scroll = view.Selected - page + 1
	}

	maxScroll := count - page
	if maxScroll < 0 {
		maxScroll = 0
	}
	if view.Scroll > maxScroll {
		view.Scroll = maxScroll
	}
	if view.Scroll < 0 {
		view.Scroll = 0
	}
	return view
}
