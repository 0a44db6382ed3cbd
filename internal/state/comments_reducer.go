package state

// ReduceComments owns the comments slice. FETCH_COMMENTS replaces the slice
// with the payload data verbatim; every other action returns state as is.
// Neither argument is modified.
func ReduceComments(state []Comment, action Action) ([]Comment, error) {
	switch a := action.(type) {
	case FetchCommentsAction:
		if a.Payload == nil || a.Payload.Data == nil {
			return state, ErrMissingPayload
		}
		return a.Payload.Data, nil
	default:
		return state, nil
	}
}
