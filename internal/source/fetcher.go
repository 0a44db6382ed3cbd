package source

import (
	"context"
	"time"

	"github.com/google/uuid"
	statepkg "github.com/kk-code-lab/rcomments/internal/state"
	"go.uber.org/zap"
)

// Dispatch delivers an action to the store owner.
type Dispatch func(statepkg.Action)

// Fetcher runs one request against a Source and reports its lifecycle as
// actions: FetchStartedAction, then FetchCommentsAction or FetchFailedAction.
type Fetcher struct {
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewFetcher(logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Run fetches from src and dispatches the outcome. The returned error is the
// same one carried by the FetchFailedAction.
func (f *Fetcher) Run(ctx context.Context, src Source, dispatch Dispatch) error {
	id := f.newID()
	name := src.Name()
	dispatch(statepkg.FetchStartedAction{RequestID: id, Source: name})

	started := f.now()
	action, err := src.Fetch(ctx)
	if err != nil {
		f.logger.Warn("fetch failed",
			zap.String("request_id", id),
			zap.String("source", name),
			zap.Error(err),
		)
		dispatch(statepkg.FetchFailedAction{RequestID: id, Err: err})
		return err
	}

	action.RequestID = id
	action.Source = name
	if action.At.IsZero() {
		action.At = f.now()
	}

	count := 0
	if action.Payload != nil {
		count = len(action.Payload.Data)
	}
	f.logger.Info("fetched comments",
		zap.String("request_id", id),
		zap.String("source", name),
		zap.Int("count", count),
		zap.Duration("elapsed", f.now().Sub(started)),
	)
	dispatch(action)
	return nil
}
