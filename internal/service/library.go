package service

import (
	"context"

	"github.com/tinoosan/shelfd/internal/data"
	"github.com/tinoosan/shelfd/internal/engine"
	"github.com/tinoosan/shelfd/internal/feed"
	"github.com/tinoosan/shelfd/internal/metrics"
	"github.com/tinoosan/shelfd/internal/policy"
	"github.com/tinoosan/shelfd/internal/repo"
	"github.com/tinoosan/shelfd/internal/status"
)

// Library resolves display states and action sets for library entries and
// dispatches permitted actions to the transfer engine.
type Library interface {
	List(ctx context.Context) (data.Entries, error)
	Get(ctx context.Context, id string) (*data.LibraryEntry, error)
	Upsert(ctx context.Context, e *data.LibraryEntry) (*data.LibraryEntry, error)
	ResolveStatus(ctx context.Context, id string) (data.DisplayState, error)
	ResolveActions(ctx context.Context, id string) ([]data.Action, error)
	Dispatch(ctx context.Context, id string, kind data.ActionKind) error
	Capabilities() data.UserCapabilities
	SetCapabilities(caps data.UserCapabilities)
}

type library struct {
	repo  repo.LibraryRepo
	eng   engine.Engine
	feeds *feed.Feeds
}

func NewLibrary(repo repo.LibraryRepo, eng engine.Engine, feeds *feed.Feeds) Library {
	return &library{repo: repo, eng: eng, feeds: feeds}
}

func (s *library) List(ctx context.Context) (data.Entries, error) {
	return s.repo.List(ctx)
}

func (s *library) Get(ctx context.Context, id string) (*data.LibraryEntry, error) {
	return s.repo.Get(ctx, id)
}

func (s *library) Upsert(ctx context.Context, e *data.LibraryEntry) (*data.LibraryEntry, error) {
	return s.repo.Upsert(ctx, e)
}

// ResolveStatus pulls the latest value of each feed once and derives the
// entry's display state. The derivation itself is pure; only the metrics
// counter at this layer observes it.
func (s *library) ResolveStatus(ctx context.Context, id string) (data.DisplayState, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return data.DisplayState{}, err
	}
	st := status.Resolve(status.Inputs{
		Entry:    e,
		Packet:   s.feeds.Progress.Latest(),
		Seeding:  s.feeds.Seeding.Get(id),
		Deleting: s.feeds.Deletions.IsDeleting(id),
	})
	metrics.StatusResolutions.WithLabelValues(string(st.Kind)).Inc()
	return st, nil
}

func (s *library) ResolveActions(ctx context.Context, id string) ([]data.Action, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return policy.Actions(s.policyInputs(e)), nil
}

// Dispatch validates the action against the current policy output before
// invoking the engine. Activating an action that is not offered, not
// visible, or disabled is rejected.
func (s *library) Dispatch(ctx context.Context, id string, kind data.ActionKind) error {
	call, ok := engine.ForAction(s.eng, kind)
	if !ok {
		return data.ErrUnknownAction
	}
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !permitted(policy.Actions(s.policyInputs(e)), kind) {
		metrics.ActionDispatches.WithLabelValues(string(kind), "rejected").Inc()
		return data.ErrActionNotAllowed
	}

	if kind == data.ActionDelete {
		// Deleting dominates the display state from this point until the
		// engine reports completion on its event stream.
		s.feeds.Deletions.Mark(id)
	}
	if err := call(ctx, e.Shop, e.ObjectID); err != nil {
		if kind == data.ActionDelete {
			s.feeds.Deletions.Clear(id)
		}
		metrics.ActionDispatches.WithLabelValues(string(kind), "error").Inc()
		return err
	}
	metrics.ActionDispatches.WithLabelValues(string(kind), "ok").Inc()
	return nil
}

func (s *library) Capabilities() data.UserCapabilities { return s.feeds.Caps.Get() }

func (s *library) SetCapabilities(caps data.UserCapabilities) { s.feeds.Caps.Set(caps) }

func (s *library) policyInputs(e *data.LibraryEntry) policy.Inputs {
	return policy.Inputs{
		Entry:    e,
		Packet:   s.feeds.Progress.Latest(),
		Deleting: s.feeds.Deletions.IsDeleting(e.ID),
		Caps:     s.feeds.Caps.Get(),
	}
}

func permitted(actions []data.Action, kind data.ActionKind) bool {
	for _, a := range actions {
		if a.Kind == kind {
			return a.Visible && a.Enabled
		}
	}
	return false
}
