package engine

import (
	"context"
	"errors"

	"github.com/tinoosan/shelfd/internal/data"
)

// ErrUnavailable is returned when the transfer engine cannot be reached.
var ErrUnavailable = errors.New("transfer engine unavailable")

// Engine is the transfer-engine collaborator. It performs the actual byte
// movement and side effects; this service only decides which of these
// operations are currently available. All operations are keyed by the
// entry's shop and object id, matching the engine's addressing.
type Engine interface {
	Pause(ctx context.Context, shop, objectID string) error
	Resume(ctx context.Context, shop, objectID string) error
	Cancel(ctx context.Context, shop, objectID string) error
	Install(ctx context.Context, shop, objectID string) error
	// Remove deletes on-disk files for the entry. Completion is reported
	// asynchronously on the engine's event stream; until then the entry
	// stays marked as deleting.
	Remove(ctx context.Context, shop, objectID string) error
	StartSeeding(ctx context.Context, shop, objectID string) error
	StopSeeding(ctx context.Context, shop, objectID string) error
}

// ForAction maps an action kind onto the engine call that serves it.
func ForAction(e Engine, kind data.ActionKind) (func(context.Context, string, string) error, bool) {
	switch kind {
	case data.ActionPause:
		return e.Pause, true
	case data.ActionResume:
		return e.Resume, true
	case data.ActionCancel:
		return e.Cancel, true
	case data.ActionInstall:
		return e.Install, true
	case data.ActionDelete:
		return e.Remove, true
	case data.ActionResumeSeeding:
		return e.StartSeeding, true
	case data.ActionStopSeeding:
		return e.StopSeeding, true
	default:
		return nil, false
	}
}
