package engine

import (
	"context"
	"log/slog"
)

type noopEngine struct {
	log *slog.Logger
}

// NewNoop returns an Engine that logs each call and succeeds. Used when no
// real engine is configured, and as the default in tests.
func NewNoop(log *slog.Logger) Engine {
	if log == nil {
		log = slog.Default()
	}
	return &noopEngine{log: log}
}

func (e *noopEngine) op(name, shop, objectID string) error {
	e.log.Info("noop engine", "op", name, "shop", shop, "objectId", objectID)
	return nil
}

func (e *noopEngine) Pause(_ context.Context, shop, objectID string) error {
	return e.op("pause", shop, objectID)
}

func (e *noopEngine) Resume(_ context.Context, shop, objectID string) error {
	return e.op("resume", shop, objectID)
}

func (e *noopEngine) Cancel(_ context.Context, shop, objectID string) error {
	return e.op("cancel", shop, objectID)
}

func (e *noopEngine) Install(_ context.Context, shop, objectID string) error {
	return e.op("install", shop, objectID)
}

func (e *noopEngine) Remove(_ context.Context, shop, objectID string) error {
	return e.op("remove", shop, objectID)
}

func (e *noopEngine) StartSeeding(_ context.Context, shop, objectID string) error {
	return e.op("startSeeding", shop, objectID)
}

func (e *noopEngine) StopSeeding(_ context.Context, shop, objectID string) error {
	return e.op("stopSeeding", shop, objectID)
}
