package repo

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/tinoosan/shelfd/internal/data"
)

type InMemoryLibraryRepo struct {
	mu      sync.RWMutex
	entries data.Entries
}

func NewInMemoryLibraryRepo() *InMemoryLibraryRepo {
	return &InMemoryLibraryRepo{entries: make(data.Entries, 0)}
}

func (r *InMemoryLibraryRepo) List(ctx context.Context) (data.Entries, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries.Clone(), nil
}

func (r *InMemoryLibraryRepo) Get(ctx context.Context, id string) (*data.LibraryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, err := r.findByID(id)
	if err != nil {
		return nil, err
	}
	return e.Clone(), nil
}

// Upsert matches on (shop, objectId) so the catalog can re-announce an
// entry without creating duplicates.
func (r *InMemoryLibraryRepo) Upsert(ctx context.Context, e *data.LibraryEntry) (*data.LibraryEntry, error) {
	if e.Shop == "" || e.ObjectID == "" {
		return nil, data.ErrInvalidEntry
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.entries {
		if existing.Shop == e.Shop && existing.ObjectID == e.ObjectID {
			existing.Title = e.Title
			if e.Download != nil {
				existing.Download = e.Download.Clone()
			}
			return existing.Clone(), nil
		}
	}
	stored := e.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	r.entries = append(r.entries, stored)
	return stored.Clone(), nil
}

func (r *InMemoryLibraryRepo) SetDownload(ctx context.Context, id string, rec *data.DownloadRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.findByID(id)
	if err != nil {
		return err
	}
	e.Download = rec.Clone()
	return nil
}

func (r *InMemoryLibraryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return data.ErrNotFound
}

func (r *InMemoryLibraryRepo) findByID(id string) (*data.LibraryEntry, error) {
	for _, e := range r.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, data.ErrNotFound
}
