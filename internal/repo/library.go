package repo

import (
	"context"

	"github.com/tinoosan/shelfd/internal/data"
)

type LibraryRepo interface {
	LibraryReader
	LibraryWriter
}

type LibraryReader interface {
	List(ctx context.Context) (data.Entries, error)
	Get(ctx context.Context, id string) (*data.LibraryEntry, error)
}

// LibraryWriter is the ingest surface. The catalog and transfer-engine
// collaborators own the records; this service applies their updates.
type LibraryWriter interface {
	Upsert(ctx context.Context, e *data.LibraryEntry) (*data.LibraryEntry, error)
	SetDownload(ctx context.Context, id string, rec *data.DownloadRecord) error
	Delete(ctx context.Context, id string) error
}
