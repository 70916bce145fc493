package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net"
	"net/url"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/google/uuid"
	"github.com/tinoosan/shelfd/internal/data"
)

// PostgresRepo implements LibraryRepo backed by PostgreSQL. The download
// record is stored as JSONB since it is opaque to queries: the engine owns
// its shape and this service only reads it whole.
type PostgresRepo struct {
	db *sql.DB
}

// NewPostgresRepo constructs a repository using the provided DSN.
func NewPostgresRepo(dsn string) (*PostgresRepo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	r := &PostgresRepo{db: db}
	if err := r.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

// NewPostgresRepoFromEnv constructs a DSN using component env vars.
// Recognized envs (with defaults):
//
//	POSTGRES_HOST (postgres), POSTGRES_PORT (5432), POSTGRES_DB (shelfd),
//	POSTGRES_USER (shelfd), POSTGRES_PASSWORD (empty), POSTGRES_SSLMODE (disable)
func NewPostgresRepoFromEnv() (*PostgresRepo, error) {
	host := getenv("POSTGRES_HOST", "postgres")
	port := getenv("POSTGRES_PORT", "5432")
	db := getenv("POSTGRES_DB", "shelfd")
	user := getenv("POSTGRES_USER", "shelfd")
	pass := getenv("POSTGRES_PASSWORD", "")
	ssl := getenv("POSTGRES_SSLMODE", "disable")

	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, pass),
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + db,
	}
	q := url.Values{}
	q.Set("sslmode", ssl)
	u.RawQuery = q.Encode()
	return NewPostgresRepo(u.String())
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func (r *PostgresRepo) Close() error { return r.db.Close() }

func (r *PostgresRepo) ensureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS library_entries (
    id UUID PRIMARY KEY,
    shop TEXT NOT NULL,
    object_id TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    download JSONB,
    UNIQUE (shop, object_id)
);
`)
	return err
}

func (r *PostgresRepo) List(ctx context.Context) (data.Entries, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id,shop,object_id,title,download FROM library_entries ORDER BY shop, object_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out data.Entries
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (*data.LibraryEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id,shop,object_id,title,download FROM library_entries WHERE id=$1`, id)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, data.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *PostgresRepo) Upsert(ctx context.Context, e *data.LibraryEntry) (*data.LibraryEntry, error) {
	if e.Shop == "" || e.ObjectID == "" {
		return nil, data.ErrInvalidEntry
	}
	id := e.ID
	if id == "" {
		id = uuid.NewString()
	}
	dlJSON, _ := json.Marshal(e.Download)
	err := r.db.QueryRowContext(ctx, `
INSERT INTO library_entries (id,shop,object_id,title,download)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (shop, object_id) DO UPDATE
SET title = EXCLUDED.title,
    download = COALESCE(EXCLUDED.download, library_entries.download)
RETURNING id
`, id, e.Shop, e.ObjectID, e.Title, nullJSON(dlJSON)).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *PostgresRepo) SetDownload(ctx context.Context, id string, rec *data.DownloadRecord) error {
	dlJSON, _ := json.Marshal(rec)
	res, err := r.db.ExecContext(ctx, `UPDATE library_entries SET download=$1 WHERE id=$2`, nullJSON(dlJSON), id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return data.ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM library_entries WHERE id=$1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return data.ErrNotFound
	}
	return nil
}

// Helpers

type rowScanner interface{ Scan(dest ...any) error }

func scanEntry(rs rowScanner) (*data.LibraryEntry, error) {
	var (
		id, shop, objectID, title string
		dlRaw                     sql.NullString
	)
	if err := rs.Scan(&id, &shop, &objectID, &title, &dlRaw); err != nil {
		return nil, err
	}
	e := &data.LibraryEntry{
		ID:       id,
		Shop:     shop,
		ObjectID: objectID,
		Title:    title,
	}
	if dlRaw.Valid && dlRaw.String != "" {
		_ = json.Unmarshal([]byte(dlRaw.String), &e.Download)
	}
	return e, nil
}

func nullJSON(b []byte) any {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	return string(b)
}
