package data

import (
	"encoding/json"
	"errors"
)

// Downloader identifies the transfer backend servicing a download.
type Downloader string

const (
	DownloaderTorrent Downloader = "torrent"
	DownloaderHTTP    Downloader = "http"
	DownloaderDebrid  Downloader = "debrid"
)

// TorrentClass reports whether the backend participates in a swarm and can
// seed after completion.
func (d Downloader) TorrentClass() bool { return d == DownloaderTorrent }

// CredentialGated reports whether the backend requires an external
// credential before transfers can be resumed.
func (d Downloader) CredentialGated() bool { return d == DownloaderDebrid }

// StatusKind is the closed set of engine statuses the resolver understands.
// Anything else is carried through as KindUnrecognized with the raw string
// preserved for display.
type StatusKind string

const (
	KindActive       StatusKind = "active"
	KindPaused       StatusKind = "paused"
	KindSeeding      StatusKind = "seeding"
	KindUnrecognized StatusKind = "unrecognized"
)

// RawStatus pairs the parsed status kind with the verbatim string the
// engine reported. Raw is always set, including for recognized kinds.
type RawStatus struct {
	Kind StatusKind
	Raw  string
}

// ParseRawStatus maps an engine status string onto the closed variant set.
func ParseRawStatus(s string) RawStatus {
	switch StatusKind(s) {
	case KindActive, KindPaused, KindSeeding:
		return RawStatus{Kind: StatusKind(s), Raw: s}
	default:
		return RawStatus{Kind: KindUnrecognized, Raw: s}
	}
}

func (s RawStatus) MarshalJSON() ([]byte, error) { return json.Marshal(s.Raw) }

func (s *RawStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = ParseRawStatus(raw)
	return nil
}

// DownloadRecord is the persisted download state for a library entry. It is
// owned by the transfer-engine collaborator; this service only reads it.
type DownloadRecord struct {
	Downloader      Downloader `json:"downloader"`
	Status          RawStatus  `json:"status"`
	Progress        float64    `json:"progress"`
	BytesDownloaded int64      `json:"bytesDownloaded"`
	// FileSize is nil until the engine has negotiated a total size.
	FileSize *int64 `json:"fileSize,omitempty"`
	Queued   bool   `json:"queued"`
}

func (r *DownloadRecord) Clone() *DownloadRecord {
	if r == nil {
		return nil
	}
	c := *r
	if r.FileSize != nil {
		v := *r.FileSize
		c.FileSize = &v
	}
	return &c
}

// LibraryEntry is one item in the user's library. Download is absent when
// the entry is not currently tracked as a download.
type LibraryEntry struct {
	ID       string          `json:"id"`
	Shop     string          `json:"shop"`
	ObjectID string          `json:"objectId"`
	Title    string          `json:"title"`
	Download *DownloadRecord `json:"download,omitempty"`
}

func (e *LibraryEntry) Clone() *LibraryEntry {
	if e == nil {
		return nil
	}
	c := *e
	c.Download = e.Download.Clone()
	return &c
}

type Entries []*LibraryEntry

func (es Entries) Clone() Entries {
	out := make(Entries, len(es))
	for i, e := range es {
		out[i] = e.Clone()
	}
	return out
}

var (
	ErrNotFound         = errors.New("library entry not found")
	ErrInvalidEntry     = errors.New("entry requires shop and objectId")
	ErrUnknownAction    = errors.New("unknown action kind")
	ErrActionNotAllowed = errors.New("action not currently permitted")
)
