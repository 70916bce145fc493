package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"nhooyr.io/websocket"

	"github.com/tinoosan/shelfd/internal/data"
	"github.com/tinoosan/shelfd/internal/metrics"
)

// Notification is one frame on the transfer engine's push feed.
type Notification struct {
	Method string `json:"method"`
	// Progress is present for engine.progress. A nil Progress clears the
	// in-flight slot (nothing is being actively serviced).
	Progress *data.ProgressPacket `json:"progress,omitempty"`
	// Seeding is present for engine.seeding and replaces the whole table.
	Seeding []data.SeedingSnapshot `json:"seeding,omitempty"`
	// EntryID is present for engine.deleteComplete.
	EntryID string `json:"entryId,omitempty"`
}

// Stream consumes the engine's WebSocket feed and writes each notification
// into the cells. It is the single writer for every cell it touches.
type Stream struct {
	rawURL string
	feeds  *Feeds
	log    *slog.Logger

	// OnDeleteComplete, when set, runs after a deletion-completion
	// notification has cleared the deleting flag. Wiring uses it to drop
	// the entry's download record.
	OnDeleteComplete func(entryID string)
}

func NewStream(rawURL string, feeds *Feeds, log *slog.Logger) *Stream {
	if log == nil {
		log = slog.Default()
	}
	return &Stream{rawURL: rawURL, feeds: feeds, log: log}
}

// Run connects to the engine feed and processes notifications until the
// context is cancelled or the connection terminates.
func (s *Stream) Run(ctx context.Context) error {
	u, err := url.Parse(s.rawURL)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}

	conn, _, err := websocket.Dial(ctx, u.String(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "done") }()

	lg := s.log.With("operation_id", uuid.NewString())
	lg.Info("engine feed connected", "url", u.String())
	for {
		_, raw, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		// The engine may send newline-delimited JSON; trim before decoding.
		raw = []byte(strings.TrimSpace(string(raw)))
		var n Notification
		if err := json.Unmarshal(raw, &n); err != nil {
			lg.Warn("drop malformed feed frame", "err", err)
			continue
		}
		s.Handle(n)
	}
}

// Handle applies one notification to the cells.
func (s *Stream) Handle(n Notification) {
	switch n.Method {
	case "engine.progress":
		metrics.FeedEvents.WithLabelValues("progress").Inc()
		s.feeds.Progress.Set(n.Progress)
	case "engine.seeding":
		metrics.FeedEvents.WithLabelValues("seeding").Inc()
		s.feeds.Seeding.Replace(n.Seeding)
		metrics.SeedingEntries.Set(float64(s.feeds.Seeding.Len()))
	case "engine.deleteComplete":
		if n.EntryID == "" {
			return
		}
		metrics.FeedEvents.WithLabelValues("deleteComplete").Inc()
		s.feeds.Deletions.Clear(n.EntryID)
		if s.OnDeleteComplete != nil {
			s.OnDeleteComplete(n.EntryID)
		}
	default:
		s.log.Warn("unknown feed method", "method", n.Method)
	}
}
