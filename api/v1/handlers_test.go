package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tinoosan/shelfd/internal/data"
	"github.com/tinoosan/shelfd/internal/engine"
	"github.com/tinoosan/shelfd/internal/feed"
	"github.com/tinoosan/shelfd/internal/repo"
	"github.com/tinoosan/shelfd/internal/router"
	"github.com/tinoosan/shelfd/internal/service"
)

const testToken = "testtoken"

type fixture struct {
	h     http.Handler
	repo  *repo.InMemoryLibraryRepo
	feeds *feed.Feeds
}

func setup(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("SHELFD_API_TOKEN", testToken)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	libRepo := repo.NewInMemoryLibraryRepo()
	feeds := feed.New()
	svc := service.NewLibrary(libRepo, engine.NewNoop(logger), feeds)
	return &fixture{h: router.New(logger, svc), repo: libRepo, feeds: feeds}
}

func authReq(r *http.Request) {
	r.Header.Set("Authorization", "Bearer "+testToken)
}

func (f *fixture) do(t *testing.T, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	authReq(req)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	f.h.ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	f := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	f.h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rr.Code)
	}
	if strings.TrimSpace(rr.Body.String()) != "ok" {
		t.Fatalf("expected body 'ok' got %q", rr.Body.String())
	}
}

func TestLibraryLifecycle(t *testing.T) {
	f := setup(t)

	// GET empty list
	rr := f.do(t, http.MethodGet, "/v1/library", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rr.Code)
	}
	var list []map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list got %v", list)
	}

	// POST valid entry
	rr = f.do(t, http.MethodPost, "/v1/library", `{"shop":"steam","objectId":"100","title":"Example"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201 got %d: %s", rr.Code, rr.Body.String())
	}
	var created map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("expected assigned id, got %v", created)
	}

	// GET entry
	rr = f.do(t, http.MethodGet, "/v1/library/"+id, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rr.Code)
	}

	// Untracked entry: fallback status, no actions.
	rr = f.do(t, http.MethodGet, "/v1/library/"+id+"/status", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rr.Code)
	}
	var st map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st["kind"] != "fallback" {
		t.Fatalf("expected fallback kind got %v", st["kind"])
	}

	rr = f.do(t, http.MethodGet, "/v1/library/"+id+"/actions", "")
	var actions []map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&actions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(actions) != 0 {
		t.Fatalf("expected no actions for untracked entry, got %v", actions)
	}
}

func TestEntryValidation(t *testing.T) {
	f := setup(t)

	t.Run("rejects missing identity", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/v1/library", `{"title":"nope"}`)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rr.Code)
		}
	})

	t.Run("rejects client-set id", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/v1/library", `{"id":"abc","shop":"steam","objectId":"1"}`)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rr.Code)
		}
	})

	t.Run("rejects client-set download record", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/v1/library", `{"shop":"steam","objectId":"1","download":{"downloader":"torrent","status":"active","progress":0.1,"bytesDownloaded":0,"queued":false}}`)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rr.Code)
		}
	})

	t.Run("rejects wrong content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/library", bytes.NewBufferString("shop=steam"))
		authReq(req)
		req.Header.Set("Content-Type", "text/plain")
		rr := httptest.NewRecorder()
		f.h.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnsupportedMediaType {
			t.Fatalf("expected 415 got %d", rr.Code)
		}
	})
}

func TestStatusAndActionsEndpoints(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	e, err := f.repo.Upsert(ctx, &data.LibraryEntry{Shop: "steam", ObjectID: "100", Title: "Example"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	rec := &data.DownloadRecord{
		Downloader: data.DownloaderTorrent,
		Status:     data.ParseRawStatus("seeding"),
		Progress:   1,
	}
	if err := f.repo.SetDownload(ctx, e.ID, rec); err != nil {
		t.Fatalf("seed download: %v", err)
	}
	f.feeds.Seeding.Replace([]data.SeedingSnapshot{{EntryID: e.ID, UploadSpeed: 2048}})

	rr := f.do(t, http.MethodGet, "/v1/library/"+e.ID+"/status", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	var st map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st["kind"] != "seeding" {
		t.Fatalf("expected seeding got %v", st["kind"])
	}
	if st["uploadSpeed"] != float64(2048) {
		t.Fatalf("expected upload speed 2048 got %v", st["uploadSpeed"])
	}

	rr = f.do(t, http.MethodGet, "/v1/library/"+e.ID+"/actions", "")
	var actions []data.Action
	if err := json.NewDecoder(rr.Body).Decode(&actions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(actions) != 4 {
		t.Fatalf("expected 4 actions got %d", len(actions))
	}
	if actions[0].Kind != data.ActionInstall || !actions[0].Enabled {
		t.Fatalf("expected install first and enabled, got %+v", actions[0])
	}
}

func TestDispatchEndpoint(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	e, _ := f.repo.Upsert(ctx, &data.LibraryEntry{Shop: "steam", ObjectID: "100"})
	_ = f.repo.SetDownload(ctx, e.ID, &data.DownloadRecord{
		Downloader: data.DownloaderTorrent,
		Status:     data.ParseRawStatus("active"),
		Progress:   0.5,
	})

	t.Run("accepted", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/v1/library/"+e.ID+"/actions/pause", "")
		if rr.Code != http.StatusAccepted {
			t.Fatalf("expected 202 got %d: %s", rr.Code, rr.Body.String())
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/v1/library/"+e.ID+"/actions/defragment", "")
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rr.Code)
		}
	})

	t.Run("not permitted", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/v1/library/"+e.ID+"/actions/install", "")
		if rr.Code != http.StatusConflict {
			t.Fatalf("expected 409 got %d", rr.Code)
		}
	})

	t.Run("unknown entry", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/v1/library/missing/actions/pause", "")
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404 got %d", rr.Code)
		}
	})
}

func TestCapabilitiesEndpoint(t *testing.T) {
	f := setup(t)

	rr := f.do(t, http.MethodGet, "/v1/capabilities", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	var caps data.UserCapabilities
	if err := json.NewDecoder(rr.Body).Decode(&caps); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if caps.DebridCredential {
		t.Fatalf("expected no credential by default")
	}

	rr = f.do(t, http.MethodPut, "/v1/capabilities", `{"debridCredential":true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	rr = f.do(t, http.MethodGet, "/v1/capabilities", "")
	if err := json.NewDecoder(rr.Body).Decode(&caps); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !caps.DebridCredential {
		t.Fatalf("expected credential set")
	}
}

func TestAuthRequired(t *testing.T) {
	f := setup(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/library", nil)
	rr := httptest.NewRecorder()
	f.h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}
