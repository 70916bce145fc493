package v1

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/tinoosan/shelfd/internal/data"
	"github.com/tinoosan/shelfd/internal/service"
)

// LibraryHandler serves the library resolution endpoints.
type LibraryHandler struct {
	l   *slog.Logger
	svc service.Library
}

func NewLibraryHandler(l *slog.Logger, svc service.Library) *LibraryHandler {
	return &LibraryHandler{l: l, svc: svc}
}

// context keys
type ctxKeyEntry struct{}
type ctxKeyCaps struct{}

func (h *LibraryHandler) GetLibrary(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.List(r.Context())
	if err != nil {
		markErr(w, err)
		http.Error(w, "failed to list library", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = data.Entries{}
	}
	if err := writeJSON(w, http.StatusOK, entries); err != nil {
		markErr(w, err)
	}
}

func (h *LibraryHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeEntryErr(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, e); err != nil {
		markErr(w, err)
	}
}

func (h *LibraryHandler) UpsertEntry(w http.ResponseWriter, r *http.Request) {
	v := r.Context().Value(ctxKeyEntry{})
	e, ok := v.(*data.LibraryEntry)
	if !ok || e == nil {
		markErr(w, ErrEntryCtx)
		http.Error(w, ErrEntryCtx.Error(), http.StatusInternalServerError)
		return
	}
	saved, err := h.svc.Upsert(r.Context(), e)
	if err != nil {
		if errors.Is(err, data.ErrInvalidEntry) {
			markErr(w, err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		markErr(w, err)
		http.Error(w, "failed to store entry", http.StatusInternalServerError)
		return
	}
	if err := writeJSON(w, http.StatusCreated, saved); err != nil {
		markErr(w, err)
	}
}

func (h *LibraryHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.ResolveStatus(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeEntryErr(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, st); err != nil {
		markErr(w, err)
	}
}

func (h *LibraryHandler) GetActions(w http.ResponseWriter, r *http.Request) {
	actions, err := h.svc.ResolveActions(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeEntryErr(w, err)
		return
	}
	if actions == nil {
		actions = []data.Action{}
	}
	if err := writeJSON(w, http.StatusOK, actions); err != nil {
		markErr(w, err)
	}
}

func (h *LibraryHandler) DispatchAction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := h.svc.Dispatch(r.Context(), vars["id"], data.ActionKind(vars["kind"]))
	switch {
	case err == nil:
		w.WriteHeader(http.StatusAccepted)
	case errors.Is(err, data.ErrNotFound):
		markErr(w, err)
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, data.ErrUnknownAction):
		markErr(w, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, data.ErrActionNotAllowed):
		markErr(w, err)
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		markErr(w, err)
		http.Error(w, "failed to dispatch action", http.StatusInternalServerError)
	}
}

func (h *LibraryHandler) GetCapabilities(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, h.svc.Capabilities()); err != nil {
		markErr(w, err)
	}
}

func (h *LibraryHandler) PutCapabilities(w http.ResponseWriter, r *http.Request) {
	v := r.Context().Value(ctxKeyCaps{})
	caps, ok := v.(data.UserCapabilities)
	if !ok {
		markErr(w, ErrCapsCtx)
		http.Error(w, ErrCapsCtx.Error(), http.StatusInternalServerError)
		return
	}
	h.svc.SetCapabilities(caps)
	if err := writeJSON(w, http.StatusOK, caps); err != nil {
		markErr(w, err)
	}
}

func (h *LibraryHandler) writeEntryErr(w http.ResponseWriter, err error) {
	markErr(w, err)
	if errors.Is(err, data.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}
