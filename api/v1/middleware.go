package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/tinoosan/shelfd/internal/data"
	"github.com/tinoosan/shelfd/internal/reqid"
)

type rwLogger struct {
	http.ResponseWriter
	status int
	bytes  int
	err    error
}

func (w *rwLogger) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *rwLogger) SetErr(err error) {
	w.err = err
}

func (w *rwLogger) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

type errorSetter interface {
	SetErr(error)
}

func markErr(w http.ResponseWriter, err error) {
	if es, ok := w.(errorSetter); ok {
		es.SetErr(err)
	}
}

// Log wraps each request with a response recorder and emits one structured
// line per request, including any error the handler marked.
func (h *LibraryHandler) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &rwLogger{ResponseWriter: w}
		start := time.Now()
		next.ServeHTTP(rw, r)

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"bytes", rw.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if id, ok := reqid.From(r.Context()); ok {
			attrs = append(attrs, "request_id", id)
		}
		if rw.err != nil {
			attrs = append(attrs, "err", rw.err)
			h.l.Error("request", attrs...)
			return
		}
		h.l.Info("request", attrs...)
	})
}

// MiddlewareEntryValidation decodes and validates an upserted entry.
func MiddlewareEntryValidation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e := &data.LibraryEntry{}
		if err := decodeJSONStrict(w, r, e, 1<<20); err != nil {
			markErr(w, err)
			if err == ErrContentType {
				http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
				return
			}
			http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}

		// Enforce read-only fields: the server assigns ids and the engine
		// owns download records.
		if e.ID != "" {
			markErr(w, ErrReadOnlyID)
			http.Error(w, ErrReadOnlyID.Error(), http.StatusBadRequest)
			return
		}
		if e.Download != nil {
			markErr(w, ErrReadOnlyDL)
			http.Error(w, ErrReadOnlyDL.Error(), http.StatusBadRequest)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyEntry{}, e)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// MiddlewareCapsValidation decodes a capabilities update.
func MiddlewareCapsValidation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var caps data.UserCapabilities
		if err := decodeJSONStrict(w, r, &caps, 1<<16); err != nil {
			markErr(w, err)
			if err == ErrContentType {
				http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
				return
			}
			http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyCaps{}, caps)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
