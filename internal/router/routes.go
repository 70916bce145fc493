package router

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	v1 "github.com/tinoosan/shelfd/api/v1"
	"github.com/tinoosan/shelfd/internal/auth"
	"github.com/tinoosan/shelfd/internal/service"
)

// New sets up the application routes and required middleware.
func New(logger *slog.Logger, librarySvc service.Library) *mux.Router {

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			logger.Error("write healthz response", "err", err)
		}
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	libraryHandler := v1.NewLibraryHandler(logger, librarySvc)

	r.Use(v1.RequestID)
	r.Use(libraryHandler.Log)
	r.Use(auth.Middleware)

	api := r.PathPrefix("/v1").Subrouter()

	// GETs
	get := api.Methods("GET").Subrouter()
	get.HandleFunc("/library", libraryHandler.GetLibrary)
	get.HandleFunc("/library/{id}", libraryHandler.GetEntry)
	get.HandleFunc("/library/{id}/status", libraryHandler.GetStatus)
	get.HandleFunc("/library/{id}/actions", libraryHandler.GetActions)
	get.HandleFunc("/capabilities", libraryHandler.GetCapabilities)

	// POSTs
	dispatch := api.Methods("POST").Subrouter()
	dispatch.HandleFunc("/library/{id}/actions/{kind}", libraryHandler.DispatchAction)

	upsert := api.Methods("POST").Subrouter()
	upsert.HandleFunc("/library", libraryHandler.UpsertEntry)
	upsert.Use(v1.MiddlewareEntryValidation)

	// PUTs
	put := api.Methods("PUT").Subrouter()
	put.HandleFunc("/capabilities", libraryHandler.PutCapabilities)
	put.Use(v1.MiddlewareCapsValidation)

	return r
}
