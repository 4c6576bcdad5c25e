// Package handlers exposes the record store over a small REST-like surface.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/needlesslygrim/gondolin/internal/middleware"
	"github.com/needlesslygrim/gondolin/internal/store"
	"github.com/needlesslygrim/gondolin/internal/web"
)

// Dependencies holds everything the router needs.
type Dependencies struct {
	Store  *store.Store
	Logger *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(deps *Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Metrics())
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.Recovery(deps.Logger))

	r.Handle("/metrics", promhttp.Handler())
	web.RegisterRoutes(r)

	api := NewAPI(deps.Store)

	// Store access is single-threaded: one request at a time, in arrival
	// order, with no reordering or batching.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Serialize())
		r.Get("/api/v1/query", api.Query)
		r.Post("/api/v1/new", api.New)
		r.Delete("/api/v1/remove", api.Remove)
		r.Get("/api/v1/sync", api.SyncStore)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		deps.Logger.Warn("not found", "method", r.Method, "path", r.URL.Path)
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	return r
}
