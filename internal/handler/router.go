package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ast3d/internal/logging"
)

// RouterOptions configures NewRouter
type RouterOptions struct {
	// Events serves GET /events; nil leaves the route out
	Events http.Handler
	// AllowedOrigins for CORS; empty allows any origin
	AllowedOrigins []string
}

// NewRouter builds the HTTP API
func NewRouter(h *SceneHandler, opts RouterOptions, logger *zap.Logger) http.Handler {
	logger = logging.OrNop(logger)
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(Logger(logger.Named("access")))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, map[string]string{"status": "healthy"}, http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())
	if opts.Events != nil {
		router.Handle("/events", opts.Events)
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/scene", h.GetScene)
		r.Get("/stats", h.GetStats)

		r.Route("/graph", func(r chi.Router) {
			r.Post("/", h.LoadGraph)
			r.Delete("/", h.ClearGraph)
			r.Post("/import", h.ImportGraph)
			r.Get("/export", h.ExportGraph)
		})
		r.Post("/parse", h.ParseSource)

		r.Put("/visibility", h.SetVisibility)
		r.Put("/highlight", h.SetHighlight)
		r.Put("/lights", h.SetLights)

		r.Post("/pointer/move", h.PointerMove)
		r.Post("/pointer/click", h.PointerClick)
		r.Post("/camera/restore", h.RestoreCamera)
		r.Post("/camera/snapshot", h.SnapshotCamera)

		r.Route("/style", func(r chi.Router) {
			r.Get("/", h.GetStyle)
			r.Post("/template/{name}", h.ApplyTemplate)
			r.Put("/node/{type}", h.SetNodeStyle)
			r.Put("/links", h.SetLinkColors)
		})

		r.Route("/snapshots", func(r chi.Router) {
			r.Get("/", h.ListSnapshots)
			r.Post("/", h.SaveSnapshot)
			r.Get("/{id}", h.GetSnapshot)
			r.Delete("/{id}", h.DeleteSnapshot)
			r.Post("/{id}/load", h.LoadSnapshot)
		})
	})

	return router
}
