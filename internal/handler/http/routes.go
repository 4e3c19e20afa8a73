package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging, withGZip)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	// routes without authorization
	router.Get("/api/version", h.getServerVersion)

	router.Route("/api/containers/{container}/{scope}", func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/status", h.status)

		r.Route("/records", func(r chi.Router) {
			r.Post("/", h.saveRecords)
			r.Delete("/", h.deleteRecords)
			r.Post("/fetch", h.fetchRecords)
			r.Post("/query", h.queryRecords)
			r.Get("/{id}", h.getRecord)
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/", h.listSubscriptions)
			r.Put("/", h.saveSubscription)
			r.Delete("/{id}", h.deleteSubscription)
		})
	})

	return router
}
