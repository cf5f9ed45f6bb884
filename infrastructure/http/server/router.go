package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires middleware and routes around h.
func NewRouter(log *slog.Logger, h *Handler, maxBodyBytes int64) *chi.Mux {
	r := chi.NewRouter()

	r.Use(Metrics)
	r.Use(MaxBodySize(maxBodyBytes))
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(Logger(log))
	r.Use(chimw.Recoverer)

	// The chat front-end is served from anywhere
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", userHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", h.Health)

	r.Post("/participants", h.Join)
	r.Get("/participants", h.ListParticipants)

	r.Post("/messages", h.PostMessage)
	r.Get("/messages", h.ListMessages)
	r.Put("/messages/{id}", h.UpdateMessage)
	r.Delete("/messages/{id}", h.DeleteMessage)

	r.Post("/status", h.Status)

	return r
}
