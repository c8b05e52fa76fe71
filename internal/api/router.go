// Tidewatch - Maritime Vessel Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tidewatch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/tidewatch/internal/auth"
	"github.com/tomtom215/tidewatch/internal/config"
	"github.com/tomtom215/tidewatch/internal/middleware"
	"github.com/tomtom215/tidewatch/internal/websocket"
)

// Rate limit for the health group, independent of security.rate_limit_*.
const (
	healthRateLimit  = 1000
	healthRateWindow = time.Minute
)

// RouterOptions configure NewRouter. Hub and Auth may be nil: without a hub
// /api/v1/ws is not mounted, without Auth mutating routes are open.
type RouterOptions struct {
	Security config.SecurityConfig
	Hub      *websocket.Hub
	Auth     *auth.JWTManager
}

// NewRouter mounts the admin API on a chi router.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
	r.Use(corsHandler(opts.Security.CORSOrigins))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/health", func(r chi.Router) {
			r.Use(httprate.Limit(healthRateLimit, healthRateWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(tooManyRequests)))
			r.Get("/", h.Health)
			r.Get("/live", h.Live)
			r.Get("/ready", h.Ready)
		})

		// The upgrade needs the raw connection, so the live feed sits
		// outside the compressed group.
		if opts.Hub != nil {
			r.Get("/ws", websocket.Handler(opts.Hub, opts.Security.CORSOrigins))
		}

		r.Group(func(r chi.Router) {
			r.Use(rateLimit(opts.Security))
			r.Use(chimiddleware.Compress(5, "application/json"))
			if opts.Auth != nil {
				r.Use(opts.Auth.RequireToken)
			}

			r.Route("/zones", func(r chi.Router) {
				r.Get("/", h.ListZones)
				r.Post("/", h.CreateZone)
				r.Get("/{id}", h.GetZone)
				r.Put("/{id}", h.UpdateZone)
				r.Delete("/{id}", h.DeleteZone)
			})

			r.Route("/vessels", func(r chi.Router) {
				r.Get("/", h.ListVessels)
				r.Get("/{mmsi}", h.GetVessel)
				r.Get("/{mmsi}/history", h.VesselHistory)
				r.Delete("/{mmsi}", h.DeleteVessel)
			})

			r.Route("/anomalies", func(r chi.Router) {
				r.Get("/", h.ListAnomalies)
				r.Post("/", h.CreateAnomaly)
				r.Get("/{id}", h.GetAnomaly)
				r.Put("/{id}", h.UpdateAnomaly)
				r.Delete("/{id}", h.DeleteAnomaly)
				r.Post("/{id}/alert", h.SendAnomalyAlert)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "method not allowed", nil)
	})

	return r
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// rateLimit limits the data routes per client IP. A non-positive request
// count disables limiting.
func rateLimit(cfg config.SecurityConfig) func(http.Handler) http.Handler {
	if cfg.RateLimitReqs <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	window := cfg.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	return httprate.Limit(cfg.RateLimitReqs, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(tooManyRequests))
}

func tooManyRequests(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusTooManyRequests, ErrCodeTooManyRequests, "rate limit exceeded", nil)
}
