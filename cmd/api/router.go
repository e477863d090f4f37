package main

import (
	"context"
	"net/http"
	"time"

	"gamehub/internal/config"
	"gamehub/internal/game"
	"gamehub/internal/httpx"
	"gamehub/internal/identity"
	"gamehub/internal/library"
	"gamehub/internal/review"
	"gamehub/internal/user"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type repositories struct {
	games     game.Repository
	users     user.Repository
	library   library.Repository
	reviews   review.Repository
	readiness Pinger
}

type handlers struct {
	games   *game.HTTPHandler
	users   *user.HTTPHandler
	library *library.HTTPHandler
	reviews *review.HTTPHandler
}

func newHandlers(repos repositories, limits httpx.PageLimits) handlers {
	return handlers{
		games:   game.NewHTTPHandler(game.NewService(repos.games), limits),
		users:   user.NewHTTPHandler(user.NewService(repos.users), limits),
		library: library.NewHTTPHandler(library.NewService(repos.library), limits),
		reviews: review.NewHTTPHandler(review.NewService(repos.reviews), limits),
	}
}

// newRouter wires middleware and routes. ctx bounds the rate limiter's
// cleanup goroutine.
func newRouter(ctx context.Context, cfg *config.Config, repos repositories) http.Handler {
	h := newHandlers(repos, cfg.Paging)
	limiter := httpx.NewRateLimitMiddleware(ctx, cfg.Security.RateLimitRPS, cfg.Security.RateLimitBurst)

	r := chi.NewRouter()
	r.Use(httpx.RequestIDMiddleware)
	r.Use(httpx.RecoveryMiddleware)
	r.Use(httpx.AccessLogMiddleware)
	r.Use(httpx.MetricsMiddleware)
	r.Use(httpx.CORSMiddleware(cfg.Security.CORSOrigins))
	r.Use(httpx.SecurityHeadersMiddleware(cfg.Security.EnableHSTS))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := repos.readiness.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		if cfg.Security.RateLimitRPS > 0 {
			r.Use(limiter.Middleware)
		}
		r.Use(httpx.RequestSizeLimitMiddleware(cfg.Security.MaxBodyBytes))
		r.Use(httpx.IdentityMiddleware(identity.NewJWTProvider(cfg.Auth.JWTSecret, cfg.Auth.CookieName)))

		r.Get("/games", h.games.List)
		r.Get("/games/{id}", h.games.Get)
		r.Get("/games/{id}/reviews", h.reviews.ListByGame)
		r.Get("/reviews", h.reviews.Index)
		r.Get("/reviews/{id}", h.reviews.Get)

		r.Group(func(r chi.Router) {
			r.Use(httpx.RequireIdentity)

			r.Get("/me", h.users.Me)

			r.Post("/reviews", h.reviews.Create)
			r.Patch("/reviews/{id}", h.reviews.Update)
			r.Delete("/reviews/{id}", h.reviews.Delete)

			r.Get("/users", h.users.List)
			r.Get("/users/{id}", h.users.Get)
			r.Patch("/users/{id}", h.users.Update)
			r.Delete("/users/{id}", h.users.Delete)
			r.Get("/users/{id}/reviews", h.reviews.ListByAuthor)

			r.Get("/users/{id}/games", h.library.List)
			r.Post("/users/{id}/games", h.library.Add)
			r.Get("/users/{id}/games/{gameId}", h.library.Get)
			r.Patch("/users/{id}/games/{gameId}", h.library.Update)
			r.Delete("/users/{id}/games/{gameId}", h.library.Remove)
		})
	})

	return r
}
