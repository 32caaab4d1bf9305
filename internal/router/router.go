package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"clipforge-backend/internal/handlers"
	"clipforge-backend/internal/middleware"
	"clipforge-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	trendHandler *handlers.TrendHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	nicheHandler *handlers.NicheHandler,
	videoHandler *handlers.VideoHandler,
	learningHandler *handlers.LearningHandler,
	dashboardHandler *handlers.DashboardHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth (public, rate limited) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/token", authHandler.Token)
		})

		// ──── Trends ────
		r.Route("/trends", func(r chi.Router) {
			r.Get("/", trendHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/", trendHandler.Create)
				r.Delete("/{id}", trendHandler.Delete)
			})
		})

		// ──── Analytics ────
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/", analyticsHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/", analyticsHandler.Create)
			})
		})

		// ──── Niches ────
		r.Route("/niches", func(r chi.Router) {
			r.Get("/", nicheHandler.List)
			r.Get("/recommended", nicheHandler.Recommended)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/recompute", nicheHandler.Recompute)
			})
		})

		// ──── Videos ────
		r.Route("/videos", func(r chi.Router) {
			r.Get("/", videoHandler.List)
			r.Get("/{id}", videoHandler.Get)
			r.Get("/{id}/download", videoHandler.Download)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/generate", videoHandler.Generate)
				r.Delete("/{id}", videoHandler.Delete)
			})
		})

		// ──── Learning ────
		r.Route("/learning", func(r chi.Router) {
			r.Get("/insights", learningHandler.Insights)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/feedback", learningHandler.Feedback)
			})
		})

		// ──── Dashboard ────
		r.Get("/dashboard/stats", dashboardHandler.Stats)

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
