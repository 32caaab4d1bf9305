package router

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"clipforge-backend/internal/handlers"
	"clipforge-backend/internal/middleware"
	"clipforge-backend/internal/websocket"
)

func routeTable(t *testing.T) map[string]bool {
	t.Helper()

	jwtAuth := middleware.NewJWTAuth("test-secret")
	r := New(
		jwtAuth,
		handlers.NewAuthHandler(jwtAuth, ""),
		handlers.NewTrendHandler(nil),
		handlers.NewAnalyticsHandler(nil),
		handlers.NewNicheHandler(nil),
		handlers.NewVideoHandler(nil),
		handlers.NewLearningHandler(nil, nil),
		handlers.NewDashboardHandler(nil),
		websocket.NewHub(nil),
		"http://localhost:5173",
	)

	routes := make(map[string]bool)
	err := chi.Walk(r.(chi.Routes), func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes[method+" "+route] = true
		return nil
	})
	if err != nil {
		t.Fatalf("walking routes: %v", err)
	}
	return routes
}

func TestRouteTable(t *testing.T) {
	routes := routeTable(t)

	want := []string{
		"GET /health",
		"POST /api/v1/auth/token",
		"GET /api/v1/trends/",
		"POST /api/v1/trends/",
		"DELETE /api/v1/trends/{id}",
		"GET /api/v1/analytics/",
		"POST /api/v1/analytics/",
		"GET /api/v1/niches/",
		"GET /api/v1/niches/recommended",
		"POST /api/v1/niches/recompute",
		"GET /api/v1/videos/",
		"GET /api/v1/videos/{id}",
		"GET /api/v1/videos/{id}/download",
		"POST /api/v1/videos/generate",
		"DELETE /api/v1/videos/{id}",
		"GET /api/v1/learning/insights",
		"POST /api/v1/learning/feedback",
		"GET /api/v1/dashboard/stats",
		"GET /api/v1/ws",
	}

	for _, route := range want {
		if !routes[route] {
			t.Errorf("route %q not registered", route)
		}
	}
}
