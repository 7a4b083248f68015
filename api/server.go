/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, the middleware stack and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address for the rate limiter
  3. Logger:     Request logging
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for a separately served front-end

ROUTES:
  /api/holidays      Catalog
  /api/calculate     Lookup (optionally rate limited)
  /api/history       Ledger listing
  /healthz           Health check
  /*                 Static front-end

STATIC FILE SERVING:
  Serves Options.StaticDir when it exists, falling back to index.html for
  unknown paths. Without it, a short page lists the API endpoints.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Options configure the router.
type Options struct {
	StaticDir   string
	CORSOrigins []string

	// CalculateLimiter throttles POST /api/calculate when set.
	CalculateLimiter *RateLimiter
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts Options) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", h.Health)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/holidays", h.ListHolidays)
		r.Get("/history", h.ListHistory)

		r.Group(func(r chi.Router) {
			if opts.CalculateLimiter != nil {
				r.Use(opts.CalculateLimiter.Middleware)
			}
			r.Post("/calculate", h.Calculate)
		})
	})

	mountStatic(r, opts.StaticDir)
	return r
}

func mountStatic(r chi.Router, staticDir string) {
	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			fileServer := http.FileServer(http.Dir(staticDir))
			r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
				fullPath := filepath.Join(staticDir, filepath.Clean("/"+r.URL.Path))

				if _, err := os.Stat(fullPath); os.IsNotExist(err) {
					http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
					return
				}
				fileServer.ServeHTTP(w, r)
			})
			return
		}
	}

	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Holiday Countdown</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Holiday Countdown API</h1>
<p>No front-end directory found. Set STATIC_DIR to serve one.</p>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/holidays">GET /api/holidays</a> - Selectable holidays</li>
<li>POST /api/calculate - Days until a holiday</li>
<li><a href="/api/history">GET /api/history</a> - Past lookups, newest first</li>
</ul>
</body>
</html>`))
	})
}
