/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the local UI

STATIC FILE SERVING:
  Serves the built UI from web/dist/ when present, with index.html
  fallback for client-side routing. Without a build, / shows a short API
  index.

SECURITY NOTE:
  No authentication middleware. The server binds for a single local user;
  do not expose it beyond localhost.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/scoutd/main.go: Server startup
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

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		// Project routes
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Post("/", h.CreateProject)
			r.Get("/{id}", h.GetProject)
			r.Put("/{id}", h.RenameProject)
			r.Delete("/{id}", h.DeleteProject)
			r.Put("/{id}/current", h.SetCurrentProject)
			r.Get("/{id}/report", h.GetReport)

			// Location-set routes
			r.Route("/{id}/sets", func(r chi.Router) {
				r.Post("/", h.CreateSet)
				r.Put("/{setID}", h.UpdateSet)
				r.Delete("/{setID}", h.DeleteSet)
				r.Post("/{setID}/photos", h.AddPhoto)
				r.Put("/{setID}/coords", h.SetCoords)
				r.Put("/{setID}/status", h.SetStatus)
				r.Put("/{setID}/notes", h.SetNotes)
			})
		})

		// Technician profile routes
		r.Route("/technician", func(r chi.Router) {
			r.Get("/", h.GetTechnician)
			r.Put("/", h.UpdateTechnician)
		})

		// Document snapshot routes
		r.Get("/export", h.ExportDocument)
		r.Post("/import", h.ImportDocument)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	// Serve static files (the built UI)
	staticDir := "./web/dist"
	if _, err := os.Stat(staticDir); os.IsNotExist(err) {
		exe, _ := os.Executable()
		staticDir = filepath.Join(filepath.Dir(exe), "web", "dist")
	}

	if _, err := os.Stat(staticDir); err == nil {
		fileServer := http.FileServer(http.Dir(staticDir))
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			fullPath := filepath.Join(staticDir, r.URL.Path)
			if _, err := os.Stat(fullPath); os.IsNotExist(err) {
				// SPA routing: serve index.html
				http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
				return
			}
			fileServer.ServeHTTP(w, r)
		})
	} else {
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Sound Scouting API</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Sound Scouting API</h1>
<p>No UI build found. The API is available under <code>/api</code>:</p>
<ul>
<li><code>GET /api/projects</code></li>
<li><code>GET /api/technician</code></li>
<li><code>GET /api/export</code></li>
<li><code>GET /api/health</code></li>
</ul>
</body>
</html>`))
		})
	}

	return r
}
