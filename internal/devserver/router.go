package devserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"zpcs/internal/middleware"
)

// RouterConfig controls the middleware around the API routes.
type RouterConfig struct {
	AllowedOrigins []string
	// RateLimitPerMinute bounds generate and edit calls per client. Zero disables it.
	RateLimitPerMinute int
}

// Router mounts every API route.
func (s *Server) Router(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.Recoverer,
		middleware.Logger(*s.logger),
		middleware.CORS(cfg.AllowedOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.error(w, http.StatusNotFound, "NOT_FOUND", "No route for "+r.Method+" "+r.URL.Path)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.health)
		r.Get("/options", s.listOptions)

		r.Route("/images", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if cfg.RateLimitPerMinute > 0 {
					r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
				}
				r.Post("/generate", s.generate)
				r.Post("/edit", s.edit)
			})
			r.Get("/{id}/file", s.imageFile)
		})

		r.Route("/gallery", func(r chi.Router) {
			r.Get("/", s.gallery)
			r.Delete("/{id}", s.deleteImage)
		})
	})
	return r
}
