package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/fitforge/internal/fit"
	"github.com/claude/fitforge/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db      *storage.DB
	encoder *fit.Encoder
	log     *slog.Logger
	apiKey  string
	version string
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, encoder *fit.Encoder, apiKey, version string, log *slog.Logger) *Server {
	s := &Server{
		db:      db,
		encoder: encoder,
		log:     log,
		apiKey:  apiKey,
		version: version,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Public endpoints — the generator is called straight from browsers.
	s.router.Get("/", s.handleHealth)
	s.router.Post("/generate-fit", s.handleGenerateFIT)

	// History API (API key required)
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Get("/workouts", s.handleQueryWorkouts)
		r.Get("/workouts/{id}", s.handleGetWorkout)
		r.Get("/workouts/{id}/file", s.handleWorkoutFile)
	})
}
