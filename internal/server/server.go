package server

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/swimtrack/swimtrack/internal/drafts"
	"github.com/swimtrack/swimtrack/internal/storage"
)

// Server is the view server: a JSON API in front of the Remote Data
// Service that renders trainings, hosts edit drafts and serves the SPA.
type Server struct {
	apiURL  string
	timeout time.Duration
	drafts  *drafts.Registry
	cache   *storage.DB
	metrics *Metrics
	log     *slog.Logger
	router  chi.Router
	now     func() time.Time
}

// New creates a new Server with all routes configured. cache may be nil.
func New(apiURL string, timeout time.Duration, reg *drafts.Registry, cache *storage.DB, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		apiURL:  apiURL,
		timeout: timeout,
		drafts:  reg,
		cache:   cache,
		metrics: NewMetrics(reg.Len),
		log:     log,
		router:  chi.NewRouter(),
		now:     time.Now,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log, s.metrics))
	s.router.Use(CORS)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.WithSession)

		r.Get("/session", s.handleSession)
		r.Post("/session/login", s.handleLogin)
		r.Post("/session/logout", s.handleLogout)
		r.Post("/session/register", s.handleRegister)

		r.Post("/series/preview", s.handleSeriesPreview)

		r.Get("/community", s.handleCommunity)
		r.Get("/trains/{id}/rating", s.handleGetRating)

		r.Group(func(r chi.Router) {
			r.Use(s.RequireUser)

			r.Get("/trains", s.handleListTrains)
			r.Post("/trains", s.handleCreateTrain)
			r.Get("/trains/{id}", s.handleGetTrain)
			r.Put("/trains/{id}", s.handleUpdateTrain)
			r.Delete("/trains/{id}", s.handleDeleteTrain)
			r.Post("/trains/{id}/rating", s.handleRate)

			r.Post("/drafts", s.handleOpenDraft)
			r.Get("/drafts/{id}", s.handleGetDraft)
			r.Post("/drafts/{id}/ops", s.handleDraftOp)
			r.Post("/drafts/{id}/save", s.handleSaveDraft)
			r.Delete("/drafts/{id}", s.handleDiscardDraft)

			r.Get("/suggestions", s.handleListSuggestions)
			r.Post("/suggestions", s.handleCreateSuggestion)
			r.Get("/suggestions/{id}", s.handleGetSuggestion)
			r.Put("/suggestions/{id}", s.handleUpdateSuggestion)
			r.Delete("/suggestions/{id}", s.handleDeleteSuggestion)

			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handleUpdateProfile)

			r.With(s.RequireAdmin).Get("/users", s.handleListUsers)
		})
	})
}

// MountMCP serves an MCP transport under /mcp. Requests pass through the
// session middleware so tools act with the caller's API cookies.
func (s *Server) MountMCP(h http.Handler) {
	s.router.With(s.WithSession).Handle("/mcp", h)
	s.router.With(s.WithSession).Handle("/mcp/*", h)
}

// SetFrontend mounts the embedded SPA filesystem.
// Unmatched routes serve index.html for client-side routing.
func (s *Server) SetFrontend(webFS fs.FS) {
	fileServer := http.FileServerFS(webFS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		// Try to serve the exact file first
		f, err := webFS.Open(r.URL.Path[1:]) // strip leading /
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		// Fallback to index.html for SPA routing
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
