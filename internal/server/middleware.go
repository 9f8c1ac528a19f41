package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/swimtrack/swimtrack/internal/session"
)

type contextKey int

const sessionKey contextKey = iota

// requestSession is the API session bound to one browser request. The
// identity is loaded from the API at most once, on first use.
type requestSession struct {
	*session.Session
	once sync.Once
	err  error
}

func (rs *requestSession) load(ctx context.Context) error {
	rs.once.Do(func() {
		if rs.IsAuthenticated() {
			return
		}
		rs.err = rs.Init(ctx)
	})
	return rs.err
}

// WithSession seeds a fresh API session from the request's cookies.
func (s *Server) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := session.New(s.apiURL, s.timeout, s.log)
		if err != nil {
			s.log.Error("creating session", "error", err)
			writeError(w, http.StatusInternalServerError, "session unavailable")
			return
		}
		forwarded := make([]*http.Cookie, 0, len(r.Cookies()))
		for _, c := range r.Cookies() {
			forwarded = append(forwarded, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
		}
		sess.SetCookies(forwarded)

		ctx := context.WithValue(r.Context(), sessionKey, &requestSession{Session: sess})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom returns the session stored by WithSession.
func sessionFrom(r *http.Request) *requestSession {
	rs, _ := r.Context().Value(sessionKey).(*requestSession)
	return rs
}

// RequireUser rejects anonymous requests with 401.
func (s *Server) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs := sessionFrom(r)
		if rs == nil {
			writeError(w, http.StatusInternalServerError, "no session")
			return
		}
		if err := rs.load(r.Context()); err != nil {
			s.apiFailure(w, "loading session", err)
			return
		}
		if !rs.IsAuthenticated() {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects non-admin users with 403. It must run after
// RequireUser.
func (s *Server) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rs := sessionFrom(r); rs == nil || !rs.IsAdmin() {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogging returns middleware that logs each request and records it
// in m.
func RequestLogging(log *slog.Logger, m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			elapsed := time.Since(start)

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			if m != nil {
				m.Requests.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
				m.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
			}
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", elapsed.String(),
			)
		})
	}
}

// CORS adds permissive CORS headers for local development.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Mcp-Session-Id")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter wraps ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Flush lets streaming transports through the wrapper.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
