package server

import (
	"net/http"

	"github.com/swimtrack/swimtrack/internal/models"
	"github.com/swimtrack/swimtrack/internal/session"
	"github.com/swimtrack/swimtrack/internal/views"
)

type sessionState struct {
	Authenticated bool             `json:"authenticated"`
	Admin         bool             `json:"admin"`
	User          *models.Identity `json:"user"`
}

func stateOf(sess *session.Session) sessionState {
	return sessionState{
		Authenticated: sess.IsAuthenticated(),
		Admin:         sess.IsAdmin(),
		User:          sess.User(),
	}
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	rs := sessionFrom(r)
	if err := rs.load(r.Context()); err != nil {
		s.apiFailure(w, "loading session", err)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(rs.Session))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var form views.LoginForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	creds, err := form.Validate()
	if err != nil {
		s.apiFailure(w, "login", err)
		return
	}

	rs := sessionFrom(r)
	if _, err := rs.Login(r.Context(), creds.Email, creds.Password); err != nil {
		s.apiFailure(w, "login", err)
		return
	}
	relayCookies(w, rs.Session)
	writeJSON(w, http.StatusOK, stateOf(rs.Session))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	rs := sessionFrom(r)
	err := rs.Logout(r.Context())
	for _, c := range r.Cookies() {
		http.SetCookie(w, &http.Cookie{Name: c.Name, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	}
	if err != nil {
		s.apiFailure(w, "logout", err)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(rs.Session))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var form views.RegisterForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	reg, err := form.Validate()
	if err != nil {
		s.apiFailure(w, "register", err)
		return
	}
	if err := sessionFrom(r).Client().Register(r.Context(), reg); err != nil {
		s.apiFailure(w, "register", err)
		return
	}
	s.log.Info("user registered")
	writeJSON(w, http.StatusCreated, map[string]string{"status": "registered"})
}

// relayCookies hands the API session cookies to the browser.
func relayCookies(w http.ResponseWriter, sess *session.Session) {
	for _, c := range sess.Cookies() {
		http.SetCookie(w, &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
