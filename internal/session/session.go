package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/swimtrack/swimtrack/internal/models"
	"github.com/swimtrack/swimtrack/internal/remote"
	"golang.org/x/net/publicsuffix"
)

// ErrNotAuthenticated is returned by operations that need a logged-in user.
var ErrNotAuthenticated = errors.New("not authenticated")

// Session mirrors the API's cookie session into an identity the rest of the
// program can query. It is created explicitly and passed to whoever needs
// it; Init loads the identity and Logout clears it.
type Session struct {
	mu   sync.RWMutex
	jar  *cookiejar.Jar
	base *url.URL
	api  *remote.Client
	user *models.Identity
	log  *slog.Logger
}

// New creates an anonymous session against the API at baseURL.
func New(baseURL string, timeout time.Duration, log *slog.Logger) (*Session, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing api base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api base url %q must be absolute", baseURL)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		jar:  jar,
		base: base,
		api:  remote.New(baseURL, jar, timeout),
		log:  log,
	}, nil
}

// Client returns the API client bound to this session's cookies.
func (s *Session) Client() *remote.Client { return s.api }

// Init fetches the identity bound to the current cookies. An anonymous
// session is not an error.
func (s *Session) Init(ctx context.Context) error {
	id, err := s.api.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("loading current user: %w", err)
	}
	s.setUser(id)
	if id != nil {
		s.log.Debug("session restored", "user_id", id.ID, "role", id.Role)
	}
	return nil
}

// Login authenticates against the API and stores the returned identity.
func (s *Session) Login(ctx context.Context, email, password string) (*models.Identity, error) {
	id, err := s.api.Login(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	s.setUser(id)
	s.log.Info("logged in", "user_id", id.ID)
	return s.User(), nil
}

// Logout ends the session remotely and clears identity and cookies locally.
// Local state is cleared even when the remote call fails.
func (s *Session) Logout(ctx context.Context) error {
	err := s.api.Logout(ctx)
	s.clear()
	if err != nil && !remote.IsUnauthorized(err) {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// User returns a copy of the current identity, or nil when anonymous.
func (s *Session) User() *models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether an identity is loaded.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// IsAdmin reports whether the loaded identity has the admin role.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Role == models.RoleAdmin
}

// RequireUser returns the identity or ErrNotAuthenticated.
func (s *Session) RequireUser() (*models.Identity, error) {
	u := s.User()
	if u == nil {
		return nil, ErrNotAuthenticated
	}
	return u, nil
}

// Cookies returns the API cookies currently held for the base URL.
func (s *Session) Cookies() []*http.Cookie {
	return s.jar.Cookies(s.base)
}

// SetCookies seeds the jar, e.g. from a persisted session or a relayed
// browser request.
func (s *Session) SetCookies(cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}
	s.jar.SetCookies(s.base, cookies)
}

func (s *Session) setUser(id *models.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = id
}

func (s *Session) clear() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	expired := make([]*http.Cookie, 0)
	for _, c := range s.jar.Cookies(s.base) {
		expired = append(expired, &http.Cookie{Name: c.Name, Value: "", Path: "/", MaxAge: -1})
	}
	s.jar.SetCookies(s.base, expired)
}
