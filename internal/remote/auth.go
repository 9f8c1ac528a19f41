package remote

import (
	"context"
	"net/http"

	"github.com/swimtrack/swimtrack/internal/models"
)

// Login authenticates and returns the identity. The API sets the session
// cookie on the client's jar.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.Identity, error) {
	var id models.Identity
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

// Register creates a new account. It does not log the user in.
func (c *Client) Register(ctx context.Context, r models.Registration) error {
	return c.do(ctx, http.MethodPost, "/auth/register", nil, r, nil)
}

// CurrentUser returns the identity bound to the session cookie, or nil when
// the session is anonymous.
func (c *Client) CurrentUser(ctx context.Context) (*models.Identity, error) {
	var id *models.Identity
	if err := c.get(ctx, "/auth/user", nil, &id); err != nil {
		if IsUnauthorized(err) {
			return nil, nil
		}
		return nil, err
	}
	if id != nil && id.ID == 0 && id.Email == "" {
		return nil, nil
	}
	return id, nil
}

// Logout ends the session on the server.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}
