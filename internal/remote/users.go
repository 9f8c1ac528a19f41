package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/swimtrack/swimtrack/internal/models"
)

// ListUsers returns all users, optionally filtered by email. Admin only.
func (c *Client) ListUsers(ctx context.Context, email string) ([]models.User, error) {
	var params url.Values
	if email != "" {
		params = url.Values{"email": {email}}
	}
	var users []models.User
	if err := c.get(ctx, "/users", params, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Profile returns the caller's own user record.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.get(ctx, "/users/profile", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile changes the caller's editable profile fields.
func (c *Client) UpdateProfile(ctx context.Context, p models.ProfileUpdate) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPut, "/users/profile", nil, p, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
