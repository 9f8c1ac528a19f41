package remote

import (
	"context"
	"net/http"
	"strconv"

	"github.com/swimtrack/swimtrack/internal/models"
)

func suggestionPath(id int) string {
	return "/suggestions/" + strconv.Itoa(id)
}

// ListSuggestions returns every suggestion the caller may see.
func (c *Client) ListSuggestions(ctx context.Context) ([]models.Suggestion, error) {
	var list []models.Suggestion
	if err := c.get(ctx, "/suggestions", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetSuggestion fetches one suggestion.
func (c *Client) GetSuggestion(ctx context.Context, id int) (*models.Suggestion, error) {
	var s models.Suggestion
	if err := c.get(ctx, suggestionPath(id), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSuggestion posts a new suggestion.
func (c *Client) CreateSuggestion(ctx context.Context, in models.SuggestionInput) (*models.Suggestion, error) {
	var s models.Suggestion
	if err := c.do(ctx, http.MethodPost, "/suggestions", nil, in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSuggestion replaces the editable fields of a suggestion.
func (c *Client) UpdateSuggestion(ctx context.Context, id int, in models.SuggestionInput) (*models.Suggestion, error) {
	var s models.Suggestion
	if err := c.do(ctx, http.MethodPut, suggestionPath(id), nil, in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSuggestion removes a suggestion.
func (c *Client) DeleteSuggestion(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, suggestionPath(id), nil, nil, nil)
}
