package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/swimtrack/swimtrack/internal/models"
)

// SearchTrains lists the caller's trainings, optionally filtered by title.
func (c *Client) SearchTrains(ctx context.Context, title string) ([]models.Train, error) {
	var trains []models.Train
	if err := c.get(ctx, "/trains", titleParams(title), &trains); err != nil {
		return nil, err
	}
	return trains, nil
}

// Community lists public trainings from every user, optionally filtered by title.
func (c *Client) Community(ctx context.Context, title string) ([]models.Train, error) {
	var trains []models.Train
	if err := c.get(ctx, "/comunidad", titleParams(title), &trains); err != nil {
		return nil, err
	}
	return trains, nil
}

// GetTrain fetches a single training.
func (c *Client) GetTrain(ctx context.Context, id int) (*models.Train, error) {
	var t models.Train
	if err := c.get(ctx, trainPath(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTrain stores a new training and returns it as saved.
func (c *Client) CreateTrain(ctx context.Context, in models.TrainInput) (*models.Train, error) {
	var t models.Train
	if err := c.do(ctx, http.MethodPost, "/trains", nil, in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTrain replaces the editable fields of a training.
func (c *Client) UpdateTrain(ctx context.Context, id int, in models.TrainInput) (*models.Train, error) {
	var t models.Train
	if err := c.do(ctx, http.MethodPut, trainPath(id), nil, in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTrain removes a training.
func (c *Client) DeleteTrain(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, trainPath(id), nil, nil, nil)
}

func trainPath(id int) string {
	return "/trains/" + strconv.Itoa(id)
}

func ratePath(trainID int) string {
	return fmt.Sprintf("/rates/%d", trainID)
}

// GlobalRate fetches the average rating of a training.
func (c *Client) GlobalRate(ctx context.Context, trainID int) (*models.GlobalRate, error) {
	var r models.GlobalRate
	if err := c.get(ctx, ratePath(trainID), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// MyRate fetches the caller's own rating of a training. Zero means not rated.
func (c *Client) MyRate(ctx context.Context, trainID int) (int, error) {
	var r models.Rate
	if err := c.get(ctx, ratePath(trainID)+"/me", nil, &r); err != nil {
		if IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	return r.Value, nil
}

// ErrRatingRange rejects ratings outside one to five stars.
var ErrRatingRange = errors.New("rating must be between 1 and 5")

// Rate stores the caller's star rating (1 to 5) for a training.
func (c *Client) Rate(ctx context.Context, trainID, value int) error {
	if value < 1 || value > 5 {
		return fmt.Errorf("remote: rating %d: %w", value, ErrRatingRange)
	}
	return c.do(ctx, http.MethodPost, ratePath(trainID), nil, models.Rate{Value: value}, nil)
}
