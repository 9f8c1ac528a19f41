package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/swimtrack/swimtrack/internal/models"
	"github.com/swimtrack/swimtrack/internal/remote"
	"github.com/swimtrack/swimtrack/internal/storage"
)

// CachedSource reads through to the API and mirrors every answer into the
// local cache. When the API cannot be reached, reads are served from the
// cache instead. API errors (4xx/5xx answers) are never masked.
type CachedSource struct {
	api   DataSource
	db    *storage.DB
	log   *slog.Logger
	owner int
}

// NewCachedSource wraps api with db. Offline reads only see community rows
// and rows created by owner; owner 0 is anonymous and sees community rows.
func NewCachedSource(api DataSource, db *storage.DB, owner int, log *slog.Logger) *CachedSource {
	if log == nil {
		log = slog.Default()
	}
	return &CachedSource{api: api, db: db, owner: owner, log: log}
}

func (c *CachedSource) SearchTrains(ctx context.Context, title string) ([]models.Train, error) {
	trains, err := c.api.SearchTrains(ctx, title)
	if err == nil {
		c.store(ctx, trains, false)
		return trains, nil
	}
	if !offline(err) {
		return nil, err
	}
	c.log.Warn("api unreachable, listing trainings from cache", "error", err)
	f := storage.ListFilter{Title: title, CreatorID: c.owner}
	if c.owner == 0 {
		f = storage.ListFilter{Title: title, Community: true}
	}
	return c.list(ctx, f, err)
}

func (c *CachedSource) Community(ctx context.Context, title string) ([]models.Train, error) {
	trains, err := c.api.Community(ctx, title)
	if err == nil {
		c.store(ctx, trains, true)
		return trains, nil
	}
	if !offline(err) {
		return nil, err
	}
	c.log.Warn("api unreachable, listing community from cache", "error", err)
	return c.list(ctx, storage.ListFilter{Title: title, Community: true}, err)
}

func (c *CachedSource) GetTrain(ctx context.Context, id int) (*models.Train, error) {
	t, err := c.api.GetTrain(ctx, id)
	if err == nil {
		c.store(ctx, []models.Train{*t}, false)
		return t, nil
	}
	if remote.IsNotFound(err) {
		if derr := c.db.DeleteTrain(ctx, id); derr != nil {
			c.log.Warn("dropping stale cache row failed", "train", id, "error", derr)
		}
		return nil, err
	}
	if !offline(err) {
		return nil, err
	}
	cached, cerr := c.db.GetTrain(ctx, id)
	if cerr != nil {
		return nil, fmt.Errorf("%w (cache: %v)", err, cerr)
	}
	if !c.visible(cached) {
		return nil, fmt.Errorf("%w (cache: %v)", err, storage.ErrNotCached)
	}
	c.log.Warn("api unreachable, serving training from cache", "train", id, "error", err)
	return &cached.Train, nil
}

// Cached lists the cache without touching the API.
func (c *CachedSource) Cached(ctx context.Context, f storage.ListFilter) ([]storage.CachedTrain, error) {
	return c.db.ListTrains(ctx, f)
}

func (c *CachedSource) store(ctx context.Context, trains []models.Train, community bool) {
	if _, err := c.db.UpsertTrains(ctx, trains, community); err != nil {
		c.log.Warn("caching trainings failed", "count", len(trains), "error", err)
	}
}

func (c *CachedSource) list(ctx context.Context, f storage.ListFilter, cause error) ([]models.Train, error) {
	rows, err := c.db.ListTrains(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%w (cache: %v)", cause, err)
	}
	out := make([]models.Train, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Train)
	}
	return out, nil
}

// visible reports whether the cached row may be served to owner.
func (c *CachedSource) visible(t *storage.CachedTrain) bool {
	return t.Community || (c.owner > 0 && t.IDUserCreator == c.owner)
}

// offline reports whether err means the API never answered. A cancelled
// caller is not offline.
func offline(err error) bool {
	return err != nil && remote.StatusOf(err) == 0 && !errors.Is(err, context.Canceled)
}
