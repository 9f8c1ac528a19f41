package mcp

import (
	"context"

	"github.com/swimtrack/swimtrack/internal/models"
	"github.com/swimtrack/swimtrack/internal/remote"
)

// DataSource is the training data the MCP tools read. *remote.Client (live
// API) and *CachedSource (API with local fallback) both satisfy it.
type DataSource interface {
	SearchTrains(ctx context.Context, title string) ([]models.Train, error)
	Community(ctx context.Context, title string) ([]models.Train, error)
	GetTrain(ctx context.Context, id int) (*models.Train, error)
}

var (
	_ DataSource = (*remote.Client)(nil)
	_ DataSource = (*CachedSource)(nil)
)

type contextKey int

const sourceKey contextKey = iota

// WithSource returns a context whose tool calls read from ds. The HTTP
// transport uses it to bind each request to the caller's API session.
func WithSource(ctx context.Context, ds DataSource) context.Context {
	return context.WithValue(ctx, sourceKey, ds)
}

// SourceFromContext returns the DataSource bound by WithSource, or def.
func SourceFromContext(ctx context.Context, def DataSource) DataSource {
	if ds, ok := ctx.Value(sourceKey).(DataSource); ok && ds != nil {
		return ds
	}
	return def
}
