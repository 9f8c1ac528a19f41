package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/swimtrack/swimtrack/internal/series"
)

func (h *handlers) recentTrainings(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	trains, err := SourceFromContext(ctx, h.ds).SearchTrains(ctx, "")
	if err != nil {
		return nil, err
	}

	list := entries(trains)
	if len(list) > recentLimit {
		list = list[:recentLimit]
	}
	return jsonContents(req.Params.URI, list)
}

func (h *handlers) seriesVocabulary(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, map[string]any{
		"units":           series.Units,
		"styles":          series.Styles,
		"meters_per_yard": series.MetersPerYard,
	})
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
