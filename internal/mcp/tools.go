package mcp

import (
	"context"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/swimtrack/swimtrack/internal/models"
	"github.com/swimtrack/swimtrack/internal/views"
)

// --- Tool definitions ---

var toolListTrainings = mcp.NewTool("list_trainings",
	mcp.WithDescription("List the user's own trainings, newest first. Each entry carries a one-line series summary and the total distance in meters when the description is structured."),
	mcp.WithString("title", mcp.Description("Filter by title (partial match)")),
)

var toolGetTraining = mcp.NewTool("get_training",
	mcp.WithDescription("Get one training rendered block by block: 'Bloque N' labels, exercise lines, per-series meter subtotals and the grand total. Free-text descriptions are returned verbatim."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Training ID")),
)

var toolCommunityTrainings = mcp.NewTool("community_trainings",
	mcp.WithDescription("List trainings shared with the community, with creator, publish date (dd/mm/yyyy) and total meters."),
	mcp.WithString("title", mcp.Description("Filter by title (partial match)")),
)

var toolSummarizeSeries = mcp.NewTool("summarize_series",
	mcp.WithDescription("Parse a training description and return its kind (structured or unstructured), one-line summary, per-series subtotals and totals in meters, yards and cycles."),
	mcp.WithString("description", mcp.Required(), mcp.Description("Training description: a JSON array of {count, exercises} or free text")),
)

// trainingEntry is the compact listing shape.
type trainingEntry struct {
	ID             int                 `json:"id"`
	Title          string              `json:"title"`
	Active         bool                `json:"active"`
	Published      time.Time           `json:"published"`
	PublishedLabel string              `json:"published_label"`
	Structured     bool                `json:"structured"`
	Summary        string              `json:"summary,omitempty"`
	TotalMeters    *int                `json:"total_meters,omitempty"`
	Creator        *models.UserSummary `json:"creator,omitempty"`
}

func entries(trains []models.Train) []trainingEntry {
	out := make([]trainingEntry, 0, len(trains))
	for _, v := range views.NewTrainViews(trains) {
		out = append(out, trainingEntry{
			ID:             v.ID,
			Title:          v.Title,
			Active:         v.Active,
			Published:      v.Published,
			PublishedLabel: v.PublishedLabel,
			Structured:     v.Structured,
			Summary:        v.Summary,
			TotalMeters:    v.TotalMeters,
			Creator:        v.Creator,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Published.After(out[j].Published) })
	return out
}

// --- Tool handlers ---

func (h *handlers) listTrainings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	trains, err := SourceFromContext(ctx, h.ds).SearchTrains(ctx, req.GetString("title", ""))
	if err != nil {
		h.log.Error("mcp list_trainings", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(entries(trains))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTraining(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireFloat("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id := int(raw)
	if id <= 0 || float64(id) != raw {
		return mcp.NewToolResultError("id must be a positive integer"), nil
	}

	t, err := SourceFromContext(ctx, h.ds).GetTrain(ctx, id)
	if err != nil {
		h.log.Error("mcp get_training", "train", id, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(views.NewTrainView(*t))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) communityTrainings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	trains, err := SourceFromContext(ctx, h.ds).Community(ctx, req.GetString("title", ""))
	if err != nil {
		h.log.Error("mcp community_trainings", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(entries(trains))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) summarizeSeries(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	desc, err := req.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError("description parameter is required"), nil
	}

	result, err := mcp.NewToolResultJSON(views.NewSeriesPreview(desc))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
