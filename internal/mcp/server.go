package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// recentLimit caps the recent_trainings resource.
const recentLimit = 10

// New creates an MCP server with all tools and resources registered. Tool
// calls read from the DataSource bound to their context (see WithSource),
// falling back to ds.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	if log == nil {
		log = slog.Default()
	}
	s := server.NewMCPServer("SwimTrack", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("SwimTrack swim training server. List and read the user's trainings and community trainings, and summarize structured series descriptions. Distances are reported in meters; yards are converted at 0.9144 and 'ciclos' never add distance."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListTrainings, Handler: h.listTrainings},
		server.ServerTool{Tool: toolGetTraining, Handler: h.getTraining},
		server.ServerTool{Tool: toolCommunityTrainings, Handler: h.communityTrainings},
		server.ServerTool{Tool: toolSummarizeSeries, Handler: h.summarizeSeries},
	)

	s.AddResources(
		server.ServerResource{Resource: resRecentTrainings, Handler: h.recentTrainings},
		server.ServerResource{Resource: resSeriesVocabulary, Handler: h.seriesVocabulary},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resRecentTrainings = mcp.NewResource(
	"swimtrack://recent_trainings",
	"Recent Trainings",
	mcp.WithResourceDescription("The user's most recently published trainings with their meter totals"),
	mcp.WithMIMEType("application/json"),
)

var resSeriesVocabulary = mcp.NewResource(
	"swimtrack://series_vocabulary",
	"Series Vocabulary",
	mcp.WithResourceDescription("Units and swim styles understood in structured series descriptions"),
	mcp.WithMIMEType("application/json"),
)
