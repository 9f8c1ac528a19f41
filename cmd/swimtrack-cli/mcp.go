package main

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/swimtrack/swimtrack/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server on stdio",
	Long: `Start the Model Context Protocol server for AI assistant integration.
The server talks over stdin/stdout with the logged-in session and falls
back to the local cache when the API is unreachable.

CLIENT CONFIGURATION:

  {
    "mcpServers": {
      "swimtrack": {
        "command": "swimtrack",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_trainings        Your trainings with totals
  get_training          One training, block by block
  community_trainings   Shared trainings
  summarize_series      Total a description

AVAILABLE RESOURCES:

  swimtrack://recent_trainings    Latest trainings
  swimtrack://series_vocabulary   Units and styles`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stdio := server.NewStdioServer(mcp.New(state.source, Version, state.log))
		stdio.SetErrorLogger(slog.NewLogLogger(state.log.Handler(), slog.LevelError))
		return stdio.Listen(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
