// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio-based MCP server over the shared repositories.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/kgaertn/PAH-PCA-LDA/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for analysis assistants.

The server communicates via stdin/stdout and only reads from the database.
Logs go to stderr.

CONFIGURATION:

  {
    "mcpServers": {
      "pahdb": {
        "command": "pahdb",
        "args": ["mcp", "--db", "/path/to/PAH_database.db"]
      }
    }
  }

AVAILABLE TOOLS:

  list_experiments    List all experiments
  find_experiment     Look up an experiment by name and data state
  list_participants   Participants of an experiment with pain indicators
  get_measurement     One measurement with its datapoints
  query_datapoints    Joined datapoint table with filter cascade

AVAILABLE RESOURCES:

  pahdb://experiments      All experiments
  pahdb://upload-folders   Data folders of completed uploads`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repos, logger)
		if err != nil {
			return err
		}

		ctx, stop := shutdownContext(cmd.Context())
		defer stop()

		return server.Serve(ctx)
	},
}

// shutdownContext is cancelled on SIGINT or SIGTERM, or when stop is called.
func shutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
