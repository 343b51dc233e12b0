// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for Claude integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/insight/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to interact with the insight engine
through a standardized protocol. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "insight": {
        "command": "insight",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  add_entry         Record one daily metric value
  list_entries      List recent daily entries
  compute_score     Composite score and tier from stored entries
  record_analysis   Fold a narrative analysis into memory
  get_memory        Current longitudinal memory snapshot
  clear_memory      Clear cache and cloud memory (idempotent)

AVAILABLE RESOURCES:

  insight://score       Current score, sub-scores, and tier
  insight://memory      Longitudinal memory snapshot
  insight://baselines   Per-metric trailing-window statistics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(eng, entryStore)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
