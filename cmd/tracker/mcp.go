package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iloveparkjisung/Database-Assesment/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the tracker MCP server (stdio)",
	Long: `Start a Model Context Protocol (MCP) server that exposes the selected
tracker's listing, filters, views and insert form as MCP tools via STDIO.

Example:
  tracker --tracker drama mcp
  tracker --tracker contacts mcp --db contacts.db`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := mcp.NewTrackerMCPServer(cfg.Database.Path, trackerSpec, cfg.Database.WAL, cfg.Database.Sync, logger)
		if err != nil {
			return err
		}
		defer srv.Close()

		srv.RegisterTools()

		// Log to stderr so we don't contaminate the JSON-RPC stream on stdout.
		fmt.Fprintf(os.Stderr, "%s MCP server started. DB: %s (WAL: %t, Sync: %s)\n", trackerSpec.Title, srv.DbPath, cfg.Database.WAL, cfg.Database.Sync)
		fmt.Fprintln(os.Stderr, "Available tools: "+strings.Join(mcp.ToolNames, ", "))
		fmt.Fprintln(os.Stderr, "Listening for MCP JSON-RPC on STDIN/STDOUT ... (Ctrl+C to quit)")

		return srv.Start()
	},
}
