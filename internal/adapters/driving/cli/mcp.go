package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driving/mcp"
)

// portSearchRange is how many ports above --port are tried when it is taken.
const portSearchRange = 10

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can ask
questions of the indexed Freshservice documentation.

Tools:
  query        answer a question, with cited sources
  ingest_text  add or replace a documentation page

Resources:
  fsquery://status, fsquery://documents, fsquery://documents/{id}

By default, the server communicates over stdio using JSON-RPC. Use --port to
start an HTTP server instead; if the port is taken the next free one is used.

Examples:
  # Stdio mode (default, for desktop assistants)
  fsquery mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  fsquery mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "fsquery": {
        "command": "/path/to/fsquery",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	e, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Query:    e.Query,
		Ingest:   e.Ingest,
		Status:   e.Status,
		Document: e.Document,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr, err := mcp.ListenAddr(port, portSearchRange)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
