package main

import (
	"context"

	"github.com/spf13/cobra"

	"protoeval/internal/evalmcp"
	"protoeval/internal/logging"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var serveFlags struct {
	root string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio",
	Long: `Starts an MCP server over stdin/stdout exposing list_cases, grade_output,
and run_evals tools, so an orchestrating agent can drive evals directly.

The server monitors for parent process death and self-terminates when the
MCP host disconnects, to avoid zombie processes.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.root, "root", "", "Harness root for fixture resolution (default: current directory)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	srv := evalmcp.NewServer(serveFlags.root)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	evalmcp.WatchParent(ctx, cancel)

	logging.New("evalmcp").Info("starting protoeval MCP server over stdio")
	return srv.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}
