package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"harmonic/internal/logging"
	mcpserver "harmonic/internal/mcp"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio",
	Long: `Starts an MCP server over stdin/stdout exposing the grading tools to
agent frontends.

The server monitors for parent process death. When the frontend
disconnects without closing the transport, the server self-terminates
to prevent zombie processes.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	logging.Init(slog.LevelInfo, "text")
	log := logging.New("mcp")

	srv := mcpserver.NewServer()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	go mcpserver.WatchParent(ctx, log)

	log.Info("starting harmonic MCP server over stdio (parent watchdog active)")
	return srv.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}
