package mcp

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// WatchParent exits the process when the parent that spawned the stdio
// server goes away. Frontends that crash without closing the transport
// would otherwise leave the server orphaned. It must never read stdin:
// the MCP transport owns that stream.
func WatchParent(ctx context.Context, log *slog.Logger) {
	start := os.Getppid()
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Reparenting to init (or the parent pid changing at
			// all) means the frontend is gone.
			if pid := os.Getppid(); pid != start || pid == 1 {
				log.Info("parent process gone, shutting down", "was", start, "now", pid)
				os.Exit(0)
			}
		}
	}
}
