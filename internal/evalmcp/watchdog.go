package evalmcp

import (
	"context"
	"os"
	"time"

	"protoeval/internal/logging"
)

// WatchParent polls for parent process death and cancels the server context
// when the MCP host goes away. Stdio-spawned servers otherwise outlive a
// crashed host and linger as zombies.
func WatchParent(ctx context.Context, cancelFn context.CancelFunc) {
	ppid := os.Getppid()
	log := logging.New("evalmcp")
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(2 * time.Second):
				if os.Getppid() != ppid {
					log.Warn("parent process died, shutting down", "was_pid", ppid)
					cancelFn()
					return
				}
			}
		}
	}()
}
