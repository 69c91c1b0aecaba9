// Package deploy ships finished database files to a remote host.
package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// Transfer copies path to destination with scp. destination is anything
// scp accepts as a target, typically user@host:/dir/. The user's ssh
// config and agent handle authentication.
func Transfer(ctx context.Context, path, destination string) error {
	if destination == "" {
		return fmt.Errorf("deploy: no destination configured")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("deploy: %w", err)
	}

	slog.Info("deploying", "file", path, "destination", destination)
	start := time.Now()

	cmd := exec.CommandContext(ctx, "scp", path, destination)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("deploy: scp %s to %s: %w", path, destination, err)
	}

	slog.Info("deploy complete", "file", path, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}
