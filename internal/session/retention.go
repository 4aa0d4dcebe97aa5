package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/ashureev/color-magic/internal/store"
)

const retentionInterval = time.Hour

// StartRetentionWorker runs a background goroutine that periodically deletes
// session records idle for longer than retention. A zero retention disables it.
func StartRetentionWorker(ctx context.Context, repo store.Repository, retention time.Duration) {
	if retention <= 0 {
		slog.Info("Session retention disabled")
		return
	}

	ticker := time.NewTicker(retentionInterval)
	go func() {
		defer ticker.Stop()
		slog.Info("Retention worker started", "interval", retentionInterval, "retention", retention)

		for {
			select {
			case <-ticker.C:
				sweepIdleSessions(ctx, repo, retention)
			case <-ctx.Done():
				slog.Info("Retention worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func sweepIdleSessions(ctx context.Context, repo store.Repository, retention time.Duration) {
	deleted, err := repo.DeleteIdleSessions(ctx, retention)
	if err != nil {
		slog.Error("Retention worker failed to delete idle sessions", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("Retention worker deleted idle sessions", "count", deleted)
	}
}
