package session

import (
	"context"
	"log/slog"
	"time"
)

// Expirer is a store that can drop idle sessions.
type Expirer interface {
	Expire(ctx context.Context, cutoff time.Time) (int, error)
}

// RunJanitor drops sessions idle for longer than ttl every interval until ctx
// is done.
func RunJanitor(ctx context.Context, store Expirer, ttl, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := store.Expire(ctx, now.Add(-ttl))
			if err != nil {
				logger.Warn("Failed to expire sessions", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("Expired idle sessions", "count", n)
			}
		}
	}
}
