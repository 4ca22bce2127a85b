package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Purger removes expired session values from a credential backend.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// StartSessionSweeper purges expired sessions every interval until ctx ends.
// The returned channel is closed once the sweeper has stopped.
func StartSessionSweeper(ctx context.Context, purger Purger, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if purger == nil || interval <= 0 {
		close(done)
		return done
	}
	logger = logger.Named("session_sweeper")

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweep(ctx, purger, logger)
			}
		}
	}()
	return done
}

func sweep(ctx context.Context, purger Purger, logger *zap.Logger) {
	purged, err := purger.PurgeExpired(ctx)
	if err != nil {
		logger.Warn("purge expired sessions", zap.Error(err))
		return
	}
	if purged > 0 {
		logger.Debug("expired sessions purged", zap.Int64("count", purged))
	}
}
