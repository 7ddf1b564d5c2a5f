package verification

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// CleanupExpired deletes verification tokens older than the configured expiry.
func (e *Engine) CleanupExpired(ctx context.Context) (int64, error) {
	if e.opts.Expiry <= 0 {
		return 0, nil
	}

	cutoff := e.now().Add(-e.opts.Expiry)
	deleted, err := e.repo.DeleteVerificationsCreatedBefore(ctx, cutoff)
	if err != nil {
		e.logger.Error("failed to clean up expired verification tokens", zap.Error(err))
		return 0, fmt.Errorf("failed to clean up expired verification tokens: %w", err)
	}

	if deleted > 0 {
		e.logger.Info("cleaned up expired verification tokens", zap.Int64("deleted", deleted))
	}
	return deleted, nil
}

// StartCleanupWorker runs CleanupExpired on every tick until ctx is cancelled.
// It returns false without starting when tokens never expire.
func (e *Engine) StartCleanupWorker(ctx context.Context) bool {
	if e.opts.Expiry <= 0 || e.opts.CleanupInterval <= 0 {
		return false
	}

	go func() {
		ticker := time.NewTicker(e.opts.CleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, _ = e.CleanupExpired(ctx)
			}
		}
	}()

	e.logger.Info("started verification token cleanup worker",
		zap.Duration("interval", e.opts.CleanupInterval),
		zap.Duration("expiry", e.opts.Expiry))
	return true
}
