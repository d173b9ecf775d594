package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"taskbridge.backend/pkg/logger"
)

type expiredTokenPurger interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// TokenCleanupJob periodically purges refresh tokens whose stored expiry has
// passed. Expired rows are already rejected at use time; the job only keeps
// the table from growing without bound.
type TokenCleanupJob struct {
	repo     expiredTokenPurger
	interval time.Duration
	stop     chan struct{}
}

func NewTokenCleanupJob(repo expiredTokenPurger) *TokenCleanupJob {
	return &TokenCleanupJob{
		repo:     repo,
		interval: time.Hour,
		stop:     make(chan struct{}),
	}
}

func (j *TokenCleanupJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting refresh token cleanup job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Refresh token cleanup job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Refresh token cleanup job stopped")
			return
		case <-ticker.C:
			j.purgeExpired(ctx)
		}
	}
}

func (j *TokenCleanupJob) Stop() {
	close(j.stop)
}

func (j *TokenCleanupJob) purgeExpired(ctx context.Context) {
	purged, err := j.repo.DeleteExpired(ctx)
	if err != nil {
		logger.Error(ctx, "Failed to purge expired refresh tokens", zap.Error(err))
		return
	}
	if purged > 0 {
		logger.Info(ctx, "Purged expired refresh tokens", zap.Int64("count", purged))
	}
}
