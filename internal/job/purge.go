package job

import (
	"context"

	"inbatch/internal/metrics"

	"go.uber.org/zap"
)

// StalePurger 删除过期节点，返回删除数量。
type StalePurger interface {
	PurgeStale(ctx context.Context, retentionRunID string, limit int) (int, error)
}

// NewPurgeTask 返回清理过期节点的任务，retentionRunID 为空时任务不做任何事。
func NewPurgeTask(purger StalePurger, retentionRunID string, limit int, logger *zap.Logger) func(context.Context) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context) error {
		if purger == nil || retentionRunID == "" {
			logger.Info("purge skipped: retention run id not configured")
			return nil
		}
		deleted, err := purger.PurgeStale(ctx, retentionRunID, limit)
		if err != nil {
			return err
		}
		metrics.PurgeDeleted.Add(float64(deleted))
		logger.Info("stale nodes purged", zap.String("retention_run_id", retentionRunID), zap.Int("deleted", deleted))
		return nil
	}
}
