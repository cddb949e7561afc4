package ioc

import (
	"inbatch/internal/app"
	"inbatch/internal/graph"
	"inbatch/internal/job"

	"go.uber.org/zap"
)

// InitPurgeScheduler 构建过期节点清理任务。
func InitPurgeScheduler(cfg app.Config, nodes *graph.NodeRepository, logger *zap.Logger) *job.Scheduler {
	task := job.NewPurgeTask(nodes, cfg.Purge.RetentionRunID, cfg.Purge.Limit, logger)
	return job.NewScheduler("purge", cfg.Purge.Cron, task, logger)
}
