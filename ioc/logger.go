package ioc

import (
	"inbatch/internal/app"
	"inbatch/internal/logging"

	"go.uber.org/zap"
)

// InitLogger 构建全局 logger。
func InitLogger(cfg app.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log.Level)
}
