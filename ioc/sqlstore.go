package ioc

import (
	"context"

	"inbatch/internal/app"
	"inbatch/internal/batch"
	"inbatch/internal/sqlstore"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InitDB 打开关系库。
func InitDB(cfg app.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	db, err := sqlstore.Open(sqlstore.Config{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// InitAssetRepository 构建资产仓储、建表并按配置调整批大小。
func InitAssetRepository(ctx context.Context, db *gorm.DB, registry *batch.Registry, cfg app.Config) (*sqlstore.AssetRepository, error) {
	repo, err := sqlstore.NewAssetRepository(db, registry)
	if err != nil {
		return nil, err
	}
	if err := applyChunkSizes(registry, cfg, sqlstore.Operations()...); err != nil {
		return nil, err
	}
	if err := repo.Migrate(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}
