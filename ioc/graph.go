package ioc

import (
	"context"
	"time"

	"inbatch/internal/app"
	"inbatch/internal/batch"
	"inbatch/internal/graph"
)

// InitGraphClient 构建图数据库客户端。
func InitGraphClient(ctx context.Context, cfg app.Config) (*graph.Client, func(), error) {
	client, err := graph.NewClient(ctx, graph.Config{
		URI:                  cfg.Neo4j.URI,
		Username:             cfg.Neo4j.Username,
		Password:             cfg.Neo4j.Password,
		Database:             cfg.Neo4j.Database,
		MaxConnectionPool:    cfg.Neo4j.MaxConnectionPool,
		ConnectionTimeoutSec: cfg.Neo4j.ConnectTimeoutSecond,
		ConnectAttempts:      cfg.Neo4j.Retry.Attempts,
		ConnectBackoff:       time.Duration(cfg.Neo4j.Retry.BackoffSeconds) * time.Second,
	})
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = client.Close(context.Background()) }
	return client, cleanup, nil
}

// InitNodeRepository 构建节点仓储并按配置调整批大小。
func InitNodeRepository(client *graph.Client, registry *batch.Registry, cfg app.Config) (*graph.NodeRepository, error) {
	repo, err := graph.NewNodeRepository(client, client, registry)
	if err != nil {
		return nil, err
	}
	if err := applyChunkSizes(registry, cfg, graph.Operations()...); err != nil {
		return nil, err
	}
	return repo, nil
}

func applyChunkSizes(registry *batch.Registry, cfg app.Config, ops ...string) error {
	for _, op := range ops {
		if err := registry.Override(op, cfg.ChunkSize(op, batch.DefaultChunkSize)); err != nil {
			return err
		}
		if err := registry.SetMaxConcurrency(op, cfg.Concurrency(op)); err != nil {
			return err
		}
	}
	return nil
}
