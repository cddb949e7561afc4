package ioc

import (
	"inbatch/internal/app"
	"inbatch/internal/batch"
	"inbatch/internal/graph"
	"inbatch/internal/router"
	"inbatch/internal/sqlstore"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// InitLookupHandler 构建批量查询 HTTP 处理器。
// 两个仓储都已登记操作，此时校验配置中的操作名。
func InitLookupHandler(nodes *graph.NodeRepository, assets *sqlstore.AssetRepository, registry *batch.Registry, cfg app.Config, logger *zap.Logger) (*router.LookupHandler, error) {
	if err := CheckOperations(registry, cfg); err != nil {
		return nil, err
	}
	return router.NewLookupHandler(nodes, assets, logger), nil
}

// InitGinEngine 构建 gin 引擎。
func InitGinEngine(handler *router.LookupHandler, gatherer prometheus.Gatherer) *gin.Engine {
	return router.NewEngine(handler, gatherer)
}
