//go:build wireinject

package main

import (
	"context"

	"inbatch/ioc"
	"inbatch/pkg/server"

	"github.com/google/wire"
)

func InitApp(ctx context.Context) (*server.HTTPServer, func(), error) {
	panic(wire.Build(
		ioc.InitConfig,
		ioc.InitLogger,
		ioc.InitMetrics,
		ioc.InitDispatcher,
		ioc.InitRegistry,
		ioc.InitGraphClient,
		ioc.InitNodeRepository,
		ioc.InitDB,
		ioc.InitAssetRepository,
		ioc.InitLookupHandler,
		ioc.InitGinEngine,
		ioc.InitPurgeScheduler,
		server.NewHTTPServer,
	))
}
