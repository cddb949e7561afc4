package ioc

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"inbatch/internal/app"
	"inbatch/internal/batch"
	"inbatch/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// InitMetrics 注册指标并返回 Gatherer 供 /metrics 使用。
func InitMetrics() prometheus.Gatherer {
	reg := prometheus.NewRegistry()
	metrics.MustRegister(reg)
	return reg
}

// InitDispatcher 构建带日志和指标的分发器。
func InitDispatcher(logger *zap.Logger) *batch.Dispatcher {
	return batch.NewDispatcher(logger, metrics.DispatchObserver{})
}

// InitRegistry 构建操作登记表。
func InitRegistry(dispatcher *batch.Dispatcher) *batch.Registry {
	return batch.NewRegistry(dispatcher)
}

// CheckOperations 拒绝 batch.operations 中未登记的操作名，避免拼写错误被静默忽略。
func CheckOperations(registry *batch.Registry, cfg app.Config) error {
	known := registry.Names()
	var unknown []string
	for name := range cfg.Batch.Operations {
		if !slices.Contains(known, name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("batch.operations 中存在未登记的操作: %s", strings.Join(unknown, ", "))
}
