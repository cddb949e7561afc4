package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	DispatchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inbatch_dispatch_total",
		Help: "分发次数，mode 区分直接调用与拆批调用",
	}, []string{"operation", "mode"})

	DispatchErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inbatch_dispatch_errors_total",
		Help: "分发失败次数",
	}, []string{"operation"})

	ChunksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inbatch_chunks_total",
		Help: "拆批后实际执行的批次数",
	}, []string{"operation"})

	ChunkDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inbatch_chunk_duration_seconds",
		Help:    "单批调用耗时",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	PurgeDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inbatch_purge_deleted_total",
		Help: "定时清理删除的节点数",
	})
)

// MustRegister 注册指标，可在 main 中调用。
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(DispatchTotal, DispatchErrors, ChunksTotal, ChunkDuration, PurgeDeleted)
}

// DispatchObserver 把分发事件写入 prometheus 指标，实现 batch.Observer。
type DispatchObserver struct{}

func (DispatchObserver) ObserveDispatch(operation string, split bool, chunks int, err error) {
	mode := "direct"
	if split {
		mode = "split"
	}
	DispatchTotal.WithLabelValues(operation, mode).Inc()
	if err != nil {
		DispatchErrors.WithLabelValues(operation).Inc()
	}
}

func (DispatchObserver) ObserveChunk(operation string, elapsed time.Duration, _ error) {
	ChunksTotal.WithLabelValues(operation).Inc()
	ChunkDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
