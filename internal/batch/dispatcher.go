package batch

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"time"

	"inbatch/pkg/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Call 是一次调用的位置参数列表。
type Call []any

// Invoker 执行一次真实的底层调用。
type Invoker func(ctx context.Context, args Call) (any, error)

// Observer 接收分发过程的统计信息，用于指标上报。
type Observer interface {
	ObserveDispatch(operation string, split bool, chunks int, err error)
	ObserveChunk(operation string, elapsed time.Duration, err error)
}

// Dispatcher 负责拆批、逐批调用并合并结果。自身无状态，可并发使用。
type Dispatcher struct {
	logger   *zap.Logger
	observer Observer
}

// NewDispatcher 创建分发器，logger、observer 均可为 nil。
func NewDispatcher(logger *zap.Logger, observer Observer) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{logger: logger.With(zap.String("component", "batch")), observer: observer}
}

var defaultDispatcher = NewDispatcher(nil, nil)

// Dispatch 使用不带日志和指标的默认分发器。
func Dispatch(ctx context.Context, call Call, cfg Config, bindings *Bindings, invoke Invoker) (any, error) {
	return defaultDispatcher.Dispatch(ctx, call, cfg, bindings, invoke)
}

// Dispatch 解析目标参数并决定是否拆批。
//
// 目标参数不是集合，或长度不超过 cfg.ChunkSize 时，只调用一次 invoke 且原样返回结果。
// 否则按批次顺序调用 invoke，切片结果展开、其余结果作为单个元素，合并为 []any 返回。
// 任意一批失败立即返回该错误，不再执行后续批次，已执行批次的副作用不回滚。
func (d *Dispatcher) Dispatch(ctx context.Context, call Call, cfg Config, bindings *Bindings, invoke Invoker) (any, error) {
	op := bindings.Operation()
	if err := cfg.validate(op); err != nil {
		return nil, err
	}
	if invoke == nil {
		return nil, &ConfigError{Operation: op, Field: "invoker", Reason: "must not be nil"}
	}
	idx, err := bindings.Resolve(cfg.TargetParameter)
	if err != nil {
		return nil, err
	}
	if idx >= len(call) {
		return nil, &ParamNotFoundError{Param: cfg.TargetParameter, Operation: op}
	}

	coll, ok := collectionOf(call[idx])
	if !ok || coll.Len() <= cfg.ChunkSize {
		res, err := invoke(ctx, call)
		d.observe(op, false, 1, err)
		return res, err
	}

	chunks, err := util.PartitionValue(coll, cfg.ChunkSize)
	if err != nil {
		return nil, err
	}

	dispatchID := uuid.NewString()
	logger := d.logger.With(zap.String("dispatch_id", dispatchID), zap.String("operation", op))
	logger.Info("splitting call",
		zap.String("parameter", cfg.TargetParameter),
		zap.Int("size", coll.Len()),
		zap.Int("chunk_size", cfg.ChunkSize),
		zap.Int("chunks", len(chunks)))

	var outcomes []any
	if cfg.MaxConcurrency > 1 {
		outcomes, err = d.runConcurrent(ctx, logger, op, call, idx, chunks, cfg.MaxConcurrency, invoke)
	} else {
		outcomes, err = d.runSequential(ctx, logger, op, call, idx, chunks, invoke)
	}
	d.observe(op, true, len(chunks), err)
	if err != nil {
		logger.Warn("batched call failed", zap.Error(err))
		return nil, err
	}

	agg := newAggregate(len(outcomes))
	for _, out := range outcomes {
		agg.add(out)
	}
	return agg.finish(), nil
}

func (d *Dispatcher) runSequential(ctx context.Context, logger *zap.Logger, op string, call Call, idx int, chunks []reflect.Value, invoke Invoker) ([]any, error) {
	outcomes := make([]any, 0, len(chunks))
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := d.invokeChunk(ctx, logger, op, call, idx, i, chunk, invoke)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// runConcurrent 并发执行各批，结果按批次下标落位，保证合并顺序与输入一致。
// 多批失败时返回下标最小的那一批的错误，与顺序执行一致。
func (d *Dispatcher) runConcurrent(ctx context.Context, logger *zap.Logger, op string, call Call, idx int, chunks []reflect.Value, limit int, invoke Invoker) ([]any, error) {
	outcomes := make([]any, len(chunks))
	errs := make([]error, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := d.invokeChunk(gctx, logger, op, call, idx, i, chunk, invoke)
			if err != nil {
				errs[i] = err
				return err
			}
			outcomes[i] = out
			return nil
		})
	}
	werr := g.Wait()
	if err := firstChunkError(ctx, errs); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if werr != nil {
		return nil, werr
	}
	return outcomes, nil
}

// firstChunkError 返回下标最小的真实失败，跳过因其他批失败而被取消的批次。
func firstChunkError(ctx context.Context, errs []error) error {
	for _, err := range errs {
		if err == nil {
			continue
		}
		if ctx.Err() == nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			continue
		}
		return err
	}
	return nil
}

func (d *Dispatcher) invokeChunk(ctx context.Context, logger *zap.Logger, op string, call Call, idx, seq int, chunk reflect.Value, invoke Invoker) (any, error) {
	args := slices.Clone(call)
	args[idx] = chunk.Interface()

	start := time.Now()
	out, err := invoke(ctx, args)
	elapsed := time.Since(start)
	if d.observer != nil {
		d.observer.ObserveChunk(op, elapsed, err)
	}
	logger.Debug("chunk invoked",
		zap.Int("chunk", seq),
		zap.Int("size", chunk.Len()),
		zap.Duration("elapsed", elapsed),
		zap.Error(err))
	return out, err
}

func (d *Dispatcher) observe(op string, split bool, chunks int, err error) {
	if d.observer != nil {
		d.observer.ObserveDispatch(op, split, chunks, err)
	}
}

// collectionOf 判断 v 是否可拆分的集合：slice 或 array。
// 字节序列（[]byte、uuid.UUID 之类的 [N]byte）视为标量。
func collectionOf(v any) (reflect.Value, bool) {
	if v == nil {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return reflect.Value{}, false
		}
		return rv, true
	default:
		return reflect.Value{}, false
	}
}
