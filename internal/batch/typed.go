package batch

import (
	"context"
	"fmt"

	"inbatch/pkg/util"
)

// Slice 是 Dispatch 的泛型版本：fn 返回切片，各批结果按顺序拼接。
// len(items) <= size 时只调用一次 fn 并原样返回。
func Slice[T, R any](ctx context.Context, items []T, size int, fn func(context.Context, []T) ([]R, error)) ([]R, error) {
	if size <= 0 {
		return nil, &ConfigError{Field: "chunk_size", Reason: "must be positive"}
	}
	if len(items) <= size {
		return fn(ctx, items)
	}
	chunks, err := util.Partition(items, size)
	if err != nil {
		return nil, err
	}
	var out []R
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := fn(ctx, chunk)
		if err != nil {
			return nil, err
		}
		out = append(out, res...)
	}
	return out, nil
}

// Number 是 Sum 支持的计数类型。
type Number interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64
}

// Sum 适用于返回计数的操作（如影响行数），各批结果相加。
func Sum[T any, N Number](ctx context.Context, items []T, size int, fn func(context.Context, []T) (N, error)) (N, error) {
	var total, zero N
	if size <= 0 {
		return zero, &ConfigError{Field: "chunk_size", Reason: "must be positive"}
	}
	if len(items) <= size {
		return fn(ctx, items)
	}
	chunks, err := util.Partition(items, size)
	if err != nil {
		return zero, err
	}
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		n, err := fn(ctx, chunk)
		if err != nil {
			return zero, err
		}
		total += n
	}
	return total, nil
}

// Collect 把 Dispatch 的返回值还原成 []R。
// 未拆批时底层可能直接返回 []R 或单个 R，拆批时返回 []any。
func Collect[R any](res any) ([]R, error) {
	switch v := res.(type) {
	case nil:
		return nil, nil
	case []R:
		return v, nil
	case R:
		return []R{v}, nil
	case []any:
		out := make([]R, 0, len(v))
		for i, item := range v {
			r, ok := item.(R)
			if !ok {
				return nil, fmt.Errorf("batch: element %d has type %T, want %T", i, item, *new(R))
			}
			out = append(out, r)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("batch: unexpected result type %T", res)
	}
}
