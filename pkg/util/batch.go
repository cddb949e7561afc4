package util

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrInvalidArgument 表示调用方传入了不合法的切片或批大小。
var ErrInvalidArgument = errors.New("invalid argument")

// Partition 将切片按固定大小拆分，最后一批可能小于 size。
// 每一批都是原切片上的视图（不拷贝），并用 cap 截断，避免 append 覆盖相邻批次。
// items 为 nil 或 size <= 0 时返回 ErrInvalidArgument；空切片返回 0 批。
func Partition[T any](items []T, size int) ([][]T, error) {
	if items == nil {
		return nil, fmt.Errorf("%w: slice is nil", ErrInvalidArgument)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidArgument, size)
	}
	result := make([][]T, 0, ChunkCount(len(items), size))
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		result = append(result, items[start:end:end])
	}
	return result, nil
}

// PartitionValue 与 Partition 语义一致，作用于反射得到的 slice/array。
// 每一批保持原始元素类型，例如 []int64 拆出来仍是 []int64。
func PartitionValue(v reflect.Value, size int) ([]reflect.Value, error) {
	if !v.IsValid() {
		return nil, fmt.Errorf("%w: value is nil", ErrInvalidArgument)
	}
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return nil, fmt.Errorf("%w: slice is nil", ErrInvalidArgument)
		}
	case reflect.Array:
		// 数组不可寻址时无法切片，先拷贝到同类型切片
		s := reflect.MakeSlice(reflect.SliceOf(v.Type().Elem()), v.Len(), v.Len())
		reflect.Copy(s, v)
		v = s
	default:
		return nil, fmt.Errorf("%w: %s is not a slice", ErrInvalidArgument, v.Type())
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidArgument, size)
	}
	n := v.Len()
	result := make([]reflect.Value, 0, ChunkCount(n, size))
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		result = append(result, v.Slice3(start, end, end))
	}
	return result, nil
}

// ChunkCount 返回 ceil(n/size)。
func ChunkCount(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}
