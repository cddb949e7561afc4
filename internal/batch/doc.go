// Package batch 把超长的集合参数按固定大小拆批，逐批调用底层操作并合并结果。
//
// 典型场景是数据库对单条语句中 IN 参数个数有上限（例如 Postgres 的 65535 个
// 绑定变量），调用方声明 Config{ChunkSize, TargetParameter} 和参数表 Bindings，
// 由 Dispatcher 决定是否拆批：
//
//	bindings := batch.NewBindings("FindNamesByIDs", batch.Param{Name: "idList", Alias: "ids"})
//	res, err := batch.Dispatch(ctx, batch.Call{ids}, batch.Config{ChunkSize: 1000, TargetParameter: "ids"}, bindings, invoke)
//
// 未超过 ChunkSize 时只调用一次并原样返回结果；超过时按批顺序调用，
// 切片结果被展开、其他结果作为单个元素，最终返回 []any。
package batch
