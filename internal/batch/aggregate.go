package batch

// aggregate 按批次顺序累积各批结果。
type aggregate struct {
	values []any
}

func newAggregate(capacity int) *aggregate {
	return &aggregate{values: make([]any, 0, capacity)}
}

// add 合并一批的结果：集合展开逐个追加，其他值（包括 nil）作为单个元素追加。
func (a *aggregate) add(outcome any) {
	coll, ok := collectionOf(outcome)
	if !ok {
		a.values = append(a.values, outcome)
		return
	}
	for i := 0; i < coll.Len(); i++ {
		a.values = append(a.values, coll.Index(i).Interface())
	}
}

// finish 返回合并结果，之后 aggregate 不再持有该切片。
func (a *aggregate) finish() []any {
	out := a.values
	a.values = nil
	return out
}
