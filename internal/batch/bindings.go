package batch

// Param 描述操作签名中的一个位置参数。
// Alias 对应声明时额外指定的对外名称，可以与 Name 不同。
type Param struct {
	Name  string
	Alias string
}

// Bindings 是参数名到位置下标的映射，每个操作签名构建一次，之后只读，可并发复用。
type Bindings struct {
	operation string
	params    []Param
	byAlias   map[string]int
	byName    map[string]int
}

// NewBindings 根据参数列表构建映射，同名参数以第一个为准。
func NewBindings(operation string, params ...Param) *Bindings {
	b := &Bindings{
		operation: operation,
		params:    append([]Param(nil), params...),
		byAlias:   make(map[string]int, len(params)),
		byName:    make(map[string]int, len(params)),
	}
	for i, p := range params {
		if p.Alias != "" {
			if _, ok := b.byAlias[p.Alias]; !ok {
				b.byAlias[p.Alias] = i
			}
		}
		if p.Name != "" {
			if _, ok := b.byName[p.Name]; !ok {
				b.byName[p.Name] = i
			}
		}
	}
	return b
}

// Operation 返回操作名，仅用于错误信息和日志。
func (b *Bindings) Operation() string {
	if b == nil {
		return ""
	}
	return b.operation
}

// Len 返回参数个数。
func (b *Bindings) Len() int {
	if b == nil {
		return 0
	}
	return len(b.params)
}

// Resolve 先按别名、再按声明名查找参数位置。
func (b *Bindings) Resolve(name string) (int, error) {
	if b != nil && name != "" {
		if idx, ok := b.byAlias[name]; ok {
			return idx, nil
		}
		if idx, ok := b.byName[name]; ok {
			return idx, nil
		}
	}
	return -1, &ParamNotFoundError{Param: name, Operation: b.Operation()}
}
