package batch

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Operation 声明一个需要拆批的底层操作。
type Operation struct {
	Name   string
	Params []Param
	Config Config
	Invoke Invoker
}

type registered struct {
	cfg      Config
	bindings *Bindings
	invoke   Invoker
}

// Registry 在启动阶段登记操作并提前校验配置，运行期按名字分发调用。
type Registry struct {
	dispatcher *Dispatcher

	mu  sync.RWMutex
	ops map[string]*registered
}

// NewRegistry 创建登记表，dispatcher 为 nil 时使用默认分发器。
func NewRegistry(dispatcher *Dispatcher) *Registry {
	if dispatcher == nil {
		dispatcher = defaultDispatcher
	}
	return &Registry{dispatcher: dispatcher, ops: make(map[string]*registered)}
}

// Register 登记操作。配置非法或目标参数无法解析时立即返回错误，而不是等到调用时。
func (r *Registry) Register(op Operation) error {
	name := strings.TrimSpace(op.Name)
	if name == "" {
		return &ConfigError{Field: "name", Reason: "must not be empty"}
	}
	if op.Invoke == nil {
		return &ConfigError{Operation: name, Field: "invoker", Reason: "must not be nil"}
	}
	cfg := op.Config.WithDefaults()
	if err := cfg.validate(name); err != nil {
		return err
	}
	bindings := NewBindings(name, op.Params...)
	if _, err := bindings.Resolve(cfg.TargetParameter); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ops[name]; ok {
		return &ConfigError{Operation: name, Field: "name", Reason: "already registered"}
	}
	r.ops[name] = &registered{cfg: cfg, bindings: bindings, invoke: op.Invoke}
	return nil
}

// MustRegister 同 Register，失败直接 panic，便于在初始化阶段暴露错误。
func (r *Registry) MustRegister(op Operation) {
	if err := r.Register(op); err != nil {
		panic(err)
	}
}

// Override 用外部配置覆盖已登记操作的批大小。
func (r *Registry) Override(name string, chunkSize int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.ops[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}
	cfg := reg.cfg
	cfg.ChunkSize = chunkSize
	if err := cfg.validate(name); err != nil {
		return err
	}
	r.ops[name] = &registered{cfg: cfg, bindings: reg.bindings, invoke: reg.invoke}
	return nil
}

// SetMaxConcurrency 调整已登记操作的批间并发度，0 或 1 表示顺序执行。
func (r *Registry) SetMaxConcurrency(name string, n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.ops[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}
	cfg := reg.cfg
	cfg.MaxConcurrency = n
	if err := cfg.validate(name); err != nil {
		return err
	}
	r.ops[name] = &registered{cfg: cfg, bindings: reg.bindings, invoke: reg.invoke}
	return nil
}

// Config 返回已登记操作的生效配置。
func (r *Registry) Config(name string) (Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.ops[name]
	if !ok {
		return Config{}, false
	}
	return reg.cfg, true
}

// Names 返回所有已登记的操作名。
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	return names
}

// Call 以位置参数调用已登记的操作。
func (r *Registry) Call(ctx context.Context, name string, args ...any) (any, error) {
	r.mu.RLock()
	reg, ok := r.ops[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}
	return r.dispatcher.Dispatch(ctx, Call(args), reg.cfg, reg.bindings, reg.invoke)
}
