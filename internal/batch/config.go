package batch

import "strings"

// DefaultChunkSize 未声明批大小时使用的默认值。
const DefaultChunkSize = 1000

// Config 是某个操作的批处理声明。
type Config struct {
	// ChunkSize 单次调用允许的最大元素个数，必须大于 0。
	ChunkSize int `yaml:"chunk_size" json:"chunk_size"`
	// TargetParameter 需要拆分的参数名，按 Bindings 解析。
	TargetParameter string `yaml:"target_parameter" json:"target_parameter"`
	// MaxConcurrency 大于 1 时并发执行各批，结果仍按批次顺序合并。
	MaxConcurrency int `yaml:"max_concurrency" json:"max_concurrency"`
}

// WithDefaults 补齐声明中省略的字段。
func (c Config) WithDefaults() Config {
	if c.ChunkSize == 0 {
		c.ChunkSize = DefaultChunkSize
	}
	return c
}

// Validate 校验配置，失败返回 *ConfigError。
func (c Config) Validate() error {
	return c.validate("")
}

func (c Config) validate(operation string) error {
	if c.ChunkSize <= 0 {
		return &ConfigError{Operation: operation, Field: "chunk_size", Reason: "must be positive"}
	}
	if strings.TrimSpace(c.TargetParameter) == "" {
		return &ConfigError{Operation: operation, Field: "target_parameter", Reason: "must not be empty"}
	}
	if c.MaxConcurrency < 0 {
		return &ConfigError{Operation: operation, Field: "max_concurrency", Reason: "must not be negative"}
	}
	return nil
}
