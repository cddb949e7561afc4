package app

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Log struct {
	Level string `yaml:"level"`
}

type HTTP struct {
	Listen string `yaml:"listen"`
}

type Neo4j struct {
	URI                  string `yaml:"uri"`
	Username             string `yaml:"username"`
	Password             string `yaml:"password"`
	Database             string `yaml:"database"`
	MaxConnectionPool    int    `yaml:"max_connections"`
	ConnectTimeoutSecond int    `yaml:"connect_timeout_second"`
	Retry                Retry  `yaml:"retry"`
}

type Retry struct {
	Attempts       int `yaml:"attempts"`
	BackoffSeconds int `yaml:"backoff_seconds"`
}

type Database struct {
	Driver       string `yaml:"driver"`
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// Operation 覆盖某个已登记操作的批配置，零值字段沿用全局配置。
type Operation struct {
	ChunkSize      int `yaml:"chunk_size"`
	MaxConcurrency int `yaml:"max_concurrency"`
}

type Batch struct {
	DefaultChunkSize int                  `yaml:"default_chunk_size"`
	MaxConcurrency   int                  `yaml:"max_concurrency"`
	Operations       map[string]Operation `yaml:"operations"`
}

type Purge struct {
	Cron           string `yaml:"cron"`
	RetentionRunID string `yaml:"retention_run_id"`
	Limit          int    `yaml:"limit"`
}

type Config struct {
	Log      Log      `yaml:"log"`
	HTTP     HTTP     `yaml:"http"`
	Neo4j    Neo4j    `yaml:"neo4j"`
	Database Database `yaml:"database"`
	Batch    Batch    `yaml:"batch"`
	Purge    Purge    `yaml:"purge"`
}

// LoadConfig 从文件加载配置。
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("读取配置失败: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate 在启动阶段拒绝非法的批配置，避免到调用时才失败。
func (c Config) Validate() error {
	if c.Batch.DefaultChunkSize < 0 {
		return fmt.Errorf("batch.default_chunk_size 不能为负数: %d", c.Batch.DefaultChunkSize)
	}
	if c.Batch.MaxConcurrency < 0 {
		return fmt.Errorf("batch.max_concurrency 不能为负数: %d", c.Batch.MaxConcurrency)
	}
	for name, op := range c.Batch.Operations {
		if op.ChunkSize < 0 {
			return fmt.Errorf("batch.operations.%s.chunk_size 不能为负数: %d", name, op.ChunkSize)
		}
		if op.MaxConcurrency < 0 {
			return fmt.Errorf("batch.operations.%s.max_concurrency 不能为负数: %d", name, op.MaxConcurrency)
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.Database.Driver)) {
	case "", "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("未支持的数据库驱动: %s", c.Database.Driver)
	}
	return nil
}

// ChunkSize 返回某个操作的生效批大小：单独配置 > 全局默认 > fallback。
func (c Config) ChunkSize(operation string, fallback int) int {
	if op, ok := c.Batch.Operations[operation]; ok && op.ChunkSize > 0 {
		return op.ChunkSize
	}
	if c.Batch.DefaultChunkSize > 0 {
		return c.Batch.DefaultChunkSize
	}
	return fallback
}

// Concurrency 返回某个操作的批间并发度：单独配置 > 全局配置。
func (c Config) Concurrency(operation string) int {
	if op, ok := c.Batch.Operations[operation]; ok && op.MaxConcurrency > 0 {
		return op.MaxConcurrency
	}
	return c.Batch.MaxConcurrency
}
