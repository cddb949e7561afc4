package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{name: "valid", cfg: Config{ChunkSize: 1, TargetParameter: "ids"}},
		{name: "zero chunk size", cfg: Config{TargetParameter: "ids"}, field: "chunk_size"},
		{name: "negative chunk size", cfg: Config{ChunkSize: -5, TargetParameter: "ids"}, field: "chunk_size"},
		{name: "blank target", cfg: Config{ChunkSize: 10, TargetParameter: "  "}, field: "target_parameter"},
		{name: "negative concurrency", cfg: Config{ChunkSize: 10, TargetParameter: "ids", MaxConcurrency: -1}, field: "max_concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{TargetParameter: "ids"}.WithDefaults()
	assert.Equal(t, DefaultChunkSize, cfg.ChunkSize)

	// 负数保留，交给 Validate 拒绝
	cfg = Config{ChunkSize: -1, TargetParameter: "ids"}.WithDefaults()
	assert.Equal(t, -1, cfg.ChunkSize)
	assert.Error(t, cfg.Validate())
}
