package ioc

import (
	"context"
	"testing"

	"inbatch/internal/app"
	"inbatch/internal/batch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, names ...string) *batch.Registry {
	t.Helper()
	registry := InitRegistry(InitDispatcher(nil))
	for _, name := range names {
		registry.MustRegister(batch.Operation{
			Name:   name,
			Params: []batch.Param{{Name: "ids"}},
			Config: batch.Config{TargetParameter: "ids"},
			Invoke: func(context.Context, batch.Call) (any, error) { return nil, nil },
		})
	}
	return registry
}

func TestCheckOperations(t *testing.T) {
	registry := newTestRegistry(t, "FindNodesByKeys", "CountAssetsByIDs")

	ok := app.Config{Batch: app.Batch{Operations: map[string]app.Operation{
		"FindNodesByKeys": {ChunkSize: 10},
	}}}
	assert.NoError(t, CheckOperations(registry, ok))
	assert.NoError(t, CheckOperations(registry, app.Config{}))

	typo := app.Config{Batch: app.Batch{Operations: map[string]app.Operation{
		"FindNodesByKey":  {ChunkSize: 10},
		"CountAssetByIDs": {MaxConcurrency: 2},
	}}}
	err := CheckOperations(registry, typo)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CountAssetByIDs, FindNodesByKey")
}

func TestApplyChunkSizes(t *testing.T) {
	registry := newTestRegistry(t, "FindNodesByKeys", "CountAssetsByIDs")
	cfg := app.Config{Batch: app.Batch{
		DefaultChunkSize: 300,
		MaxConcurrency:   2,
		Operations: map[string]app.Operation{
			"FindNodesByKeys": {ChunkSize: 50, MaxConcurrency: 4},
		},
	}}
	require.NoError(t, applyChunkSizes(registry, cfg, "FindNodesByKeys", "CountAssetsByIDs"))

	find, _ := registry.Config("FindNodesByKeys")
	assert.Equal(t, 50, find.ChunkSize)
	assert.Equal(t, 4, find.MaxConcurrency)
	count, _ := registry.Config("CountAssetsByIDs")
	assert.Equal(t, 300, count.ChunkSize)
	assert.Equal(t, 2, count.MaxConcurrency)

	assert.ErrorIs(t, applyChunkSizes(registry, cfg, "Missing"), batch.ErrUnknownOperation)
}
