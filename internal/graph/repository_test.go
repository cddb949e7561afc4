package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"inbatch/internal/batch"
	"inbatch/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGraph struct {
	readQueries []string
	readKeys    [][]string
	writeKeys   [][]string
	stale       []string
	failWriteAt int
}

func (f *fakeGraph) RunRead(_ context.Context, query string, params map[string]any) ([]map[string]any, error) {
	f.readQueries = append(f.readQueries, query)
	if strings.Contains(query, "last_seen_run_id") {
		records := make([]map[string]any, 0, len(f.stale))
		for _, key := range f.stale {
			records = append(records, map[string]any{"cmdb_key": key})
		}
		return records, nil
	}
	keys := params["keys"].([]string)
	f.readKeys = append(f.readKeys, keys)
	records := make([]map[string]any, 0, len(keys))
	for _, key := range keys {
		records = append(records, map[string]any{
			"cmdb_key":   key,
			"labels":     []any{domain.LabelApp},
			"properties": map[string]any{"name": "app-" + key},
		})
	}
	return records, nil
}

func (f *fakeGraph) RunWrite(_ context.Context, _ string, params map[string]any) (WriteSummary, error) {
	keys := params["keys"].([]string)
	f.writeKeys = append(f.writeKeys, keys)
	if f.failWriteAt > 0 && len(f.writeKeys) == f.failWriteAt {
		return WriteSummary{}, errors.New("write failed")
	}
	return WriteSummary{NodesDeleted: len(keys)}, nil
}

func makeKeys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("APP_%d", i)
	}
	return keys
}

func newTestRepository(t *testing.T, fake *fakeGraph, chunkSize int) *NodeRepository {
	t.Helper()
	registry := batch.NewRegistry(nil)
	repo, err := NewNodeRepository(fake, fake, registry)
	require.NoError(t, err)
	require.NoError(t, registry.Override(OpFindNodesByKeys, chunkSize))
	require.NoError(t, registry.Override(OpDeleteNodesByKeys, chunkSize))
	return repo
}

func TestFindByKeysSplitsLargeInput(t *testing.T) {
	fake := &fakeGraph{}
	repo := newTestRepository(t, fake, 2)

	nodes, err := repo.FindByKeys(context.Background(), []string{domain.LabelApp}, makeKeys(5))
	require.NoError(t, err)
	require.Len(t, nodes, 5)
	for i, n := range nodes {
		assert.Equal(t, fmt.Sprintf("APP_%d", i), n.CMDBKey)
		assert.Equal(t, []string{domain.LabelApp}, n.Labels)
	}
	assert.Equal(t, [][]string{{"APP_0", "APP_1"}, {"APP_2", "APP_3"}, {"APP_4"}}, fake.readKeys)
	assert.Contains(t, fake.readQueries[0], "MATCH (n:App)")
}

func TestFindByKeysSingleQuery(t *testing.T) {
	fake := &fakeGraph{}
	repo := newTestRepository(t, fake, 10)

	nodes, err := repo.FindByKeys(context.Background(), nil, makeKeys(3))
	require.NoError(t, err)
	assert.Len(t, nodes, 3)
	assert.Len(t, fake.readKeys, 1)
	assert.Contains(t, fake.readQueries[0], "MATCH (n)")
}

func TestFindByKeysRejectsUnknownLabel(t *testing.T) {
	fake := &fakeGraph{}
	repo := newTestRepository(t, fake, 10)
	_, err := repo.FindByKeys(context.Background(), []string{"Bogus"}, makeKeys(1))
	assert.Error(t, err)
	assert.Empty(t, fake.readQueries)
}

func TestDeleteByKeysSumsCounters(t *testing.T) {
	fake := &fakeGraph{}
	repo := newTestRepository(t, fake, 4)

	deleted, err := repo.DeleteByKeys(context.Background(), nil, makeKeys(10))
	require.NoError(t, err)
	assert.Equal(t, 10, deleted)
	assert.Len(t, fake.writeKeys, 3)

	deleted, err = repo.DeleteByKeys(context.Background(), nil, makeKeys(2))
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
}

func TestDeleteByKeysStopsAtFirstFailure(t *testing.T) {
	fake := &fakeGraph{failWriteAt: 2}
	repo := newTestRepository(t, fake, 4)

	_, err := repo.DeleteByKeys(context.Background(), nil, makeKeys(12))
	require.Error(t, err)
	assert.Len(t, fake.writeKeys, 2)
}

func TestPurgeStale(t *testing.T) {
	fake := &fakeGraph{stale: makeKeys(7)}
	repo := newTestRepository(t, fake, 3)

	deleted, err := repo.PurgeStale(context.Background(), "20240101T000000Z", 0)
	require.NoError(t, err)
	assert.Equal(t, 7, deleted)
	assert.Len(t, fake.writeKeys, 3)
}

func TestEmptyKeysSkipQuery(t *testing.T) {
	fake := &fakeGraph{}
	repo := newTestRepository(t, fake, 3)

	nodes, err := repo.FindByKeys(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, nodes)
	deleted, err := repo.DeleteByKeys(context.Background(), nil, []string{})
	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.Empty(t, fake.readQueries)
	assert.Empty(t, fake.writeKeys)
}

func TestNewNodeRepositoryRequiresClients(t *testing.T) {
	_, err := NewNodeRepository(nil, nil, nil)
	assert.Error(t, err)
}
