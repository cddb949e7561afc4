package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"inbatch/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNodes struct {
	err error
}

func (f *fakeNodes) FindByKeys(_ context.Context, _ []string, keys []string) ([]domain.Node, error) {
	if f.err != nil {
		return nil, f.err
	}
	nodes := make([]domain.Node, 0, len(keys))
	for _, k := range keys {
		nodes = append(nodes, domain.Node{CMDBKey: k})
	}
	return nodes, nil
}

type fakeAssets struct{}

func (fakeAssets) FindNamesByIDs(_ context.Context, ids []int64) ([]string, error) {
	return []string{"a", "b"}[:min(2, len(ids))], nil
}

func (fakeAssets) CountByIDs(_ context.Context, _ string, ids []int64) (int64, error) {
	return int64(len(ids)), nil
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNodeLookup(t *testing.T) {
	engine := NewEngine(NewLookupHandler(&fakeNodes{}, fakeAssets{}, nil), nil)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/nodes/lookup", map[string]any{"keys": []string{"APP_1", "APP_2"}})
	require.Equal(t, http.StatusOK, w.Code)

	var resp nodeLookupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Requested)
	assert.Len(t, resp.Nodes, 2)
}

func TestNodeLookupValidation(t *testing.T) {
	engine := NewEngine(NewLookupHandler(&fakeNodes{}, fakeAssets{}, nil), nil)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/nodes/lookup", map[string]any{"keys": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/nodes/lookup", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNodeLookupError(t *testing.T) {
	engine := NewEngine(NewLookupHandler(&fakeNodes{err: errors.New("neo4j down")}, nil, nil), nil)
	w := doJSON(t, engine, http.MethodPost, "/api/v1/nodes/lookup", map[string]any{"keys": []string{"k"}})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "neo4j down")
}

func TestAssetRoutes(t *testing.T) {
	engine := NewEngine(NewLookupHandler(nil, fakeAssets{}, nil), nil)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/assets/names", map[string]any{"ids": []int64{1, 2, 3}})
	require.Equal(t, http.StatusOK, w.Code)
	var names assetNamesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &names))
	assert.Equal(t, []string{"a", "b"}, names.Names)

	w = doJSON(t, engine, http.MethodPost, "/api/v1/assets/count", map[string]any{"ids": []int64{1, 2, 3}})
	require.Equal(t, http.StatusOK, w.Code)
	var count assetCountResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &count))
	assert.Equal(t, int64(3), count.Count)

	w = doJSON(t, engine, http.MethodPost, "/api/v1/nodes/lookup", map[string]any{"keys": []string{"k"}})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "router_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	engine := NewEngine(NewLookupHandler(nil, nil, nil), reg)
	w := doJSON(t, engine, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "router_test_total 1")
}
