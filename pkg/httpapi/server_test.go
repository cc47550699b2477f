package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/collections"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/connection"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/health"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/points"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/search"
)

func newTestServer(t *testing.T, connect bool) *httptest.Server {
	t.Helper()
	m := connection.NewManager(connection.Config{Path: t.TempDir()})
	if connect {
		require.NoError(t, m.Connect(context.Background()))
	}
	t.Cleanup(func() { _ = m.Close(context.Background()) })

	s := NewServer(Deps{
		Collections: collections.NewRegistry(m, nil, nil),
		Points:      points.NewStore(m, nil, nil),
		Search:      search.NewEngine(m, nil, nil, nil),
		Health:      health.NewMonitor(m, nil, nil),
		Version:     "test",
		Mode:        func() string { return string(m.Mode()) },
	})
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestCollectionEndpoints(t *testing.T) {
	ts := newTestServer(t, true)

	resp, body := do(t, ts, http.MethodPost, "/api/v1/collections", map[string]any{
		"name": "docs", "vector_size": 4, "distance": "Cosine",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "docs", body["name"])
	assert.EqualValues(t, 4, body["vector_size"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, body = do(t, ts, http.MethodPost, "/api/v1/collections", map[string]any{
		"name": "docs", "vector_size": 4,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "collection_already_exists", body["error"])
	assert.Equal(t, "docs", body["details"].(map[string]any)["collection"])

	resp, body = do(t, ts, http.MethodGet, "/api/v1/collections", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["total"])

	resp, _ = do(t, ts, http.MethodDelete, "/api/v1/collections/docs", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = do(t, ts, http.MethodGet, "/api/v1/collections/docs", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "collection_not_found", body["error"])

	resp, body = do(t, ts, http.MethodPost, "/api/v1/collections", map[string]any{
		"name": "bad", "vector_size": 4, "distance": "manhattan",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "validation_error", body["error"])
}

func TestPointAndSearchEndpoints(t *testing.T) {
	ts := newTestServer(t, true)

	resp, _ := do(t, ts, http.MethodPost, "/api/v1/collections", map[string]any{"name": "docs", "vector_size": 4})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := do(t, ts, http.MethodPost, "/api/v1/collections/docs/points", map[string]any{
		"id": "p1", "vector": []float32{0.1, 0.2, 0.3, 0.4}, "payload": map[string]any{"lang": "en", "a": 1},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "p1", body["id"])

	resp, body = do(t, ts, http.MethodPost, "/api/v1/collections/docs/points/batch", map[string]any{
		"points": []map[string]any{
			{"id": 2, "vector": []float32{0.4, 0.3, 0.2, 0.1}, "payload": map[string]any{"lang": "de", "a": 1}},
			{"id": 3, "vector": []float32{0.1, 0.2, 0.3, 0.5}, "payload": map[string]any{"lang": "en", "a": 2}},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.EqualValues(t, 2, body["count"])

	resp, body = do(t, ts, http.MethodPost, "/api/v1/collections/docs/points", map[string]any{
		"id": "p9", "vector": []float32{0.1, 0.2},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "vector_size_mismatch", body["error"])
	details := body["details"].(map[string]any)
	assert.EqualValues(t, 4, details["expected"])
	assert.EqualValues(t, 2, details["got"])

	resp, body = do(t, ts, http.MethodPost, "/api/v1/collections/docs/points/batch", map[string]any{"points": []any{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "batch_size_invalid", body["error"])

	resp, body = do(t, ts, http.MethodGet, "/api/v1/collections/docs/points/2?with_vector=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["id"])
	assert.Len(t, body["vector"], 4)

	resp, body = do(t, ts, http.MethodGet, "/api/v1/collections/docs/points/404", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "point_not_found", body["error"])

	resp, body = do(t, ts, http.MethodPost, "/api/v1/collections/docs/search", map[string]any{
		"vector": []float32{0.1, 0.2, 0.3, 0.4}, "limit": 5,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	results := body["results"].([]any)
	require.Len(t, results, 3)
	first := results[0].(map[string]any)
	assert.Equal(t, "p1", first["id"])
	assert.InDelta(t, 1.0, first["score"], 1e-4)
	assert.EqualValues(t, 5, body["limit"])
	assert.Contains(t, body, "query_time_ms")

	resp, body = do(t, ts, http.MethodPost, "/api/v1/collections/docs/search", map[string]any{
		"vector": []float32{0.1, 0.2, 0.3, 0.4}, "filter": map[string]any{"a": 1, "lang": "en"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["total"])
	assert.EqualValues(t, 10, body["limit"])

	resp, body = do(t, ts, http.MethodPost, "/api/v1/collections/docs/search", map[string]any{
		"vector": []float32{0.1, 0.2, 0.3, 0.4}, "limit": 101,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "validation_error", body["error"])

	resp, body = do(t, ts, http.MethodPost, "/api/v1/collections/docs/points/delete", map[string]any{
		"ids": []any{"p1", 2, "missing"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 3, body["count"])

	resp, _ = do(t, ts, http.MethodDelete, "/api/v1/collections/docs/points/3", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = do(t, ts, http.MethodGet, "/api/v1/collections/docs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["points_count"])
}

func TestDigitStringPointIDRoundTrip(t *testing.T) {
	ts := newTestServer(t, true)

	resp, _ := do(t, ts, http.MethodPost, "/api/v1/collections", map[string]any{"name": "docs", "vector_size": 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = do(t, ts, http.MethodPost, "/api/v1/collections/docs/points", map[string]any{"id": "42", "vector": []float32{1, 0}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := do(t, ts, http.MethodGet, "/api/v1/collections/docs/points/42", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "42", body["id"])

	resp, _ = do(t, ts, http.MethodPost, "/api/v1/collections/docs/points", map[string]any{"id": 42, "vector": []float32{0, 1}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// numeric id wins while both exist
	resp, body = do(t, ts, http.MethodGet, "/api/v1/collections/docs/points/42", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 42, body["id"])

	resp, _ = do(t, ts, http.MethodDelete, "/api/v1/collections/docs/points/42", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = do(t, ts, http.MethodGet, "/api/v1/collections/docs/points/42", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "42", body["id"])

	resp, _ = do(t, ts, http.MethodDelete, "/api/v1/collections/docs/points/42", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = do(t, ts, http.MethodGet, "/api/v1/collections/docs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["points_count"])

	resp, body = do(t, ts, http.MethodPost, "/api/v1/collections/docs/points", map[string]any{
		"id": "p1", "vector": []float32{1, 0}, "payload": map[string]any{"_point_id": "x"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "validation_error", body["error"])
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, true)
	resp, body := do(t, ts, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["version"])
	qdrant := body["services"].(map[string]any)["qdrant"].(map[string]any)
	assert.Equal(t, "healthy", qdrant["status"])

	down := newTestServer(t, false)
	resp, body = do(t, down, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "degraded", body["status"])
	qdrant = body["services"].(map[string]any)["qdrant"].(map[string]any)
	assert.Equal(t, "unhealthy", qdrant["status"])
	assert.NotEmpty(t, qdrant["error"])
}

func TestNotInitializedIsServiceUnavailable(t *testing.T) {
	ts := newTestServer(t, false)
	resp, body := do(t, ts, http.MethodGet, "/api/v1/collections", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "not_initialized", body["error"])
}

func TestBadBodyAndInfo(t *testing.T) {
	ts := newTestServer(t, true)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/collections", bytes.NewBufferString("{"))
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := do(t, ts, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, ServiceName, body["service"])
	assert.Equal(t, "local", body["mode"])
	assert.Equal(t, "/api/v1", body["api_prefix"])
}

func TestRecovererReturnsJSON(t *testing.T) {
	h := jsonRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal_error","message":"internal error","details":{}}`, rec.Body.String())
}
