package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServer_Handler(t *testing.T) {
	t.Parallel()

	m := NewMetrics("")
	m.RecordParse(OutcomeMatched)
	handler := NewMetricsServer(":0", m, nil).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `routekit_parse_total{outcome="matched"} 1`)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestMetricsServer_StartStop(t *testing.T) {
	t.Parallel()

	server := NewMetricsServer("127.0.0.1:0", NewMetrics(""), NopLogger())
	require.NoError(t, server.Start())

	resp, err := http.Get("http://" + server.Addr() + "/health")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "OK", string(body))

	assert.NoError(t, server.Stop(context.Background()))
	assert.NoError(t, server.Stop(context.Background()))
}

func TestMetricsServer_StartBadAddress(t *testing.T) {
	t.Parallel()

	server := NewMetricsServer("256.0.0.1:bad", NewMetrics(""), NopLogger())
	assert.Error(t, server.Start())
	assert.Equal(t, "256.0.0.1:bad", server.Addr())
	assert.NoError(t, server.Stop(context.Background()))
}
