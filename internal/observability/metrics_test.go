package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewMetrics(t *testing.T) {
	t.Parallel()

	m := NewMetrics("")
	require.NotNil(t, m)
	assert.NotNil(t, m.Registry())

	custom := NewMetrics("custom")
	custom.RecordCompile("direct")
	assert.Equal(t, 1, testutil.CollectAndCount(custom.compileTotal, "custom_compile_total"))
}

func TestMetrics_Counters(t *testing.T) {
	t.Parallel()

	m := NewMetrics("")

	m.RecordCompile("direct")
	m.RecordCompile("translated")
	m.RecordCompile("translated")
	m.RecordParse(OutcomeMatched)
	m.RecordParse(OutcomeUnmatched)
	m.RecordPrepare(OutcomeOK)
	m.RecordPrepare(OutcomeFallback)
	m.RecordPrepare(OutcomeUnknownRoute)
	m.RecordTableReload("success")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.compileTotal.WithLabelValues("direct")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.compileTotal.WithLabelValues("translated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.parseTotal.WithLabelValues(OutcomeMatched)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.parseTotal.WithLabelValues(OutcomeUnmatched)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.prepareTotal.WithLabelValues(OutcomeFallback)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.prepareTotal.WithLabelValues(OutcomeUnknownRoute)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tableReloads.WithLabelValues("success")))
}

func TestMetrics_Cache(t *testing.T) {
	t.Parallel()

	m := NewMetrics("")

	m.RecordCacheHit()
	m.RecordCacheHit()
	m.RecordCacheMiss()
	m.RecordCacheEviction()
	m.SetCacheSize(7)
	m.SetTableRoutes(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheMisses))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheEvictions))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.cacheSize))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.tableRoutes))
}

func TestMetrics_Nil(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordCompile("direct")
		m.RecordParse(OutcomeMatched)
		m.RecordPrepare(OutcomeOK)
		m.RecordCacheHit()
		m.RecordCacheMiss()
		m.RecordCacheEviction()
		m.SetCacheSize(1)
		m.SetTableRoutes(1)
		m.RecordTableReload("success")
		m.SetBuildInfo("v", "c", "t")
	})
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := NewMetrics("")
	m.RecordCompile("direct")
	m.SetBuildInfo("1.0.0", "abc", "now")

	rec := httptest.NewRecorder()
	m.Handler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `routekit_compile_total{stage="direct"} 1`)
	assert.Contains(t, rec.Body.String(), `routekit_build_info{build_time="now",commit="abc",version="1.0.0"} 1`)
}

func TestMetrics_Handler_LogsCollectionErrors(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.ErrorLevel)
	m := NewMetrics("")
	m.Registry().MustRegister(failingCollector{})
	m.RecordCompile("direct")

	rec := httptest.NewRecorder()
	m.Handler(FromZap(zap.New(core))).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `routekit_compile_total{stage="direct"} 1`)
	assert.GreaterOrEqual(t, logs.Len(), 1)
}

// failingCollector always reports a collection error.
type failingCollector struct{}

func (failingCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- failingDesc
}

func (failingCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.NewInvalidMetric(failingDesc, errors.New("collection failed"))
}

var failingDesc = prometheus.NewDesc("routekit_test_failing", "Always fails.", nil, nil)
