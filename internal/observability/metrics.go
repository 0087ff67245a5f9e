package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Label values for the outcome counters.
const (
	OutcomeMatched      = "matched"
	OutcomeUnmatched    = "unmatched"
	OutcomeOK           = "ok"
	OutcomeFallback     = "fallback"
	OutcomeUnknownRoute = "unknown_route"
)

// Metrics holds the Prometheus metrics for route compilation and
// resolution. A nil *Metrics is valid and records nothing.
type Metrics struct {
	compileTotal   *prometheus.CounterVec
	parseTotal     *prometheus.CounterVec
	prepareTotal   *prometheus.CounterVec
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	cacheEvictions prometheus.Counter
	cacheSize      prometheus.Gauge
	tableRoutes    prometheus.Gauge
	tableReloads   *prometheus.CounterVec
	buildInfo      *prometheus.GaugeVec
	registry       *prometheus.Registry
}

// NewMetrics creates a new Metrics instance on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "routekit"
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.compileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compile_total",
			Help: "Total number of template compilations " +
				"by stage (direct, translated, failed)",
		},
		[]string{"stage"},
	)

	m.parseTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_total",
			Help:      "Total number of href parses by outcome",
		},
		[]string{"outcome"},
	)

	m.prepareTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prepare_total",
			Help:      "Total number of route builds by outcome",
		},
		[]string{"outcome"},
	)

	m.cacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matcher_cache",
			Name:      "hits_total",
			Help:      "Total number of compiled matcher cache hits",
		},
	)

	m.cacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matcher_cache",
			Name:      "misses_total",
			Help:      "Total number of compiled matcher cache misses",
		},
	)

	m.cacheEvictions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matcher_cache",
			Name:      "evictions_total",
			Help:      "Total number of compiled matcher cache evictions",
		},
	)

	m.cacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "matcher_cache",
			Name:      "size",
			Help:      "Current number of entries in the compiled matcher cache",
		},
	)

	m.tableRoutes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "table_routes",
			Help:      "Number of routes in the active route table",
		},
	)

	m.tableReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "table_reloads_total",
			Help:      "Total number of route table reloads by result",
		},
		[]string{"result"},
	)

	m.buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build information for routekit",
		},
		[]string{"version", "commit", "build_time"},
	)

	m.registerCollectors()

	return m
}

// registerCollectors registers all metric collectors with the
// Prometheus registry.
func (m *Metrics) registerCollectors() {
	m.registry.MustRegister(
		m.compileTotal,
		m.parseTotal,
		m.prepareTotal,
		m.cacheHits,
		m.cacheMisses,
		m.cacheEvictions,
		m.cacheSize,
		m.tableRoutes,
		m.tableReloads,
		m.buildInfo,
	)

	m.registry.MustRegister(collectors.NewGoCollector())
}

// RecordCompile records a template compilation at the given stage.
func (m *Metrics) RecordCompile(stage string) {
	if m == nil {
		return
	}
	m.compileTotal.WithLabelValues(stage).Inc()
}

// RecordParse records an href parse outcome.
func (m *Metrics) RecordParse(outcome string) {
	if m == nil {
		return
	}
	m.parseTotal.WithLabelValues(outcome).Inc()
}

// RecordPrepare records a route build outcome.
func (m *Metrics) RecordPrepare(outcome string) {
	if m == nil {
		return
	}
	m.prepareTotal.WithLabelValues(outcome).Inc()
}

// RecordCacheHit records a matcher cache hit.
func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// RecordCacheMiss records a matcher cache miss.
func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// RecordCacheEviction records a matcher cache eviction.
func (m *Metrics) RecordCacheEviction() {
	if m == nil {
		return
	}
	m.cacheEvictions.Inc()
}

// SetCacheSize sets the matcher cache size gauge.
func (m *Metrics) SetCacheSize(n int) {
	if m == nil {
		return
	}
	m.cacheSize.Set(float64(n))
}

// SetTableRoutes sets the number of routes in the active table.
func (m *Metrics) SetTableRoutes(n int) {
	if m == nil {
		return
	}
	m.tableRoutes.Set(float64(n))
}

// RecordTableReload records a route table reload result ("success" or "failure").
func (m *Metrics) RecordTableReload(result string) {
	if m == nil {
		return
	}
	m.tableReloads.WithLabelValues(result).Inc()
}

// SetBuildInfo sets the build information metric.
func (m *Metrics) SetBuildInfo(version, commit, buildTime string) {
	if m == nil {
		return
	}
	m.buildInfo.WithLabelValues(version, commit, buildTime).Set(1)
}

// Handler returns an HTTP handler for the metrics endpoint. Collection
// errors are logged to logger when it is non-nil and the remaining metrics
// are still served.
func (m *Metrics) Handler(logger Logger) http.Handler {
	opts := promhttp.HandlerOpts{
		ErrorHandling:       promhttp.ContinueOnError,
		MaxRequestsInFlight: 10,
		Timeout:             DefaultMetricsWriteTimeout,
		EnableOpenMetrics:   true,
	}
	if logger != nil {
		opts.ErrorLog = &promErrorLogger{logger: logger}
	}
	return promhttp.HandlerFor(m.registry, opts)
}

// Registry returns the Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// promErrorLogger adapts Logger to promhttp.Logger.
type promErrorLogger struct {
	logger Logger
}

// Println implements promhttp.Logger.
func (l *promErrorLogger) Println(v ...interface{}) {
	l.logger.Error(fmt.Sprint(v...))
}
