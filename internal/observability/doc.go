// Package observability provides logging, metrics, and tracing for
// routekit.
//
// # Logging
//
// The Logger interface wraps zap:
//
//	logger, err := observability.NewLogger(observability.LogConfig{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	logger.Info("route table loaded",
//	    observability.String("revision", cfg.Revision),
//	    observability.Int("routes", table.Len()),
//	)
//
// # Metrics
//
// Prometheus counters for compilation stages, parse and prepare outcomes,
// and the matcher cache, on a private registry. A nil *Metrics records
// nothing.
//
//	metrics := observability.NewMetrics("routekit")
//	server := observability.NewMetricsServer(":9090", metrics, logger)
//
// # Tracing
//
// OpenTelemetry spans exported over OTLP/gRPC:
//
//	tracer, err := observability.NewTracer(observability.TracerConfig{
//	    ServiceName:  "routekit",
//	    OTLPEndpoint: "localhost:4317",
//	    Enabled:      true,
//	})
package observability
