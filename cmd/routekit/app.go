package main

import (
	"context"
	"fmt"

	"github.com/vyrodovalexey/routekit/internal/config"
	"github.com/vyrodovalexey/routekit/internal/observability"
	"github.com/vyrodovalexey/routekit/internal/util"
	"github.com/vyrodovalexey/routekit/pkg/route"
)

// application holds the components a command runs against.
type application struct {
	config  *config.Config
	routes  *route.Routes
	logger  observability.Logger
	metrics *observability.Metrics
	tracer  *observability.Tracer
}

// loadApplication loads the route table file and wires logging, metrics
// and tracing around it.
func loadApplication(opts *rootOptions) (*application, error) {
	path, err := config.ResolveConfigPath(opts.configPath)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid route table %s: %w", path, err)
	}

	logger, err := initLogger(opts, cfg)
	if err != nil {
		return nil, err
	}

	tracer, err := observability.NewTracer(observability.TracerConfig{
		ServiceName:  "routekit",
		OTLPEndpoint: opts.otlpEndpoint,
		SamplingRate: 1.0,
		Enabled:      opts.otlpEndpoint != "",
	})
	if err != nil {
		return nil, util.WrapError(err, "failed to initialize tracer")
	}

	metrics := observability.NewMetrics("routekit")
	metrics.SetBuildInfo(version, gitCommit, buildTime)

	routes, err := newRoutes(cfg, logger, metrics)
	if err != nil {
		_ = tracer.Shutdown(context.Background())
		return nil, err
	}

	logger.Debug("route table loaded",
		observability.String("path", cfg.Path),
		observability.String("revision", cfg.Revision),
		observability.Int("routes", len(cfg.Routes)),
	)

	return &application{
		config:  cfg,
		routes:  routes,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
	}, nil
}

// initLogger builds the logger; flags override the file's log settings.
func initLogger(opts *rootOptions, cfg *config.Config) (observability.Logger, error) {
	logCfg := observability.DefaultLogConfig()
	if cfg.Log != nil {
		logCfg.Level = cfg.Log.Level
		logCfg.Format = cfg.Log.Format
	}
	if opts.logLevel != "" {
		logCfg.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		logCfg.Format = opts.logFormat
	}

	logger, err := observability.NewLogger(logCfg)
	if err != nil {
		return nil, util.WrapError(err, "failed to initialize logger")
	}
	observability.SetGlobalLogger(logger)
	return logger, nil
}

// newRoutes binds the route operations to the file's table.
func newRoutes(cfg *config.Config, logger observability.Logger, metrics *observability.Metrics) (*route.Routes, error) {
	table, err := cfg.Table()
	if err != nil {
		return nil, err
	}
	opts := append(cfg.RouteOptions(), route.WithLogger(logger), route.WithMetrics(metrics))
	return route.Init(table, opts...), nil
}

// withRevision returns ctx carrying the table revision.
func (a *application) withRevision(ctx context.Context) context.Context {
	return observability.ContextWithRevision(ctx, a.config.Revision)
}

// close flushes traces and logs.
func (a *application) close(ctx context.Context) {
	if err := a.tracer.Shutdown(ctx); err != nil {
		a.logger.Warn("failed to shut down tracer", observability.Error(err))
	}
	_ = a.logger.Sync()
}
