package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vyrodovalexey/routekit/internal/config"
	"github.com/vyrodovalexey/routekit/internal/observability"
	"github.com/vyrodovalexey/routekit/internal/util"
	"github.com/vyrodovalexey/routekit/pkg/route"
)

// shutdownTimeout bounds the metrics server shutdown.
const shutdownTimeout = 5 * time.Second

// liveRoutes holds the Routes of the most recent good table.
type liveRoutes struct {
	current atomic.Pointer[route.Routes]
	logger  observability.Logger
	metrics *observability.Metrics
}

// apply swaps in the routes of cfg. A table that cannot be built keeps the
// current routes.
func (l *liveRoutes) apply(cfg *config.Config) {
	routes, err := newRoutes(cfg, l.logger, l.metrics)
	if err != nil {
		l.logger.Error("failed to build reloaded route table",
			observability.String("revision", cfg.Revision),
			observability.Error(err),
		)
		return
	}
	l.current.Store(routes)
	l.logger.Info("route table swapped",
		observability.String("revision", cfg.Revision),
		observability.Int("routes", len(cfg.Routes)),
	)
}

func watchCmd(opts *rootOptions) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Resolve hrefs from stdin while hot-reloading the route table",
		Long: `Watch the route table file and reload it when it changes. A file that
fails to load or validate keeps the previous table.

Each line read from stdin is resolved against the current table and
printed as "HREF<TAB>ROUTE", with "-" when nothing matches. The command
exits at end of input or on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if metricsAddr != "" {
				if err := util.ValidateListenAddress(metricsAddr); err != nil {
					return util.NewArgumentError("metrics-addr", err.Error())
				}
			}

			a, err := loadApplication(opts)
			if err != nil {
				return err
			}
			defer a.close(context.Background())

			live := &liveRoutes{logger: a.logger, metrics: a.metrics}
			live.current.Store(a.routes)

			watcher, err := config.NewWatcher(a.config.Path, live.apply,
				config.WithLogger(a.logger),
				config.WithMetrics(a.metrics),
			)
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}

			ctx := cmd.Context()
			if err := watcher.Start(ctx); err != nil {
				_ = watcher.Stop()
				return fmt.Errorf("failed to start watcher: %w", err)
			}
			defer func() {
				if err := watcher.Stop(); err != nil {
					a.logger.Warn("failed to stop watcher", observability.Error(err))
				}
			}()

			if metricsAddr != "" {
				server := observability.NewMetricsServer(metricsAddr, a.metrics, a.logger)
				if err := server.Start(); err != nil {
					return err
				}
				defer func() {
					stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
					defer cancel()
					if err := server.Stop(stopCtx); err != nil {
						a.logger.Warn("failed to stop metrics server", observability.Error(err))
					}
				}()
			}

			return resolveLines(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), live, a.tracer)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr",
		getEnvOrDefault("ROUTEKIT_METRICS_ADDR", ""), "Serve Prometheus metrics on this address")

	return cmd
}

// resolveLines resolves each input line against the live routes until EOF
// or cancellation.
func resolveLines(
	ctx context.Context,
	in io.Reader,
	out io.Writer,
	live *liveRoutes,
	tracer *observability.Tracer,
) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			href := strings.TrimSpace(line)
			if href == "" {
				continue
			}
			if _, err := fmt.Fprintf(out, "%s\t%s\n", href, resolveOne(ctx, live, tracer, href)); err != nil {
				return err
			}
		}
	}
}

// resolveOne returns the route name for href, or "-".
func resolveOne(ctx context.Context, live *liveRoutes, tracer *observability.Tracer, href string) string {
	_, span := tracer.StartSpan(ctx, "routekit.watch.parse", attribute.String("href", href))
	defer span.End()

	result, ok := live.current.Load().ParseHref(href)
	if !ok {
		return "-"
	}
	span.SetAttributes(attribute.String("route", result.Route))
	return result.Route
}
