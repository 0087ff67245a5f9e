package observability

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// Metrics server defaults.
const (
	DefaultMetricsPath         = "/metrics"
	DefaultMetricsReadTimeout  = 5 * time.Second
	DefaultMetricsWriteTimeout = 10 * time.Second
)

// MetricsServer serves a Metrics registry over HTTP, plus /health.
type MetricsServer struct {
	addr     string
	metrics  *Metrics
	logger   Logger
	server   *http.Server
	listener net.Listener
	stopOnce sync.Once
}

// NewMetricsServer creates a server for metrics on addr.
func NewMetricsServer(addr string, metrics *Metrics, logger Logger) *MetricsServer {
	if logger == nil {
		logger = NopLogger()
	}
	return &MetricsServer{
		addr:    addr,
		metrics: metrics,
		logger:  logger,
	}
}

// Handler returns the server's HTTP handler.
func (s *MetricsServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle(DefaultMetricsPath, s.metrics.Handler(s.logger))

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			s.logger.Debug("failed to write health response", Error(err))
		}
	})

	return mux
}

// Start binds the listener and serves in the background. It returns once
// the address is bound.
func (s *MetricsServer) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("metrics server listen on %s: %w", s.addr, err)
	}
	s.listener = listener

	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  DefaultMetricsReadTimeout,
		WriteTimeout: DefaultMetricsWriteTimeout,
	}

	s.logger.Info("starting metrics server",
		String("addr", listener.Addr().String()),
		String("path", DefaultMetricsPath),
	)

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server failed", Error(err))
		}
	}()

	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *MetricsServer) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop shuts the server down.
func (s *MetricsServer) Stop(ctx context.Context) error {
	var stopErr error
	s.stopOnce.Do(func() {
		if s.server == nil {
			return
		}
		s.logger.Info("stopping metrics server")
		stopErr = s.server.Shutdown(ctx)
	})
	return stopErr
}
