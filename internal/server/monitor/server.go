// Package monitor serves Prometheus metrics and a liveness endpoint on a plain
// HTTP listener next to the gRPC endpoint.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/campjournal/internal/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	sloghttp "github.com/samber/slog-http"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address string
	logger  logging.Logger
	handler http.Handler
}

// slogger is implemented by loggers that can hand out their *slog.Logger.
type slogger interface {
	Slog() *slog.Logger
}

func NewServer(address string, l logging.Logger) *Server {
	s := &Server{address: address, logger: l.With("module", "monitor")}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	access := slog.Default()
	if sl, ok := s.logger.(slogger); ok {
		access = sl.Slog()
	}
	s.handler = sloghttp.Recovery(mux)
	s.handler = sloghttp.NewWithConfig(access, sloghttp.Config{
		DefaultLevel:     slog.LevelDebug,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
	})(s.handler)

	return s
}

// Handler returns the instrumented mux.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve handles requests on lis and shuts down gracefully when ctx ends.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{Handler: s.handler, ReadHeaderTimeout: 5 * time.Second}

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping metrics server...")
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(sctx); err != nil {
				s.logger.Warn(ctx, "metrics server shutdown", "error", err)
			}
		case <-done:
		}
	}()

	s.logger.Info(ctx, "Starting metrics server", "address", lis.Addr().String())

	err := srv.Serve(lis)
	close(done)
	<-stopped
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
