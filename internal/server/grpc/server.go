package grpc

import (
	"context"
	"errors"
	"net"

	"github.com/dmitrijs2005/campjournal/internal/logging"
	"github.com/dmitrijs2005/campjournal/internal/server/config"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// maxMessageSize leaves room for a base64 encoded upload at the size limit.
const maxMessageSize = 8 << 20

type GRPCServer struct {
	address string
	svc     Services
	limiter *rateLimiter
	logger  logging.Logger
}

func NewGRPCServer(cfg *config.Config, l logging.Logger, svc Services) *GRPCServer {
	s := &GRPCServer{
		address: cfg.EndpointAddrGRPC,
		svc:     svc,
		logger:  l.With("module", "grpc_server"),
	}
	if cfg.RateLimitInterval > 0 {
		s.limiter = newRateLimiter(cfg.RateLimitInterval, cfg.RateLimitBurst)
	}
	return s
}

func (s *GRPCServer) newServer() (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.rateLimitInterceptor, s.accessTokenInterceptor),
		grpc.MaxRecvMsgSize(maxMessageSize),
		grpc.MaxSendMsgSize(maxMessageSize),
	)

	srv.RegisterService(&serviceDesc, s)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return srv, hs
}

// Run listens on the configured address and serves until ctx is canceled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is canceled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv, hs := s.newServer()

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping gRPC server...")
			hs.Shutdown()
			srv.GracefulStop()
		case <-done:
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	err := srv.Serve(lis)
	close(done)
	<-stopped
	if errors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return err
}
