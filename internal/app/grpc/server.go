package grpc

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/spounge-ai/playerkits/internal/app/grpc/interceptors"
	"github.com/spounge-ai/playerkits/internal/infra/config"
	"github.com/spounge-ai/playerkits/internal/infra/ratelimit"
	"github.com/spounge-ai/playerkits/internal/service"
	"github.com/spounge-ai/playerkits/pkg/patterns/lifecycle"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

type Server struct {
	grpcServer *grpc.Server
	healthSrv  *health.Server
	readiness  *service.Readiness
	lis        net.Listener
	logger     *slog.Logger
}

// New listens on the configured port and registers the admin, health and
// reflection services. A nil token validator disables authentication.
func New(
	cfg *config.Config,
	admin AdminServer,
	tokens TokenValidator,
	readiness *service.Readiness,
	tlsConfig *tls.Config,
	logger *slog.Logger,
) (*Server, int, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.Port))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to listen: %w", err)
	}

	port := lis.Addr().(*net.TCPAddr).Port

	var opts []grpc.ServerOption
	if tlsConfig != nil {
		opts = append(opts, grpc.Creds(credentials.NewTLS(tlsConfig)))
	}

	chain := []grpc.UnaryServerInterceptor{interceptors.UnaryLoggingInterceptor(logger)}
	if tokens != nil {
		var limiter ratelimit.Limiter = ratelimit.Unlimited{}
		if rl := cfg.Server.RateLimiter; rl.Enabled {
			limiter = ratelimit.NewInMemoryRateLimiter(rate.Limit(rl.Rate), rl.Burst, cfg.Server.TokenTTL)
		}
		exempt := map[string]bool{grpc_health_v1.Health_Check_FullMethodName: true}
		chain = append(chain, interceptors.AuthenticationInterceptor(tokens, limiter, exempt))
	} else {
		logger.Warn("admin service running without authentication", "mode", cfg.Server.Mode)
	}
	opts = append(opts, grpc.ChainUnaryInterceptor(chain...))

	grpcServer := grpc.NewServer(opts...)
	grpcServer.RegisterService(&AdminServiceDesc, admin)

	healthSrv := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthSrv)
	reflection.Register(grpcServer)

	return &Server{
		grpcServer: grpcServer,
		healthSrv:  healthSrv,
		readiness:  readiness,
		lis:        lis,
		logger:     logger,
	}, port, nil
}

func (s *Server) servingStatus() grpc_health_v1.HealthCheckResponse_ServingStatus {
	if s.readiness.Ready() {
		return grpc_health_v1.HealthCheckResponse_SERVING
	}
	return grpc_health_v1.HealthCheckResponse_NOT_SERVING
}

// Start serves in the background. Health reports NOT_SERVING for the admin
// service while the kit extension is disabled.
func (s *Server) Start(context.Context) error {
	s.logger.Info("gRPC server listening", "address", s.lis.Addr().String())
	s.healthSrv.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	s.healthSrv.SetServingStatus(AdminServiceName, s.servingStatus())
	go func() {
		if err := s.grpcServer.Serve(s.lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			s.logger.Error("gRPC server stopped unexpectedly", "error", err)
		}
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping gRPC server...")
	s.healthSrv.Shutdown()

	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.grpcServer.Stop()
	}
	s.logger.Info("gRPC server stopped.")
	return nil
}

func (s *Server) Health(context.Context) lifecycle.HealthStatus {
	if !s.readiness.Ready() {
		return lifecycle.HealthStatus{Ready: false, Message: s.readiness.Reason()}
	}
	return lifecycle.HealthStatus{Ready: true}
}

// TokenValidator authenticates admin bearer tokens.
type TokenValidator = interceptors.TokenValidator
