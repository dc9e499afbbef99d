package grpc

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"locadora-erp-backend/internal/api/grpc/interceptor"
	"locadora-erp-backend/internal/logger"
	"locadora-erp-backend/internal/security"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server is the operational gRPC endpoint: health and reflection behind the
// auth interceptor.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	db         Pinger
}

func NewServer(tm security.TokenManager, db Pinger) *Server {
	authInterceptor := interceptor.NewAuthInterceptor(tm)
	s := grpc.NewServer(
		grpc.UnaryInterceptor(authInterceptor.Unary()),
		grpc.StreamInterceptor(authInterceptor.Stream()),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	reflection.Register(s)

	return &Server{grpcServer: s, health: hs, db: db}
}

// Refresh sets the serving status from a database ping.
func (s *Server) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	st := healthpb.HealthCheckResponse_SERVING
	if s.db != nil {
		if err := s.db.PingContext(ctx); err != nil {
			logger.Warn("Database ping failed", "error", err)
			st = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", st)
	return st
}

// WatchHealth refreshes the serving status every interval until ctx is done.
func (s *Server) WatchHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, interval)
			s.Refresh(pingCtx)
			cancel()
		}
	}
}

func (s *Server) Serve(lis net.Listener) error {
	s.Refresh(context.Background())
	return s.grpcServer.Serve(lis)
}

func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
