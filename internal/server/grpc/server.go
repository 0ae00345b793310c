// Package grpc runs the gRPC endpoint of the server. It exposes the standard
// grpc.health.v1 service, which reflects the reachability of the store.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/bookkeeper/internal/dbx"
	"github.com/dmitrijs2005/bookkeeper/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name clients may query besides "".
const ServiceName = "bookkeeper.v1.Catalog"

const defaultCheckInterval = 10 * time.Second

type GRPCServer struct {
	address       string
	logger        logging.Logger
	store         dbx.Pinger
	health        *health.Server
	checkInterval time.Duration
}

func NewGRPCServer(address string, l logging.Logger, store dbx.Pinger) *GRPCServer {
	return &GRPCServer{
		address:       address,
		logger:        l.With("module", "grpc_server"),
		store:         store,
		health:        health.NewServer(),
		checkInterval: defaultCheckInterval,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then marks every
// service NOT_SERVING and stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.check(ctx)
	go s.watchStore(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}

func (s *GRPCServer) watchStore(ctx context.Context) {
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

// check pings the store and publishes the result for both the overall
// server and the catalog service.
func (s *GRPCServer) check(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.store.PingContext(pctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn(ctx, "store ping failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
