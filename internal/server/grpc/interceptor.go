package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{"method", info.FullMethod, "code", code.String(), "latency", time.Since(start).String()}
	if err != nil {
		s.logger.Warn(ctx, "grpc call failed", append(args, "error", err)...)
	} else {
		s.logger.Debug(ctx, "grpc call", args...)
	}

	return resp, err
}
