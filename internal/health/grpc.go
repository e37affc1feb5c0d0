package health

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServeGRPC serves the gRPC health protocol on port until ctx is cancelled.
func (s *Server) ServeGRPC(ctx context.Context, port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("grpc health listen: %w", err)
	}
	return s.ServeGRPCListener(ctx, lis)
}

// ServeGRPCListener is ServeGRPC on an existing listener.
func (s *Server) ServeGRPCListener(ctx context.Context, lis net.Listener) error {
	server := grpc.NewServer()
	healthpb.RegisterHealthServer(server, s.grpc)

	slog.Info("grpc health server listening", "addr", lis.Addr().String())

	go func() {
		<-ctx.Done()
		slog.Info("grpc health server shutting down")
		s.grpc.Shutdown()
		server.GracefulStop()
	}()

	if err := server.Serve(lis); err != nil {
		return fmt.Errorf("grpc health server: %w", err)
	}
	return nil
}
