// Package server translates the public gRPC contracts onto the profile
// task queue, the inbounds store, the core slot and the signal bus.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"

	pb "github.com/arktoria/acolors/pkg/pb/acolors"
)

// Server wraps the gRPC server and its listener address.
type Server struct {
	server  *grpc.Server
	logger  *slog.Logger
	address string
}

// Handlers collects the service implementations to register.
type Handlers struct {
	Greeter       pb.GreeterServer
	Profile       pb.ProfileManagerServer
	Config        pb.ConfigManagerServer
	Core          pb.CoreManagerServer
	Notifications pb.NotificationsServer
	Tools         pb.ToolsServer
	Manager       pb.ManagerServer
}

// New creates the gRPC server and registers every service.
func New(address string, handlers Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(loggingInterceptor(logger)),
	)
	pb.RegisterGreeterServer(server, handlers.Greeter)
	pb.RegisterProfileManagerServer(server, handlers.Profile)
	pb.RegisterConfigManagerServer(server, handlers.Config)
	pb.RegisterCoreManagerServer(server, handlers.Core)
	pb.RegisterNotificationsServer(server, handlers.Notifications)
	pb.RegisterToolsServer(server, handlers.Tools)
	pb.RegisterManagerServer(server, handlers.Manager)

	return &Server{
		server:  server,
		logger:  logger,
		address: address,
	}
}

// Start listens and serves until Stop.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.address, err)
	}

	s.logger.Info("gRPC server starting", "address", s.address)
	return s.server.Serve(lis)
}

// Stop gracefully stops the gRPC server.
func (s *Server) Stop() {
	s.logger.Info("gRPC server stopping")
	s.server.GracefulStop()
}

func loggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Debug("grpc call",
			"method", info.FullMethod,
			"duration", time.Since(start),
			"error", err,
		)
		return resp, err
	}
}
