package server

import (
	"context"
	"log/slog"

	pb "github.com/arktoria/acolors/pkg/pb/acolors"
)

// ManagerService exposes process-level control.
type ManagerService struct {
	pb.UnimplementedManagerServer
	logger   *slog.Logger
	shutdown func()
}

// NewManagerService wires the process-wide stop broadcaster; every
// long-lived task observes it and exits.
func NewManagerService(shutdown func(), logger *slog.Logger) *ManagerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ManagerService{logger: logger, shutdown: shutdown}
}

func (s *ManagerService) Shutdown(ctx context.Context, req *pb.ShutdownRequest) (*pb.ShutdownReply, error) {
	s.logger.Info("shutdown requested")
	s.shutdown()
	return &pb.ShutdownReply{}, nil
}
