package server

import (
	"context"
	"fmt"

	pb "github.com/arktoria/acolors/pkg/pb/acolors"
)

// GreeterService answers liveness pings.
type GreeterService struct {
	pb.UnimplementedGreeterServer
}

func NewGreeterService() *GreeterService {
	return &GreeterService{}
}

func (s *GreeterService) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingReply, error) {
	return &pb.PingReply{
		Message: fmt.Sprintf("Received Ping from %s.", req.GetName()),
	}, nil
}
