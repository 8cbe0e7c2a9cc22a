package server

import (
	"context"
	"time"

	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/arktoria/acolors/internal/support/netutil"
	pb "github.com/arktoria/acolors/pkg/pb/acolors"
)

const tcpingTimeout = 3 * time.Second

// ToolsService hosts the small diagnostics helpers.
type ToolsService struct {
	pb.UnimplementedToolsServer
}

func NewToolsService() *ToolsService {
	return &ToolsService{}
}

func (s *ToolsService) Tcping(ctx context.Context, req *pb.TcpingRequest) (*pb.TcpingReply, error) {
	duration, err := netutil.Tcping(ctx, req.GetTarget(), tcpingTimeout)
	if err != nil {
		return nil, rpcError("tcping", err)
	}
	return &pb.TcpingReply{Duration: durationpb.New(duration)}, nil
}
