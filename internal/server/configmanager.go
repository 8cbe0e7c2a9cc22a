package server

import (
	"context"
	"log/slog"

	"github.com/arktoria/acolors/internal/config"
	acsignal "github.com/arktoria/acolors/internal/signal"
	pb "github.com/arktoria/acolors/pkg/pb/acolors"
)

// ConfigService serves the user inbound settings.
type ConfigService struct {
	pb.UnimplementedConfigManagerServer
	logger *slog.Logger
	store  *config.Store
	bus    *acsignal.Bus
}

func NewConfigService(store *config.Store, bus *acsignal.Bus, logger *slog.Logger) *ConfigService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigService{logger: logger, store: store, bus: bus}
}

// SetInbounds rewrites the config file before touching the in-memory
// state; a failed write fails the call with the old state intact.
func (s *ConfigService) SetInbounds(ctx context.Context, req *pb.Inbounds) (*pb.SetInboundsReply, error) {
	if err := s.store.SetInbounds(inboundsFromProto(req)); err != nil {
		return nil, rpcError("set inbounds", err)
	}
	s.bus.Publish(acsignal.UpdateInbounds())
	return &pb.SetInboundsReply{}, nil
}

func (s *ConfigService) GetInbounds(ctx context.Context, req *pb.GetInboundsRequest) (*pb.Inbounds, error) {
	return inboundsToProto(s.store.Inbounds()), nil
}
