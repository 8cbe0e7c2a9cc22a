package server

import (
	"context"
	"log/slog"

	acsignal "github.com/arktoria/acolors/internal/signal"
	pb "github.com/arktoria/acolors/pkg/pb/acolors"
)

// NotificationsService streams bus signals to connected frontends.
type NotificationsService struct {
	pb.UnimplementedNotificationsServer
	logger   *slog.Logger
	bus      *acsignal.Bus
	shutdown context.Context
}

// NewNotificationsService wires the bus and the process-wide shutdown
// context, which terminates every open stream.
func NewNotificationsService(bus *acsignal.Bus, shutdown context.Context, logger *slog.Logger) *NotificationsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationsService{logger: logger, bus: bus, shutdown: shutdown}
}

func (s *NotificationsService) GetNotifications(req *pb.GetNotificationsRequest, stream pb.Notifications_GetNotificationsServer) error {
	sub := s.bus.Subscribe()
	defer sub.Cancel()

	s.logger.Debug("notification subscriber connected")

	for {
		select {
		case <-stream.Context().Done():
			s.logger.Debug("notification subscriber disconnected")
			return nil
		case <-s.shutdown.Done():
			return nil
		case sig := <-sub.C:
			if err := stream.Send(signalToProto(sig)); err != nil {
				return err
			}
		}
	}
}
