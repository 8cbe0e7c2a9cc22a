package server

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/arktoria/acolors/internal/config"
	"github.com/arktoria/acolors/internal/core"
	"github.com/arktoria/acolors/internal/profile"
	"github.com/arktoria/acolors/internal/repository"
	acsignal "github.com/arktoria/acolors/internal/signal"
	"github.com/arktoria/acolors/internal/support/netutil"
	"github.com/arktoria/acolors/internal/traffic"
	"github.com/arktoria/acolors/internal/v2ray"
	pb "github.com/arktoria/acolors/pkg/pb/acolors"
)

// apiPortLo/Hi bound the port scan for the stats API inbound.
const (
	apiPortLo       = 11451
	apiPortHi       = 19198
	apiPortFallback = 19200
)

// CoreService owns the core slot, the current node cell and the traffic
// poller.
type CoreService struct {
	pb.UnimplementedCoreManagerServer
	logger   *slog.Logger
	manager  *profile.Manager
	inbounds *config.Store
	bus      *acsignal.Bus

	// slotMu guards the slot and the active tag; the supervisor is only
	// ever touched by one task at a time.
	slotMu  sync.Mutex
	slot    *core.RayCore
	coreTag string

	nodeMu      sync.Mutex
	currentNode *repository.NodeData

	trafficInfo *traffic.Info
	updater     *traffic.Updater
	enableAPI   atomic.Bool
}

// NewCoreService wires the slot and shared cells.
func NewCoreService(
	slot *core.RayCore,
	manager *profile.Manager,
	inbounds *config.Store,
	bus *acsignal.Bus,
	logger *slog.Logger,
) *CoreService {
	if logger == nil {
		logger = slog.Default()
	}
	info := traffic.NewInfo()
	return &CoreService{
		logger:      logger,
		manager:     manager,
		inbounds:    inbounds,
		bus:         bus,
		slot:        slot,
		trafficInfo: info,
		updater:     traffic.NewUpdater(info, logger),
	}
}

// SeedCurrentNode selects the startup node from the DEFAULT_NODE_ID and
// CURRENT_NODE_ID runtime keys, best-effort.
func (s *CoreService) SeedCurrentNode(ctx context.Context) {
	for _, key := range []string{repository.KeyDefaultNodeID, repository.KeyCurrentNodeID} {
		value, err := s.manager.GetRuntimeValue(ctx, key)
		if err != nil {
			continue
		}
		nodeID, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			s.logger.Error("node id parsing error", "key", key, "error", err)
			continue
		}
		if err := s.setConfig(ctx, int32(nodeID)); err == nil {
			s.logger.Info("startup node selected", "node_id", nodeID, "key", key)
			return
		}
	}
}

// setConfig selects a node as current and best-effort persists the choice:
// an upsert failure is logged and swallowed, the in-memory selection
// stands.
func (s *CoreService) setConfig(ctx context.Context, nodeID int32) error {
	node, err := s.manager.GetNodeByID(ctx, nodeID)
	if err != nil {
		return err
	}

	s.nodeMu.Lock()
	s.currentNode = node
	s.nodeMu.Unlock()

	s.bus.Publish(acsignal.CoreConfigChanged())

	if err := s.manager.SetRuntimeValue(ctx, repository.KeyCurrentNodeID,
		strconv.FormatInt(int64(nodeID), 10)); err != nil {
		s.logger.Error("persist current node id", "error", err)
	}

	return nil
}

// regenerateConfig fuses the current node with the inbound settings into
// the slot's pending config.
func (s *CoreService) regenerateConfig() error {
	s.nodeMu.Lock()
	node := s.currentNode
	s.nodeMu.Unlock()

	if node == nil {
		return errNoNodeSelected
	}

	return s.slot.SetConfigByNode(node, s.inbounds.Inbounds())
}

// syncUpdater starts or stops the traffic poller to match the core state.
// With the API disabled the poller never issues a stats RPC.
func (s *CoreService) syncUpdater(api *core.APIConfig, running bool) {
	if running && s.enableAPI.Load() && api != nil {
		if !s.updater.Running() {
			target := fmt.Sprintf("%s:%d", api.Listen, api.Port)
			if err := s.updater.Start(context.Background(), target, v2ray.ProxyTag); err != nil {
				s.logger.Error("traffic updater start error", "error", err)
			}
		}
		return
	}
	if s.updater.Running() {
		if err := s.updater.Stop(); err != nil {
			s.logger.Warn("traffic updater stop error", "error", err)
		}
	}
}

// tailStdout forwards the child's standard output to the logger until EOF.
func (s *CoreService) tailStdout(stdout io.ReadCloser) {
	if stdout == nil {
		return
	}
	go func() {
		defer stdout.Close()
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			s.logger.Info(scanner.Text())
		}
	}()
}

func (s *CoreService) GetCurrentNode(ctx context.Context, req *pb.GetCurrentNodeRequest) (*pb.NodeData, error) {
	s.nodeMu.Lock()
	node := s.currentNode
	s.nodeMu.Unlock()

	if node == nil {
		return nil, rpcError("get current node", repository.ErrNotFound)
	}
	return nodeToProto(node), nil
}

func (s *CoreService) Run(ctx context.Context, req *pb.RunRequest) (*pb.RunReply, error) {
	s.slotMu.Lock()
	defer s.slotMu.Unlock()

	if err := s.regenerateConfig(); err != nil {
		return nil, rpcError("core run", err)
	}

	s.trafficInfo.Reset()
	if err := s.slot.Run(); err != nil {
		return nil, rpcError("core run", err)
	}
	s.tailStdout(s.slot.TakeStdout())
	s.syncUpdater(s.slot.APIConfig(), s.slot.IsRunning())

	s.bus.Publish(acsignal.UpdateCoreStatus())
	return &pb.RunReply{}, nil
}

func (s *CoreService) Stop(ctx context.Context, req *pb.StopRequest) (*pb.StopReply, error) {
	s.slotMu.Lock()
	defer s.slotMu.Unlock()

	if err := s.slot.Stop(); err != nil {
		return nil, rpcError("core stop", err)
	}
	s.syncUpdater(s.slot.APIConfig(), false)

	s.bus.Publish(acsignal.UpdateCoreStatus())
	return &pb.StopReply{}, nil
}

func (s *CoreService) Restart(ctx context.Context, req *pb.RestartRequest) (*pb.RestartReply, error) {
	s.slotMu.Lock()
	defer s.slotMu.Unlock()

	if err := s.regenerateConfig(); err != nil {
		return nil, rpcError("core restart", err)
	}

	s.trafficInfo.Reset()
	if err := s.slot.Restart(); err != nil {
		return nil, rpcError("core restart", err)
	}
	s.tailStdout(s.slot.TakeStdout())
	s.syncUpdater(s.slot.APIConfig(), s.slot.IsRunning())

	s.bus.Publish(acsignal.UpdateCoreStatus())
	return &pb.RestartReply{}, nil
}

func (s *CoreService) GetIsRunning(ctx context.Context, req *pb.GetIsRunningRequest) (*pb.GetIsRunningReply, error) {
	s.slotMu.Lock()
	defer s.slotMu.Unlock()
	return &pb.GetIsRunningReply{IsRunning: s.slot.IsRunning()}, nil
}

func (s *CoreService) SetConfigByNodeId(ctx context.Context, req *pb.SetConfigByNodeIdRequest) (*pb.SetConfigByNodeIdReply, error) {
	if err := s.setConfig(ctx, req.GetNodeId()); err != nil {
		return nil, rpcError("set config by node id", err)
	}
	s.bus.Publish(acsignal.CoreConfigChanged())
	return &pb.SetConfigByNodeIdReply{}, nil
}

func (s *CoreService) SetDefaultConfigByNodeId(ctx context.Context, req *pb.SetDefaultConfigByNodeIdRequest) (*pb.SetDefaultConfigByNodeIdReply, error) {
	err := s.manager.SetRuntimeValue(ctx, repository.KeyDefaultNodeID,
		strconv.FormatInt(int64(req.GetNodeId()), 10))
	if err != nil {
		return nil, rpcError("set default config by node id", err)
	}
	return &pb.SetDefaultConfigByNodeIdReply{}, nil
}

// SetCoreByTag selects which auxiliary core participates in the next run.
// An empty tag reverts to the main core alone.
func (s *CoreService) SetCoreByTag(ctx context.Context, req *pb.SetCoreByTagRequest) (*pb.SetCoreByTagReply, error) {
	tag := req.GetTag()

	s.slotMu.Lock()
	defer s.slotMu.Unlock()

	if s.slot.IsRunning() {
		if err := s.slot.Stop(); err != nil {
			return nil, rpcError("set core by tag", err)
		}
		s.syncUpdater(s.slot.APIConfig(), false)
	}

	s.slot.DisableAllTags()
	if tag != "" {
		aux, ok := s.slot.ExternalCore(tag)
		if !ok {
			return nil, rpcError("set core by tag",
				fmt.Errorf("core %q: %w", tag, repository.ErrNotFound))
		}
		s.slot.EnableTag(tag)
		s.logger.Info("core selected", "tag", tag,
			"name", aux.Name(), "version", aux.Version())
	}
	s.coreTag = tag

	s.bus.Publish(acsignal.CoreChanged())
	return &pb.SetCoreByTagReply{}, nil
}

func (s *CoreService) GetCoreTag(ctx context.Context, req *pb.GetCoreTagRequest) (*pb.GetCoreTagReply, error) {
	s.slotMu.Lock()
	defer s.slotMu.Unlock()
	return &pb.GetCoreTagReply{Tag: s.coreTag}, nil
}

func (s *CoreService) GetCoreInfo(ctx context.Context, req *pb.GetCoreInfoRequest) (*pb.GetCoreInfoReply, error) {
	s.slotMu.Lock()
	defer s.slotMu.Unlock()
	return &pb.GetCoreInfoReply{
		Name:    s.slot.Name(),
		Version: s.slot.Version(),
	}, nil
}

func (s *CoreService) ListAllTags(ctx context.Context, req *pb.ListAllTagsRequest) (*pb.ListAllTagsReply, error) {
	s.slotMu.Lock()
	defer s.slotMu.Unlock()
	return &pb.ListAllTagsReply{Tags: s.slot.Tags()}, nil
}

// SetApiStatus enables or disables the stats API inbound. Enabling picks a
// free local port; disabling clears the endpoint, which also silences the
// poller on the next run.
func (s *CoreService) SetApiStatus(ctx context.Context, req *pb.SetApiStatusRequest) (*pb.SetApiStatusReply, error) {
	enable := req.GetEnable()
	s.enableAPI.Store(enable)

	s.slotMu.Lock()
	if enable {
		port, ok := netutil.TCPGetAvailablePort(apiPortLo, apiPortHi)
		if !ok {
			port = apiPortFallback
		}
		s.logger.Info("stats api enabled", "port", port)
		s.slot.SetAPIAddress("127.0.0.1", uint32(port))
	} else {
		s.slot.SetAPIAddress("", 0)
		s.syncUpdater(nil, false)
	}
	s.slotMu.Unlock()

	s.bus.Publish(acsignal.SetAPIStatus())
	return &pb.SetApiStatusReply{}, nil
}

func (s *CoreService) GetTrafficInfo(ctx context.Context, req *pb.GetTrafficInfoRequest) (*pb.TrafficInfo, error) {
	upload, download := s.trafficInfo.Snapshot()
	return &pb.TrafficInfo{Upload: upload, Download: download}, nil
}

// Close kills any remaining children and stops the poller; used on
// process shutdown.
func (s *CoreService) Close() error {
	s.slotMu.Lock()
	defer s.slotMu.Unlock()
	s.syncUpdater(nil, false)
	return s.slot.Close()
}
