package server

import (
	"context"
	"log/slog"
	"strings"

	"github.com/arktoria/acolors/internal/profile"
	"github.com/arktoria/acolors/internal/serialize"
	"github.com/arktoria/acolors/internal/support/netutil"
	pb "github.com/arktoria/acolors/pkg/pb/acolors"
)

// ProfileService forwards the ProfileManager contract onto the task queue.
type ProfileService struct {
	pb.UnimplementedProfileManagerServer
	logger  *slog.Logger
	manager *profile.Manager
}

func NewProfileService(manager *profile.Manager, logger *slog.Logger) *ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{logger: logger, manager: manager}
}

func (s *ProfileService) CountGroups(ctx context.Context, req *pb.CountGroupsRequest) (*pb.CountGroupsReply, error) {
	count, err := s.manager.CountGroups(ctx)
	if err != nil {
		return nil, rpcError("count groups", err)
	}
	return &pb.CountGroupsReply{Count: uint64(count)}, nil
}

func (s *ProfileService) ListAllGroups(ctx context.Context, req *pb.ListAllGroupsRequest) (*pb.GroupList, error) {
	groups, err := s.manager.ListAllGroups(ctx)
	if err != nil {
		return nil, rpcError("list groups", err)
	}

	entries := make([]*pb.GroupData, 0, len(groups))
	for i := range groups {
		entries = append(entries, groupToProto(&groups[i]))
	}
	return &pb.GroupList{Length: uint64(len(entries)), Entries: entries}, nil
}

func (s *ProfileService) CountNodes(ctx context.Context, req *pb.CountNodesRequest) (*pb.CountNodesReply, error) {
	count, err := s.manager.CountNodes(ctx, req.GetGroupId())
	if err != nil {
		return nil, rpcError("count nodes", err)
	}
	return &pb.CountNodesReply{Count: uint64(count)}, nil
}

func (s *ProfileService) ListAllNodes(ctx context.Context, req *pb.ListAllNodesRequest) (*pb.NodeList, error) {
	nodes, err := s.manager.ListAllNodes(ctx, req.GetGroupId())
	if err != nil {
		return nil, rpcError("list nodes", err)
	}

	entries := make([]*pb.NodeData, 0, len(nodes))
	for i := range nodes {
		entries = append(entries, nodeToProto(&nodes[i]))
	}
	return &pb.NodeList{Length: uint64(len(entries)), Entries: entries}, nil
}

func (s *ProfileService) GetGroupById(ctx context.Context, req *pb.GetGroupByIdRequest) (*pb.GroupData, error) {
	group, err := s.manager.GetGroupByID(ctx, req.GetGroupId())
	if err != nil {
		return nil, rpcError("get group", err)
	}
	return groupToProto(group), nil
}

func (s *ProfileService) GetNodeById(ctx context.Context, req *pb.GetNodeByIdRequest) (*pb.NodeData, error) {
	node, err := s.manager.GetNodeByID(ctx, req.GetNodeId())
	if err != nil {
		return nil, rpcError("get node", err)
	}
	return nodeToProto(node), nil
}

func (s *ProfileService) SetGroupById(ctx context.Context, req *pb.SetGroupByIdRequest) (*pb.SetGroupByIdReply, error) {
	data := req.GetData()
	if data == nil {
		return nil, rpcError("set group", errNoData)
	}
	if err := s.manager.SetGroupByID(ctx, req.GetGroupId(), groupFromProto(data)); err != nil {
		return nil, rpcError("set group", err)
	}
	return &pb.SetGroupByIdReply{}, nil
}

func (s *ProfileService) SetNodeById(ctx context.Context, req *pb.SetNodeByIdRequest) (*pb.SetNodeByIdReply, error) {
	data := req.GetData()
	if data == nil {
		return nil, rpcError("set node", errNoData)
	}
	if err := s.manager.SetNodeByID(ctx, req.GetNodeId(), nodeFromProto(data)); err != nil {
		return nil, rpcError("set node", err)
	}
	return &pb.SetNodeByIdReply{}, nil
}

func (s *ProfileService) SetNodeByUrl(ctx context.Context, req *pb.SetNodeByUrlRequest) (*pb.SetNodeByUrlReply, error) {
	node, err := serialize.DecodeNodeFromURL(req.GetUrl())
	if err != nil {
		return nil, rpcError("set node by url", err)
	}
	if err := s.manager.SetNodeByID(ctx, req.GetNodeId(), *node); err != nil {
		return nil, rpcError("set node by url", err)
	}
	return &pb.SetNodeByUrlReply{}, nil
}

func (s *ProfileService) AppendGroup(ctx context.Context, req *pb.AppendGroupRequest) (*pb.AppendGroupReply, error) {
	data := req.GetData()
	if data == nil {
		return nil, rpcError("append group", errNoData)
	}
	if err := s.manager.AppendGroup(ctx, groupFromProto(data)); err != nil {
		return nil, rpcError("append group", err)
	}
	return &pb.AppendGroupReply{}, nil
}

func (s *ProfileService) AppendNode(ctx context.Context, req *pb.AppendNodeRequest) (*pb.AppendNodeReply, error) {
	data := req.GetData()
	if data == nil {
		return nil, rpcError("append node", errNoData)
	}
	if err := s.manager.AppendNode(ctx, req.GetGroupId(), nodeFromProto(data)); err != nil {
		return nil, rpcError("append node", err)
	}
	return &pb.AppendNodeReply{}, nil
}

func (s *ProfileService) AppendNodeByUrl(ctx context.Context, req *pb.AppendNodeByUrlRequest) (*pb.AppendNodeByUrlReply, error) {
	node, err := serialize.DecodeNodeFromURL(req.GetUrl())
	if err != nil {
		return nil, rpcError("append node by url", err)
	}
	if err := s.manager.AppendNode(ctx, req.GetGroupId(), *node); err != nil {
		return nil, rpcError("append node by url", err)
	}
	return &pb.AppendNodeByUrlReply{}, nil
}

func (s *ProfileService) RemoveGroupById(ctx context.Context, req *pb.RemoveGroupByIdRequest) (*pb.RemoveGroupByIdReply, error) {
	if err := s.manager.RemoveGroupByID(ctx, req.GetGroupId()); err != nil {
		return nil, rpcError("remove group", err)
	}
	return &pb.RemoveGroupByIdReply{}, nil
}

func (s *ProfileService) RemoveNodeById(ctx context.Context, req *pb.RemoveNodeByIdRequest) (*pb.RemoveNodeByIdReply, error) {
	if err := s.manager.RemoveNodeByID(ctx, req.GetNodeId()); err != nil {
		return nil, rpcError("remove node", err)
	}
	return &pb.RemoveNodeByIdReply{}, nil
}

// UpdateGroupById downloads the group's subscription feed and replaces its
// node set with the decoded list.
func (s *ProfileService) UpdateGroupById(ctx context.Context, req *pb.UpdateGroupByIdRequest) (*pb.UpdateGroupByIdReply, error) {
	group, err := s.manager.GetGroupByID(ctx, req.GetGroupId())
	if err != nil {
		return nil, rpcError("update group", err)
	}

	content, err := netutil.GetHTTPContent(ctx, group.URL, "")
	if err != nil {
		return nil, rpcError("fetch subscription", err)
	}

	// Some providers wrap the base64 body across lines.
	var body strings.Builder
	for _, line := range strings.Split(content, "\n") {
		body.WriteString(strings.TrimSpace(line))
	}

	nodes, err := serialize.NodesFromBase64(body.String(), s.logger)
	if err != nil {
		return nil, rpcError("parse subscription", err)
	}

	if err := s.manager.UpdateGroupByID(ctx, req.GetGroupId(), nodes); err != nil {
		return nil, rpcError("update group", err)
	}
	return &pb.UpdateGroupByIdReply{}, nil
}
