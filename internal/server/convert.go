package server

import (
	"github.com/arktoria/acolors/internal/config"
	"github.com/arktoria/acolors/internal/repository"
	acsignal "github.com/arktoria/acolors/internal/signal"
	pb "github.com/arktoria/acolors/pkg/pb/acolors"
)

func groupToProto(g *repository.GroupData) *pb.GroupData {
	return &pb.GroupData{
		Id:             g.ID,
		Name:           g.Name,
		IsSubscription: g.IsSubscription,
		Type:           g.Type,
		Url:            g.URL,
		CycleTime:      g.CycleTime,
		CreateAt:       g.CreatedAt,
		ModifiedAt:     g.ModifiedAt,
	}
}

func groupFromProto(g *pb.GroupData) repository.GroupData {
	return repository.GroupData{
		ID:             g.GetId(),
		Name:           g.GetName(),
		IsSubscription: g.GetIsSubscription(),
		Type:           g.GetType(),
		URL:            g.GetUrl(),
		CycleTime:      g.GetCycleTime(),
		CreatedAt:      g.GetCreateAt(),
		ModifiedAt:     g.GetModifiedAt(),
	}
}

func nodeToProto(n *repository.NodeData) *pb.NodeData {
	return &pb.NodeData{
		Id:          n.ID,
		Name:        n.Name,
		GroupId:     n.GroupID,
		GroupName:   n.GroupName,
		RoutingId:   n.RoutingID,
		RoutingName: n.RoutingName,
		Protocol:    n.Protocol,
		Address:     n.Address,
		Port:        n.Port,
		Password:    n.Password,
		Raw:         n.Raw,
		Url:         n.URL,
		Latency:     n.Latency,
		Upload:      n.Upload,
		Download:    n.Download,
		CreateAt:    n.CreatedAt,
		ModifiedAt:  n.ModifiedAt,
	}
}

func nodeFromProto(n *pb.NodeData) repository.NodeData {
	return repository.NodeData{
		ID:          n.GetId(),
		Name:        n.GetName(),
		GroupID:     n.GetGroupId(),
		GroupName:   n.GetGroupName(),
		RoutingID:   n.GetRoutingId(),
		RoutingName: n.GetRoutingName(),
		Protocol:    n.GetProtocol(),
		Address:     n.GetAddress(),
		Port:        n.GetPort(),
		Password:    n.GetPassword(),
		Raw:         n.GetRaw(),
		URL:         n.GetUrl(),
		Latency:     n.GetLatency(),
		Upload:      n.GetUpload(),
		Download:    n.GetDownload(),
		CreatedAt:   n.GetCreateAt(),
		ModifiedAt:  n.GetModifiedAt(),
	}
}

func inboundsToProto(in config.Inbounds) *pb.Inbounds {
	out := &pb.Inbounds{}
	if socks := in.SOCKS5; socks != nil {
		out.Socks5 = &pb.SOCKS5Inbound{
			Enable:    socks.Enable,
			Listen:    socks.Listen,
			Port:      socks.Port,
			UdpEnable: socks.UDPEnable,
			UdpIp:     socks.UDPIP,
			UserLevel: socks.UserLevel,
			Auth:      authToProto(socks.Auth),
		}
	}
	if httpIn := in.HTTP; httpIn != nil {
		out.Http = &pb.HTTPInbound{
			Enable:           httpIn.Enable,
			Listen:           httpIn.Listen,
			Port:             httpIn.Port,
			AllowTransparent: httpIn.AllowTransparent,
			Timeout:          httpIn.Timeout,
			UserLevel:        httpIn.UserLevel,
			Auth:             authToProto(httpIn.Auth),
		}
	}
	return out
}

func inboundsFromProto(in *pb.Inbounds) config.Inbounds {
	out := config.Inbounds{}
	if socks := in.GetSocks5(); socks != nil {
		out.SOCKS5 = &config.SOCKS5Inbound{
			Enable:    socks.GetEnable(),
			Listen:    socks.GetListen(),
			Port:      socks.GetPort(),
			UDPEnable: socks.GetUdpEnable(),
			UDPIP:     socks.GetUdpIp(),
			UserLevel: socks.GetUserLevel(),
			Auth:      authFromProto(socks.GetAuth()),
		}
	}
	if httpIn := in.GetHttp(); httpIn != nil {
		out.HTTP = &config.HTTPInbound{
			Enable:           httpIn.GetEnable(),
			Listen:           httpIn.GetListen(),
			Port:             httpIn.GetPort(),
			AllowTransparent: httpIn.GetAllowTransparent(),
			Timeout:          httpIn.GetTimeout(),
			UserLevel:        httpIn.GetUserLevel(),
			Auth:             authFromProto(httpIn.GetAuth()),
		}
	}
	return out
}

func authToProto(a *config.Auth) *pb.InboundAuth {
	if a == nil {
		return nil
	}
	return &pb.InboundAuth{
		Enable:   a.Enable,
		Username: a.Username,
		Password: a.Password,
	}
}

func authFromProto(a *pb.InboundAuth) *config.Auth {
	if a == nil {
		return nil
	}
	return &config.Auth{
		Enable:   a.GetEnable(),
		Username: a.GetUsername(),
		Password: a.GetPassword(),
	}
}

func signalToProto(sig acsignal.Signal) *pb.AColorSignal {
	out := &pb.AColorSignal{}
	switch sig.Kind {
	case acsignal.KindAppendGroup:
		out.Signal = &pb.AColorSignal_AppendGroup{AppendGroup: &pb.AppendGroupSignal{}}
	case acsignal.KindUpdateCoreStatus:
		out.Signal = &pb.AColorSignal_UpdateCoreStatus{UpdateCoreStatus: &pb.UpdateCoreStatus{}}
	case acsignal.KindUpdateInbounds:
		out.Signal = &pb.AColorSignal_UpdateInbounds{UpdateInbounds: &pb.UpdateInbounds{}}
	case acsignal.KindCoreConfigChanged:
		out.Signal = &pb.AColorSignal_CoreConfigChanged{CoreConfigChanged: &pb.CoreConfigChanged{}}
	case acsignal.KindRemoveGroupByID:
		out.Signal = &pb.AColorSignal_RemoveGroupById{RemoveGroupById: &pb.RemoveGroupById{GroupId: sig.GroupID}}
	case acsignal.KindRemoveNodeByID:
		out.Signal = &pb.AColorSignal_RemoveNodeById{RemoveNodeById: &pb.RemoveNodeById{NodeId: sig.NodeID}}
	case acsignal.KindSetGroupByID:
		out.Signal = &pb.AColorSignal_SetGroupById{SetGroupById: &pb.SetGroupById{GroupId: sig.GroupID}}
	case acsignal.KindSetNodeByID:
		out.Signal = &pb.AColorSignal_SetNodeById{SetNodeById: &pb.SetNodeById{NodeId: sig.NodeID}}
	case acsignal.KindAppendNode:
		out.Signal = &pb.AColorSignal_AppendNode{AppendNode: &pb.AppendNode{GroupId: sig.GroupID}}
	case acsignal.KindUpdateGroup:
		out.Signal = &pb.AColorSignal_UpdateGroup{UpdateGroup: &pb.UpdateGroup{GroupId: sig.GroupID}}
	case acsignal.KindEmptyGroup:
		out.Signal = &pb.AColorSignal_EmptyGroup{EmptyGroup: &pb.EmptyGroup{GroupId: sig.GroupID}}
	case acsignal.KindRuntimeValueChanged:
		out.Signal = &pb.AColorSignal_RuntimeValueChanged{RuntimeValueChanged: &pb.RuntimeValueChanged{Key: sig.Key}}
	case acsignal.KindSetAPIStatus:
		out.Signal = &pb.AColorSignal_SetApiStatus{SetApiStatus: &pb.SetApiStatus{}}
	case acsignal.KindCoreChanged:
		out.Signal = &pb.AColorSignal_CoreChanged{CoreChanged: &pb.CoreChanged{}}
	default:
		out.Signal = &pb.AColorSignal_Empty{Empty: &pb.Empty{}}
	}
	return out
}
