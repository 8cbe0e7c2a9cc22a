// Package v2ray models the subset of the V2Ray JSON config the daemon
// generates, and synthesizes runtime configs from a node plus the user
// inbound settings.
package v2ray

// Config is the top-level V2Ray runtime config.
type Config struct {
	Log       *LogObject      `json:"log,omitempty"`
	API       *APIObject      `json:"api,omitempty"`
	Routing   *RoutingObject  `json:"routing,omitempty"`
	Policy    *PolicyObject   `json:"policy,omitempty"`
	Inbounds  []InboundObject `json:"inbounds,omitempty"`
	Outbounds []any           `json:"outbounds,omitempty"`
	Stats     *StatsObject    `json:"stats,omitempty"`
}

type LogObject struct {
	Access   string `json:"access,omitempty"`
	Error    string `json:"error,omitempty"`
	Loglevel string `json:"loglevel,omitempty"`
}

type APIObject struct {
	Tag      string   `json:"tag,omitempty"`
	Services []string `json:"services,omitempty"`
}

type RoutingObject struct {
	DomainStrategy string       `json:"domainStrategy,omitempty"`
	Rules          []RuleObject `json:"rules,omitempty"`
}

type RuleObject struct {
	Type        string   `json:"type,omitempty"`
	InboundTag  []string `json:"inboundTag,omitempty"`
	OutboundTag string   `json:"outboundTag,omitempty"`
}

type PolicyObject struct {
	System *SystemPolicyObject `json:"system,omitempty"`
}

type SystemPolicyObject struct {
	StatsInboundUplink    bool `json:"statsInboundUplink,omitempty"`
	StatsInboundDownlink  bool `json:"statsInboundDownlink,omitempty"`
	StatsOutboundUplink   bool `json:"statsOutboundUplink,omitempty"`
	StatsOutboundDownlink bool `json:"statsOutboundDownlink,omitempty"`
}

// StatsObject is a boolean marker: its presence (even empty) enables the
// stats engine.
type StatsObject struct{}

type InboundObject struct {
	Listen   string `json:"listen,omitempty"`
	Port     uint32 `json:"port,omitempty"`
	Protocol string `json:"protocol,omitempty"`
	Settings any    `json:"settings,omitempty"`
	Tag      string `json:"tag,omitempty"`
}

// SocksInboundSettings is the socks inbound configuration.
type SocksInboundSettings struct {
	Accounts  []AccountObject `json:"accounts,omitempty"`
	UDP       bool            `json:"udp,omitempty"`
	IP        string          `json:"ip,omitempty"`
	UserLevel int32           `json:"userLevel,omitempty"`
}

// HTTPInboundSettings is the http inbound configuration.
type HTTPInboundSettings struct {
	Timeout          int64           `json:"timeout,omitempty"`
	Accounts         []AccountObject `json:"accounts,omitempty"`
	AllowTransparent bool            `json:"allowTransparent,omitempty"`
	UserLevel        int32           `json:"userLevel,omitempty"`
}

// DokodemoInboundSettings is the dokodemo-door inbound configuration used
// by the stats API inbound.
type DokodemoInboundSettings struct {
	Address string `json:"address,omitempty"`
}

type AccountObject struct {
	User string `json:"user"`
	Pass string `json:"pass"`
}

// Outbound fragments: the URL decoders build these and store them (keyed
// settings form, e.g. settings.vmess) as the node's raw blob.

type OutboundObject struct {
	Protocol       string                `json:"protocol,omitempty"`
	SendThrough    string                `json:"sendThrough,omitempty"`
	Settings       *OutboundSettings     `json:"settings,omitempty"`
	StreamSettings *StreamSettingsObject `json:"streamSettings,omitempty"`
	Tag            string                `json:"tag,omitempty"`
}

type OutboundSettings struct {
	Vmess       *VMessOutboundSettings       `json:"vmess,omitempty"`
	Shadowsocks *ShadowsocksOutboundSettings `json:"shadowsocks,omitempty"`
	Trojan      *TrojanOutboundSettings      `json:"trojan,omitempty"`
}

type VMessOutboundSettings struct {
	Vnext []VMessServerObject `json:"vnext,omitempty"`
}

type VMessServerObject struct {
	Address string            `json:"address,omitempty"`
	Port    uint32            `json:"port,omitempty"`
	Users   []VMessUserObject `json:"users,omitempty"`
}

type VMessUserObject struct {
	ID       string `json:"id,omitempty"`
	AlterID  int32  `json:"alterId,omitempty"`
	Security string `json:"security,omitempty"`
}

type ShadowsocksOutboundSettings struct {
	Servers []ShadowsocksServerObject `json:"servers,omitempty"`
}

type ShadowsocksServerObject struct {
	Address  string `json:"address,omitempty"`
	Port     uint32 `json:"port,omitempty"`
	Method   string `json:"method,omitempty"`
	Password string `json:"password,omitempty"`
}

type TrojanOutboundSettings struct {
	Servers []TrojanServerObject `json:"servers,omitempty"`
}

type TrojanServerObject struct {
	Address  string `json:"address,omitempty"`
	Port     uint32 `json:"port,omitempty"`
	Password string `json:"password,omitempty"`
}

type StreamSettingsObject struct {
	Network      string             `json:"network,omitempty"`
	Security     string             `json:"security,omitempty"`
	TLSSettings  *TLSObject         `json:"tlsSettings,omitempty"`
	TCPSettings  map[string]any     `json:"tcpSettings,omitempty"`
	HTTPSettings *HTTPTransport     `json:"httpSettings,omitempty"`
	WSSettings   *WebSocketSettings `json:"wsSettings,omitempty"`
	GRPCSettings *GRPCSettings      `json:"grpcSettings,omitempty"`
	QUICSettings *QUICSettings      `json:"quicSettings,omitempty"`
}

type TLSObject struct {
	ServerName    string   `json:"serverName,omitempty"`
	AllowInsecure bool     `json:"allowInsecure,omitempty"`
	ALPN          []string `json:"alpn,omitempty"`
}

type HTTPTransport struct {
	Host []string `json:"host,omitempty"`
	Path string   `json:"path,omitempty"`
}

type WebSocketSettings struct {
	Path    string            `json:"path,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

type GRPCSettings struct {
	ServiceName string `json:"serviceName,omitempty"`
}

type QUICSettings struct {
	Security string          `json:"security,omitempty"`
	Key      string          `json:"key,omitempty"`
	Header   *QUICHeaderType `json:"header,omitempty"`
}

type QUICHeaderType struct {
	Type string `json:"type,omitempty"`
}
