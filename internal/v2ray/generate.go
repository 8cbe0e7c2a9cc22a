package v2ray

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arktoria/acolors/internal/config"
	"github.com/arktoria/acolors/internal/repository"
	"github.com/arktoria/acolors/internal/support/jsonutil"
)

const (
	// ProxyTag is the outbound tag the traffic poller queries.
	ProxyTag = "PROXY"
	// APITag and APIInboundTag name the stats API plumbing.
	APITag        = "ACOLORS_API"
	APIInboundTag = "ACOLORS_API_INBOUND"
)

// Generate fuses a node with the enabled inbound listeners into a V2Ray
// config. The outbound comes from node.Raw: parsed as a keyed outbound
// object when node.URL carries a scheme, inserted verbatim otherwise.
func Generate(node *repository.NodeData, inbounds config.Inbounds) (*Config, error) {
	cfg := &Config{}
	setInboundObjects(cfg, inbounds)

	// Nodes carried entirely by an auxiliary core (naiveproxy) have no
	// outbound blob; the main core then runs with inbounds only.
	if node.Raw != "" {
		outbound, err := outboundFromRaw(node)
		if err != nil {
			return nil, err
		}
		cfg.Outbounds = append(cfg.Outbounds, outbound)
	}

	return cfg, nil
}

func outboundFromRaw(node *repository.NodeData) (map[string]any, error) {
	var outbound map[string]any
	if err := json.Unmarshal([]byte(node.Raw), &outbound); err != nil {
		return nil, fmt.Errorf("parse outbound: %w", err)
	}

	if strings.Contains(node.URL, "://") {
		liftOutboundSettings(outbound)
	}
	if tag, _ := outbound["tag"].(string); tag == "" {
		outbound["tag"] = ProxyTag
	}
	return outbound, nil
}

// liftOutboundSettings flattens the decoder's keyed form
// (settings.<protocol>.*) into the settings shape the core expects.
func liftOutboundSettings(outbound map[string]any) {
	settings, ok := outbound["settings"].(map[string]any)
	if !ok {
		return
	}
	protocol, _ := outbound["protocol"].(string)
	key := strings.ReplaceAll(protocol, "-", "_")
	if inner, ok := settings[key]; ok {
		outbound["settings"] = inner
	}
}

func setInboundObjects(cfg *Config, inbounds config.Inbounds) {
	if httpIn := inbounds.HTTP; httpIn != nil && httpIn.Enable {
		settings := &HTTPInboundSettings{
			Timeout:          httpIn.Timeout,
			AllowTransparent: httpIn.AllowTransparent,
			UserLevel:        httpIn.UserLevel,
		}
		if auth := httpIn.Auth; auth != nil && auth.Enable {
			settings.Accounts = append(settings.Accounts, AccountObject{
				User: auth.Username,
				Pass: auth.Password,
			})
		}
		cfg.Inbounds = append(cfg.Inbounds, InboundObject{
			Listen:   httpIn.Listen,
			Port:     httpIn.Port,
			Protocol: "http",
			Tag:      "HTTP_IN",
			Settings: settings,
		})
	}

	if socks := inbounds.SOCKS5; socks != nil && socks.Enable {
		settings := &SocksInboundSettings{UserLevel: socks.UserLevel}
		if socks.UDPEnable {
			settings.UDP = true
			settings.IP = socks.UDPIP
		}
		if auth := socks.Auth; auth != nil && auth.Enable {
			settings.Accounts = append(settings.Accounts, AccountObject{
				User: auth.Username,
				Pass: auth.Password,
			})
		}
		cfg.Inbounds = append(cfg.Inbounds, InboundObject{
			Listen:   socks.Listen,
			Port:     socks.Port,
			Protocol: "socks",
			Tag:      "SOCKS_IN",
			Settings: settings,
		})
	}
}

// AttachAPI prepends the stats API inbound and wires the api, routing,
// policy and stats members needed by the traffic poller.
func (c *Config) AttachAPI(listen string, port uint32) {
	apiInbound := InboundObject{
		Listen:   listen,
		Port:     port,
		Protocol: "dokodemo-door",
		Tag:      APIInboundTag,
		Settings: &DokodemoInboundSettings{Address: "127.0.0.1"},
	}
	c.Inbounds = append([]InboundObject{apiInbound}, c.Inbounds...)

	c.Stats = &StatsObject{}
	c.API = &APIObject{
		Tag:      APITag,
		Services: []string{"LoggerService", "StatsService"},
	}
	c.Routing = &RoutingObject{
		Rules: []RuleObject{{
			Type:        "field",
			InboundTag:  []string{APIInboundTag},
			OutboundTag: APITag,
		}},
	}
	c.Policy = &PolicyObject{
		System: &SystemPolicyObject{
			StatsInboundUplink:    true,
			StatsInboundDownlink:  true,
			StatsOutboundUplink:   true,
			StatsOutboundDownlink: true,
		},
	}
}

// ConfigString serializes the config with canonical defaults pruned; the
// result is what gets piped to the core's standard input.
func ConfigString(cfg *Config) (string, error) {
	encoded, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}

	var root any
	if err := json.Unmarshal(encoded, &root); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	jsonutil.Prune(root)

	out, err := json.Marshal(root)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(out), nil
}
