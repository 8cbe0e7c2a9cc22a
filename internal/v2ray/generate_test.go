package v2ray

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arktoria/acolors/internal/config"
	"github.com/arktoria/acolors/internal/repository"
)

func testInbounds() config.Inbounds {
	return config.Inbounds{
		SOCKS5: &config.SOCKS5Inbound{
			Enable:    true,
			Listen:    "127.0.0.1",
			Port:      4444,
			UDPEnable: true,
			UDPIP:     "127.0.0.1",
		},
		HTTP: &config.HTTPInbound{
			Enable: true,
			Listen: "127.0.0.1",
			Port:   4445,
		},
	}
}

const keyedShadowsocksRaw = `{
  "protocol": "shadowsocks",
  "sendThrough": "0.0.0.0",
  "settings": {
    "shadowsocks": {
      "servers": [
        {
          "address": "test2",
          "method": "aes-256-gcm",
          "password": "test3",
          "port": 123
        }
      ]
    }
  }
}`

func TestGenerateLiftsKeyedSettings(t *testing.T) {
	node := &repository.NodeData{
		Protocol: "shadowsocks",
		Raw:      keyedShadowsocksRaw,
		URL:      "ss://YWVzLTI1Ni1nY206dGVzdDM=@test2:123#test1",
	}

	cfg, err := Generate(node, testInbounds())
	require.NoError(t, err)
	require.Len(t, cfg.Outbounds, 1)

	outbound := cfg.Outbounds[0].(map[string]any)
	assert.Equal(t, ProxyTag, outbound["tag"])

	settings := outbound["settings"].(map[string]any)
	servers := settings["servers"].([]any)
	server := servers[0].(map[string]any)
	assert.Equal(t, "test2", server["address"])
	assert.Equal(t, float64(123), server["port"])
}

func TestGenerateVerbatimOutboundForManualNode(t *testing.T) {
	node := &repository.NodeData{
		Protocol: "vmess",
		Raw:      `{"protocol":"vmess","settings":{"vnext":[{"address":"h","port":1}]},"tag":"CUSTOM"}`,
		URL:      "",
	}

	cfg, err := Generate(node, testInbounds())
	require.NoError(t, err)

	outbound := cfg.Outbounds[0].(map[string]any)
	assert.Equal(t, "CUSTOM", outbound["tag"])
	// Plain-form settings stay untouched.
	settings := outbound["settings"].(map[string]any)
	assert.Contains(t, settings, "vnext")
}

func TestGenerateInboundObjects(t *testing.T) {
	inbounds := testInbounds()
	inbounds.SOCKS5.Auth = &config.Auth{Enable: true, Username: "u", Password: "p"}

	cfg, err := Generate(&repository.NodeData{Raw: "{}", URL: ""}, inbounds)
	require.NoError(t, err)
	require.Len(t, cfg.Inbounds, 2)

	assert.Equal(t, "HTTP_IN", cfg.Inbounds[0].Tag)
	assert.Equal(t, "http", cfg.Inbounds[0].Protocol)
	assert.Equal(t, uint32(4445), cfg.Inbounds[0].Port)

	assert.Equal(t, "SOCKS_IN", cfg.Inbounds[1].Tag)
	assert.Equal(t, "socks", cfg.Inbounds[1].Protocol)

	socks := cfg.Inbounds[1].Settings.(*SocksInboundSettings)
	assert.True(t, socks.UDP)
	assert.Equal(t, "127.0.0.1", socks.IP)
	require.Len(t, socks.Accounts, 1)
	assert.Equal(t, "u", socks.Accounts[0].User)
}

func TestGenerateSkipsDisabledInbounds(t *testing.T) {
	inbounds := testInbounds()
	inbounds.HTTP.Enable = false

	cfg, err := Generate(&repository.NodeData{Raw: "{}", URL: ""}, inbounds)
	require.NoError(t, err)
	require.Len(t, cfg.Inbounds, 1)
	assert.Equal(t, "SOCKS_IN", cfg.Inbounds[0].Tag)
}

func TestAttachAPI(t *testing.T) {
	cfg, err := Generate(&repository.NodeData{
		Raw: keyedShadowsocksRaw,
		URL: "ss://x@test2:123#t",
	}, testInbounds())
	require.NoError(t, err)

	cfg.AttachAPI("127.0.0.1", 11500)

	require.NotEmpty(t, cfg.Inbounds)
	api := cfg.Inbounds[0]
	assert.Equal(t, APIInboundTag, api.Tag)
	assert.Equal(t, "dokodemo-door", api.Protocol)
	assert.Equal(t, uint32(11500), api.Port)

	require.NotNil(t, cfg.API)
	assert.Equal(t, APITag, cfg.API.Tag)
	assert.ElementsMatch(t, []string{"LoggerService", "StatsService"}, cfg.API.Services)

	require.NotNil(t, cfg.Routing)
	require.Len(t, cfg.Routing.Rules, 1)
	assert.Equal(t, "field", cfg.Routing.Rules[0].Type)
	assert.Equal(t, []string{APIInboundTag}, cfg.Routing.Rules[0].InboundTag)
	assert.Equal(t, APITag, cfg.Routing.Rules[0].OutboundTag)

	require.NotNil(t, cfg.Policy)
	require.NotNil(t, cfg.Policy.System)
	assert.True(t, cfg.Policy.System.StatsOutboundDownlink)

	require.NotNil(t, cfg.Stats)
}

func TestConfigStringPrunesDefaultsKeepsStats(t *testing.T) {
	cfg, err := Generate(&repository.NodeData{
		Raw: keyedShadowsocksRaw,
		URL: "ss://x@test2:123#t",
	}, testInbounds())
	require.NoError(t, err)
	cfg.AttachAPI("127.0.0.1", 11500)

	content, err := ConfigString(cfg)
	require.NoError(t, err)

	var root map[string]any
	require.NoError(t, json.Unmarshal([]byte(content), &root))

	// The stats marker survives pruning even though it is empty.
	assert.Contains(t, root, "stats")
	// Empty top-level members are gone.
	assert.NotContains(t, root, "log")

	inbounds := root["inbounds"].([]any)
	first := inbounds[0].(map[string]any)
	assert.Equal(t, "ACOLORS_API_INBOUND", first["tag"])

	outbounds := root["outbounds"].([]any)
	outbound := outbounds[0].(map[string]any)
	assert.Equal(t, "PROXY", outbound["tag"])
	settings := outbound["settings"].(map[string]any)
	assert.Contains(t, settings, "servers")
}

func TestConfigStringIdempotentPruning(t *testing.T) {
	cfg, err := Generate(&repository.NodeData{Raw: keyedShadowsocksRaw, URL: "ss://x@h:1#t"}, testInbounds())
	require.NoError(t, err)

	first, err := ConfigString(cfg)
	require.NoError(t, err)
	second, err := ConfigString(cfg)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
